package alloc

import (
	"io"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// WriteReport writes a table of every heap window and its usage to w.
// Byte counts are digit-grouped for the given language tag (English when
// omitted).
func (r *Root) WriteReport(w io.Writer, tag ...language.Tag) error {
	lang := language.English
	if len(tag) > 0 {
		lang = tag[0]
	}
	p := message.NewPrinter(lang)

	stats := r.Stats()
	var total HeapStats
	var err error
	printf := func(format string, args ...any) {
		if err == nil {
			_, err = p.Fprintf(w, format, args...)
		}
	}

	printf("%-4s  %-23s  %9s  %9s  %9s  %6s  %9s  %7s\n",
		"heap", "window", "size", "free", "largest", "live", "allocs", "failed")
	for i, s := range stats {
		printf("%-4d  0x%08x-0x%08x  %9d  %9d  %9d  %6d  %9d  %7d\n",
			i, s.Start, s.Start+s.Size, s.Size, s.FreeBytes, s.LargestFree, s.Live, s.Allocs, s.Failures)
		total.Size += s.Size
		total.FreeBytes += s.FreeBytes
		total.LargestFree = max(total.LargestFree, s.LargestFree)
		total.Live += s.Live
		total.Allocs += s.Allocs
		total.Failures += s.Failures
	}
	printf("%-4s  %-23s  %9d  %9d  %9d  %6d  %9d  %7d\n",
		"all", "", total.Size, total.FreeBytes, total.LargestFree, total.Live, total.Allocs, total.Failures)
	return err
}
