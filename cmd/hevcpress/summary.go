package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"hevcpress/internal/batchrun"
)

var numbers = message.NewPrinter(language.English)

func renderSummary(out io.Writer, result batchrun.Result) {
	s := result.Summary
	saved := s.BytesBefore - s.BytesAfter

	rows := [][]string{
		{"Run", result.RunID},
		{"Status", summaryStatus(out, result)},
		{"Discovered", strconv.Itoa(s.Discovered)},
		{"Accepted", strconv.Itoa(s.Accepted)},
		{"Rejected", strconv.Itoa(s.Rejected)},
		{"Aborted", strconv.Itoa(s.Aborted)},
		{"Skipped", strconv.Itoa(s.Skipped)},
		{"Original size", formatBytes(s.BytesBefore)},
		{"Encoded size", formatBytes(s.BytesAfter)},
		{"Saved", formatSaved(saved, s.BytesBefore)},
		{"Elapsed", s.Elapsed.Round(time.Second).String()},
	}
	if s.SourceDeletionDisabled {
		rows = append(rows, []string{"Source deletion", paint(out, "disabled after a failed relocation", text.FgYellow)})
	}
	if result.LogPath != "" {
		rows = append(rows, []string{"Log", result.LogPath})
	}
	fmt.Fprintln(out, renderTable([]string{"Batch", "Value"}, rows, []columnAlignment{alignLeft, alignRight}))

	if s.AbortedOn != "" {
		fmt.Fprintf(out, "Duration mismatch on %s; the original and encoded files were left side by side.\n", s.AbortedOn)
	}
}

func summaryStatus(out io.Writer, result batchrun.Result) string {
	s := result.Summary
	switch {
	case s.AbortedOn != "":
		return paint(out, "aborted", text.FgRed, text.Bold)
	case s.Interrupted:
		return paint(out, "interrupted", text.FgYellow)
	case s.Completed:
		return paint(out, "completed", text.FgGreen)
	default:
		return "stopped"
	}
}

// formatBytes renders a byte count as "1.2 GiB (1,234,567,890 B)".
func formatBytes(n int64) string {
	if n < 0 {
		return "-" + formatBytes(-n)
	}
	return fmt.Sprintf("%s (%s B)", humanize.IBytes(uint64(n)), numbers.Sprintf("%d", n))
}

func formatSaved(saved, before int64) string {
	if before <= 0 {
		return formatBytes(saved)
	}
	return fmt.Sprintf("%s, %.1f%%", formatBytes(saved), float64(saved)/float64(before)*100)
}
