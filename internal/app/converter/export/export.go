package export

import (
	"fmt"
	"strings"

	"github.com/tealeg/xlsx"

	"box-skill-whisper/internal/app/cards"
	"box-skill-whisper/internal/app/converter"
)

// ToExcel writes one row per file to the "Cards" sheet and every transcript
// segment to the "Segments" sheet.
func ToExcel(results []converter.FileResult, outputFilePath string) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Cards")
	if err != nil {
		return err
	}
	segments, err := file.AddSheet("Segments")
	if err != nil {
		return err
	}

	addRow(sheet, "File", "Size (MB)", "Duration (s)", "Status", "Summary", "Keywords", "Transcript", "Processing Time (s)", "Degraded Cards", "Error")
	addRow(segments, "File", "Start", "End", "Text")

	for _, r := range results {
		if r.Err != nil {
			addRow(sheet, r.File.Name, sizeMB(r.File.Size), "", "failed", "", "", "", "", "", r.Err.Error())
			continue
		}

		summary, keywords, transcript, elapsed := cardColumns(r.Batch)
		status := "completed"
		degraded := r.Batch.Degraded()
		if len(degraded) > 0 {
			status = "partial"
		}
		degradedNames := make([]string, len(degraded))
		for i, t := range degraded {
			degradedNames[i] = string(t)
		}

		addRow(sheet,
			r.File.Name,
			sizeMB(r.File.Size),
			fmt.Sprintf("%.2f", r.Request.DurationSeconds),
			status,
			summary,
			keywords,
			transcript,
			elapsed,
			strings.Join(degradedNames, ", "),
			"",
		)

		if c, ok := r.Batch.Card(cards.TypeTranscript); ok {
			if p, ok := c.Payload.(cards.TranscriptPayload); ok {
				for _, seg := range p.Segments {
					addRow(segments, r.File.Name, fmt.Sprintf("%.2f", seg.Start), fmt.Sprintf("%.2f", seg.End), strings.TrimSpace(seg.Text))
				}
			}
		}
	}

	return file.Save(outputFilePath)
}

// cardColumns renders each content card as a cell; degraded cards show their error.
func cardColumns(batch cards.CardBatch) (summary, keywords, transcript, elapsed string) {
	for _, c := range batch.Cards {
		if c.Degraded() {
			switch c.Type {
			case cards.TypeSummary:
				summary = c.Payload.Failure()
			case cards.TypeKeywords:
				keywords = c.Payload.Failure()
			case cards.TypeTranscript:
				transcript = c.Payload.Failure()
			}
			continue
		}

		switch p := c.Payload.(type) {
		case cards.SummaryPayload:
			summary = p.Text
		case cards.KeywordsPayload:
			keywords = strings.Join(p.Terms, ", ")
		case cards.TranscriptPayload:
			texts := make([]string, len(p.Segments))
			for i, seg := range p.Segments {
				texts[i] = strings.TrimSpace(seg.Text)
			}
			transcript = strings.Join(texts, " ")
		case cards.DiagnosticsPayload:
			elapsed = fmt.Sprintf("%.2f", p.TotalElapsedSeconds)
		}
	}
	return summary, keywords, transcript, elapsed
}

func addRow(sheet *xlsx.Sheet, values ...string) {
	row := sheet.AddRow()
	for _, v := range values {
		row.AddCell().Value = v
	}
}

func sizeMB(size int64) string {
	return fmt.Sprintf("%.2f", float64(size)/(1024*1024))
}
