package export

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"

	"box-skill-whisper/internal/app/cards"
	"box-skill-whisper/internal/app/converter"
	"box-skill-whisper/internal/app/model"
	"box-skill-whisper/internal/app/util/files"
)

func TestToExcel(t *testing.T) {
	req := model.ProcessingRequest{FileID: "a.mp3", FileName: "a.mp3", SizeBytes: 2 * 1024 * 1024, DurationSeconds: 30}
	batch := cards.Aggregate(cards.Input{
		Request: req,
		Transcript: model.Succeed(model.Transcript{Segments: []model.TranscriptSegment{
			{Start: 0, End: 1.5, Text: " Hello "},
			{Start: 1.5, End: 3, Text: "world"},
		}}, time.Second),
		Summary:  model.Succeed(model.SummaryResult{Text: "A greeting."}, time.Second),
		Keywords: model.Fail[model.KeywordResult](errors.New("rate limited"), time.Second),
	})

	results := []converter.FileResult{
		{File: files.FileInfo{Name: "a.mp3", Size: req.SizeBytes}, Request: req, Batch: batch},
		{File: files.FileInfo{Name: "b.mov", Size: 1024}, Err: errors.New("audio conversion failed: no audio stream")},
	}

	path := filepath.Join(t.TempDir(), "out.xlsx")
	require.NoError(t, ToExcel(results, path))

	file, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	sheet := file.Sheet["Cards"]
	require.NotNil(t, sheet)
	require.Len(t, sheet.Rows, 3)

	row := sheet.Rows[1]
	assert.Equal(t, "a.mp3", row.Cells[0].Value)
	assert.Equal(t, "2.00", row.Cells[1].Value)
	assert.Equal(t, "partial", row.Cells[3].Value)
	assert.Equal(t, "A greeting.", row.Cells[4].Value)
	assert.Equal(t, "Keyword extraction failed: rate limited", row.Cells[5].Value)
	assert.Equal(t, "Hello world", row.Cells[6].Value)
	assert.Equal(t, "3.00", row.Cells[7].Value)
	assert.Equal(t, "keyword-list", row.Cells[8].Value)

	failed := sheet.Rows[2]
	assert.Equal(t, "failed", failed.Cells[3].Value)
	assert.Equal(t, "audio conversion failed: no audio stream", failed.Cells[9].Value)

	segments := file.Sheet["Segments"]
	require.NotNil(t, segments)
	require.Len(t, segments.Rows, 3)
	assert.Equal(t, "Hello", segments.Rows[1].Cells[3].Value)
	assert.Equal(t, "1.50", segments.Rows[2].Cells[1].Value)
}
