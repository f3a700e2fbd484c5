package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"box-skill-whisper/internal/app/model"
)

// SampleTranscript is a short, well-formed transcript.
var SampleTranscript = model.Transcript{
	Text:     "Hello, my name is William Higgins. I am a manager at Box. I am watching Bullet Train.",
	Language: "english",
	Duration: 12.5,
	Segments: []model.TranscriptSegment{
		{Start: 0, End: 3.2, Text: " Hello, my name is William Higgins."},
		{Start: 3.2, End: 7.9, Text: " I am a manager at Box."},
		{Start: 7.9, End: 12.5, Text: " I am watching Bullet Train."},
	},
}

// SampleRequest is the request matching SampleTranscript.
var SampleRequest = model.ProcessingRequest{
	FileID:   "1234567890",
	FileName: "test_audio.mp4",
}

// WriteTempFile creates a file with content in a test temp dir.
func WriteTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
