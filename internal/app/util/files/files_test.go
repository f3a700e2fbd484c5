package files

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsMediaFile(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"talk.MP4", true},
		{"voice.m4a", true},
		{"clip.mov", true},
		{"notes.txt", false},
		{"noext", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsMediaFile(tt.name))
		})
	}
}

func TestGetAllMediaFiles_SortedByModTime(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()
	for i, name := range []string{"c.mp4", "a.mp3", "skip.txt", "b.wav"} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(name), 0o644))
		mod := now.Add(time.Duration(-10+i) * time.Minute)
		require.NoError(t, os.Chtimes(path, mod, mod))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.mp4"), 0o755))

	got, err := GetAllMediaFiles(dir)
	require.NoError(t, err)

	names := make([]string, len(got))
	for i, f := range got {
		names[i] = f.Name
	}
	assert.Equal(t, []string{"c.mp4", "a.mp3", "b.wav"}, names)
	assert.Equal(t, int64(len("c.mp4")), got[0].Size)
}

func TestCollectMediaFiles(t *testing.T) {
	dir := t.TempDir()
	single := filepath.Join(t.TempDir(), "explicit.bin")
	require.NoError(t, os.WriteFile(single, []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "one.mp3"), []byte("1"), 0o644))

	got, err := CollectMediaFiles([]string{single, dir})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, single, got[0].FullPath, "explicit files are kept regardless of extension")
	assert.Equal(t, "one.mp3", got[1].Name)

	_, err = CollectMediaFiles([]string{filepath.Join(dir, "missing.mp4")})
	assert.Error(t, err)
}
