package audio

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "box-skill-whisper/internal/app/errors"
)

// fakeRunner replays canned command output.
type fakeRunner struct {
	calls []string
	run   func(name string, args ...string) (string, error)
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) (string, error) {
	f.calls = append(f.calls, name)
	return f.run(name, args...)
}

const probeVideoWithAudio = `{
  "streams": [
    {"codec_type": "video", "codec_name": "h264"},
    {"codec_type": "audio", "codec_name": "aac", "sample_rate": "44100"}
  ],
  "format": {"format_name": "mov,mp4,m4a,3gp,3g2,mj2", "duration": "95.500000", "size": "1048576"}
}`

const probeVideoOnly = `{
  "streams": [{"codec_type": "video", "codec_name": "h264"}],
  "format": {"format_name": "mov", "duration": "12.0"}
}`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestExtract_ConvertsVideo(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "meeting.mp4")
	writeFile(t, input, "video")

	var ffmpegArgs []string
	runner := &fakeRunner{run: func(name string, args ...string) (string, error) {
		switch name {
		case "ffprobe":
			return probeVideoWithAudio, nil
		case "ffmpeg":
			ffmpegArgs = args
			writeFile(t, args[len(args)-1], "mp3 data")
			return "", nil
		}
		t.Fatalf("unexpected command %s", name)
		return "", nil
	}}

	outDir := t.TempDir()
	e := NewExtractor(runner, Options{TempDir: outDir}, nil)
	res, err := e.Extract(context.Background(), input, "Meeting.MP4")
	require.NoError(t, err)

	assert.True(t, res.Converted)
	assert.Equal(t, outDir, filepath.Dir(res.Path))
	assert.True(t, strings.HasPrefix(filepath.Base(res.Path), "meeting_audio-"))
	assert.Equal(t, ".mp3", filepath.Ext(res.Path))
	assert.Equal(t, res.Path, ffmpegArgs[len(ffmpegArgs)-1])
	assert.InDelta(t, 95.5, res.DurationSeconds, 1e-9)
	assert.Equal(t, []string{"ffprobe", "ffmpeg"}, runner.calls)
	assert.Contains(t, ffmpegArgs, "libmp3lame")
	assert.Contains(t, ffmpegArgs, "64k")
	assert.Contains(t, ffmpegArgs, "16000")
}

func TestExtract_PassesThroughSupportedAudio(t *testing.T) {
	for _, name := range []string{"talk.mp3", "talk.M4A", "talk.wav", "talk.flac", "talk.ogg", "talk.webm"} {
		t.Run(name, func(t *testing.T) {
			runner := &fakeRunner{run: func(cmd string, args ...string) (string, error) {
				if cmd != "ffprobe" {
					t.Fatalf("unexpected command %s", cmd)
				}
				return probeVideoWithAudio, nil
			}}

			res, err := NewExtractor(runner, DefaultOptions(), nil).Extract(context.Background(), "/tmp/in"+filepath.Ext(name), name)
			require.NoError(t, err)
			assert.False(t, res.Converted)
			assert.Equal(t, "/tmp/in"+filepath.Ext(name), res.Path)
		})
	}
}

func TestExtract_NoAudioStream(t *testing.T) {
	runner := &fakeRunner{run: func(string, ...string) (string, error) {
		return probeVideoOnly, nil
	}}

	_, err := NewExtractor(runner, DefaultOptions(), nil).Extract(context.Background(), "/tmp/x.mp4", "x.mp4")
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, apperrors.ErrConversion))
	assert.True(t, stderrors.Is(err, ErrNoAudioStream))
	assert.True(t, apperrors.IsFatal(err))
}

func TestExtract_ToolFailures(t *testing.T) {
	testCases := []struct {
		name   string
		failOn string
		noFile bool
	}{
		{name: "probe fails", failOn: "ffprobe"},
		{name: "ffmpeg fails", failOn: "ffmpeg"},
		{name: "ffmpeg writes nothing", noFile: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			outDir := t.TempDir()
			input := filepath.Join(dir, "clip.mov")
			runner := &fakeRunner{run: func(name string, args ...string) (string, error) {
				if name == tc.failOn {
					return "", stderrors.New(name + ": exit status 1")
				}
				if name == "ffprobe" {
					return probeVideoWithAudio, nil
				}
				if !tc.noFile {
					writeFile(t, args[len(args)-1], "mp3")
				}
				return "", nil
			}}

			opts := DefaultOptions()
			opts.TempDir = outDir
			_, err := NewExtractor(runner, opts, nil).Extract(context.Background(), input, "clip.mov")
			require.Error(t, err)
			assert.True(t, stderrors.Is(err, apperrors.ErrConversion))

			left, err := os.ReadDir(outDir)
			require.NoError(t, err)
			assert.Empty(t, left)
		})
	}
}

func TestExtract_CustomOptions(t *testing.T) {
	dir := t.TempDir()
	var seen []string
	runner := &fakeRunner{run: func(name string, args ...string) (string, error) {
		seen = append(seen, name)
		if name == "/opt/ffprobe" {
			return probeVideoWithAudio, nil
		}
		writeFile(t, args[len(args)-1], "mp3")
		assert.Contains(t, args, "128k")
		assert.Contains(t, args, "2")
		return "", nil
	}}

	opts := Options{FFmpegPath: "/opt/ffmpeg", FFprobePath: "/opt/ffprobe", Bitrate: "128k", Channels: 2, TempDir: t.TempDir()}
	_, err := NewExtractor(runner, opts, nil).Extract(context.Background(), filepath.Join(dir, "a.avi"), "a.avi")
	require.NoError(t, err)
	assert.Equal(t, []string{"/opt/ffprobe", "/opt/ffmpeg"}, seen)
}

func TestExtract_LeavesSourceDirectoryUntouched(t *testing.T) {
	srcDir := t.TempDir()
	input := filepath.Join(srcDir, "talk.mp4")
	writeFile(t, input, "video")

	runner := &fakeRunner{run: func(name string, args ...string) (string, error) {
		if name == "ffprobe" {
			return probeVideoWithAudio, nil
		}
		writeFile(t, args[len(args)-1], "mp3")
		return "", nil
	}}

	res, err := NewExtractor(runner, Options{TempDir: t.TempDir()}, nil).Extract(context.Background(), input, "talk.mp4")
	require.NoError(t, err)
	assert.NotEqual(t, srcDir, filepath.Dir(res.Path))

	entries, err := os.ReadDir(srcDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "talk.mp4", entries[0].Name())
}

func TestIsSupportedAudio(t *testing.T) {
	assert.True(t, IsSupportedAudio(".MP3"))
	assert.False(t, IsSupportedAudio(".mp4"))
	assert.False(t, IsSupportedAudio(""))
}
