// Package audio probes downloaded media and extracts an audio track that the
// transcription service accepts.
package audio

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	apperrors "box-skill-whisper/internal/app/errors"
	"box-skill-whisper/internal/app/model"
)

// ErrNoAudioStream is returned when the media carries no audio track.
var ErrNoAudioStream = errors.New("no audio stream found in the input file")

// Extensions the transcription service accepts as-is.
var supportedAudio = map[string]bool{
	".mp3":  true,
	".m4a":  true,
	".wav":  true,
	".flac": true,
	".ogg":  true,
	".webm": true,
}

// IsSupportedAudio reports whether ext (with dot, any case) needs no conversion.
func IsSupportedAudio(ext string) bool {
	return supportedAudio[strings.ToLower(ext)]
}

// Options configures the ffmpeg invocation.
type Options struct {
	FFmpegPath  string
	FFprobePath string
	Bitrate     string
	SampleRate  int
	Channels    int
	// TempDir receives converted audio (os.TempDir when empty). It must not
	// be a directory that is watched for new media.
	TempDir string
}

// DefaultOptions returns speech-friendly encoder settings: mono, 16 kHz, 64 kbit/s.
func DefaultOptions() Options {
	return Options{
		FFmpegPath:  "ffmpeg",
		FFprobePath: "ffprobe",
		Bitrate:     "64k",
		SampleRate:  16000,
		Channels:    1,
	}
}

// Result is the audio file handed to transcription.
type Result struct {
	Path            string
	DurationSeconds float64
	// Converted is true when Path is a new file owned by the caller.
	Converted bool
}

// Extractor turns arbitrary media into transcribable audio.
type Extractor struct {
	runner Runner
	opts   Options
	logger *zap.Logger
}

// NewExtractor creates an Extractor. Zero option fields take their defaults.
func NewExtractor(runner Runner, opts Options, logger *zap.Logger) *Extractor {
	def := DefaultOptions()
	if opts.FFmpegPath == "" {
		opts.FFmpegPath = def.FFmpegPath
	}
	if opts.FFprobePath == "" {
		opts.FFprobePath = def.FFprobePath
	}
	if opts.Bitrate == "" {
		opts.Bitrate = def.Bitrate
	}
	if opts.SampleRate <= 0 {
		opts.SampleRate = def.SampleRate
	}
	if opts.Channels <= 0 {
		opts.Channels = def.Channels
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{runner: runner, opts: opts, logger: logger}
}

// Probe runs ffprobe on path.
func (e *Extractor) Probe(ctx context.Context, path string) (model.FFProbeOutput, error) {
	var probe model.FFProbeOutput
	out, err := e.runner.Run(ctx, e.opts.FFprobePath,
		"-v", "quiet", "-print_format", "json", "-show_streams", "-show_format", path)
	if err != nil {
		return probe, err
	}
	if err := json.Unmarshal([]byte(out), &probe); err != nil {
		return probe, fmt.Errorf("parse ffprobe output: %w", err)
	}
	return probe, nil
}

// Extract returns an audio file for mediaPath. fileName is the original name
// and decides whether the media is already in an accepted audio format.
// Failures are conversion errors.
func (e *Extractor) Extract(ctx context.Context, mediaPath, fileName string) (Result, error) {
	probe, err := e.Probe(ctx, mediaPath)
	if err != nil {
		return Result{}, apperrors.Conversion(fmt.Errorf("probe %s: %w", fileName, err))
	}
	if !probe.HasAudio() {
		return Result{}, apperrors.Conversion(ErrNoAudioStream)
	}

	duration := probe.Format.Duration
	if IsSupportedAudio(filepath.Ext(fileName)) {
		e.logger.Debug("audio format accepted as-is", zap.String("file", fileName))
		return Result{Path: mediaPath, DurationSeconds: duration}, nil
	}

	outPath, err := e.tempAudioPath(mediaPath)
	if err != nil {
		return Result{}, apperrors.Conversion(err)
	}
	e.logger.Info("extracting audio",
		zap.String("file", fileName),
		zap.String("output", outPath),
		zap.Float64("duration_seconds", duration))

	_, err = e.runner.Run(ctx, e.opts.FFmpegPath,
		"-y", "-i", mediaPath,
		"-vn", "-acodec", "libmp3lame",
		"-ac", strconv.Itoa(e.opts.Channels),
		"-ar", strconv.Itoa(e.opts.SampleRate),
		"-b:a", e.opts.Bitrate,
		outPath)
	if err != nil {
		_ = os.Remove(outPath)
		return Result{}, apperrors.Conversion(err)
	}

	info, err := os.Stat(outPath)
	if err != nil || info.Size() == 0 {
		_ = os.Remove(outPath)
		return Result{}, apperrors.Conversion(errors.New("ffmpeg produced no audio output"))
	}

	return Result{Path: outPath, DurationSeconds: duration, Converted: true}, nil
}

// tempAudioPath reserves a unique output file in the temp directory, never
// next to the input.
func (e *Extractor) tempAudioPath(mediaPath string) (string, error) {
	base := strings.TrimSuffix(filepath.Base(mediaPath), filepath.Ext(mediaPath))
	f, err := os.CreateTemp(e.opts.TempDir, base+"_audio-*.mp3")
	if err != nil {
		return "", fmt.Errorf("create audio output: %w", err)
	}
	name := f.Name()
	if err := f.Close(); err != nil {
		_ = os.Remove(name)
		return "", err
	}
	return name, nil
}
