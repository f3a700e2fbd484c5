package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"

	"box-skill-whisper/internal/app/audio"
	"box-skill-whisper/internal/app/box"
	"box-skill-whisper/internal/app/cards"
	"box-skill-whisper/internal/app/model"
)

// MockFetcher is a mock media fetcher.
type MockFetcher struct {
	mock.Mock
}

func NewMockFetcher(t *testing.T) *MockFetcher {
	m := &MockFetcher{}
	m.Test(t)
	return m
}

func (m *MockFetcher) Fetch(ctx context.Context, fileID, fileName string, tokens box.Tokens) (box.Download, error) {
	args := m.Called(ctx, fileID, fileName, tokens)
	return args.Get(0).(box.Download), args.Error(1)
}

// MockExtractor is a mock audio extractor.
type MockExtractor struct {
	mock.Mock
}

func NewMockExtractor(t *testing.T) *MockExtractor {
	m := &MockExtractor{}
	m.Test(t)
	return m
}

func (m *MockExtractor) Extract(ctx context.Context, mediaPath, fileName string) (audio.Result, error) {
	args := m.Called(ctx, mediaPath, fileName)
	return args.Get(0).(audio.Result), args.Error(1)
}

// MockTranscriber is a mock speech-to-text service.
type MockTranscriber struct {
	mock.Mock
}

func NewMockTranscriber(t *testing.T) *MockTranscriber {
	m := &MockTranscriber{}
	m.Test(t)
	return m
}

func (m *MockTranscriber) Transcribe(ctx context.Context, path string) (model.Transcript, error) {
	args := m.Called(ctx, path)
	return args.Get(0).(model.Transcript), args.Error(1)
}

// MockAnalyzer is a mock summarizer and keyword extractor.
type MockAnalyzer struct {
	mock.Mock
}

func NewMockAnalyzer(t *testing.T) *MockAnalyzer {
	m := &MockAnalyzer{}
	m.Test(t)
	return m
}

func (m *MockAnalyzer) Summarize(ctx context.Context, transcript string) (model.SummaryResult, error) {
	args := m.Called(ctx, transcript)
	return args.Get(0).(model.SummaryResult), args.Error(1)
}

func (m *MockAnalyzer) ExtractKeywords(ctx context.Context, transcript string) (model.KeywordResult, error) {
	args := m.Called(ctx, transcript)
	return args.Get(0).(model.KeywordResult), args.Error(1)
}

// MockUploader is a mock platform uploader.
type MockUploader struct {
	mock.Mock
}

func NewMockUploader(t *testing.T) *MockUploader {
	m := &MockUploader{}
	m.Test(t)
	return m
}

func (m *MockUploader) Upload(ctx context.Context, fileID string, tokens box.Tokens, batch cards.CardBatch, inv box.Invocation) error {
	args := m.Called(ctx, fileID, tokens, batch, inv)
	return args.Error(0)
}

// MockArchiver is a mock batch archive.
type MockArchiver struct {
	mock.Mock
}

func NewMockArchiver(t *testing.T) *MockArchiver {
	m := &MockArchiver{}
	m.Test(t)
	return m
}

func (m *MockArchiver) Archive(ctx context.Context, fileID, requestID string, batch cards.CardBatch) (string, error) {
	args := m.Called(ctx, fileID, requestID, batch)
	return args.String(0), args.Error(1)
}
