package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"

	"box-skill-whisper/internal/api/v1/dto"
)

// MockSkillService is a mock of the API skill service.
type MockSkillService struct {
	mock.Mock
}

func NewMockSkillService(t *testing.T) *MockSkillService {
	m := &MockSkillService{}
	m.Test(t)
	return m
}

func (m *MockSkillService) ProcessWebhook(ctx context.Context, requestID string, req *dto.WebhookRequest) (*dto.WebhookResponse, error) {
	args := m.Called(ctx, requestID, req)
	if resp, ok := args.Get(0).(*dto.WebhookResponse); ok {
		return resp, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSkillService) GetRun(ctx context.Context, fileID string) (*dto.RunResponse, error) {
	args := m.Called(ctx, fileID)
	if resp, ok := args.Get(0).(*dto.RunResponse); ok {
		return resp, args.Error(1)
	}
	return nil, args.Error(1)
}
