package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"box-skill-whisper/internal/api/v1/dto"
	"box-skill-whisper/internal/app/testutil"
)

func newTestServer(t *testing.T) (*Server, *testutil.MockSkillService) {
	service := testutil.NewMockSkillService(t)
	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "skill_test_total", Help: "test"})
	reg.MustRegister(counter)
	counter.Inc()

	srv := NewServer(DefaultConfig("0", "test"), service, reg, zap.NewNop())
	return srv, service
}

func TestServer_Endpoints(t *testing.T) {
	srv, _ := newTestServer(t)

	testCases := []struct {
		path     string
		contains string
	}{
		{"/health", `"status":"healthy"`},
		{"/", `"webhook":"/webhook"`},
		{"/metrics", "skill_test_total 1"},
		{"/swagger/doc.json", "Process a Box skill invocation"},
	}

	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			srv.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, tc.path, nil))
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Contains(t, w.Body.String(), tc.contains)
		})
	}
}

func TestServer_WebhookRoute(t *testing.T) {
	srv, service := newTestServer(t)
	service.On("ProcessWebhook", mock.Anything, mock.Anything, mock.Anything).
		Return(&dto.WebhookResponse{FileID: "7", Cards: 4, Degraded: []string{}}, nil).Once()

	body := `{"source":{"id":"7","name":"a.mp3"},"token":{"read":{"access_token":"r"}}}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	srv.Router().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.WebhookResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "7", resp.FileID)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	service.AssertExpectations(t)
}

func TestServer_RunStopsOnCancel(t *testing.T) {
	srv, _ := newTestServer(t)
	srv.httpServer.Addr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
