package httpserver_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/unclebandit/mailpulse-backend/internal/controller"
	"github.com/unclebandit/mailpulse-backend/internal/handler"
	"github.com/unclebandit/mailpulse-backend/internal/httpserver"
	"github.com/unclebandit/mailpulse-backend/internal/model"
	"github.com/unclebandit/mailpulse-backend/internal/service"
)

type memEmails struct {
	mu      sync.Mutex
	records map[uuid.UUID]model.EmailRecord
	updates int
}

func (m *memEmails) Create(ctx context.Context, e *model.EmailRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[e.ID] = *e
	return nil
}

func (m *memEmails) GetByID(ctx context.Context, id uuid.UUID) (*model.EmailRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.records[id]; ok {
		return &e, nil
	}
	return nil, nil
}

func (m *memEmails) MarkOpened(ctx context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updates++
	e, ok := m.records[id]
	if !ok {
		return false, nil
	}
	e.Opened = true
	m.records[id] = e
	return true, nil
}

func (m *memEmails) ListUnopened(ctx context.Context) ([]model.EmailRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.EmailRecord
	for _, e := range m.records {
		if !e.Opened {
			out = append(out, e)
		}
	}
	return out, nil
}

const publicBase = "https://mail.example.com"

func newServer(t *testing.T) (*httptest.Server, *memEmails) {
	t.Helper()
	log := zap.NewNop()
	emails := &memEmails{records: map[uuid.UUID]model.EmailRecord{}}
	emailSvc := &service.EmailService{EmailRepo: emails, TrackingBaseURL: publicBase, Logger: log}

	srv := httptest.NewServer(httpserver.NewRouter(httpserver.Routes{
		Users:    &controller.UserController{Logger: log},
		Emails:   &controller.EmailController{EmailService: emailSvc, Logger: log},
		Tracking: handler.NewTrackingHandler(emailSvc, log),
		Logger:   log,
	}))
	t.Cleanup(srv.Close)
	return srv, emails
}

func TestComposeThenTrackOpen(t *testing.T) {
	srv, emails := newServer(t)

	payload, _ := json.Marshal(map[string]string{"recipient": "bob@example.com", "subject": "Hi", "body": "<p>Hello</p>"})
	resp, err := http.Post(srv.URL+"/generate-email", "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var out struct {
		Email model.EmailRecord `json:"email"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))

	path := "/track-open/" + out.Email.ID.String()
	require.Contains(t, out.Email.Body, publicBase+path)
	pixelURL := srv.URL + path

	for i := 0; i < 2; i++ {
		r, err := http.Get(pixelURL)
		require.NoError(t, err)
		r.Body.Close()
		assert.Equal(t, http.StatusOK, r.StatusCode)
		assert.Equal(t, "image/gif", r.Header.Get("Content-Type"))
	}

	rec, _ := emails.GetByID(context.Background(), out.Email.ID)
	assert.True(t, rec.Opened)

	unopened, _ := emails.ListUnopened(context.Background())
	assert.Empty(t, unopened)
}

func TestTrackOpenUnknownAndInvalidIDs(t *testing.T) {
	srv, emails := newServer(t)

	for _, id := range []string{uuid.NewString(), "not-a-uuid"} {
		r, err := http.Get(srv.URL + "/track-open/" + id)
		require.NoError(t, err)
		r.Body.Close()
		assert.Equal(t, http.StatusOK, r.StatusCode)
	}
	assert.Empty(t, emails.records)
	assert.Equal(t, 1, emails.updates)
}

func TestOperationalRoutes(t *testing.T) {
	srv, _ := newServer(t)

	r, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	body, _ := io.ReadAll(r.Body)
	r.Body.Close()
	assert.JSONEq(t, `{"status":"ok"}`, string(body))

	r, err = http.Get(srv.URL + "/")
	require.NoError(t, err)
	r.Body.Close()
	assert.Equal(t, http.StatusOK, r.StatusCode)

	r, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	body, _ = io.ReadAll(r.Body)
	r.Body.Close()
	assert.Equal(t, http.StatusOK, r.StatusCode)
	assert.True(t, strings.Contains(string(body), "http_request_duration_seconds"))
}

func TestCORSPreflight(t *testing.T) {
	srv, _ := newServer(t)

	req, _ := http.NewRequest(http.MethodOptions, srv.URL+"/send-email", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	r, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	r.Body.Close()
	assert.Equal(t, "*", r.Header.Get("Access-Control-Allow-Origin"))
}

func TestUnknownRoute(t *testing.T) {
	srv, _ := newServer(t)

	r, err := http.Post(srv.URL+"/unknown", "application/json", nil)
	require.NoError(t, err)
	r.Body.Close()
	assert.Equal(t, http.StatusNotFound, r.StatusCode)
}

func TestUnmatchedPathsShareOneMetricSeries(t *testing.T) {
	srv, _ := newServer(t)

	for _, p := range []string{"/scan-1", "/scan-2", "/wp-admin/setup.php"} {
		r, err := http.Get(srv.URL + p)
		require.NoError(t, err)
		r.Body.Close()
		assert.Equal(t, http.StatusNotFound, r.StatusCode)
	}

	r, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	body, _ := io.ReadAll(r.Body)
	r.Body.Close()

	exposition := string(body)
	assert.Contains(t, exposition, `route="unmatched"`)
	assert.NotContains(t, exposition, `route="/scan-1"`)
	assert.NotContains(t, exposition, `route="/wp-admin/setup.php"`)
}
