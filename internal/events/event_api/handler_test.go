package event_api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ms-concerthall/internal/events/db"
	"ms-concerthall/internal/events/service"
	"ms-concerthall/internal/logger"
	"ms-concerthall/internal/models"
	"ms-concerthall/internal/utils"
)

// MockEventService returns canned results and records the last input.
type MockEventService struct {
	event     *models.Event
	events    []models.Event
	err       error
	lastID    int64
	lastInput service.EventInput
}

func (m *MockEventService) CreateEvent(_ context.Context, in service.EventInput) (*models.Event, error) {
	m.lastInput = in
	return m.event, m.err
}

func (m *MockEventService) ListEvents(context.Context) ([]models.Event, error) {
	return m.events, m.err
}

func (m *MockEventService) GetEvent(_ context.Context, id int64) (*models.Event, error) {
	m.lastID = id
	return m.event, m.err
}

func (m *MockEventService) UpdateEvent(_ context.Context, id int64, in service.EventInput) (*models.Event, error) {
	m.lastID = id
	m.lastInput = in
	return m.event, m.err
}

func (m *MockEventService) DeleteEvent(_ context.Context, id int64) (*models.Event, error) {
	m.lastID = id
	return m.event, m.err
}

func newTestRouter(svc EventService, log *logger.Logger) http.Handler {
	h := NewHandler(svc, log)
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

func serve(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		kind   string
	}{
		{"bad request", service.ErrBadRequest, http.StatusBadRequest, utils.KindBadRequest},
		{"not found", db.ErrNotFound, http.StatusNotFound, utils.KindNotFound},
		{"duplicate", db.ErrDuplicateName, http.StatusConflict, utils.KindDuplicateName},
		{"wrapped not found", errors.Join(errors.New("lookup"), db.ErrNotFound), http.StatusNotFound, utils.KindNotFound},
		{"unexpected", errors.New("disk I/O error"), http.StatusInternalServerError, utils.KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(&MockEventService{err: tt.err}, logger.Discard())

			rec := serve(router, http.MethodGet, "/event/3", "")
			assert.Equal(t, tt.status, rec.Code)

			var body utils.APIResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.False(t, body.Success)
			assert.Equal(t, tt.kind, body.Error)
		})
	}
}

func TestInternalErrorIsLoggedNotLeaked(t *testing.T) {
	var logs bytes.Buffer
	router := newTestRouter(&MockEventService{err: errors.New("disk I/O error")}, logger.New(&logs, logger.DEBUG))

	rec := serve(router, http.MethodGet, "/event", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "disk I/O error")
	assert.Contains(t, logs.String(), "GET /event failed: disk I/O error")
}

func TestUpdatePassesIDAndBody(t *testing.T) {
	svc := &MockEventService{event: &models.Event{ID: 12, EventName: "Opera Gala", MusiciansCount: 40, EventDuration: 180, TicketPrice: 90}}
	router := newTestRouter(svc, logger.Discard())

	rec := serve(router, http.MethodPut, "/event/12",
		`{"event_name":"Opera Gala","musicians_count":40,"event_duration":180,"ticket_price":90,"id":99}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(12), svc.lastID)
	require.NotNil(t, svc.lastInput.EventName)
	assert.Equal(t, "Opera Gala", *svc.lastInput.EventName)
	assert.JSONEq(t, `{"id":12,"event_name":"Opera Gala","musicians_count":40,"event_duration":180,"ticket_price":90}`, rec.Body.String())
}

func TestInvalidIDDoesNotReachService(t *testing.T) {
	svc := &MockEventService{event: &models.Event{ID: 1}}
	router := newTestRouter(svc, logger.Discard())

	rec := serve(router, http.MethodDelete, "/event/first", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Zero(t, svc.lastID)
}

func TestOversizedBodyIsRejected(t *testing.T) {
	svc := &MockEventService{event: &models.Event{ID: 1}}
	router := newTestRouter(svc, logger.Discard())

	body := `{"event_name":"` + strings.Repeat("a", maxBodyBytes) + `"}`
	rec := serve(router, http.MethodPost, "/event", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, svc.lastInput.EventName)
}

func TestRequestLoggerRecordsStatus(t *testing.T) {
	var logs bytes.Buffer
	log := logger.New(&logs, logger.INFO)

	handler := RequestID(RequestLogger(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get(RequestIDHeader))
		time.Sleep(time.Millisecond)
		w.WriteHeader(http.StatusTeapot)
	})))

	rec := serve(handler, http.MethodGet, "/event", "")
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
	assert.Contains(t, logs.String(), "GET /event - 418")
}

func TestRecovererWritesJSONError(t *testing.T) {
	var logs bytes.Buffer
	log := logger.New(&logs, logger.INFO)

	handler := RequestLogger(log)(Recoverer(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("store exploded")
	})))

	rec := serve(handler, http.MethodPost, "/event", `{}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body utils.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, utils.KindInternal, body.Error)
	assert.NotContains(t, rec.Body.String(), "store exploded")

	assert.Contains(t, logs.String(), "POST /event: store exploded")
	assert.Contains(t, logs.String(), "POST /event - 500")
}
