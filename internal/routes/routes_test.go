package routes_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/scheduling"
	"github.com/BruksfildServices01/clinic-scheduler/internal/routes"
	"github.com/BruksfildServices01/clinic-scheduler/internal/testutil"
	"github.com/BruksfildServices01/clinic-scheduler/internal/validators"
)

type server struct {
	f      *testutil.Fixture
	engine *gin.Engine
}

func newServer(t *testing.T) *server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, validators.Register())

	f := testutil.NewFixture(t)
	r := gin.New()
	routes.RegisterRoutes(r, f.App, f.Cfg)
	return &server{f: f, engine: r}
}

func (s *server) token(t *testing.T, actor domain.Actor) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  actor.UserID,
		"role": string(actor.Role),
	})
	signed, err := tok.SignedString([]byte(s.f.Cfg.JWTSecret))
	require.NoError(t, err)
	return signed
}

func (s *server) do(t *testing.T, method, path string, actor *domain.Actor, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if actor != nil {
		req.Header.Set("Authorization", "Bearer "+s.token(t, *actor))
	}

	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Code string `json:"error_code"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Code
}

func (s *server) booking(hm string) map[string]any {
	return map[string]any{
		"patient_id":       s.f.Patient.ID,
		"practitioner_id":  s.f.Practitioner.ID,
		"treatment_id":     s.f.Treatment.ID,
		"date":             testutil.Day,
		"time":             hm,
		"duration_minutes": 60,
	}
}

func TestHealth(t *testing.T) {
	s := newServer(t)

	w := s.do(t, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestBookSession_CreatedThenConflict(t *testing.T) {
	s := newServer(t)
	actor := s.f.PatientActor

	w := s.do(t, http.MethodPost, "/api/sessions", &actor, s.booking("10:00"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		ID     uint   `json:"id"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "scheduled", created.Status)

	w = s.do(t, http.MethodPost, "/api/sessions", &actor, s.booking("10:30"))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "time_conflict", errorCode(t, w))

	w = s.do(t, http.MethodGet, fmt.Sprintf("/api/sessions/%d", created.ID), &actor, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	other := s.f.OtherPatientActor
	w = s.do(t, http.MethodGet, fmt.Sprintf("/api/sessions/%d", created.ID), &other, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestBookSession_BadInput(t *testing.T) {
	s := newServer(t)
	actor := s.f.PatientActor

	body := s.booking("25:00")
	w := s.do(t, http.MethodPost, "/api/sessions", &actor, body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_request", errorCode(t, w))

	body = s.booking("09:00")
	body["duration_minutes"] = 153722868
	w = s.do(t, http.MethodPost, "/api/sessions", &actor, body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_request", errorCode(t, w))

	body = s.booking("10:00")
	body["date"] = "2024-05-01"
	w = s.do(t, http.MethodPost, "/api/sessions", &actor, body)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "date_in_past", errorCode(t, w))
}

func TestTransition_IllegalEdgeIsConflict(t *testing.T) {
	s := newServer(t)
	actor := s.f.PractitionerActor

	w := s.do(t, http.MethodPost, "/api/sessions", &actor, s.booking("10:00"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	path := fmt.Sprintf("/api/sessions/%d/status", created.ID)
	w = s.do(t, http.MethodPatch, path, &actor, map[string]any{"status": "completed"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodPatch, path, &actor, map[string]any{"status": "confirmed"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuth(t *testing.T) {
	s := newServer(t)

	w := s.do(t, http.MethodGet, "/api/sessions/1", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/sessions/1", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	patient := s.f.PatientActor
	w = s.do(t, http.MethodPost, "/api/treatments", &patient, map[string]any{"name": "x", "duration_minutes": 30})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodPost, "/api/sessions/1/activities", &patient, map[string]any{"notes": "x"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodGet, "/api/me/working-hours", &patient, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	practitioner := s.f.PractitionerActor
	w = s.do(t, http.MethodGet, "/api/me/working-hours", &practitioner, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAvailability(t *testing.T) {
	s := newServer(t)
	actor := s.f.PatientActor

	path := fmt.Sprintf("/api/practitioners/%d/availability?date=%s&duration=60", s.f.Practitioner.ID, testutil.Day)
	w := s.do(t, http.MethodGet, path, &actor, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body struct {
		Data  []map[string]any `json:"data"`
		Total int              `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 10, body.Total)
	assert.Len(t, body.Data, 10)
}
