package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"hearth/internal/auth"
	"hearth/internal/http/middleware"
	serviceMocks "hearth/internal/service/mocks"
)

// testResponse mirrors envelope with the data left raw.
type testResponse struct {
	Success   bool            `json:"success"`
	RequestID string          `json:"request_id"`
	Data      json.RawMessage `json:"data"`
	Error     *errorEnvelope  `json:"error"`
}

func decode(t *testing.T, resp *http.Response) testResponse {
	t.Helper()
	var out testResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func jsonRequest(method, target string, body any) *http.Request {
	var r io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func withToken(req *http.Request, token string) *http.Request {
	req.Header.Set("Cookie", "session="+token)
	return req
}

// stubSessions accepts three fixed tokens.
func stubSessions() *serviceMocks.MockSessionService {
	s := new(serviceMocks.MockSessionService)
	s.On("Verify", mock.Anything, "parent-token").Return(auth.Session{TokenID: "t-p", SubjectID: parentID, Role: auth.RoleParent}, nil).Maybe()
	s.On("Verify", mock.Anything, "child-token").Return(auth.Session{TokenID: "t-c", SubjectID: childID, Role: auth.RoleChild}, nil).Maybe()
	s.On("Verify", mock.Anything, "identity-token").Return(auth.Session{TokenID: "t-i", SubjectID: identityID, Role: auth.RoleIdentity}, nil).Maybe()
	s.On("Verify", mock.Anything, mock.Anything).Return(auth.Session{}, errors.New("invalid")).Maybe()
	return s
}

const (
	parentID   = "6f1c1a52-3f55-4c2e-9f39-1d2b7b0c0a01"
	childID    = "6f1c1a52-3f55-4c2e-9f39-1d2b7b0c0a02"
	friendID   = "6f1c1a52-3f55-4c2e-9f39-1d2b7b0c0a03"
	messageID  = "6f1c1a52-3f55-4c2e-9f39-1d2b7b0c0a04"
	identityID = "6f1c1a52-3f55-4c2e-9f39-1d2b7b0c0a05"
	profileID  = "6f1c1a52-3f55-4c2e-9f39-1d2b7b0c0a06"
)

func TestHealthCheck(t *testing.T) {
	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	app := fiber.New()
	app.Get("/health", HealthCheck(db))

	t.Run("healthy", func(t *testing.T) {
		dbMock.ExpectPing()

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("unhealthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(errors.New("db error"))

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

		body := decode(t, resp)
		assert.False(t, body.Success)
		assert.Equal(t, "SERVICE_UNAVAILABLE", body.Error.Code)
	})

	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestLivenessProbe(t *testing.T) {
	app := fiber.New()
	app.Get("/healthz", LivenessProbe())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouting(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
	app.Use(middleware.RequestID())
	RegisterHealth(app, db)
	app.Get("/boom", func(c *fiber.Ctx) error { return errors.New("pq: connection refused") })

	t.Run("not found route", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/non-existent", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)

		body := decode(t, resp)
		assert.Equal(t, "NOT_FOUND", body.Error.Code)
		assert.NotEmpty(t, body.RequestID)
	})

	t.Run("method not allowed", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/health", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
		assert.Equal(t, "METHOD_NOT_ALLOWED", decode(t, resp).Error.Code)
	})

	t.Run("internal error does not leak", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

		body := decode(t, resp)
		assert.Equal(t, "INTERNAL_ERROR", body.Error.Code)
		assert.NotContains(t, body.Error.Message, "pq")
	})
}
