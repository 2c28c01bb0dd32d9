package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/sumire/jobboard/internal/domain"
	"github.com/sumire/jobboard/internal/handler"
	"github.com/sumire/jobboard/internal/mocks"
	"github.com/sumire/jobboard/internal/service"
)

type fixture struct {
	jobs          *mocks.MockJobService
	apps          *mocks.MockApplicationService
	evals         *mocks.MockEvaluationService
	notifications *mocks.MockNotificationService
	moderation    *mocks.MockModerationService
	tokens        *mocks.MockTokenValidator
	e             *echo.Echo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &fixture{
		jobs:          mocks.NewMockJobService(ctrl),
		apps:          mocks.NewMockApplicationService(ctrl),
		evals:         mocks.NewMockEvaluationService(ctrl),
		notifications: mocks.NewMockNotificationService(ctrl),
		moderation:    mocks.NewMockModerationService(ctrl),
		tokens:        mocks.NewMockTokenValidator(ctrl),
	}
	f.e = handler.NewRouter(handler.Handlers{
		Jobs:          handler.NewJobHandler(f.jobs),
		Applications:  handler.NewApplicationHandler(f.apps),
		Evaluations:   handler.NewEvaluationHandler(f.evals),
		Notifications: handler.NewNotificationHandler(f.notifications),
		Admin:         handler.NewAdminHandler(f.moderation),
	}, handler.RouterOptions{
		Tokens: f.tokens,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	return f
}

func (f *fixture) do(method, path, body string, headers ...string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	return rec
}

func userClaims(id int64) service.Claims {
	return service.Claims{UserID: id, Role: domain.RoleUser}
}

func adminClaims(id int64) service.Claims {
	return service.Claims{UserID: id, Role: domain.RoleAdmin}
}

type envelope struct {
	Data  json.RawMessage   `json:"data"`
	Meta  *handler.ListMeta `json:"meta"`
	Error *handler.APIError `json:"error"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	env := decode(t, rec)
	require.Nil(t, env.Error, rec.Body.String())
	require.NoError(t, json.Unmarshal(env.Data, v))
}

func TestHealth(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/health", "")

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
}

func TestHealth_Unavailable(t *testing.T) {
	ctrl := gomock.NewController(t)
	e := handler.NewRouter(handler.Handlers{
		Jobs:          handler.NewJobHandler(mocks.NewMockJobService(ctrl)),
		Applications:  handler.NewApplicationHandler(mocks.NewMockApplicationService(ctrl)),
		Evaluations:   handler.NewEvaluationHandler(mocks.NewMockEvaluationService(ctrl)),
		Notifications: handler.NewNotificationHandler(mocks.NewMockNotificationService(ctrl)),
		Admin:         handler.NewAdminHandler(mocks.NewMockModerationService(ctrl)),
	}, handler.RouterOptions{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Health: func(context.Context) error { return errors.New("dial tcp: refused") },
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestUnknownRoute(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/api/v1/nope", "")

	require.Equal(t, http.StatusNotFound, rec.Code)
	env := decode(t, rec)
	require.NotNil(t, env.Error)
	require.Equal(t, "not_found", env.Error.Code)
}
