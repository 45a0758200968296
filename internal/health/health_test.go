package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	kafkamiddleware "laptoploan/pkg/kafka/middleware"
	"laptoploan/pkg/logger"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func serve(t *testing.T, h *Handler, path string) (int, Response) {
	t.Helper()
	router := httprouter.New()
	h.RegisterRoutes(router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	var resp Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return rec.Code, resp
}

func TestHealth(t *testing.T) {
	h := NewHandler(pingFunc(func(context.Context) error {
		t.Fatal("liveness must not touch the database")
		return nil
	}), logger.Discard())

	code, resp := serve(t, h, "/health")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", resp.Status)
}

func TestReady(t *testing.T) {
	h := NewHandler(
		pingFunc(func(ctx context.Context) error {
			_, hasDeadline := ctx.Deadline()
			assert.True(t, hasDeadline)
			return nil
		}),
		logger.Discard(),
		WithMailQueue(func() int { return 3 }),
		WithEventMetrics(func() kafkamiddleware.PublishSnapshot { return kafkamiddleware.PublishSnapshot{Published: 5, Failed: 1} }),
	)

	code, resp := serve(t, h, "/ready")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", resp.Database)
	require.NotNil(t, resp.MailPending)
	assert.Equal(t, 3, *resp.MailPending)
	require.NotNil(t, resp.Events)
	assert.Equal(t, int64(5), resp.Events.Published)
}

func TestReady_DatabaseDown(t *testing.T) {
	h := NewHandler(pingFunc(func(context.Context) error { return errors.New("no primary") }), logger.Discard())

	code, resp := serve(t, h, "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "error", resp.Database)
	assert.Nil(t, resp.Events)
}
