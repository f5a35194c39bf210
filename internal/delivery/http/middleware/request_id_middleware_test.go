package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	deliverycontext "passport/internal/delivery/context"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRequestIDTestContext(t *testing.T, headers map[string]string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	rec := httptest.NewRecorder()

	return e.NewContext(req, rec), rec
}

func TestRequestIDMiddleware_PropagatesClientID(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mw := NewRequestIDMiddleware(logger)

	clientID := "req-from-client-123"
	c, rec := newRequestIDTestContext(t, map[string]string{
		deliverycontext.HeaderXRequestID: clientID,
	})

	var seenEchoID, seenCtxID string
	handler := mw.Process(func(c echo.Context) error {
		seenEchoID = deliverycontext.GetRequestID(c)
		seenCtxID = deliverycontext.GetRequestIDFromContext(c.Request().Context())

		return c.NoContent(http.StatusOK)
	})

	require.NoError(t, handler(c))

	assert.Equal(t, clientID, seenEchoID)
	assert.Equal(t, clientID, seenCtxID)
	assert.Equal(t, clientID, rec.Header().Get(deliverycontext.HeaderXRequestID))
}

func TestRequestIDMiddleware_GeneratesIDWhenMissing(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mw := NewRequestIDMiddleware(logger)

	c, rec := newRequestIDTestContext(t, nil)

	var seenEchoID, seenCtxID string
	handler := mw.Process(func(c echo.Context) error {
		seenEchoID = deliverycontext.GetRequestID(c)
		seenCtxID = deliverycontext.GetRequestIDFromContext(c.Request().Context())

		return c.NoContent(http.StatusOK)
	})

	require.NoError(t, handler(c))

	generated, err := uuid.Parse(seenEchoID)
	require.NoError(t, err)
	assert.Equal(t, generated.String(), seenCtxID)
	assert.Equal(t, generated.String(), rec.Header().Get(deliverycontext.HeaderXRequestID))
}

func TestRequestIDMiddleware_ScopedLoggerOnContext(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mw := NewRequestIDMiddleware(logger)

	c, _ := newRequestIDTestContext(t, nil)

	fallback := slog.Default()
	var scoped *slog.Logger
	handler := mw.Process(func(c echo.Context) error {
		scoped = deliverycontext.GetLoggerOrDefault(c.Request().Context(), fallback)

		return c.NoContent(http.StatusOK)
	})

	require.NoError(t, handler(c))

	require.NotNil(t, scoped)
	assert.NotSame(t, fallback, scoped)
}
