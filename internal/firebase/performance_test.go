package firebase

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"saas-platform/backend/internal/logger"
)

func TestPerformance_Trace(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	p := NewPerformance("app-1", logger.Nop(), rec)
	defer func() { _ = p.Shutdown(context.Background()) }()

	_, span := p.Trace(context.Background(), "load_dashboard", attribute.Int("items", 3))
	span.End()

	ended := rec.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "load_dashboard", ended[0].Name())
	assert.Contains(t, ended[0].Attributes(), attribute.Int("items", 3))
}

func TestPerformance_Middleware(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	p := NewPerformance("app-1", logger.Nop(), rec)

	h := p.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusTeapot, w.Code)
	require.Len(t, rec.Ended(), 1)
	assert.Equal(t, "GET /healthz", rec.Ended()[0].Name())
}

func TestPerformance_NilShutdown(t *testing.T) {
	var p *Performance
	assert.NoError(t, p.Shutdown(context.Background()))
}
