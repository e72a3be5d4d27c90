package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/sportsched/internal/testutil"
)

type recordedRequest struct {
	route  string
	method string
	code   int
}

type fakeObserver struct {
	requests []recordedRequest
}

func (f *fakeObserver) ObserveRequest(route, method string, code int, _ time.Duration) {
	f.requests = append(f.requests, recordedRequest{route, method, code})
}

func TestLoggingRecordsStatusAndSize(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	h := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/games", nil))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "http request", entry["msg"])
	assert.Equal(t, "/api/v1/games", entry["path"])
	assert.InDelta(t, http.StatusTeapot, entry["status"], 0)
	assert.InDelta(t, len("short and stout"), entry["size"], 0)
}

func TestMetricsUsesRouteTemplate(t *testing.T) {
	observer := &fakeObserver{}
	router := mux.NewRouter()
	router.Use(Metrics(observer))
	router.HandleFunc("/games/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}).Methods(http.MethodGet)

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/games/abc", nil))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/games/def", nil))

	require.Len(t, observer.requests, 2)
	for _, r := range observer.requests {
		assert.Equal(t, "/games/{id}", r.route)
		assert.Equal(t, http.MethodGet, r.method)
		assert.Equal(t, http.StatusNotFound, r.code)
	}
}

func TestRecoveryCallsHandler(t *testing.T) {
	logger, logs := testutil.CaptureLogger()
	var recovered any
	h := Recovery(logger, func(w http.ResponseWriter, _ *http.Request, err any) {
		recovered = err
		w.WriteHeader(http.StatusInternalServerError)
	})(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "boom", recovered)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, []string{"panic recovered"}, logs.Messages())
}

func TestRecoveryRepanicsAbort(t *testing.T) {
	h := Recovery(testutil.NopLogger(), func(http.ResponseWriter, *http.Request, any) {})(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}

func TestResponseWriterKeepsFirstStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := NewResponseWriter(rec)
	rw.WriteHeader(http.StatusCreated)
	rw.WriteHeader(http.StatusInternalServerError)

	assert.Equal(t, http.StatusCreated, rw.Status())
	assert.True(t, rw.Written())
	assert.Same(t, rw, NewResponseWriter(rw))
}
