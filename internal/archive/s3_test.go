package archive

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedRequest struct {
	method      string
	path        string
	contentType string
	body        []byte
}

// recordingTransport answers every request with 200 and remembers it
type recordingTransport struct {
	mu       sync.Mutex
	requests []capturedRequest
	status   int
}

func (rt *recordingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil {
		body, _ = io.ReadAll(req.Body)
	}
	rt.mu.Lock()
	rt.requests = append(rt.requests, capturedRequest{
		method:      req.Method,
		path:        req.URL.Path,
		contentType: req.Header.Get("Content-Type"),
		body:        body,
	})
	rt.mu.Unlock()

	status := rt.status
	if status == 0 {
		status = http.StatusOK
	}
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewReader(nil)),
		Header:     http.Header{"ETag": {`"etag"`}},
		Request:    req,
	}, nil
}

func newMockStore(t *testing.T, rt *recordingTransport) *S3Store {
	t.Helper()
	cfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion("us-east-1"),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("AKIA", "SECRET", "")),
	)
	require.NoError(t, err)
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String("https://mock.s3.local")
		o.HTTPClient = &http.Client{Transport: rt}
		o.UsePathStyle = true
	})
	return NewS3StoreWithClient(client, "exports-bucket", "exports/")
}

func TestS3StorePutsUnderPrefix(t *testing.T) {
	rt := &recordingTransport{}
	store := newMockStore(t, rt)

	err := store.Put(context.Background(), "games-2025-10-01.csv", "text/csv", []byte("id,date\n"))
	require.NoError(t, err)

	require.Len(t, rt.requests, 1)
	req := rt.requests[0]
	assert.Equal(t, http.MethodPut, req.method)
	assert.Equal(t, "/exports-bucket/exports/games-2025-10-01.csv", req.path)
	assert.Equal(t, "text/csv", req.contentType)
	assert.Contains(t, string(req.body), "id,date")
}

func TestS3StoreReportsFailure(t *testing.T) {
	rt := &recordingTransport{status: http.StatusForbidden}
	store := newMockStore(t, rt)

	err := store.Put(context.Background(), "x.csv", "text/csv", []byte("x"))
	assert.Error(t, err)
}

func TestNewS3StoreRequiresBucket(t *testing.T) {
	_, err := NewS3Store(context.Background(), S3Config{})
	assert.Error(t, err)
}

func TestMemoryStoreCopiesData(t *testing.T) {
	store := NewMemoryStore()
	data := []byte("a,b")

	require.NoError(t, store.Put(context.Background(), "k", "text/csv", data))
	data[0] = 'z'

	obj, ok := store.Get("k")
	require.True(t, ok)
	assert.Equal(t, "a,b", string(obj.Data))
	assert.Equal(t, "text/csv", obj.ContentType)
	assert.Equal(t, 1, store.Len())
}
