package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/mindcare/therapist-api/pkg/apperror"
	"github.com/mindcare/therapist-api/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const recordJSON = `{
	"id": "b7a9c921-8a3e-4c3e-9b21-0a2c1d3e4f50",
	"full_name": "Dr. Anna Silva",
	"phone": "0771234567",
	"email": "anna@example.com",
	"address": "12 Lake Road, Colombo",
	"nic_number": "912345678V",
	"work_start_year": "2012",
	"image_path": "/uploads/anna.png"
}`

func newTestClient(serverURL, token string) *Client {
	return NewClient(serverURL, StaticTokenStore(token), testFallbackID, logger.NewNop())
}

func TestNormalizeRecord_WrappedAndBareAgree(t *testing.T) {
	bare, err := normalizeRecord([]byte(recordJSON))
	require.NoError(t, err)

	wrapped, err := normalizeRecord([]byte(`{"data": ` + recordJSON + `}`))
	require.NoError(t, err)

	assert.Equal(t, bare, wrapped)
	assert.Equal(t, "Dr. Anna Silva", wrapped.FullName)
	assert.Equal(t, "912345678V", wrapped.NICNumber)
}

func TestNormalizeRecord_NonObjectPayload(t *testing.T) {
	_, err := normalizeRecord([]byte(`{"data": [1, 2, 3]}`))
	assert.ErrorIs(t, err, apperror.ErrInvalidResponse)
}

func TestFetchProfile_HTMLBodyIsInvalidResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("<!DOCTYPE html><html><body>login</body></html>"))
	}))
	defer server.Close()

	c := newTestClient(server.URL, "")
	_, err := c.FetchProfile(context.Background(), "abc")

	assert.ErrorIs(t, err, apperror.ErrInvalidResponse)
}

func TestFetchProfile_RetriesExactlyOnce(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data": ` + recordJSON + `}`))
	}))
	defer server.Close()

	c := newTestClient(server.URL, "")
	record, err := c.FetchProfile(context.Background(), "abc")

	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, "Dr. Anna Silva", record.FullName)

	cached, ok := c.Cache().Get("abc")
	require.True(t, ok)
	assert.Equal(t, record.Email, cached.Email)
}

func TestFetchProfile_NoThirdAttempt(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c := newTestClient(server.URL, "")
	_, err := c.FetchProfile(context.Background(), "abc")

	assert.ErrorIs(t, err, apperror.ErrTransport)
	assert.Equal(t, int32(2), calls.Load())
}

func TestFetchProfile_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error": "not found"}`))
	}))
	defer server.Close()

	c := newTestClient(server.URL, "")
	_, err := c.FetchProfile(context.Background(), "abc")

	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestResolveImageURL(t *testing.T) {
	c := newTestClient("https://api.example.com", "")

	assert.Equal(t, "https://api.example.com/uploads/a.png", c.ResolveImageURL("/uploads/a.png"))
	assert.Equal(t, "https://api.example.com/uploads/a.png", c.ResolveImageURL("uploads/a.png"))
	// Already-resolved references pass through untouched.
	assert.Equal(t, "https://cdn.example.com/a.png", c.ResolveImageURL("https://cdn.example.com/a.png"))
	assert.Equal(t, "", c.ResolveImageURL(""))
}
