package loki

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logtap/logtap/internal/ship"
)

func TestClient_Send(t *testing.T) {
	var payload Payload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "tenant-1", r.Header.Get("X-Scope-OrgID"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewClient(server.URL, "tenant-1", "secret")

	first := time.Now()
	second := first.Add(time.Second)
	entries := []ship.Entry{
		{Timestamp: first, Line: "message 1"},
		{Timestamp: second, Line: "message 2"},
	}

	err := client.Send(context.Background(), map[string]string{"app": "svc"}, entries)
	require.NoError(t, err)

	require.Len(t, payload.Streams, 1)
	stream := payload.Streams[0]
	assert.Equal(t, map[string]string{"app": "svc"}, stream.Stream)

	require.Len(t, stream.Values, 2)
	assert.Equal(t, strconv.FormatInt(first.UnixNano(), 10), stream.Values[0][0])
	assert.Equal(t, "message 1", stream.Values[0][1])
	assert.Equal(t, strconv.FormatInt(second.UnixNano(), 10), stream.Values[1][0])
	assert.Equal(t, "message 2", stream.Values[1][1])
}

func TestClient_Send_NoAuthHeaderWithoutToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewClient(server.URL, "tenant-1", "")

	err := client.Send(context.Background(), map[string]string{"app": "svc"}, []ship.Entry{
		{Timestamp: time.Now(), Line: "message"},
	})
	require.NoError(t, err)
}

func TestClient_Send_SingleAttemptOnError(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, "tenant-1", "")

	err := client.Send(context.Background(), map[string]string{"app": "svc"}, []ship.Entry{
		{Timestamp: time.Now(), Line: "message"},
	})
	assert.Error(t, err)

	assert.Equal(t, 1, attempts)
}

func TestClient_Send_EmptyBatchNoRequest(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer server.Close()

	client := NewClient(server.URL, "tenant-1", "")

	require.NoError(t, client.Send(context.Background(), map[string]string{"app": "svc"}, nil))
	assert.Equal(t, 0, requests)
}

func TestCreatePayload(t *testing.T) {
	now := time.Now()
	entries := []ship.Entry{
		{Timestamp: now, Line: "first"},
		{Timestamp: now.Add(time.Millisecond), Line: "second"},
		{Timestamp: now.Add(2 * time.Millisecond), Line: "third"},
	}

	payload := createPayload(map[string]string{"app": "svc", "env": "prod"}, entries)

	require.Len(t, payload.Streams, 1)
	stream := payload.Streams[0]
	assert.Equal(t, "svc", stream.Stream["app"])
	assert.Equal(t, "prod", stream.Stream["env"])

	require.Len(t, stream.Values, 3)
	assert.Equal(t, "first", stream.Values[0][1])
	assert.Equal(t, "second", stream.Values[1][1])
	assert.Equal(t, "third", stream.Values[2][1])
}
