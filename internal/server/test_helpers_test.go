package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/WreckedIT/MoveMate/internal/inventory"
	"github.com/gin-gonic/gin"
)

var serverTestEpoch = time.Unix(1723000000, 0).UTC()

type routerFixture struct {
	handler    http.Handler
	store      *inventory.MemoryStore
	dispatcher *ActivityDispatcher
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dispatcher := NewActivityDispatcher()
	store := inventory.NewMemoryStore(inventory.MemoryStoreConfig{
		Clock:             steppedClock(serverTestEpoch, time.Second),
		ActivityPublisher: dispatcher.Publish,
	})
	handler, err := NewHTTPHandler(Dependencies{
		Store:      store,
		Dispatcher: dispatcher,
	})
	if err != nil {
		t.Fatalf("build http handler: %v", err)
	}
	return &routerFixture{handler: handler, store: store, dispatcher: dispatcher}
}

// steppedClock hands out strictly increasing timestamps so list orderings in
// assertions never depend on wall-clock resolution.
func steppedClock(start time.Time, step time.Duration) func() time.Time {
	var mu sync.Mutex
	next := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		current := next
		next = next.Add(step)
		return current
	}
}

func (fixture *routerFixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader = http.NoBody
	if body != "" {
		reader = strings.NewReader(body)
	}
	request := httptest.NewRequest(method, path, reader)
	if body != "" {
		request.Header.Set("Content-Type", "application/json")
	}
	recorder := httptest.NewRecorder()
	fixture.handler.ServeHTTP(recorder, request)
	return recorder
}

func (fixture *routerFixture) mustCreateBox(t *testing.T, body string) map[string]any {
	t.Helper()
	recorder := fixture.do(t, http.MethodPost, "/api/boxes", body)
	if recorder.Code != http.StatusCreated {
		t.Fatalf("create box: expected status %d, got %d (body %s)", http.StatusCreated, recorder.Code, recorder.Body.String())
	}
	return decodeObject(t, recorder)
}

func (fixture *routerFixture) mustCreateOwner(t *testing.T, body string) map[string]any {
	t.Helper()
	recorder := fixture.do(t, http.MethodPost, "/api/owners", body)
	if recorder.Code != http.StatusCreated {
		t.Fatalf("create owner: expected status %d, got %d (body %s)", http.StatusCreated, recorder.Code, recorder.Body.String())
	}
	return decodeObject(t, recorder)
}

func decodeObject(t *testing.T, recorder *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.Unmarshal(recorder.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response object: %v (body %s)", err, recorder.Body.String())
	}
	return payload
}

func decodeList(t *testing.T, recorder *httptest.ResponseRecorder) []map[string]any {
	t.Helper()
	var payload []map[string]any
	if err := json.Unmarshal(recorder.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response list: %v (body %s)", err, recorder.Body.String())
	}
	return payload
}

func objectID(t *testing.T, payload map[string]any) int64 {
	t.Helper()
	raw, ok := payload["id"].(float64)
	if !ok {
		t.Fatalf("payload carries no numeric id: %v", payload)
	}
	return int64(raw)
}

func expectError(t *testing.T, recorder *httptest.ResponseRecorder, status int, message string) {
	t.Helper()
	if recorder.Code != status {
		t.Fatalf("expected status %d, got %d (body %s)", status, recorder.Code, recorder.Body.String())
	}
	payload := decodeObject(t, recorder)
	if payload["error"] != message {
		t.Fatalf("expected error %q, got %v", message, payload["error"])
	}
}
