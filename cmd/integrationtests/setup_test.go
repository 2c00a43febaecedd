package integrationtests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	bidding "auction-board/internal/biddingService"
	"auction-board/internal/database"
	"auction-board/internal/events"
	"auction-board/internal/realtime"
	"auction-board/internal/repository"
	"auction-board/internal/server"
	sessions "auction-board/internal/sessionService"
	"auction-board/internal/syncengine"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// TestStack is a fully wired server: services, change bus, hosted display and push hub
type TestStack struct {
	Router  *gin.Engine
	Bus     *events.Bus
	Display *syncengine.Engine
	Hub     *realtime.Hub
}

// SetupTestRouter initializes the router with an in-memory repository for integration testing.
func SetupTestRouter(t *testing.T) *TestStack {
	repo := repository.NewMemoryRepo()
	return SetupTestStack(t, repo, repo)
}

// SetupSQLiteRouter initializes the router on an in-memory SQLite datastore.
func SetupSQLiteRouter(t *testing.T) *TestStack {
	t.Helper()

	db, err := database.Open(database.SQLite, ":memory:")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(context.Background()))
	t.Cleanup(func() { db.Close() })

	repo := repository.NewSQLRepo(db)
	return SetupTestStack(t, repo, repo)
}

// SetupTestStack wires services, display engine and hub the way the server binary does.
func SetupTestStack(t *testing.T, bidRepo repository.BidRepository, sessionRepo repository.SessionRepository) *TestStack {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	bus := events.NewBus()
	biddingSvc := bidding.NewBiddingService(bidRepo, bus)
	sessionSvc := sessions.NewSessionService(sessionRepo, bus)

	display := syncengine.New(syncengine.NewServiceSource(sessionSvc, biddingSvc), syncengine.Config{
		Name:         "test-dashboard",
		PollInterval: time.Minute,
	})
	displaySub := bus.Subscribe(16, events.AllTables...)
	t.Cleanup(displaySub.Close)
	go display.Follow(ctx, displaySub.C)
	go display.Run(ctx)

	hub := realtime.NewHub()
	hubSub := bus.Subscribe(64, events.AllTables...)
	t.Cleanup(hubSub.Close)
	go hub.Run(ctx)
	go hub.Forward(ctx, hubSub.C)

	router := server.SetupRouter(server.Dependencies{
		Bids:     biddingSvc,
		Sessions: sessionSvc,
		Display:  display,
		Realtime: realtime.NewServer(realtime.ServerConfig{PingInterval: time.Second}, hub),
	})

	return &TestStack{Router: router, Bus: bus, Display: display, Hub: hub}
}

// ExecuteRequest executes an HTTP request and returns the response recorder.
func ExecuteRequest(t *testing.T, router http.Handler, method, url string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, url, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// ExecuteRequestAndParse executes an HTTP request on the given router and parses the response envelope
func ExecuteRequestAndParse(t *testing.T, router http.Handler, method, url string, body any) (map[string]any, *httptest.ResponseRecorder) {
	var reqBody []byte
	var err error

	switch v := body.(type) {
	case nil:
	case []byte:
		reqBody = v
	case string:
		reqBody = []byte(v)
	default:
		reqBody, err = json.Marshal(v)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
	}

	w := ExecuteRequest(t, router, method, url, reqBody)

	var resp map[string]any
	if len(w.Body.Bytes()) > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}
	}

	return resp, w
}

// CreateSession creates a session through the API and returns its id
func CreateSession(t *testing.T, router http.Handler, itemName string) string {
	t.Helper()

	resp, w := ExecuteRequestAndParse(t, router, http.MethodPost, "/sessions", map[string]any{
		"item_name":      itemName,
		"starting_price": 100,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	return resp["data"].(map[string]any)["id"].(string)
}

// PlaceBid upserts a bid through the API and returns the stored bid
func PlaceBid(t *testing.T, router http.Handler, sessionID string, body map[string]any) map[string]any {
	t.Helper()

	resp, w := ExecuteRequestAndParse(t, router, http.MethodPost, "/sessions/"+sessionID+"/bids", body)
	require.Equal(t, http.StatusOK, w.Code, "unexpected response: %v", resp)
	return resp["data"].(map[string]any)
}
