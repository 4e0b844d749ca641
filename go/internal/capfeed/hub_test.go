package capfeed

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/mcdev12/dynastycap/go/internal/outbox"
)

func startHub(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(DefaultConfig())
	go hub.Start(ctx)

	mux := http.NewServeMux()
	mux.Handle("/feed", hub)
	srv := httptest.NewServer(mux)
	t.Cleanup(func() {
		srv.Close()
		cancel()
	})
	return hub, srv
}

func dial(t *testing.T, hub *Hub, srv *httptest.Server, leagueID uuid.UUID) *websocket.Conn {
	t.Helper()
	before := hub.Subscribers(leagueID)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/feed?league_id=" + leagueID.String()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	deadline := time.Now().Add(2 * time.Second)
	for hub.Subscribers(leagueID) <= before {
		if time.Now().After(deadline) {
			t.Fatalf("subscriber for league %s never registered", leagueID)
		}
		time.Sleep(5 * time.Millisecond)
	}
	return conn
}

func TestHubDeliversToLeagueSubscribers(t *testing.T) {
	hub, srv := startHub(t)
	leagueID := uuid.New()
	conn := dial(t, hub, srv, leagueID)

	event := outbox.Event{
		ID:        uuid.New(),
		LeagueID:  leagueID,
		EventType: "ContractReleased",
		Payload:   json.RawMessage(`{"contract_id":"abc"}`),
		CreatedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	if err := hub.Publish(context.Background(), event); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage() error = %v", err)
	}
	var got outbox.Envelope
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if diff := cmp.Diff(outbox.NewEnvelope(event), got); diff != "" {
		t.Errorf("envelope mismatch (-want +got):\n%s", diff)
	}
}

func TestHubFiltersByLeague(t *testing.T) {
	hub, srv := startHub(t)
	watched, other := uuid.New(), uuid.New()
	conn := dial(t, hub, srv, watched)

	event := outbox.Event{ID: uuid.New(), LeagueID: other, EventType: "ContractCreated", Payload: json.RawMessage(`{}`)}
	if err := hub.Publish(context.Background(), event); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	if _, data, err := conn.ReadMessage(); err == nil {
		t.Fatalf("received %s for another league", data)
	}
}

func TestHubSkipsRepeatedEvent(t *testing.T) {
	hub, srv := startHub(t)
	leagueID := uuid.New()
	conn := dial(t, hub, srv, leagueID)

	event := outbox.Event{ID: uuid.New(), LeagueID: leagueID, EventType: "ContractExtended", Payload: json.RawMessage(`{}`)}
	for i := 0; i < 2; i++ {
		if err := hub.Publish(context.Background(), event); err != nil {
			t.Fatalf("Publish() #%d error = %v", i+1, err)
		}
	}
	next := outbox.Event{ID: uuid.New(), LeagueID: leagueID, EventType: "ContractReleased", Payload: json.RawMessage(`{}`)}
	if err := hub.Publish(context.Background(), next); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	var got []string
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for len(got) < 2 {
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("ReadMessage() error = %v", err)
		}
		var env outbox.Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			t.Fatalf("Unmarshal() error = %v", err)
		}
		got = append(got, env.EventID)
	}
	if diff := cmp.Diff([]string{event.ID.String(), next.ID.String()}, got); diff != "" {
		t.Errorf("delivered events mismatch (-want +got):\n%s", diff)
	}
}

func TestHubUnregistersOnClose(t *testing.T) {
	hub, srv := startHub(t)
	leagueID := uuid.New()
	conn := dial(t, hub, srv, leagueID)

	conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for hub.Subscribers(leagueID) != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("Subscribers() = %d after close, want 0", hub.Subscribers(leagueID))
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHubRejectsBadLeague(t *testing.T) {
	_, srv := startHub(t)

	tests := []struct {
		name  string
		query string
	}{
		{name: "missing", query: ""},
		{name: "malformed", query: "?league_id=not-a-uuid"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Get(srv.URL + "/feed" + tt.query)
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			resp.Body.Close()
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
			}
		})
	}
}
