package capfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/mcdev12/dynastycap/go/internal/outbox"
	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"
)

// Hub pushes relayed cap events to WebSocket subscribers of a league
type Hub struct {
	leagues map[uuid.UUID]map[*subscriber]struct{}
	mu      sync.RWMutex

	upgrader websocket.Upgrader
	config   Config

	broadcastCh chan broadcast
	// event ids already queued, so a relay retry does not repeat them
	delivered *gocache.Cache
}

type subscriber struct {
	id          string
	leagueID    uuid.UUID
	conn        *websocket.Conn
	send        chan []byte
	hub         *Hub
	connectedAt time.Time
}

type broadcast struct {
	leagueID uuid.UUID
	data     []byte
}

// Config holds WebSocket settings for the feed
type Config struct {
	WriteTimeout    time.Duration
	ReadTimeout     time.Duration
	PingInterval    time.Duration
	MaxMessageSize  int64
	ReadBufferSize  int
	WriteBufferSize int
	SendBuffer      int
	BacklogSize     int
	DedupeWindow    time.Duration
	CheckOrigin     func(r *http.Request) bool
}

// DefaultConfig returns the default feed configuration
func DefaultConfig() Config {
	return Config{
		WriteTimeout:    10 * time.Second,
		ReadTimeout:     60 * time.Second,
		PingInterval:    30 * time.Second,
		MaxMessageSize:  1024,
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		SendBuffer:      256,
		BacklogSize:     1000,
		DedupeWindow:    time.Hour,
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}
}

// NewHub creates a feed hub. Call Start to begin delivering events.
func NewHub(config Config) *Hub {
	return &Hub{
		leagues: make(map[uuid.UUID]map[*subscriber]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
		config:      config,
		broadcastCh: make(chan broadcast, config.BacklogSize),
		delivered:   gocache.New(config.DedupeWindow, config.DedupeWindow*2),
	}
}

// Start delivers queued events until ctx is done
func (h *Hub) Start(ctx context.Context) {
	log.Info().Msg("cap feed started")
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			log.Info().Msg("cap feed shutting down")
			return
		case msg := <-h.broadcastCh:
			h.deliver(msg)
		}
	}
}

// Publish queues event for the league's subscribers. The feed is best effort:
// a full backlog drops the event rather than stalling the outbox relay. An
// event id seen within DedupeWindow is skipped.
func (h *Hub) Publish(_ context.Context, event outbox.Event) error {
	data, err := json.Marshal(outbox.NewEnvelope(event))
	if err != nil {
		return fmt.Errorf("failed to marshal feed envelope: %w", err)
	}
	key := event.ID.String()
	if err := h.delivered.Add(key, struct{}{}, gocache.DefaultExpiration); err != nil {
		log.Debug().Str("event_id", key).Msg("event already queued for feed, skipping")
		return nil
	}
	select {
	case h.broadcastCh <- broadcast{leagueID: event.LeagueID, data: data}:
	default:
		h.delivered.Delete(key)
		log.Warn().
			Str("league_id", event.LeagueID.String()).
			Str("event_type", event.EventType).
			Msg("feed backlog full, dropping event")
	}
	return nil
}

// ServeHTTP upgrades /feed?league_id=<uuid> to a WebSocket subscription
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("league_id")
	if raw == "" {
		http.Error(w, "league_id is required", http.StatusBadRequest)
		return
	}
	leagueID, err := uuid.Parse(raw)
	if err != nil {
		http.Error(w, "invalid league_id format", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response.
		log.Error().Err(err).Str("league_id", leagueID.String()).Msg("failed to upgrade feed connection")
		return
	}

	s := &subscriber{
		id:          uuid.New().String(),
		leagueID:    leagueID,
		conn:        conn,
		send:        make(chan []byte, h.config.SendBuffer),
		hub:         h,
		connectedAt: time.Now(),
	}
	h.register(s)

	go s.writePump()
	go s.readPump()
}

// Subscribers returns how many connections are watching leagueID
func (h *Hub) Subscribers(leagueID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.leagues[leagueID])
}

func (h *Hub) register(s *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.leagues[s.leagueID] == nil {
		h.leagues[s.leagueID] = make(map[*subscriber]struct{})
	}
	h.leagues[s.leagueID][s] = struct{}{}

	log.Debug().
		Str("subscriber_id", s.id).
		Str("league_id", s.leagueID.String()).
		Int("subscribers", len(h.leagues[s.leagueID])).
		Msg("feed subscriber registered")
}

func (h *Hub) unregister(s *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs, ok := h.leagues[s.leagueID]
	if !ok {
		return
	}
	if _, ok := subs[s]; !ok {
		return
	}
	delete(subs, s)
	close(s.send)
	if len(subs) == 0 {
		delete(h.leagues, s.leagueID)
	}

	log.Debug().
		Str("subscriber_id", s.id).
		Str("league_id", s.leagueID.String()).
		Dur("connected_for", time.Since(s.connectedAt)).
		Msg("feed subscriber unregistered")
}

// deliver sends under the read lock so unregister cannot close a channel mid-send.
func (h *Hub) deliver(msg broadcast) {
	var slow []*subscriber

	h.mu.RLock()
	subs := h.leagues[msg.leagueID]
	for s := range subs {
		select {
		case s.send <- msg.data:
		default:
			slow = append(slow, s)
		}
	}
	delivered := len(subs) - len(slow)
	h.mu.RUnlock()

	for _, s := range slow {
		log.Warn().
			Str("subscriber_id", s.id).
			Str("league_id", s.leagueID.String()).
			Msg("feed subscriber too slow, closing")
		h.unregister(s)
		s.conn.Close()
	}

	log.Debug().
		Str("league_id", msg.leagueID.String()).
		Int("subscribers", delivered).
		Msg("feed event delivered")
}

func (h *Hub) closeAll() {
	h.mu.RLock()
	var all []*subscriber
	for _, subs := range h.leagues {
		for s := range subs {
			all = append(all, s)
		}
	}
	h.mu.RUnlock()

	for _, s := range all {
		h.unregister(s)
	}
}

func (s *subscriber) writePump() {
	ticker := time.NewTicker(s.hub.config.PingInterval)
	defer func() {
		ticker.Stop()
		s.conn.Close()
		s.hub.unregister(s)
	}()

	for {
		select {
		case message, ok := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(s.hub.config.WriteTimeout))
			if !ok {
				s.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Error().Err(err).Str("subscriber_id", s.id).Msg("failed to write feed message")
				return
			}

		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(s.hub.config.WriteTimeout))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Debug().Err(err).Str("subscriber_id", s.id).Msg("failed to ping feed subscriber")
				return
			}
		}
	}
}

// readPump only exists to process pongs and notice the client going away.
func (s *subscriber) readPump() {
	defer func() {
		s.hub.unregister(s)
		s.conn.Close()
	}()

	s.conn.SetReadLimit(s.hub.config.MaxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(s.hub.config.ReadTimeout))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(s.hub.config.ReadTimeout))
		return nil
	})

	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				log.Error().Err(err).Str("subscriber_id", s.id).Msg("unexpected feed close")
			}
			return
		}
		s.conn.SetReadDeadline(time.Now().Add(s.hub.config.ReadTimeout))
	}
}
