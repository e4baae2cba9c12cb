// Package server exposes deck generation over HTTP and pushes stage
// progress to browser clients over a websocket hub.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/emostyz/marketing-sub014/logger"
	"github.com/emostyz/marketing-sub014/pipeline"
)

// Pipeline is the slice of the orchestrator the server needs.
type Pipeline interface {
	Run(ctx context.Context, in pipeline.RunInput) *pipeline.RunResult
	Resume(ctx context.Context, in pipeline.RunInput) *pipeline.RunResult
	Status(ctx context.Context, deckID string) ([]*pipeline.StageRecord, error)
}

// DeckServer serves the deck generation API and the progress
// websocket. It also implements pipeline.ProgressEmitter so stage
// transitions reach connected clients as they happen.
type DeckServer struct {
	pipeline       Pipeline
	logger         *zap.SugaredLogger
	allowedOrigins map[string]bool

	httpServer *http.Server
	mux        *http.ServeMux

	mu         sync.RWMutex
	clients    map[*Client]bool
	running    map[string]bool
	register   chan *Client
	unregister chan *Client

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

var _ pipeline.ProgressEmitter = (*DeckServer)(nil)

// Config holds server configuration.
type Config struct {
	Port           int
	AllowedOrigins []string
	Logger         *zap.SugaredLogger
}

// NewDeckServer wires the server around the given pipeline. The
// pipeline may be nil at construction and attached with SetPipeline,
// which lets the orchestrator use the server as its progress emitter.
func NewDeckServer(p Pipeline, cfg Config) *DeckServer {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	origins := make(map[string]bool, len(cfg.AllowedOrigins))
	for _, o := range cfg.AllowedOrigins {
		origins[o] = true
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &DeckServer{
		pipeline:       p,
		logger:         log,
		allowedOrigins: origins,
		mux:            http.NewServeMux(),
		clients:        make(map[*Client]bool),
		running:        make(map[string]bool),
		register:       make(chan *Client),
		unregister:     make(chan *Client),
		ctx:            ctx,
		cancel:         cancel,
	}
	s.registerRoutes()
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // websocket connections stay open
	}
	return s
}

// SetPipeline attaches the pipeline after construction.
func (s *DeckServer) SetPipeline(p Pipeline) {
	s.pipeline = p
}

// Handler exposes the routed mux, mainly for tests.
func (s *DeckServer) Handler() http.Handler {
	return s.mux
}

// Start runs the client hub and blocks serving HTTP until Shutdown or
// a listener error.
func (s *DeckServer) Start() error {
	s.wg.Add(1)
	go s.runHub()

	s.logger.Infow("Deck server listening",
		"addr", s.httpServer.Addr,
	)
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown stops accepting connections, closes websocket clients and
// waits for in-flight work.
func (s *DeckServer) Shutdown(ctx context.Context) error {
	s.logger.Infow("Deck server shutting down")
	s.cancel()

	err := s.httpServer.Shutdown(ctx)

	s.mu.Lock()
	for client := range s.clients {
		client.close()
		delete(s.clients, client)
	}
	s.mu.Unlock()

	s.wg.Wait()
	return err
}

// runHub serializes client registration so the clients map is never
// mutated concurrently with a broadcast snapshot.
func (s *DeckServer) runHub() {
	defer s.wg.Done()
	for {
		select {
		case <-s.ctx.Done():
			return
		case client := <-s.register:
			s.mu.Lock()
			s.clients[client] = true
			count := len(s.clients)
			s.mu.Unlock()
			s.logger.Debugw("Websocket client connected",
				"client_id", client.id,
				"clients", count,
			)
		case client := <-s.unregister:
			s.mu.Lock()
			if s.clients[client] {
				delete(s.clients, client)
				client.close()
			}
			count := len(s.clients)
			s.mu.Unlock()
			s.logger.Debugw("Websocket client disconnected",
				"client_id", client.id,
				"clients", count,
			)
		}
	}
}

// EmitStage broadcasts one stage transition to all connected clients.
func (s *DeckServer) EmitStage(deckID string, rec *pipeline.StageRecord) {
	msg := StageUpdateMessage{
		Type:      "stage",
		DeckID:    deckID,
		Stage:     string(rec.Stage),
		Status:    string(rec.Status),
		Error:     rec.Error,
		Timestamp: time.Now().Unix(),
	}
	sent := s.broadcastMessage(msg)
	s.logger.Debugw("Broadcasted stage update",
		logger.FieldDeckID, deckID,
		logger.FieldStage, rec.Stage,
		logger.FieldStatus, rec.Status,
		"clients", sent,
	)
}

// broadcastMessage sends a message to all connected clients. Returns
// the number of clients that accepted it (send channel not full).
func (s *DeckServer) broadcastMessage(msg interface{}) int {
	s.mu.RLock()
	clients := make([]*Client, 0, len(s.clients))
	for client := range s.clients {
		clients = append(clients, client)
	}
	s.mu.RUnlock()

	sent := 0
	for _, client := range clients {
		select {
		case client.sendMsg <- msg:
			sent++
		default:
			// Channel full - skip
		}
	}
	return sent
}

// markRunning reserves a deck id for one in-flight run. Returns false
// when a run for the deck is already active.
func (s *DeckServer) markRunning(deckID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running[deckID] {
		return false
	}
	s.running[deckID] = true
	return true
}

func (s *DeckServer) markDone(deckID string) {
	s.mu.Lock()
	delete(s.running, deckID)
	s.mu.Unlock()
}
