package server

import (
	"context"
	"net/http"
	"time"

	"github.com/emostyz/marketing-sub014/deck"
	"github.com/emostyz/marketing-sub014/logger"
	"github.com/emostyz/marketing-sub014/pipeline"
)

// generateRequest is the body for the generate and resume endpoints.
type generateRequest struct {
	Rows    deck.Rows        `json:"rows"`
	Context *deck.RunContext `json:"context,omitempty"`
}

// generateResponse acknowledges an accepted run.
type generateResponse struct {
	DeckID   string `json:"deck_id"`
	Accepted bool   `json:"accepted"`
}

// handleGenerate starts a pipeline run in the background and returns
// 202 immediately. Progress is observable via the status endpoint and
// the websocket hub.
func (s *DeckServer) handleGenerate(w http.ResponseWriter, r *http.Request) {
	s.startRun(w, r, s.pipeline.Run)
}

// handleResume continues a previously failed run from its last
// completed stage.
func (s *DeckServer) handleResume(w http.ResponseWriter, r *http.Request) {
	s.startRun(w, r, s.pipeline.Resume)
}

func (s *DeckServer) startRun(w http.ResponseWriter, r *http.Request, run func(ctx context.Context, in pipeline.RunInput) *pipeline.RunResult) {
	deckID := r.PathValue("id")
	if deckID == "" {
		writeError(w, http.StatusBadRequest, "Missing deck id")
		return
	}

	var req generateRequest
	if err := readJSON(w, r, &req); err != nil {
		return
	}
	if len(req.Rows) == 0 {
		writeError(w, http.StatusBadRequest, "No data rows supplied")
		return
	}

	if !s.markRunning(deckID) {
		writeError(w, http.StatusConflict, "A run for this deck is already in progress")
		return
	}

	s.logger.Infow("Deck run accepted",
		logger.FieldDeckID, deckID,
		logger.FieldRowCount, len(req.Rows),
	)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.markDone(deckID)

		result := run(s.ctx, pipeline.RunInput{
			DeckID:  deckID,
			Rows:    req.Rows,
			Context: req.Context,
		})

		msg := RunCompletedMessage{
			Type:      "run_completed",
			DeckID:    deckID,
			Status:    string(result.Status),
			Error:     result.Error,
			Timestamp: time.Now().Unix(),
		}
		if result.FinalPayload != nil {
			msg.SlideCount = result.FinalPayload.SlideCount
			msg.QualityScore = result.FinalPayload.QualityScore
		}
		s.broadcastMessage(msg)
	}()

	writeJSON(w, http.StatusAccepted, generateResponse{DeckID: deckID, Accepted: true})
}

// statusResponse is the status endpoint's body.
type statusResponse struct {
	DeckID string                  `json:"deck_id"`
	Steps  []*pipeline.StageRecord `json:"steps"`
}

func (s *DeckServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	deckID := r.PathValue("id")

	steps, err := s.pipeline.Status(r.Context(), deckID)
	if err != nil {
		s.logger.Errorw("Failed to load deck status",
			logger.FieldDeckID, deckID,
			logger.FieldError, err,
		)
		writeError(w, http.StatusInternalServerError, "Failed to load deck status")
		return
	}
	if steps == nil {
		writeError(w, http.StatusNotFound, "Unknown deck")
		return
	}

	writeJSON(w, http.StatusOK, statusResponse{DeckID: deckID, Steps: steps})
}

func (s *DeckServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	clientCount := len(s.clients)
	activeRuns := len(s.running)
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"clients":     clientCount,
		"active_runs": activeRuns,
	})
}
