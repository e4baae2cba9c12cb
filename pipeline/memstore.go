package pipeline

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory StageStore for tests and single-process
// use. Safe for concurrent access.
type MemoryStore struct {
	mu        sync.RWMutex
	records   map[string]map[Stage]*StageRecord
	snapshots map[string]*FailureSnapshot
}

// NewMemoryStore creates an empty in-memory stage store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records:   make(map[string]map[Stage]*StageRecord),
		snapshots: make(map[string]*FailureSnapshot),
	}
}

func (s *MemoryStore) SaveRecord(ctx context.Context, deckID string, rec *StageRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	byStage, ok := s.records[deckID]
	if !ok {
		byStage = make(map[Stage]*StageRecord)
		s.records[deckID] = byStage
	}
	byStage[rec.Stage] = rec.Clone()
	return nil
}

func (s *MemoryStore) LoadRecord(ctx context.Context, deckID string, stage Stage) (*StageRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[deckID][stage]
	if !ok {
		return nil, nil
	}
	return rec.Clone(), nil
}

func (s *MemoryStore) LoadRecords(ctx context.Context, deckID string) (map[Stage]*StageRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byStage, ok := s.records[deckID]
	if !ok {
		return nil, nil
	}
	out := make(map[Stage]*StageRecord, len(byStage))
	for stage, rec := range byStage {
		out[stage] = rec.Clone()
	}
	return out, nil
}

func (s *MemoryStore) SaveSnapshot(ctx context.Context, deckID string, snap *FailureSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := *snap
	clone.Steps = make([]*StageRecord, len(snap.Steps))
	for i, rec := range snap.Steps {
		clone.Steps[i] = rec.Clone()
	}
	s.snapshots[deckID] = &clone
	return nil
}

func (s *MemoryStore) LoadSnapshot(ctx context.Context, deckID string) (*FailureSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.snapshots[deckID]
	if !ok {
		return nil, nil
	}
	clone := *snap
	clone.Steps = make([]*StageRecord, len(snap.Steps))
	for i, rec := range snap.Steps {
		clone.Steps[i] = rec.Clone()
	}
	return &clone, nil
}

func (s *MemoryStore) DeleteSnapshot(ctx context.Context, deckID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.snapshots, deckID)
	return nil
}

var _ StageStore = (*MemoryStore)(nil)
