package storage

import (
	"context"
	"errors"
	"sync"
)

// MemoryStore keeps records for the lifetime of the process. It is the
// default backend and doubles as the reference implementation for tests.
type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	episodes    map[string]EpisodeRecord
	episodeIDs  []string // insertion order, oldest first
	runs        map[string]RunSummary
	runIDs      []string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.episodes = make(map[string]EpisodeRecord)
	s.episodeIDs = nil
	s.runs = make(map[string]RunSummary)
	s.runIDs = nil
	return nil
}

func (s *MemoryStore) SaveEpisode(_ context.Context, rec EpisodeRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errors.New("memory store not initialized")
	}
	if _, exists := s.episodes[rec.ID]; !exists {
		s.episodeIDs = append(s.episodeIDs, rec.ID)
	}
	s.episodes[rec.ID] = rec
	return nil
}

func (s *MemoryStore) GetEpisode(_ context.Context, id string) (EpisodeRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return EpisodeRecord{}, false, errors.New("memory store not initialized")
	}
	rec, ok := s.episodes[id]
	return rec, ok, nil
}

func (s *MemoryStore) ListEpisodes(_ context.Context, limit int) ([]EpisodeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return nil, errors.New("memory store not initialized")
	}

	out := make([]EpisodeRecord, 0, len(s.episodeIDs))
	for i := len(s.episodeIDs) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, s.episodes[s.episodeIDs[i]])
	}
	return out, nil
}

func (s *MemoryStore) SaveRunSummary(_ context.Context, sum RunSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errors.New("memory store not initialized")
	}
	if _, exists := s.runs[sum.RunID]; !exists {
		s.runIDs = append(s.runIDs, sum.RunID)
	}
	s.runs[sum.RunID] = sum
	return nil
}

func (s *MemoryStore) GetRunSummary(_ context.Context, runID string) (RunSummary, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return RunSummary{}, false, errors.New("memory store not initialized")
	}
	sum, ok := s.runs[runID]
	return sum, ok, nil
}

func (s *MemoryStore) ListRunSummaries(_ context.Context, limit int) ([]RunSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return nil, errors.New("memory store not initialized")
	}

	out := make([]RunSummary, 0, len(s.runIDs))
	for i := len(s.runIDs) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, s.runs[s.runIDs[i]])
	}
	return out, nil
}
