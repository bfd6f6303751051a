package storage

import (
	"context"
	"errors"
	"sort"
	"sync"

	"genopheno/internal/model"
)

var errNotInitialized = errors.New("store is not initialized")

type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	pipelines   map[string]model.Pipeline
	genomes     map[string]model.Genome
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.pipelines = make(map[string]model.Pipeline)
	s.genomes = make(map[string]model.Genome)
	return nil
}

func (s *MemoryStore) SavePipeline(_ context.Context, pipeline model.Pipeline) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errNotInitialized
	}
	s.pipelines[pipeline.ID] = pipeline
	return nil
}

func (s *MemoryStore) GetPipeline(_ context.Context, id string) (model.Pipeline, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pipeline, ok := s.pipelines[id]
	return pipeline, ok, nil
}

func (s *MemoryStore) ListPipelines(_ context.Context) ([]model.Pipeline, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Pipeline, 0, len(s.pipelines))
	for _, p := range s.pipelines {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) SaveGenome(_ context.Context, genome model.Genome) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errNotInitialized
	}
	genome.Reals = append([]float64(nil), genome.Reals...)
	genome.Bits = append([]bool(nil), genome.Bits...)
	s.genomes[genome.ID] = genome
	return nil
}

func (s *MemoryStore) GetGenome(_ context.Context, id string) (model.Genome, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	genome, ok := s.genomes[id]
	return genome, ok, nil
}

func (s *MemoryStore) ListGenomes(_ context.Context, pipelineID string) ([]model.Genome, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.Genome
	for _, g := range s.genomes {
		if pipelineID == "" || g.PipelineID == pipelineID {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) DeleteGenome(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.genomes, id)
	return nil
}
