package storage

import (
	"context"

	"genopheno/internal/model"
)

// Store persists sized pipelines and the genomes evaluated against them.
type Store interface {
	Init(ctx context.Context) error
	SavePipeline(ctx context.Context, pipeline model.Pipeline) error
	GetPipeline(ctx context.Context, id string) (model.Pipeline, bool, error)
	ListPipelines(ctx context.Context) ([]model.Pipeline, error)
	SaveGenome(ctx context.Context, genome model.Genome) error
	GetGenome(ctx context.Context, id string) (model.Genome, bool, error)
	ListGenomes(ctx context.Context, pipelineID string) ([]model.Genome, error)
	DeleteGenome(ctx context.Context, id string) error
}
