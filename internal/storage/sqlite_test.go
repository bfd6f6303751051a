//go:build sqlite

package storage

import (
	"context"
	"path/filepath"
	"testing"

	"genopheno/internal/model"
)

func TestSQLiteStorePipelineAndGenomeRoundTrip(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "genopheno.db")

	store := NewSQLiteStore(dbPath)
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	pipeline := model.Pipeline{
		VersionedRecord: CurrentVersion(),
		ID:              "p1",
		Config:          "MLP;nIL=1;r=0.65",
		Target:          model.Target{Kind: "controller", Inputs: 4, Outputs: 2},
		GenomeKind:      "genome.Vector[float64]",
		GenomeLength:    18,
	}
	if err := store.SavePipeline(ctx, pipeline); err != nil {
		t.Fatalf("save pipeline: %v", err)
	}
	loaded, ok, err := store.GetPipeline(ctx, "p1")
	if err != nil {
		t.Fatalf("get pipeline: %v", err)
	}
	if !ok || loaded.Config != pipeline.Config || loaded.Target != pipeline.Target {
		t.Fatalf("unexpected pipeline loaded: ok=%t %+v", ok, loaded)
	}

	for _, id := range []string{"g2", "g1"} {
		genome := model.Genome{
			VersionedRecord: CurrentVersion(),
			ID:              id,
			PipelineID:      "p1",
			Reals:           make([]float64, 18),
		}
		if err := store.SaveGenome(ctx, genome); err != nil {
			t.Fatalf("save genome %s: %v", id, err)
		}
	}
	if err := store.SaveGenome(ctx, model.Genome{VersionedRecord: CurrentVersion(), ID: "other", PipelineID: "p2"}); err != nil {
		t.Fatalf("save other genome: %v", err)
	}

	genomes, err := store.ListGenomes(ctx, "p1")
	if err != nil {
		t.Fatalf("list genomes: %v", err)
	}
	if len(genomes) != 2 || genomes[0].ID != "g1" || len(genomes[0].Reals) != 18 {
		t.Fatalf("unexpected genomes: %+v", genomes)
	}
	all, err := store.ListGenomes(ctx, "")
	if err != nil {
		t.Fatalf("list all genomes: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 genomes, got=%d", len(all))
	}

	if err := store.DeleteGenome(ctx, "g1"); err != nil {
		t.Fatalf("delete genome: %v", err)
	}
	if _, ok, err := store.GetGenome(ctx, "g1"); err != nil || ok {
		t.Fatalf("expected g1 deleted, ok=%t err=%v", ok, err)
	}

	pipelines, err := store.ListPipelines(ctx)
	if err != nil {
		t.Fatalf("list pipelines: %v", err)
	}
	if len(pipelines) != 1 {
		t.Fatalf("expected one pipeline, got=%d", len(pipelines))
	}
}

func TestSQLiteStoreRequiresInit(t *testing.T) {
	store := NewSQLiteStore(filepath.Join(t.TempDir(), "genopheno.db"))
	if _, _, err := store.GetGenome(context.Background(), "g1"); err == nil {
		t.Fatal("expected not initialized error")
	}
	if err := NewSQLiteStore("").Init(context.Background()); err == nil {
		t.Fatal("expected path required error")
	}
}

func TestNewStoreSQLite(t *testing.T) {
	store, err := NewStore("sqlite", filepath.Join(t.TempDir(), "genopheno.db"))
	if err != nil {
		t.Fatalf("new sqlite store: %v", err)
	}
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := CloseIfSupported(store); err != nil {
		t.Fatalf("close: %v", err)
	}
}
