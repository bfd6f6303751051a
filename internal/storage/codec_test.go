package storage

import (
	"errors"
	"testing"

	"genopheno/internal/model"
)

func TestPipelineCodecChecksVersion(t *testing.T) {
	in := model.Pipeline{
		VersionedRecord: CurrentVersion(),
		ID:              "p1",
		Config:          "devoPhases;phases=5;step=1;threshold=1.0<directNumGrid",
		Target:          model.Target{Kind: "schedule", Body: "worm-5x1", Phases: 5},
		GenomeKind:      "genome.Vector[float64]",
		GenomeLength:    5,
	}
	data, err := EncodePipeline(in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	out, err := DecodePipeline(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out != in {
		t.Fatalf("pipeline changed: %+v != %+v", out, in)
	}

	in.CodecVersion = CurrentCodecVersion + 1
	data, _ = EncodePipeline(in)
	if _, err := DecodePipeline(data); !errors.Is(err, ErrVersionMismatch) {
		t.Fatalf("expected version mismatch, got=%v", err)
	}
}

func TestGenomeCodecChecksVersion(t *testing.T) {
	data := []byte(`{"schema_version":1,"codec_version":1,"id":"g1","pipeline_id":"p1","reals":[0.5],"bits":[true,false]}`)
	g, err := DecodeGenome(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if g.ID != "g1" || g.PipelineID != "p1" || len(g.Reals) != 1 || len(g.Bits) != 2 {
		t.Fatalf("unexpected genome: %+v", g)
	}

	if _, err := DecodeGenome([]byte(`{"id":"g1"}`)); !errors.Is(err, ErrVersionMismatch) {
		t.Fatalf("expected version mismatch, got=%v", err)
	}
	if _, err := DecodeGenome([]byte(`{`)); err == nil {
		t.Fatal("expected malformed json error")
	}
}
