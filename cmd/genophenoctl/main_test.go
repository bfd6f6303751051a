package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func captureStdout(fn func() error) (string, error) {
	origStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		return "", err
	}

	os.Stdout = w
	runErr := fn()
	_ = w.Close()
	os.Stdout = origStdout

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		_ = r.Close()
		return "", err
	}
	_ = r.Close()
	return buf.String(), runErr
}

func runCapture(t *testing.T, args ...string) string {
	t.Helper()
	out, err := captureStdout(func() error {
		return run(context.Background(), args)
	})
	if err != nil {
		t.Fatalf("%s: %v", strings.Join(args, " "), err)
	}
	return out
}

func TestRunRequiresKnownCommand(t *testing.T) {
	if err := run(context.Background(), nil); err == nil || !strings.Contains(err.Error(), "usage:") {
		t.Fatalf("expected usage error, got=%v", err)
	}
	if err := run(context.Background(), []string{"evolve"}); err == nil || !strings.Contains(err.Error(), "unknown command") {
		t.Fatalf("expected unknown command error, got=%v", err)
	}
}

func TestFamiliesCommand(t *testing.T) {
	out := runCapture(t, "families", "--store", "memory")
	for _, want := range []string{"MLP", "SNN", "devoPhases-<threshold>-<phases>-<step>", "bitsToReals-<bits>"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in families output:\n%s", want, out)
		}
	}
}

func TestBodiesCommand(t *testing.T) {
	out := runCapture(t, "bodies", "--draw", "biped-4x3")
	if !strings.Contains(out, "cells=10") || !strings.Contains(out, "#..#") {
		t.Fatalf("unexpected body drawing:\n%s", out)
	}
	out = runCapture(t, "bodies")
	if !strings.Contains(out, "worm") {
		t.Fatalf("expected worm in body list:\n%s", out)
	}
}

func TestSizeCommand(t *testing.T) {
	out := runCapture(t, "size", "--store", "memory", "--config", "MLP;r=0.65;nIL=1", "--inputs", "4", "--outputs", "2")
	if !strings.Contains(out, "length=18") || !strings.Contains(out, "config=MLP;nIL=1;r=0.65") {
		t.Fatalf("unexpected size output: %s", out)
	}

	out = runCapture(t, "size", "--store", "memory", "--config", "MLP<bitsToReals-8", "--inputs", "40", "--outputs", "20", "--json")
	var summary map[string]any
	if err := json.Unmarshal([]byte(out), &summary); err != nil {
		t.Fatalf("decode json output: %v\n%s", err, out)
	}
	// widths [26]: 40*26 + 26*20 = 1560 reals, 8 bits each
	if summary["bits"].(float64) != 12480 {
		t.Fatalf("unexpected bit count: %v", summary["bits"])
	}

	out = runCapture(t, "size", "--store", "memory", "--config", "MLP<bitsToReals-8", "--inputs", "40", "--outputs", "20")
	if !strings.Contains(out, "length=12,480") {
		t.Fatalf("expected grouped length, got: %s", out)
	}
}

func TestSizeCommandErrors(t *testing.T) {
	if err := run(context.Background(), []string{"size", "--inputs", "4"}); err == nil {
		t.Fatal("expected missing config error")
	}
	if err := run(context.Background(), []string{"size", "--store", "memory", "--config", "LSTM", "--inputs", "4", "--outputs", "2"}); err == nil {
		t.Fatal("expected unknown family error")
	}
	if err := run(context.Background(), []string{"size", "--config", "MLP", "--kind", "grid", "--inputs", "4"}); err == nil {
		t.Fatal("expected missing body error")
	}
}

func TestConvertCommandWithTargetFile(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "target.yaml")
	if err := os.WriteFile(target, []byte("kind: schedule\nbody: worm-4x1\nphases: 2\n"), 0o644); err != nil {
		t.Fatalf("write target: %v", err)
	}
	genome := filepath.Join(dir, "genome.json")
	if err := os.WriteFile(genome, []byte(`{"reals":[0.2,1.5,3,0]}`), 0o644); err != nil {
		t.Fatalf("write genome: %v", err)
	}

	out := runCapture(t, "convert", "--store", "memory", "--config", "devoPhases-1.0-2-1<directNumGrid", "--target", target, "--genome", genome)
	if !strings.Contains(out, "phenotype=devo_schedule") || !strings.Contains(out, "phase_sizes=[1 2]") {
		t.Fatalf("unexpected convert output: %s", out)
	}
}

func TestConvertCommandZeroSpiking(t *testing.T) {
	out := runCapture(t, "convert", "--store", "memory", "--config", "SNN;plasticity=grouped", "--inputs", "4", "--outputs", "2", "--zero")
	if !strings.Contains(out, "phenotype=spiking") || !strings.Contains(out, "rules_") {
		t.Fatalf("unexpected convert output: %s", out)
	}

	if err := run(context.Background(), []string{"convert", "--store", "memory", "--config", "MLP", "--inputs", "4", "--outputs", "2"}); err == nil {
		t.Fatal("expected missing genome error")
	}
}

func TestSaveCommandMemory(t *testing.T) {
	out := runCapture(t, "save", "--store", "memory", "--config", "RNN", "--inputs", "3", "--outputs", "1", "--zero")
	if !strings.Contains(out, "saved genome_id=") || !strings.Contains(out, "store=memory") {
		t.Fatalf("unexpected save output: %s", out)
	}

	out = runCapture(t, "genomes", "--store", "memory")
	if !strings.Contains(out, "no genomes found") {
		t.Fatalf("expected empty memory store in a fresh process, got: %s", out)
	}
	if err := run(context.Background(), []string{"show", "--store", "memory", "--id", "missing"}); err == nil {
		t.Fatal("expected missing genome error")
	}
}

func TestDeleteCommandErrors(t *testing.T) {
	if err := run(context.Background(), []string{"delete", "--store", "memory"}); err == nil || !strings.Contains(err.Error(), "requires --id") {
		t.Fatalf("expected missing id error, got=%v", err)
	}
	if err := run(context.Background(), []string{"delete", "--store", "memory", "--id", "missing"}); err == nil || !strings.Contains(err.Error(), "genome not found") {
		t.Fatalf("expected genome not found error, got=%v", err)
	}
}
