//go:build sqlite

package main

import (
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

func TestSaveListShowSQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "genopheno.db")
	common := []string{"--store", "sqlite", "--db-path", dbPath}

	out := runCapture(t, append([]string{"save", "--config", "distributed-MLP", "--kind", "grid", "--inputs", "4", "--outputs", "2", "--body", "worm-3x1", "--zero"}, common...)...)
	match := regexp.MustCompile(`genome_id=(\S+)`).FindStringSubmatch(out)
	if match == nil {
		t.Fatalf("expected genome id in save output: %s", out)
	}
	genomeID := match[1]

	out = runCapture(t, append([]string{"genomes"}, common...)...)
	if !strings.Contains(out, genomeID) || !strings.Contains(out, "length=54") {
		t.Fatalf("expected saved genome in list: %s", out)
	}

	out = runCapture(t, append([]string{"pipelines"}, common...)...)
	if !strings.Contains(out, "config=distributed-MLP") {
		t.Fatalf("expected pipeline in list: %s", out)
	}

	out = runCapture(t, append([]string{"show", "--id", genomeID}, common...)...)
	if !strings.Contains(out, "phenotype=grid") || !strings.Contains(out, "cells=3") {
		t.Fatalf("unexpected show output: %s", out)
	}

	out = runCapture(t, append([]string{"delete", "--id", genomeID}, common...)...)
	if !strings.Contains(out, "genome deleted id="+genomeID) {
		t.Fatalf("unexpected delete output: %s", out)
	}
	out = runCapture(t, append([]string{"genomes"}, common...)...)
	if strings.Contains(out, genomeID) {
		t.Fatalf("expected deleted genome to be gone: %s", out)
	}
}
