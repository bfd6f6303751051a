package main

import (
	"errors"
	"flag"
	"io"
	"log/slog"
	"os"

	"genopheno/internal/body"
	"genopheno/internal/storage"
	api "genopheno/pkg/genopheno"
)

type clientFlags struct {
	storeKind *string
	dbPath    *string
	verbose   *bool
}

func addClientFlags(fs *flag.FlagSet) clientFlags {
	return clientFlags{
		storeKind: fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite"),
		dbPath:    fs.String("db-path", "genopheno.db", "sqlite database path"),
		verbose:   fs.Bool("v", false, "log resolution and conversion details to stderr"),
	}
}

func (f clientFlags) options() api.Options {
	return api.Options{
		StoreKind: *f.storeKind,
		DBPath:    *f.dbPath,
		Logger:    newLogger(*f.verbose, os.Stderr),
	}
}

func newLogger(verbose bool, w io.Writer) *slog.Logger {
	if !verbose {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

type targetFlags struct {
	file    *string
	kind    *string
	inputs  *int
	outputs *int
	body    *string
	phases  *int
	size    *int
}

func addTargetFlags(fs *flag.FlagSet) targetFlags {
	return targetFlags{
		file:    fs.String("target", "", "YAML target file; overrides the inline target flags"),
		kind:    fs.String("kind", string(body.KindController), "target kind: controller|grid|numgrid|schedule|vector"),
		inputs:  fs.Int("inputs", 0, "controller inputs"),
		outputs: fs.Int("outputs", 0, "controller outputs"),
		body:    fs.String("body", "", "body shape for grid targets, e.g. biped-4x3"),
		phases:  fs.Int("phases", 0, "phase count for schedule targets"),
		size:    fs.Int("size", 0, "length of vector targets"),
	}
}

func (f targetFlags) spec() (body.TargetSpec, error) {
	if *f.file != "" {
		return body.LoadTarget(*f.file)
	}
	spec := body.TargetSpec{
		Kind:    body.Kind(*f.kind),
		Inputs:  *f.inputs,
		Outputs: *f.outputs,
		Body:    *f.body,
		Phases:  *f.phases,
		Size:    *f.size,
	}
	return spec, spec.Validate()
}

type genomeFlags struct {
	file *string
	zero *bool
}

func addGenomeFlags(fs *flag.FlagSet) genomeFlags {
	return genomeFlags{
		file: fs.String("genome", "", `JSON genome file: {"reals": [...], "bits": [...]}`),
		zero: fs.Bool("zero", false, "use the all-zero example genome"),
	}
}

func (f genomeFlags) load() (api.Genome, bool, error) {
	if *f.zero {
		return api.Genome{}, true, nil
	}
	if *f.file == "" {
		return api.Genome{}, false, errors.New("genome file is required (or pass --zero)")
	}
	g, err := api.LoadGenomeFile(*f.file)
	return g, false, err
}
