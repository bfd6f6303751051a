package genopheno

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"genopheno/internal/body"
	"genopheno/internal/builder"
	"genopheno/internal/controller"
	"genopheno/internal/families"
	"genopheno/internal/genome"
	"genopheno/internal/model"
	"genopheno/internal/registry"
	"genopheno/internal/storage"
)

const defaultDBPath = "genopheno.db"

var (
	ErrGenomeNotFound   = errors.New("genome not found")
	ErrPipelineNotFound = errors.New("pipeline not found")
)

// pipelineSpace namespaces the name-based pipeline IDs, so equal config and
// target pairs always share one pipeline record.
var pipelineSpace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("genopheno/pipeline"))

type Options struct {
	StoreKind string
	DBPath    string
	Logger    *slog.Logger
	Resolver  registry.Resolver
}

type Client struct {
	store    storage.Store
	resolver registry.Resolver
	log      *slog.Logger
}

// Genome is the file and wire form of a flat genome.
type Genome struct {
	Reals []float64 `json:"reals,omitempty"`
	Bits  []bool    `json:"bits,omitempty"`
}

func (g Genome) Len() int {
	return len(g.Reals) + len(g.Bits)
}

func LoadGenomeFile(path string) (Genome, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Genome{}, err
	}
	var g Genome
	if err := json.Unmarshal(data, &g); err != nil {
		return Genome{}, fmt.Errorf("decode genome file %s: %w", path, err)
	}
	return g, nil
}

type FamilyItem struct {
	Name       string
	Positional []string
	Doc        string
}

type SizeRequest struct {
	Config string
	Target body.TargetSpec
}

type SizeSummary struct {
	Config     string
	GenomeKind string
	Reals      int
	Bits       int
	Length     int
}

type ConvertRequest struct {
	Config string
	Target body.TargetSpec
	Genome Genome
	// Zero converts the all-zero example genome instead of Genome.
	Zero bool
}

type ConvertSummary struct {
	Config    string
	Phenotype any
	Summary   controller.Summary
}

type SaveRequest struct {
	Config string
	Target body.TargetSpec
	Genome Genome
}

type SaveSummary struct {
	PipelineID string
	GenomeID   string
	Length     int
}

type GenomesRequest struct {
	PipelineID string
	Limit      int
}

type GenomeItem struct {
	ID         string
	PipelineID string
	Length     int
}

type PipelineItem struct {
	ID           string
	Config       string
	Target       body.TargetSpec
	GenomeKind   string
	GenomeLength int
}

func New(opts Options) (*Client, error) {
	storeKind := opts.StoreKind
	if storeKind == "" {
		storeKind = storage.DefaultStoreKind()
	}
	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = defaultDBPath
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	resolver := opts.Resolver
	if resolver == nil {
		resolver = families.Default()
	}

	store, err := storage.NewStore(storeKind, dbPath)
	if err != nil {
		return nil, err
	}

	return &Client{
		store:    store,
		resolver: resolver,
		log:      logger.With("component", "genopheno"),
	}, nil
}

func (c *Client) Close() error {
	return storage.CloseIfSupported(c.store)
}

func (c *Client) Init(ctx context.Context) error {
	return c.store.Init(ctx)
}

// Families lists every name the resolver knows, with docs where available.
func (c *Client) Families() []FamilyItem {
	lookup, _ := c.resolver.(interface {
		Entry(string) (registry.Entry, bool)
	})
	names := c.resolver.Names()
	out := make([]FamilyItem, 0, len(names))
	for _, name := range names {
		item := FamilyItem{Name: name}
		if lookup != nil {
			if e, ok := lookup.Entry(name); ok {
				item.Positional = e.Positional
				item.Doc = e.Doc
			}
		}
		out = append(out, item)
	}
	return out
}

// resolved is a pipeline built and sized against one target.
type resolved struct {
	config  string
	builder builder.Dynamic
	target  any
	example any
	reals   int
	bits    int
}

func (c *Client) resolve(config string, target body.TargetSpec) (resolved, error) {
	canonical, err := registry.Canonical(config)
	if err != nil {
		return resolved{}, err
	}
	b, err := registry.BuildString(c.resolver, config)
	if err != nil {
		return resolved{}, err
	}
	proto, err := target.Prototype()
	if err != nil {
		return resolved{}, fmt.Errorf("target: %w", err)
	}
	example, err := b.ExampleFor(proto)
	if err != nil {
		return resolved{}, fmt.Errorf("size %s: %w", canonical, err)
	}
	reals, bits, err := genome.Flatten(example)
	if err != nil {
		return resolved{}, fmt.Errorf("size %s: %w", canonical, err)
	}
	c.log.Debug("resolved pipeline", "config", canonical, "target", target.Kind, "reals", len(reals), "bits", len(bits))
	return resolved{
		config:  canonical,
		builder: b,
		target:  proto,
		example: example,
		reals:   len(reals),
		bits:    len(bits),
	}, nil
}

func (r resolved) convert(g Genome, zero bool) (any, error) {
	input := r.example
	if !zero {
		filled, err := genome.Fill(r.example, g.Reals, g.Bits)
		if err != nil {
			return nil, err
		}
		input = filled
	}
	convert, err := r.builder.ConverterFor(r.target)
	if err != nil {
		return nil, err
	}
	return convert(input)
}

func (c *Client) Size(_ context.Context, req SizeRequest) (SizeSummary, error) {
	r, err := c.resolve(req.Config, req.Target)
	if err != nil {
		return SizeSummary{}, err
	}
	return SizeSummary{
		Config:     r.config,
		GenomeKind: genome.KindOf(r.example),
		Reals:      r.reals,
		Bits:       r.bits,
		Length:     r.reals + r.bits,
	}, nil
}

func (c *Client) Convert(ctx context.Context, req ConvertRequest) (ConvertSummary, error) {
	if err := ctx.Err(); err != nil {
		return ConvertSummary{}, err
	}
	r, err := c.resolve(req.Config, req.Target)
	if err != nil {
		return ConvertSummary{}, err
	}
	phenotype, err := r.convert(req.Genome, req.Zero)
	if err != nil {
		return ConvertSummary{}, fmt.Errorf("convert %s: %w", r.config, err)
	}
	summary, err := controller.Summarize(phenotype)
	if err != nil {
		return ConvertSummary{}, err
	}
	c.log.Debug("converted genome", "config", r.config, "phenotype", summary.Kind)
	return ConvertSummary{Config: r.config, Phenotype: phenotype, Summary: summary}, nil
}

// SaveGenome checks that the genome converts, then stores it under the
// pipeline record for its config and target.
func (c *Client) SaveGenome(ctx context.Context, req SaveRequest) (SaveSummary, error) {
	r, err := c.resolve(req.Config, req.Target)
	if err != nil {
		return SaveSummary{}, err
	}
	if _, err := r.convert(req.Genome, false); err != nil {
		return SaveSummary{}, fmt.Errorf("convert %s: %w", r.config, err)
	}

	target := req.Target.Record()
	pipeline := model.Pipeline{
		VersionedRecord: storage.CurrentVersion(),
		ID:              pipelineID(r.config, target),
		Config:          r.config,
		Target:          target,
		GenomeKind:      genome.KindOf(r.example),
		GenomeLength:    r.reals + r.bits,
	}
	if err := c.store.SavePipeline(ctx, pipeline); err != nil {
		return SaveSummary{}, err
	}
	record := model.Genome{
		VersionedRecord: storage.CurrentVersion(),
		ID:              uuid.NewString(),
		PipelineID:      pipeline.ID,
		Reals:           req.Genome.Reals,
		Bits:            req.Genome.Bits,
	}
	if err := c.store.SaveGenome(ctx, record); err != nil {
		return SaveSummary{}, err
	}
	c.log.Info("saved genome", "genome_id", record.ID, "pipeline_id", pipeline.ID, "length", pipeline.GenomeLength)
	return SaveSummary{PipelineID: pipeline.ID, GenomeID: record.ID, Length: pipeline.GenomeLength}, nil
}

func (c *Client) Genomes(ctx context.Context, req GenomesRequest) ([]GenomeItem, error) {
	records, err := c.store.ListGenomes(ctx, req.PipelineID)
	if err != nil {
		return nil, err
	}
	if req.Limit > 0 && len(records) > req.Limit {
		records = records[:req.Limit]
	}
	out := make([]GenomeItem, 0, len(records))
	for _, g := range records {
		out = append(out, GenomeItem{ID: g.ID, PipelineID: g.PipelineID, Length: len(g.Reals) + len(g.Bits)})
	}
	return out, nil
}

func (c *Client) Pipelines(ctx context.Context) ([]PipelineItem, error) {
	records, err := c.store.ListPipelines(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]PipelineItem, 0, len(records))
	for _, p := range records {
		out = append(out, PipelineItem{
			ID:           p.ID,
			Config:       p.Config,
			Target:       body.FromRecord(p.Target),
			GenomeKind:   p.GenomeKind,
			GenomeLength: p.GenomeLength,
		})
	}
	return out, nil
}

// Show rebuilds a stored genome's phenotype through its pipeline.
func (c *Client) Show(ctx context.Context, genomeID string) (ConvertSummary, error) {
	record, ok, err := c.store.GetGenome(ctx, genomeID)
	if err != nil {
		return ConvertSummary{}, err
	}
	if !ok {
		return ConvertSummary{}, fmt.Errorf("%w: %s", ErrGenomeNotFound, genomeID)
	}
	pipeline, ok, err := c.store.GetPipeline(ctx, record.PipelineID)
	if err != nil {
		return ConvertSummary{}, err
	}
	if !ok {
		return ConvertSummary{}, fmt.Errorf("%w: %s for genome %s", ErrPipelineNotFound, record.PipelineID, genomeID)
	}
	return c.Convert(ctx, ConvertRequest{
		Config: pipeline.Config,
		Target: body.FromRecord(pipeline.Target),
		Genome: Genome{Reals: record.Reals, Bits: record.Bits},
	})
}

// DeleteGenome removes a stored genome. Its pipeline record is kept.
func (c *Client) DeleteGenome(ctx context.Context, genomeID string) error {
	if genomeID == "" {
		return errors.New("genome id is required")
	}
	_, ok, err := c.store.GetGenome(ctx, genomeID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrGenomeNotFound, genomeID)
	}
	if err := c.store.DeleteGenome(ctx, genomeID); err != nil {
		return err
	}
	c.log.Info("deleted genome", "genome_id", genomeID)
	return nil
}

func pipelineID(config string, target model.Target) string {
	key := fmt.Sprintf("%s|%s|%d|%d|%s|%d|%d", config, target.Kind, target.Inputs, target.Outputs, target.Body, target.Phases, target.Size)
	return uuid.NewSHA1(pipelineSpace, []byte(key)).String()
}
