package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"

	"genopheno/internal/body"
	"genopheno/internal/controller"
	api "genopheno/pkg/genopheno"
)

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("missing command")
	}

	switch args[0] {
	case "families":
		return runFamilies(ctx, args[1:])
	case "bodies":
		return runBodies(ctx, args[1:])
	case "size":
		return runSize(ctx, args[1:])
	case "convert":
		return runConvert(ctx, args[1:])
	case "save":
		return runSave(ctx, args[1:])
	case "genomes":
		return runGenomes(ctx, args[1:])
	case "pipelines":
		return runPipelines(ctx, args[1:])
	case "show":
		return runShow(ctx, args[1:])
	case "delete":
		return runDelete(ctx, args[1:])
	default:
		return usageError(fmt.Sprintf("unknown command: %s", args[0]))
	}
}

func openClient(ctx context.Context, f clientFlags) (*api.Client, error) {
	client, err := api.New(f.options())
	if err != nil {
		return nil, err
	}
	if err := client.Init(ctx); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

func runFamilies(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("families", flag.ContinueOnError)
	cf := addClientFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := openClient(ctx, cf)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	for _, f := range client.Families() {
		name := f.Name
		if len(f.Positional) > 0 {
			name += "-<" + strings.Join(f.Positional, ">-<") + ">"
		}
		fmt.Printf("%-40s %s\n", name, f.Doc)
	}
	return nil
}

func runBodies(_ context.Context, args []string) error {
	fs := flag.NewFlagSet("bodies", flag.ContinueOnError)
	draw := fs.String("draw", "", "render one body, e.g. biped-4x3")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *draw != "" {
		mask, err := body.Construct(*draw)
		if err != nil {
			return err
		}
		fmt.Printf("body=%s cells=%d\n%s", *draw, mask.Present(), body.Render(mask))
		return nil
	}
	for _, name := range body.AvailableShapes() {
		fmt.Println(name)
	}
	return nil
}

func runSize(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("size", flag.ContinueOnError)
	cf := addClientFlags(fs)
	tf := addTargetFlags(fs)
	config := fs.String("config", "", "builder configuration, e.g. MLP;r=0.65;nIL=1")
	jsonOut := fs.Bool("json", false, "emit size summary as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *config == "" {
		return errors.New("config is required")
	}
	target, err := tf.spec()
	if err != nil {
		return err
	}

	client, err := openClient(ctx, cf)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	summary, err := client.Size(ctx, api.SizeRequest{Config: *config, Target: target})
	if err != nil {
		return err
	}
	if *jsonOut {
		return writeJSON(map[string]any{
			"config":      summary.Config,
			"genome_kind": summary.GenomeKind,
			"reals":       summary.Reals,
			"bits":        summary.Bits,
			"length":      summary.Length,
		})
	}
	fmt.Printf("config=%s genome=%s length=%s reals=%s bits=%s\n",
		summary.Config,
		summary.GenomeKind,
		humanize.Comma(int64(summary.Length)),
		humanize.Comma(int64(summary.Reals)),
		humanize.Comma(int64(summary.Bits)),
	)
	return nil
}

func runConvert(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	cf := addClientFlags(fs)
	tf := addTargetFlags(fs)
	gf := addGenomeFlags(fs)
	config := fs.String("config", "", "builder configuration")
	jsonOut := fs.Bool("json", false, "emit phenotype summary as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *config == "" {
		return errors.New("config is required")
	}
	target, err := tf.spec()
	if err != nil {
		return err
	}
	genome, zero, err := gf.load()
	if err != nil {
		return err
	}

	client, err := openClient(ctx, cf)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	out, err := client.Convert(ctx, api.ConvertRequest{Config: *config, Target: target, Genome: genome, Zero: zero})
	if err != nil {
		return err
	}
	return printSummary(out.Config, out.Summary, *jsonOut)
}

func runSave(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("save", flag.ContinueOnError)
	cf := addClientFlags(fs)
	tf := addTargetFlags(fs)
	gf := addGenomeFlags(fs)
	config := fs.String("config", "", "builder configuration")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *config == "" {
		return errors.New("config is required")
	}
	target, err := tf.spec()
	if err != nil {
		return err
	}
	genome, zero, err := gf.load()
	if err != nil {
		return err
	}

	client, err := openClient(ctx, cf)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if zero {
		size, err := client.Size(ctx, api.SizeRequest{Config: *config, Target: target})
		if err != nil {
			return err
		}
		genome = api.Genome{Reals: make([]float64, size.Reals), Bits: make([]bool, size.Bits)}
	}
	saved, err := client.SaveGenome(ctx, api.SaveRequest{Config: *config, Target: target, Genome: genome})
	if err != nil {
		return err
	}
	fmt.Printf("saved genome_id=%s pipeline_id=%s length=%s store=%s\n",
		saved.GenomeID, saved.PipelineID, humanize.Comma(int64(saved.Length)), *cf.storeKind)
	return nil
}

func runGenomes(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("genomes", flag.ContinueOnError)
	cf := addClientFlags(fs)
	pipelineID := fs.String("pipeline", "", "only genomes of this pipeline id")
	limit := fs.Int("limit", 20, "max genomes to list")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *limit <= 0 {
		return errors.New("limit must be > 0")
	}

	client, err := openClient(ctx, cf)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	items, err := client.Genomes(ctx, api.GenomesRequest{PipelineID: *pipelineID, Limit: *limit})
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Println("no genomes found")
		return nil
	}
	for _, g := range items {
		fmt.Printf("genome_id=%s pipeline_id=%s length=%s\n", g.ID, g.PipelineID, humanize.Comma(int64(g.Length)))
	}
	return nil
}

func runPipelines(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("pipelines", flag.ContinueOnError)
	cf := addClientFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := openClient(ctx, cf)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	items, err := client.Pipelines(ctx)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Println("no pipelines found")
		return nil
	}
	for _, p := range items {
		fmt.Printf("pipeline_id=%s config=%s target=%s genome=%s length=%s\n",
			p.ID, p.Config, p.Target.Kind, p.GenomeKind, humanize.Comma(int64(p.GenomeLength)))
	}
	return nil
}

func runShow(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	cf := addClientFlags(fs)
	id := fs.String("id", "", "genome id")
	jsonOut := fs.Bool("json", false, "emit phenotype summary as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return errors.New("id is required")
	}

	client, err := openClient(ctx, cf)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	out, err := client.Show(ctx, *id)
	if err != nil {
		return err
	}
	return printSummary(out.Config, out.Summary, *jsonOut)
}

func runDelete(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	cf := addClientFlags(fs)
	id := fs.String("id", "", "genome id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return errors.New("delete requires --id")
	}

	client, err := openClient(ctx, cf)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.DeleteGenome(ctx, *id); err != nil {
		return err
	}
	fmt.Printf("genome deleted id=%s\n", *id)
	return nil
}

func printSummary(config string, s controller.Summary, jsonOut bool) error {
	if jsonOut {
		return writeJSON(map[string]any{"config": config, "phenotype": s})
	}
	fmt.Printf("config=%s phenotype=%s", config, s.Kind)
	switch {
	case s.Width > 0:
		fmt.Printf(" grid=%dx%d", s.Width, s.Height)
	case s.Inputs > 0 || s.Outputs > 0:
		fmt.Printf(" inputs=%d outputs=%d widths=%v", s.Inputs, s.Outputs, s.Widths)
	}
	if s.Parameters > 0 {
		fmt.Printf(" parameters=%s", humanize.Comma(int64(s.Parameters)))
	}
	if len(s.Range) == 2 {
		fmt.Printf(" output_range=[%g,%g]", s.Range[0], s.Range[1])
	}
	if len(s.PhaseSizes) > 0 {
		fmt.Printf(" phase_sizes=%v", s.PhaseSizes)
	}
	if len(s.Cells) > 0 {
		fmt.Printf(" cells=%d", len(s.Cells))
	}
	for _, kind := range s.RuleKinds() {
		fmt.Printf(" rules_%s=%d", kind, s.Rules[kind])
	}
	fmt.Println()
	return nil
}

func writeJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func usageError(msg string) error {
	return fmt.Errorf("%s\nusage: genophenoctl <families|bodies|size|convert|save|genomes|pipelines|show|delete> [flags]", msg)
}
