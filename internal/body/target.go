package body

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"genopheno/internal/controller"
	"genopheno/internal/genome"
	"genopheno/internal/grid"
	"genopheno/internal/model"
)

// Kind is the phenotype family a target file describes.
type Kind string

const (
	KindController Kind = "controller"
	KindGrid       Kind = "grid"
	KindNumGrid    Kind = "numgrid"
	KindSchedule   Kind = "schedule"
	KindVector     Kind = "vector"
)

// TargetSpec is the on-disk description of a target prototype.
type TargetSpec struct {
	Kind    Kind   `yaml:"kind" json:"kind"`
	Inputs  int    `yaml:"inputs,omitempty" json:"inputs,omitempty"`
	Outputs int    `yaml:"outputs,omitempty" json:"outputs,omitempty"`
	Body    string `yaml:"body,omitempty" json:"body,omitempty"`
	Phases  int    `yaml:"phases,omitempty" json:"phases,omitempty"`
	Size    int    `yaml:"size,omitempty" json:"size,omitempty"`
}

// LoadTarget reads a YAML target file.
func LoadTarget(path string) (TargetSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return TargetSpec{}, err
	}
	return ParseTarget(data)
}

func ParseTarget(data []byte) (TargetSpec, error) {
	spec := TargetSpec{Kind: KindController}
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return TargetSpec{}, fmt.Errorf("decode target: %w", err)
	}
	if err := spec.Validate(); err != nil {
		return TargetSpec{}, err
	}
	return spec, nil
}

func (s TargetSpec) Validate() error {
	switch s.Kind {
	case KindController, KindGrid:
		if s.Inputs < 0 || s.Outputs < 0 {
			return fmt.Errorf("target dimensions must be >= 0, got inputs=%d outputs=%d", s.Inputs, s.Outputs)
		}
	case KindNumGrid:
	case KindSchedule:
		if s.Phases <= 0 {
			return fmt.Errorf("schedule target needs phases > 0, got %d", s.Phases)
		}
	case KindVector:
		if s.Size < 0 {
			return fmt.Errorf("vector target size must be >= 0, got %d", s.Size)
		}
		return nil
	default:
		return fmt.Errorf("unsupported target kind: %s", s.Kind)
	}
	if s.Kind != KindController && s.Body == "" {
		return fmt.Errorf("%s target needs a body", s.Kind)
	}
	return nil
}

// Prototype builds the concrete target value a builder of the matching kind expects.
func (s TargetSpec) Prototype() (any, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	cell := controller.Shape{Inputs: s.Inputs, Outputs: s.Outputs}
	switch s.Kind {
	case KindController:
		return controller.Controller(cell), nil
	case KindVector:
		return genome.Zeroed[float64](s.Size), nil
	}
	mask, err := Construct(s.Body)
	if err != nil {
		return nil, err
	}
	switch s.Kind {
	case KindGrid:
		return grid.Map(mask, func(_, _ int, _ bool) (controller.Controller, error) { return cell, nil })
	case KindNumGrid:
		return grid.Map(mask, func(_, _ int, _ bool) (float64, error) { return 0, nil })
	default:
		return controller.NewDevoPrototype(mask, s.Phases)
	}
}

func (s TargetSpec) Record() model.Target {
	return model.Target{Kind: string(s.Kind), Inputs: s.Inputs, Outputs: s.Outputs, Body: s.Body, Phases: s.Phases, Size: s.Size}
}

func FromRecord(r model.Target) TargetSpec {
	return TargetSpec{Kind: Kind(r.Kind), Inputs: r.Inputs, Outputs: r.Outputs, Body: r.Body, Phases: r.Phases, Size: r.Size}
}
