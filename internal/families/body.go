package families

import (
	"cmp"
	"fmt"
	"slices"

	"genopheno/internal/builder"
	"genopheno/internal/controller"
	"genopheno/internal/genome"
	"genopheno/internal/grid"
)

// DirectNumGrid reads one real per present target cell, row-major.
func DirectNumGrid() builder.Builder[genome.RealVector, grid.Grid[float64]] {
	one := func(int, int, float64) (int, error) { return 1, nil }
	return builder.Func[genome.RealVector, grid.Grid[float64]]{
		Example: func(target grid.Grid[float64]) (genome.RealVector, error) {
			return genome.Zeroed[float64](target.Present()), nil
		},
		Converter: func(target grid.Grid[float64]) (builder.Converter[genome.RealVector, grid.Grid[float64]], error) {
			return func(g genome.RealVector) (grid.Grid[float64], error) {
				pieces, err := genome.SliceGrid(target, g, one)
				if err != nil {
					return grid.Grid[float64]{}, err
				}
				return grid.Map(pieces, func(_, _ int, v genome.RealVector) (float64, error) { return v[0], nil })
			}, nil
		},
	}
}

type DevoConfig struct {
	Threshold float64
	Phases    int
	Step      int
	Initial   int
}

func (c DevoConfig) validate() error {
	if c.Phases <= 0 {
		return fmt.Errorf("phases must be > 0, got %d", c.Phases)
	}
	if c.Step < 0 || c.Initial < 0 {
		return fmt.Errorf("step and initial must be >= 0, got step=%d initial=%d", c.Step, c.Initial)
	}
	return nil
}

// DevoPhases grows a body from a value grid. Cells at or above the threshold
// join in decreasing value order; phase p holds the first Initial+p*Step of them.
func DevoPhases(cfg DevoConfig) (builder.Builder[grid.Grid[float64], *controller.DevoSchedule], error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	check := func(target *controller.DevoSchedule) error {
		if target == nil {
			return fmt.Errorf("target schedule is required")
		}
		return genome.CheckSize("devo phases", cfg.Phases, target.PhaseCount())
	}
	return builder.Func[grid.Grid[float64], *controller.DevoSchedule]{
		Example: func(target *controller.DevoSchedule) (grid.Grid[float64], error) {
			if err := check(target); err != nil {
				return grid.Grid[float64]{}, err
			}
			return grid.Map(target.Mask, func(_, _ int, _ bool) (float64, error) { return 0, nil })
		},
		Converter: func(target *controller.DevoSchedule) (builder.Converter[grid.Grid[float64], *controller.DevoSchedule], error) {
			if err := check(target); err != nil {
				return nil, err
			}
			mask := target.Mask
			return func(values grid.Grid[float64]) (*controller.DevoSchedule, error) {
				if !grid.SameShape(mask, values) {
					return nil, &genome.ShapeMismatchError{
						What:     fmt.Sprintf("devo grid %dx%d", mask.W(), mask.H()),
						Expected: mask.Present(),
						Actual:   values.Present(),
					}
				}
				order := growthOrder(values, cfg.Threshold)
				out := &controller.DevoSchedule{Mask: mask, Phases: make([]grid.Grid[bool], cfg.Phases)}
				for p := range cfg.Phases {
					n := min(cfg.Initial+p*cfg.Step, len(order))
					body := grid.New[bool](mask.W(), mask.H())
					for _, c := range order[:n] {
						_ = body.Set(c.X, c.Y, true)
					}
					out.Phases[p] = body
				}
				return out, nil
			}, nil
		},
	}, nil
}

// growthOrder lists eligible cells in the order the body absorbs them.
func growthOrder(values grid.Grid[float64], threshold float64) []grid.Entry[float64] {
	var eligible []grid.Entry[float64]
	for _, e := range values.Entries() {
		if e.Present && e.Value >= threshold {
			eligible = append(eligible, e)
		}
	}
	// stable: equal values stay row-major
	slices.SortStableFunc(eligible, func(a, b grid.Entry[float64]) int { return cmp.Compare(b.Value, a.Value) })
	return eligible
}

// Distributed gives every present target cell its own controller genome.
func Distributed(cell builder.Builder[genome.RealVector, controller.Controller]) builder.Builder[genome.RealVector, grid.Grid[controller.Controller]] {
	return builder.GridOf[float64, controller.Controller](cell)
}

// DistributedHomo shares one controller genome across every present target cell.
func DistributedHomo(cell builder.Builder[genome.RealVector, controller.Controller]) builder.Builder[genome.RealVector, grid.Grid[controller.Controller]] {
	return builder.Homogeneous[float64, controller.Controller](cell)
}
