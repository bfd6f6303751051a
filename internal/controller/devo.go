package controller

import (
	"fmt"

	"genopheno/internal/grid"
)

// DevoSchedule is a body growth schedule: a sequence of nested bodies, one per
// developmental phase, all within the same grid extents.
type DevoSchedule struct {
	Mask   grid.Grid[bool]   `json:"-"`
	Phases []grid.Grid[bool] `json:"-"`
	count  int
}

// NewDevoPrototype is a schedule target: the allowed cells and the phase count.
func NewDevoPrototype(mask grid.Grid[bool], phases int) (*DevoSchedule, error) {
	if phases <= 0 {
		return nil, fmt.Errorf("devo schedule needs at least one phase, got %d", phases)
	}
	return &DevoSchedule{Mask: mask, count: phases}, nil
}

// PhaseCount is the number of phases this schedule has or, for a prototype, will have.
func (d *DevoSchedule) PhaseCount() int {
	if len(d.Phases) > 0 {
		return len(d.Phases)
	}
	return d.count
}

// Body returns the cells present at phase p.
func (d *DevoSchedule) Body(p int) (grid.Grid[bool], error) {
	if p < 0 || p >= len(d.Phases) {
		return grid.Grid[bool]{}, fmt.Errorf("phase %d out of range [0,%d)", p, len(d.Phases))
	}
	return d.Phases[p], nil
}

// Sizes lists the number of cells per phase.
func (d *DevoSchedule) Sizes() []int {
	out := make([]int, len(d.Phases))
	for i, body := range d.Phases {
		out[i] = body.Present()
	}
	return out
}
