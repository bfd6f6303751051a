// Package body builds the 2-D body masks and target prototypes that grid and
// schedule families size their genomes against.
package body

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"genopheno/internal/grid"
)

// Shape decides which cells of a w x h grid a named body occupies. y=0 is the top row.
type Shape func(x, y, w, h int) bool

var shapes = map[string]Shape{
	"box":  func(int, int, int, int) bool { return true },
	"worm": func(_, y, _, h int) bool { return y == h/2 },
	"biped": func(x, y, w, h int) bool {
		return y < h-1 || x == 0 || x == w-1
	},
	"tripod": func(x, y, w, h int) bool {
		return y == 0 || x == 0 || x == w/2 || x == w-1
	},
	"comb": func(x, y, _, _ int) bool {
		return y == 0 || x%2 == 0
	},
	"t": func(x, y, w, _ int) bool {
		return y == 0 || x == w/2
	},
}

// aliases maps legacy and shorthand names onto canonical shapes.
var aliases = map[string]string{
	"full":     "box",
	"rect":     "box",
	"snake":    "worm",
	"legs":     "biped",
	"teeth":    "comb",
	"t_shape":  "t",
	"tshape":   "t",
	"tripedal": "tripod",
}

// Construct parses "NAME-WxH" (for example "biped-4x3") into a body mask.
func Construct(spec string) (grid.Grid[bool], error) {
	name, w, h, err := parseSpec(spec)
	if err != nil {
		return grid.Grid[bool]{}, err
	}
	shape, ok := shapes[name]
	if !ok {
		return grid.Grid[bool]{}, fmt.Errorf("unsupported body shape: %s", name)
	}
	mask := grid.New[bool](w, h)
	for y := range h {
		for x := range w {
			if shape(x, y, w, h) {
				_ = mask.Set(x, y, true)
			}
		}
	}
	if mask.Present() == 0 {
		return grid.Grid[bool]{}, fmt.Errorf("body %s has no cells", spec)
	}
	return mask, nil
}

func parseSpec(spec string) (string, int, int, error) {
	raw := normalizeName(spec)
	cut := strings.LastIndex(raw, "-")
	if cut <= 0 {
		return "", 0, 0, fmt.Errorf("body %q: expected NAME-WxH", spec)
	}
	name := strings.ReplaceAll(raw[:cut], "-", "_")
	if canonical, ok := aliases[name]; ok {
		name = canonical
	}
	ws, hs, ok := strings.Cut(raw[cut+1:], "x")
	if !ok {
		return "", 0, 0, fmt.Errorf("body %q: expected WxH extents", spec)
	}
	w, err := strconv.Atoi(ws)
	if err != nil {
		return "", 0, 0, fmt.Errorf("body %q: width: %w", spec, err)
	}
	h, err := strconv.Atoi(hs)
	if err != nil {
		return "", 0, 0, fmt.Errorf("body %q: height: %w", spec, err)
	}
	if w <= 0 || h <= 0 {
		return "", 0, 0, fmt.Errorf("body %q: extents must be positive", spec)
	}
	return name, w, h, nil
}

// AvailableShapes lists the canonical shape names.
func AvailableShapes() []string {
	out := make([]string, 0, len(shapes))
	for name := range shapes {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Render draws a mask with '#' for present cells, one row per line.
func Render(mask grid.Grid[bool]) string {
	var b strings.Builder
	for y := range mask.H() {
		for x := range mask.W() {
			if _, ok := mask.Get(x, y); ok {
				b.WriteByte('#')
			} else {
				b.WriteByte('.')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func normalizeName(raw string) string {
	return strings.TrimSpace(strings.ToLower(raw))
}
