package plasticity

import (
	"fmt"
	"math"
	"strings"

	"genopheno/internal/genome"
)

// Encoding names the genome layout a spiking family uses for its rules.
type Encoding string

const (
	EncodingNone    Encoding = "none"
	EncodingFlags   Encoding = "flags"
	EncodingGrouped Encoding = "grouped"
	EncodingPool    Encoding = "pool"
)

func ParseEncoding(name string) (Encoding, error) {
	switch e := Encoding(strings.ToLower(strings.TrimSpace(name))); e {
	case "", EncodingNone:
		return EncodingNone, nil
	case EncodingFlags, EncodingGrouped, EncodingPool:
		return e, nil
	default:
		return "", fmt.Errorf("unsupported plasticity encoding: %s", name)
	}
}

// FlagTriple decodes rules from three equal thirds of a bit vector
// (active, symmetric, hebbian) plus a 4-real tuple per synapse.
type FlagTriple struct{}

func (FlagTriple) BitSize(n int) int  { return 3 * n }
func (FlagTriple) RealSize(n int) int { return ParamCount * n }

func (c FlagTriple) Decode(bits genome.BitVector, reals genome.RealVector, n int) ([]Rule, error) {
	if err := genome.CheckSize("rule flags", c.BitSize(n), bits.Size()); err != nil {
		return nil, err
	}
	if err := genome.CheckSize("rule params", c.RealSize(n), reals.Size()); err != nil {
		return nil, err
	}
	rules := make([]Rule, n)
	for i := 0; i < n; i++ {
		if !bits[i] {
			rules[i] = Rule{Kind: Inactive}
			continue
		}
		kind := KindFor(bits[n+i], bits[2*n+i])
		rule, err := NewRule(kind, reals[i*ParamCount:(i+1)*ParamCount])
		if err != nil {
			return nil, fmt.Errorf("synapse %d: %w", i, err)
		}
		rules[i] = rule
	}
	return rules, nil
}

// Grouped decodes rules from consecutive 4-real groups whose kind is fixed by
// the group index: the first half of the groups is symmetric, and the first
// half of each family is Hebbian.
type Grouped struct{}

func (Grouped) Size(n int) int { return ParamCount * n }

// KindAt is the static role of group i out of n.
func (Grouped) KindAt(i, n int) Kind {
	half := n / 2
	if i < half {
		return KindFor(true, i < half/2)
	}
	return KindFor(false, i-half < (n-half)/2)
}

func (c Grouped) Decode(reals genome.RealVector, n int) ([]Rule, error) {
	if err := genome.CheckSize("rule groups", c.Size(n), reals.Size()); err != nil {
		return nil, err
	}
	rules := make([]Rule, n)
	for i := 0; i < n; i++ {
		rule, err := NewRule(c.KindAt(i, n), reals[i*ParamCount:(i+1)*ParamCount])
		if err != nil {
			return nil, fmt.Errorf("group %d: %w", i, err)
		}
		rules[i] = rule
	}
	return rules, nil
}

const (
	// PoolSize is one pooled rule per active kind.
	PoolSize = 4
	// LocatorCount is the number of locator reals per synapse.
	LocatorCount = 3
	quartiles    = 4
)

var poolKinds = [PoolSize]Kind{SymmetricHebbian, SymmetricAntiHebbian, AsymmetricHebbian, AsymmetricAntiHebbian}

// Pool builds PoolSize shared rules once and assigns one to each synapse from
// three locators bucketed against the quartiles of their empirical range.
// Channel 0 in its lowest quartile leaves the synapse inactive, channel 1 in
// the lower half selects a symmetric rule and channel 2 in the lower half a
// Hebbian one.
//
// A channel whose range is degenerate buckets every synapse to 0. A NaN
// locator makes its channel's range NaN, which counts as degenerate: on
// channel 0 every synapse decodes as inactive, without an error.
type Pool struct{}

func (Pool) PoolRegion() int         { return PoolSize * ParamCount }
func (Pool) LocatorRegion(n int) int { return LocatorCount * n }
func (p Pool) Size(n int) int        { return p.PoolRegion() + p.LocatorRegion(n) }

func (p Pool) Decode(region genome.RealVector, locators genome.RealVector, n int) ([]Rule, error) {
	if err := genome.CheckSize("rule pool", p.PoolRegion(), region.Size()); err != nil {
		return nil, err
	}
	if err := genome.CheckSize("rule locators", p.LocatorRegion(n), locators.Size()); err != nil {
		return nil, err
	}

	var pool [PoolSize]Rule
	for i, kind := range poolKinds {
		rule, err := NewRule(kind, region[i*ParamCount:(i+1)*ParamCount])
		if err != nil {
			return nil, fmt.Errorf("pool rule %d: %w", i, err)
		}
		pool[i] = rule
	}

	// first pass: per-channel range
	var lo, hi [LocatorCount]float64
	for ch := 0; ch < LocatorCount; ch++ {
		lo[ch], hi[ch] = math.Inf(1), math.Inf(-1)
	}
	for i := 0; i < n; i++ {
		for ch := 0; ch < LocatorCount; ch++ {
			v := locators[i*LocatorCount+ch]
			lo[ch] = math.Min(lo[ch], v)
			hi[ch] = math.Max(hi[ch], v)
		}
	}

	// second pass: assignment
	rules := make([]Rule, n)
	for i := 0; i < n; i++ {
		var q [LocatorCount]int
		for ch := 0; ch < LocatorCount; ch++ {
			q[ch] = quartile(locators[i*LocatorCount+ch], lo[ch], hi[ch])
		}
		if q[0] == 0 {
			rules[i] = Rule{Kind: Inactive}
			continue
		}
		kind := KindFor(q[1] < quartiles/2, q[2] < quartiles/2)
		for j, k := range poolKinds {
			if k == kind {
				rules[i] = pool[j]
				break
			}
		}
	}
	return rules, nil
}

// quartile buckets v into [0, 4) against [lo, hi]; a degenerate range maps to 0.
func quartile(v, lo, hi float64) int {
	if !(hi > lo) {
		return 0
	}
	q := int(math.Floor((v - lo) / (hi - lo) * quartiles))
	return clamp(q, 0, quartiles-1)
}
