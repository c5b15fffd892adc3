package field

import "fmt"

// BoundaryPolicy determines how a sample request outside the declared domain
// resolves. It is a pure index mapping with no state, so a single policy
// value is safely shared between fields.
type BoundaryPolicy uint8

const (
	// Periodic wraps out-of-range indices modulo the resolution.
	Periodic BoundaryPolicy = iota
	// ZeroValue treats every out-of-range sample as 0.
	ZeroValue
	// BoundaryHold clamps out-of-range indices to the nearest valid sample.
	BoundaryHold
)

// ParseBoundaryPolicy maps a configuration name to a policy.
func ParseBoundaryPolicy(name string) (BoundaryPolicy, error) {
	switch name {
	case "periodic":
		return Periodic, nil
	case "zero":
		return ZeroValue, nil
	case "hold":
		return BoundaryHold, nil
	}
	return 0, fmt.Errorf("field: unknown boundary policy %q", name)
}

// String returns the configuration name of the policy.
func (p BoundaryPolicy) String() string {
	switch p {
	case Periodic:
		return "periodic"
	case ZeroValue:
		return "zero"
	case BoundaryHold:
		return "hold"
	}
	return fmt.Sprintf("BoundaryPolicy(%d)", uint8(p))
}

// resolve maps index i on an axis of n samples to an in-range index.
// ok reports whether a stored sample backs the request; it is false only
// for ZeroValue out-of-range lookups, which contribute 0.
func (p BoundaryPolicy) resolve(i, n int) (idx int, ok bool) {
	if i >= 0 && i < n {
		return i, true
	}
	switch p {
	case Periodic:
		return wrapIndex(i, n), true
	case ZeroValue:
		return 0, false
	default: // BoundaryHold
		return clampIndex(i, n), true
	}
}

// wrapIndex reduces i modulo n into [0, n).
func wrapIndex(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}
