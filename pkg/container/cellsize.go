package container

// CellSizePolicy picks the LinkedCells grid spacing relative to the
// system's maximum active force cutoff.
type CellSizePolicy struct {
	kind   cellSizeKind
	factor float64
	abs    float64
}

type cellSizeKind int

const (
	cellSizeExact cellSizeKind = iota
	cellSizeFraction
	cellSizeAbsolute
	cellSizeFactorOf
)

// ExactCutoff sizes cells to exactly the cutoff radius (the common case:
// one cell's width equals the interaction range, so only adjacent cells
// can hold interacting neighbors).
func ExactCutoff() CellSizePolicy { return CellSizePolicy{kind: cellSizeExact} }

// CutoffFraction sizes cells to cutoff/n (n=2 halves it, n=3 thirds it,
// etc.), trading a larger neighbor stencil for finer-grained bucket sort.
func CutoffFraction(n float64) CellSizePolicy {
	return CellSizePolicy{kind: cellSizeFraction, factor: n}
}

// CutoffFactor sizes cells to cutoff*factor (factor>1 coarsens the grid).
func CutoffFactor(factor float64) CellSizePolicy {
	return CellSizePolicy{kind: cellSizeFactorOf, factor: factor}
}

// Absolute sizes cells to a fixed value regardless of cutoff.
func Absolute(size float64) CellSizePolicy {
	return CellSizePolicy{kind: cellSizeAbsolute, abs: size}
}

// Resolve returns the cell size for a given maximum active cutoff.
func (p CellSizePolicy) Resolve(maxCutoff float64) float64 {
	switch p.kind {
	case cellSizeFraction:
		return maxCutoff / p.factor
	case cellSizeAbsolute:
		return p.abs
	case cellSizeFactorOf:
		return maxCutoff * p.factor
	default:
		return maxCutoff
	}
}
