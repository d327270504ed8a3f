package force

import (
	"strconv"

	"github.com/jkkdy/april/pkg/aerr"
	"github.com/jkkdy/april/pkg/particle"
)

// TypeInteraction declares an explicit force between two type indices (or a
// self-interaction when T1 == T2).
type TypeInteraction[U any] struct {
	T1, T2 particle.Type
	Force  Force[U]
}

// IDInteraction declares an explicit force overriding the type-pair lookup
// for one specific pair of particle ids.
type IDInteraction[U any] struct {
	ID1, ID2 particle.ID
	Force    Force[U]
}

func canonType(a, b particle.Type) (particle.Type, particle.Type) {
	if a > b {
		return b, a
	}
	return a, b
}

func canonID(a, b particle.ID) (particle.ID, particle.ID) {
	if a > b {
		return b, a
	}
	return a, b
}

// Table is the pair-keyed lookup of (type,type) and (id,id) to a force
// variant. Type pairs are stored densely in an nTypes x nTypes array (only
// the upper triangle including the diagonal is ever populated, since pairs
// are canonicalized); id pairs use a hash map since they are expected to be
// sparse overrides.
type Table[U any] struct {
	nTypes int
	grid   []Force[U] // nil entry = unset; canonical index i*nTypes+j, i<=j
	idPair map[[2]particle.ID]Force[U]
}

func (t *Table[U]) idx(t1, t2 particle.Type) int {
	a, b := canonType(t1, t2)
	return int(a)*t.nTypes + int(b)
}

// Build validates and constructs a Table. presentTypes lists every type
// index that actually appears in the particle set; every such type must
// have a self-interaction declared in typeEntries, or Build fails.
func Build[U any](nTypes int, presentTypes map[particle.Type]bool, typeEntries []TypeInteraction[U], idEntries []IDInteraction[U]) (*Table[U], error) {
	t := &Table[U]{
		nTypes: nTypes,
		grid:   make([]Force[U], nTypes*nTypes),
		idPair: make(map[[2]particle.ID]Force[U], len(idEntries)),
	}

	seenType := make(map[[2]particle.Type]bool, len(typeEntries))
	selfByType := make(map[particle.Type]Force[U], nTypes)

	for _, e := range typeEntries {
		a, b := canonType(e.T1, e.T2)
		key := [2]particle.Type{a, b}
		if seenType[key] {
			return nil, aerr.New(aerr.InvalidConfig, typePairName(a, b), "duplicate type-pair force entry")
		}
		seenType[key] = true
		t.grid[t.idx(a, b)] = e.Force
		if a == b {
			selfByType[a] = e.Force
		}
	}

	for typ := range presentTypes {
		if _, ok := selfByType[typ]; !ok {
			return nil, aerr.New(aerr.InvalidConfig, typePairName(typ, typ),
				"type %d appears in the particle set but has no self-interaction", typ)
		}
	}

	// Synthesize missing cross-type entries via mixing, where both self
	// interactions are known.
	for t1 := range selfByType {
		for t2 := range selfByType {
			if t1 >= t2 {
				continue
			}
			i := t.idx(t1, t2)
			if t.grid[i] != nil {
				continue
			}
			mixed, err := selfByType[t1].Mix(selfByType[t2])
			if err != nil {
				return nil, aerr.New(aerr.InvalidConfig, typePairName(t1, t2),
					"cannot synthesize mixed force: %w", err)
			}
			t.grid[i] = mixed
		}
	}

	seenID := make(map[[2]particle.ID]bool, len(idEntries))
	for _, e := range idEntries {
		if e.ID1 == e.ID2 {
			return nil, aerr.New(aerr.InvalidConfig, idPairName(e.ID1, e.ID2),
				"self-interactions are not permitted on id-pairs")
		}
		a, b := canonID(e.ID1, e.ID2)
		key := [2]particle.ID{a, b}
		if seenID[key] {
			return nil, aerr.New(aerr.InvalidConfig, idPairName(a, b), "duplicate id-pair force entry")
		}
		seenID[key] = true
		t.idPair[key] = e.Force
	}

	return t, nil
}

// Lookup resolves the force to evaluate for a pair, in precedence order:
// id-pair override, then type-pair (possibly mixed at build time), then the
// NoForce sentinel.
func (t *Table[U]) Lookup(id1, id2 particle.ID, t1, t2 particle.Type) Force[U] {
	a, b := canonID(id1, id2)
	if f, ok := t.idPair[[2]particle.ID{a, b}]; ok {
		return f
	}
	if f := t.grid[t.idx(t1, t2)]; f != nil {
		return f
	}
	return NoForce[U]{}
}

// MaxCutoff returns the largest cutoff over every configured entry,
// type-pair grid and id-pair overrides alike: the value LinkedCells sizes
// its grid from. Returns +Inf as soon as any entry is uncapped.
func (t *Table[U]) MaxCutoff() float64 {
	max := 0.0
	for _, f := range t.grid {
		if f == nil {
			continue
		}
		if c := f.Cutoff(); c > max {
			max = c
		}
	}
	for _, f := range t.idPair {
		if c := f.Cutoff(); c > max {
			max = c
		}
	}
	return max
}

// TypeCutoff returns the cutoff of the type-pair entry (ignoring any
// id-pair overrides), or 0 if no such entry was configured.
func (t *Table[U]) TypeCutoff(t1, t2 particle.Type) float64 {
	if f := t.grid[t.idx(t1, t2)]; f != nil {
		return f.Cutoff()
	}
	return 0
}

func typePairName(a, b particle.Type) string {
	return "(" + strconv.Itoa(int(a)) + "," + strconv.Itoa(int(b)) + ")"
}

func idPairName(a, b particle.ID) string {
	return "(" + strconv.Itoa(int(a)) + "," + strconv.Itoa(int(b)) + ")"
}
