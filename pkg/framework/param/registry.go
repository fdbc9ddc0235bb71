package param

import "fmt"

// Store is the opaque parameter collection the bridges consume. Value
// access is lock-free; the collection itself is immutable once the plugin
// hands it over.
type Store interface {
	Count() int
	ByIndex(i int) Param
	ByID(id uint32) Param
	GetNormalized(id uint32) (float64, bool)
	SetNormalized(id uint32, v float64) bool
	GroupCount() int
	GroupByIndex(i int) (Group, bool)
}

// Registry is the standard Store implementation: parameters in definition
// order plus the group forest. The structure is fixed after construction,
// which is what lets reads go lock-free.
type Registry struct {
	params []Param
	byID   map[uint32]Param
	groups *GroupTable
	sealed bool
}

// NewRegistry creates an empty registry with an empty group forest.
func NewRegistry() *Registry {
	return &Registry{
		byID:   make(map[uint32]Param),
		groups: NewGroupTable(),
	}
}

// Add registers parameters in order. Duplicate runtime IDs are rejected,
// naming both keys, which is how hash collisions that slip past the
// generator still surface.
func (r *Registry) Add(params ...Param) error {
	if r.sealed {
		return fmt.Errorf("parameter registry is sealed")
	}
	for _, p := range params {
		id := p.Info().ID
		if existing, ok := r.byID[id]; ok {
			return fmt.Errorf("parameter id collision: %q and %q both hash to %#08x",
				existing.Info().Key, p.Info().Key, id)
		}
		r.byID[id] = p
		r.params = append(r.params, p)
	}
	return nil
}

// MustAdd is Add for static definitions.
func (r *Registry) MustAdd(params ...Param) {
	if err := r.Add(params...); err != nil {
		panic(err)
	}
}

// SetGroups installs the group forest.
func (r *Registry) SetGroups(t *GroupTable) {
	if !r.sealed {
		r.groups = t
	}
}

// Seal freezes the registry. Further Add calls fail; value access stays
// legal from every thread.
func (r *Registry) Seal() { r.sealed = true }

// Count implements Store.
func (r *Registry) Count() int { return len(r.params) }

// ByIndex implements Store.
func (r *Registry) ByIndex(i int) Param {
	if i < 0 || i >= len(r.params) {
		return nil
	}
	return r.params[i]
}

// ByID implements Store.
func (r *Registry) ByID(id uint32) Param { return r.byID[id] }

// GetNormalized implements Store.
func (r *Registry) GetNormalized(id uint32) (float64, bool) {
	p := r.byID[id]
	if p == nil {
		return 0, false
	}
	return p.Normalized(), true
}

// SetNormalized implements Store.
func (r *Registry) SetNormalized(id uint32, v float64) bool {
	p := r.byID[id]
	if p == nil {
		return false
	}
	p.SetNormalized(v)
	return true
}

// GroupCount implements Store.
func (r *Registry) GroupCount() int { return r.groups.Count() }

// GroupByIndex implements Store.
func (r *Registry) GroupByIndex(i int) (Group, bool) { return r.groups.ByIndex(i) }

// Groups exposes the group table for path building.
func (r *Registry) Groups() *GroupTable { return r.groups }

// Each visits parameters in definition order.
func (r *Registry) Each(fn func(Param)) {
	for _, p := range r.params {
		fn(p)
	}
}

// ResetSmoothers snaps every smoother to its parameter's current plain
// value. Called after state loads so no ramp crosses a state boundary.
func (r *Registry) ResetSmoothers() {
	for _, p := range r.params {
		if s := p.Smoother(); s != nil {
			s.Reset(p.ToPlain(p.Normalized()))
		}
	}
}

// SetSampleRate propagates the rate to every smoother.
func (r *Registry) SetSampleRate(sr float64) {
	for _, p := range r.params {
		if s := p.Smoother(); s != nil {
			s.SetSampleRate(sr)
		}
	}
}
