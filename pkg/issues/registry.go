package issues

import "sort"

// Registry is a grow-only set of issue ids collected across a run.
type Registry struct {
	ids map[string]struct{}
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{ids: make(map[string]struct{})}
}

// Add merges ids into the registry.
func (r *Registry) Add(ids ...string) {
	for _, id := range ids {
		r.ids[id] = struct{}{}
	}
}

// Contains reports whether id has been seen.
func (r *Registry) Contains(id string) bool {
	_, ok := r.ids[id]

	return ok
}

// Len returns the number of distinct ids.
func (r *Registry) Len() int {
	return len(r.ids)
}

// Sorted returns the ids in lexical order.
func (r *Registry) Sorted() []string {
	out := make([]string, 0, len(r.ids))
	for id := range r.ids {
		out = append(out, id)
	}

	sort.Strings(out)

	return out
}
