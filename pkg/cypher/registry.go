package cypher

// registry tracks the aliases a query has introduced so far.
// Insertion order is kept for Aliases().
type registry struct {
	order []string
	known map[string]struct{}
}

func newRegistry() *registry {
	return &registry{known: make(map[string]struct{})}
}

func (r *registry) add(alias string) {
	if _, ok := r.known[alias]; ok {
		return
	}
	r.known[alias] = struct{}{}
	r.order = append(r.order, alias)
}

func (r *registry) has(alias string) bool {
	_, ok := r.known[alias]
	return ok
}

// replace narrows the scope to exactly aliases, as WITH does.
func (r *registry) replace(aliases []string) {
	r.order = nil
	r.known = make(map[string]struct{}, len(aliases))
	for _, a := range aliases {
		r.add(a)
	}
}

func (r *registry) list() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}
