package argparse

// Namespace holds raw parsed values keyed by argument destination. Values
// produced by sub-command selection are themselves *Namespace.
type Namespace struct {
	values map[string]any
}

func newNamespace() *Namespace {
	return &Namespace{values: map[string]any{}}
}

// Get returns the value stored for key.
func (n *Namespace) Get(key string) (any, bool) {
	v, ok := n.values[key]
	return v, ok
}

// Set stores a value for key, replacing any previous value.
func (n *Namespace) Set(key string, value any) {
	n.values[key] = value
}

// Len returns the number of stored keys.
func (n *Namespace) Len() int {
	return len(n.values)
}

// Each calls fn for every key/value pair.
func (n *Namespace) Each(fn func(key string, value any)) {
	for k, v := range n.values {
		fn(k, v)
	}
}
