package structarg

import (
	"github.com/lbreide/structarg/argparse"
	"github.com/lbreide/structarg/model"
)

// toNestedDict converts a parsed namespace into the nested dictionary the
// validator consumes. Sub-command namespaces become model.Nested values so
// the validator can tell them apart from user-supplied mappings.
func toNestedDict(ns *argparse.Namespace) map[string]any {
	out := make(map[string]any, ns.Len())
	ns.Each(func(key string, value any) {
		if child, ok := value.(*argparse.Namespace); ok {
			out[key] = model.Nested(toNestedDict(child))
			return
		}
		out[key] = value
	})

	return out
}
