package structarg

import (
	"os"
	"strconv"
	"strings"

	"github.com/iancoleman/strcase"
	"github.com/lbreide/structarg/argparse"
	"github.com/lbreide/structarg/parse"
)

// injectEnv pushes tokens onto the front of the stream for top-level flags
// that are absent from argv but have a matching environment variable set.
// Injected values flow through the same casters and validation as argv input.
func (p *Parser[T]) injectEnv(st *parse.Stream, args []string) {
	if p.cfg.envPrefix == "" {
		return
	}

	present := map[string]bool{}
	for _, arg := range args {
		name := arg
		if i := strings.IndexByte(arg, '='); i >= 0 {
			name = arg[:i]
		}
		present[name] = true
	}

	var injected []string
	p.engine.EachSpec(func(spec *argparse.Spec) {
		injected = append(injected, envTokens(spec, present, p.cfg.envPrefix)...)
	})
	st.Inject(injected...)
}

// envTokens renders the argv tokens a single spec contributes from the
// environment, or nil when the flag was given explicitly, its variable is
// unset, or its action takes no value.
func envTokens(spec *argparse.Spec, present map[string]bool, prefix string) []string {
	for _, name := range spec.Names {
		if present[name] {
			return nil
		}
	}

	value, ok := os.LookupEnv(prefix + "_" + strcase.ToScreamingSnake(spec.Dest))
	if !ok {
		return nil
	}

	switch spec.Action {
	case argparse.Store:
		return []string{spec.Names[0], value}
	case argparse.StoreTrue, argparse.StoreFalse, argparse.BoolPair:
		on, err := strconv.ParseBool(value)
		if err != nil {
			return nil
		}
		return boolTokens(spec, on)
	}

	return nil
}

func boolTokens(spec *argparse.Spec, on bool) []string {
	switch spec.Action {
	case argparse.StoreTrue:
		if on {
			return []string{spec.Names[0]}
		}
	case argparse.StoreFalse:
		if !on {
			return []string{spec.Names[0]}
		}
	case argparse.BoolPair:
		for _, name := range spec.Names {
			if on != strings.HasPrefix(name, "--no-") {
				return []string{name}
			}
		}
	}

	return nil
}
