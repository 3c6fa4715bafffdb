package structarg

import (
	"strings"

	"github.com/lbreide/structarg/argparse"
	"github.com/lbreide/structarg/schema"
	"gopkg.in/yaml.v3"
)

// addBoolean registers a boolean field. Required booleans get a paired
// --x / --no-x flag with no implicit default; optional ones get the single
// flag that flips the default.
func addBoolean(eng *argparse.Engine, f schema.FieldDescriptor) error {
	if f.Required {
		return eng.AddArgument(&argparse.Spec{
			Names:    []string{flagName(f.Alias), negatedFlagName(f.Alias)},
			Dest:     f.Alias,
			Action:   argparse.BoolPair,
			Required: true,
			Help:     describe(f),
			Group:    argparse.GroupRequired,
		})
	}

	spec := &argparse.Spec{
		Dest:       f.Alias,
		Default:    f.Default,
		HasDefault: f.HasDefault,
		Help:       describe(f),
		Group:      argparse.GroupOptional,
	}
	if on, ok := f.Default.(bool); ok && on {
		spec.Names = []string{negatedFlagName(f.Alias)}
		spec.Action = argparse.StoreFalse
	} else {
		spec.Names = flagNames(f)
		spec.Action = argparse.StoreTrue
	}

	return eng.AddArgument(spec)
}

// addContainer registers a slice or array field as a single flag consuming
// one or more tokens. A choices tag constrains every element; element
// coercion happens during validation.
func addContainer(eng *argparse.Engine, f schema.FieldDescriptor) error {
	metavar := f.Placeholder
	if metavar == "" && len(f.Choices) > 0 {
		metavar = "{" + strings.Join(f.Choices, ", ") + "}"
	}

	return eng.AddArgument(&argparse.Spec{
		Names:      flagNames(f),
		Dest:       f.Alias,
		Action:     argparse.Store,
		Nargs:      argparse.OneOrMore,
		Required:   f.Required,
		Default:    f.Default,
		HasDefault: f.HasDefault,
		Choices:    f.Choices,
		Metavar:    metavar,
		Help:       describe(f),
		Group:      groupOf(f),
	})
}

// addMapping registers a map field as a single-token flag. The token is
// parsed by literalCaster before validation.
func addMapping(eng *argparse.Engine, f schema.FieldDescriptor) error {
	return eng.AddArgument(&argparse.Spec{
		Names:      flagNames(f),
		Dest:       f.Alias,
		Action:     argparse.Store,
		Required:   f.Required,
		Default:    f.Default,
		HasDefault: f.HasDefault,
		Metavar:    f.Placeholder,
		Help:       describe(f),
		Group:      groupOf(f),
	})
}

// literalCaster parses a single token as a YAML/JSON literal. Already-typed
// values pass through untouched, an empty token means absence, and anything
// unparseable is returned verbatim for validation to report.
func literalCaster(value any) any {
	s, ok := value.(string)
	if !ok {
		return value
	}
	if strings.TrimSpace(s) == "" {
		return nil
	}

	var out any
	if err := yaml.Unmarshal([]byte(s), &out); err != nil {
		return s
	}

	return out
}

// addChoice registers a literal or enumeration field as a choice flag. An
// optional field with a single choice degenerates to a constant flag; when
// such a field allows null and carries a non-nil default, the flag inverts
// and stores absence instead.
func addChoice(eng *argparse.Engine, f schema.FieldDescriptor, choices []string) error {
	if len(choices) == 1 && !f.Required {
		spec := &argparse.Spec{
			Dest:       f.Alias,
			Action:     argparse.StoreConst,
			Default:    f.Default,
			HasDefault: f.HasDefault,
			Help:       describe(f),
			Group:      argparse.GroupOptional,
		}
		if f.AllowNone && f.Default != nil {
			spec.Names = []string{negatedFlagName(f.Alias)}
			spec.Const = nil
		} else {
			spec.Names = flagNames(f)
			spec.Const = choices[0]
		}

		return eng.AddArgument(spec)
	}

	metavar := f.Placeholder
	if metavar == "" {
		metavar = "{" + strings.Join(choices, ", ") + "}"
	}

	return eng.AddArgument(&argparse.Spec{
		Names:      flagNames(f),
		Dest:       f.Alias,
		Action:     argparse.Store,
		Required:   f.Required,
		Default:    f.Default,
		HasDefault: f.HasDefault,
		Choices:    choices,
		Metavar:    metavar,
		Help:       describe(f),
		Group:      groupOf(f),
	})
}

// addStandard registers any remaining field as a plain single-value flag.
func addStandard(eng *argparse.Engine, f schema.FieldDescriptor) error {
	return eng.AddArgument(&argparse.Spec{
		Names:      flagNames(f),
		Dest:       f.Alias,
		Action:     argparse.Store,
		Required:   f.Required,
		Default:    f.Default,
		HasDefault: f.HasDefault,
		Metavar:    f.Placeholder,
		Help:       describe(f),
		Group:      groupOf(f),
	})
}

func addHelpFlag(eng *argparse.Engine) error {
	return eng.AddArgument(&argparse.Spec{
		Names:  []string{"--help", "-h"},
		Dest:   "help",
		Action: argparse.Help,
		Help:   "show this help message and exit",
		Group:  argparse.GroupHelp,
	})
}

func addVersionFlag(eng *argparse.Engine) error {
	return eng.AddArgument(&argparse.Spec{
		Names:  []string{"--version", "-v"},
		Dest:   "version",
		Action: argparse.Version,
		Help:   "show program's version number and exit",
		Group:  argparse.GroupHelp,
	})
}
