package structarg

import (
	"fmt"

	"github.com/iancoleman/strcase"
	"github.com/lbreide/structarg/argparse"
	"github.com/lbreide/structarg/schema"
)

// flagName renders the canonical long flag spelling for a field alias.
func flagName(alias string) string {
	return "--" + strcase.ToKebab(alias)
}

// negatedFlagName renders the "--no-" spelling used by paired and inverting
// flags.
func negatedFlagName(alias string) string {
	return "--no-" + strcase.ToKebab(alias)
}

// flagNames returns the accepted spellings for a single-flag field, canonical
// long form first.
func flagNames(f schema.FieldDescriptor) []string {
	names := []string{flagName(f.Alias)}
	if f.Short != "" {
		names = append(names, "-"+f.Short)
	}

	return names
}

// describe renders a field's help text, appending its default when one
// applies.
func describe(f schema.FieldDescriptor) string {
	if !f.HasDefault {
		return f.Description
	}
	if f.Description == "" {
		return fmt.Sprintf("(default: %v)", f.Default)
	}

	return fmt.Sprintf("%s (default: %v)", f.Description, f.Default)
}

func groupOf(f schema.FieldDescriptor) argparse.Group {
	if f.Required {
		return argparse.GroupRequired
	}

	return argparse.GroupOptional
}
