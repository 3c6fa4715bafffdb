// Package structarg turns tagged Go structs into complete command-line
// interfaces. Flags, sub-commands, grouped help text, and typed validation
// are all derived from the struct declaration; the parsed result is an
// instance of the same struct.
//
//	type Config struct {
//		Count   int      `arg:"short:c;desc:number of widgets;required:true"`
//		Verbose bool     `arg:"desc:enable verbose output"`
//		Mode    string   `arg:"choices:fast,slow;desc:processing mode"`
//		Tags    []string `arg:"desc:tags to apply"`
//	}
//
//	parser, err := structarg.NewParser(&Config{Mode: "fast"},
//		structarg.WithProg("widgets"),
//		structarg.WithVersion("1.2.3"),
//	)
//	cfg, err := parser.Parse(nil) // nil means os.Args[1:]
package structarg

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lbreide/structarg/argparse"
	"github.com/lbreide/structarg/model"
	"github.com/lbreide/structarg/parse"
	"github.com/lbreide/structarg/schema"
)

// Parser converts command-line arguments into validated instances of T. It
// is immutable after construction and reusable across sequential parses.
type Parser[T any] struct {
	engine    *argparse.Engine
	validator *model.Validator[T]
	cfg       *parserConfig
}

// NewParser builds a parser from a default model instance. The instance's
// field values become the declared defaults; its tags drive flag naming,
// requiredness, choices, and help text.
func NewParser[T any](defaults *T, opts ...ConfigureParserFunc) (*Parser[T], error) {
	cfg := newParserConfig()
	var cfgErr error
	for _, opt := range opts {
		opt(cfg, &cfgErr)
		if cfgErr != nil {
			return nil, cfgErr
		}
	}

	intro, err := schema.Of(defaults)
	if err != nil {
		return nil, err
	}

	if cfg.prog == "" {
		cfg.prog = filepath.Base(os.Args[0])
	}
	engine := argparse.New(cfg.prog, cfg.description, cfg.epilog)

	casters := map[string]model.Caster{}
	renames := map[string]string{}
	if err := addModel(engine, intro, "", casters, renames); err != nil {
		return nil, err
	}
	if err := addHelpFlag(engine); err != nil {
		return nil, err
	}
	if cfg.version != "" {
		if err := addVersionFlag(engine); err != nil {
			return nil, err
		}
	}
	engine.Seal()

	return &Parser[T]{
		engine:    engine,
		validator: model.NewValidator(intro.Name(), defaults, casters, renames),
		cfg:       cfg,
	}, nil
}

// addModel walks a schema in declaration order and registers one argument
// (or sub-parser) per field, recursing into command fields. Casters and
// field renames are collected keyed by dotted alias path.
func addModel(eng *argparse.Engine, intro schema.Introspector, prefix string, casters map[string]model.Caster, renames map[string]string) error {
	for _, f := range intro.Fields() {
		path := f.Alias
		if prefix != "" {
			path = prefix + "." + f.Alias
		}
		renames[path] = f.Name

		var err error
		switch classify(f) {
		case CategoryCommand:
			err = addCommand(eng, f, path, casters, renames)
		case CategoryBoolean:
			err = addBoolean(eng, f)
		case CategoryContainer:
			err = addContainer(eng, f)
		case CategoryMapping:
			if err = addMapping(eng, f); err == nil {
				casters[path] = literalCaster
			}
		case CategoryLiteral:
			err = addChoice(eng, f, f.Choices)
		case CategoryEnumeration:
			err = addChoice(eng, f, schema.EnumMembers(f.Type))
		default:
			err = addStandard(eng, f)
		}
		if err != nil {
			return fmt.Errorf("field %s: %w", path, err)
		}
	}

	return nil
}

func addCommand(eng *argparse.Engine, f schema.FieldDescriptor, path string, casters map[string]model.Caster, renames map[string]string) error {
	child, err := eng.AddCommand(f.Alias, f.Description, f.Required)
	if err != nil {
		return err
	}

	nested, err := f.Nested()
	if err != nil {
		return err
	}
	if err := addModel(child, nested, path, casters, renames); err != nil {
		return err
	}

	return addHelpFlag(child)
}

// Parse converts args into a validated model instance. A nil slice means
// os.Args[1:]. Depending on configuration, failures either terminate the
// process (exit 2 for errors, 0 for help/version) or come back as an error:
// *ArgumentError for parse and validation failures, ErrHelp or ErrVersion
// when those flags were given.
func (p *Parser[T]) Parse(args []string) (*T, error) {
	if args == nil {
		args = os.Args[1:]
	}
	st := parse.NewStream(args)
	p.injectEnv(st, args)

	ns, extras, err := p.engine.ParseKnown(st)
	if err != nil {
		return nil, p.fail(err)
	}
	if len(extras) > 0 {
		return nil, p.fail(fmt.Errorf("unrecognized arguments: %s", strings.Join(extras, " ")))
	}

	out, err := p.validator.Validate(toNestedDict(ns))
	if err != nil {
		return nil, p.fail(err)
	}

	return out, nil
}

// ParseString splits a shell-style command string and parses it.
func (p *Parser[T]) ParseString(s string) (*T, error) {
	args, err := parse.Split(s)
	if err != nil {
		return nil, p.fail(err)
	}
	if args == nil {
		args = []string{}
	}

	return p.Parse(args)
}

// FormatHelp returns the parser's full help text.
func (p *Parser[T]) FormatHelp() string {
	return p.engine.FormatHelp()
}

// FormatUsage returns the parser's one-line usage string.
func (p *Parser[T]) FormatUsage() string {
	return p.engine.FormatUsage()
}

// fail applies the configured error policy. The exit function ends the
// process under the default configuration; the returns after it only matter
// when a test injects a non-terminating exit.
func (p *Parser[T]) fail(err error) error {
	var help *argparse.HelpError
	if errors.As(err, &help) {
		fmt.Fprint(p.cfg.stdout, help.Engine.FormatHelp())
		if p.cfg.exitOnError {
			p.cfg.exit(0)
		}
		return ErrHelp
	}
	if errors.Is(err, argparse.ErrVersion) {
		fmt.Fprintln(p.cfg.stdout, p.cfg.version)
		if p.cfg.exitOnError {
			p.cfg.exit(0)
		}
		return ErrVersion
	}

	argErr := &ArgumentError{
		Prog:    p.engine.Prog(),
		Usage:   p.engine.FormatUsage(),
		Message: err.Error(),
	}
	if p.cfg.exitOnError {
		fmt.Fprint(p.cfg.stderr, argErr.Usage)
		fmt.Fprintf(p.cfg.stderr, "%s\n", argErr.Error())
		p.cfg.exit(2)
	}

	return argErr
}
