// Package argparse implements the argument parsing engine underneath
// structarg. It knows nothing about schemas or models: callers register
// argument specifications and named sub-parsers, then feed it a token stream
// and read back a (possibly nested) namespace of raw values.
//
// The engine is built once, sealed, and is safe to reuse for sequential
// parses; each parse allocates its own namespace.
package argparse

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lbreide/structarg/parse"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Action determines how a flag occurrence is turned into a namespace value.
type Action int

const (
	// Store records the next token (or tokens, per Nargs) as the value.
	Store Action = iota
	// StoreConst records the spec's Const without consuming a token.
	StoreConst
	// StoreTrue records true without consuming a token.
	StoreTrue
	// StoreFalse records false without consuming a token.
	StoreFalse
	// BoolPair is a paired on/off flag (--x / --no-x) sharing one destination;
	// the recorded value depends on which spelling was used.
	BoolPair
	// Help aborts parsing and requests the help text.
	Help
	// Version aborts parsing and requests the version string.
	Version
)

// Nargs is the number of value tokens a Store flag consumes.
type Nargs int

const (
	// One consumes exactly one token.
	One Nargs = iota
	// OneOrMore consumes every following token up to the next flag or command.
	OneOrMore
)

// Group names the help section an argument is rendered under.
type Group string

const (
	GroupCommands Group = "commands"
	GroupRequired Group = "required arguments"
	GroupOptional Group = "optional arguments"
	GroupHelp     Group = "help"
)

// Spec describes a single registered argument.
type Spec struct {
	// Names holds the accepted spellings, canonical long form first
	// (e.g. "--count", "-c"). BoolPair specs list both the asserting and
	// negating long forms.
	Names      []string
	Dest       string
	Action     Action
	Nargs      Nargs
	Const      any
	Default    any
	HasDefault bool
	Required   bool
	Choices    []string
	Metavar    string
	Help       string
	Group      Group
}

type command struct {
	name   string
	help   string
	engine *Engine
}

// HelpError is returned when a help flag is encountered; Engine identifies
// which (sub-)parser's help text should be shown.
type HelpError struct {
	Engine *Engine
}

func (e *HelpError) Error() string { return "help requested" }

// ErrVersion is returned when a version flag is encountered.
var ErrVersion = errors.New("version requested")

// ErrSealed is returned when registering arguments on a sealed engine.
var ErrSealed = errors.New("parser is sealed, no further arguments can be registered")

// Engine is a single level of the parser tree.
type Engine struct {
	prog            string
	description     string
	epilog          string
	sealed          bool
	specs           *orderedmap.OrderedMap[string, *Spec]
	lookup          map[string]*Spec
	commands        *orderedmap.OrderedMap[string, *command]
	commandRequired bool
}

// New creates an empty engine for the named program.
func New(prog, description, epilog string) *Engine {
	return &Engine{
		prog:        prog,
		description: description,
		epilog:      epilog,
		specs:       orderedmap.New[string, *Spec](),
		lookup:      map[string]*Spec{},
		commands:    orderedmap.New[string, *command](),
	}
}

// Prog returns the program name, including any parent command path.
func (e *Engine) Prog() string { return e.prog }

// AddArgument registers a new argument specification. Registration fails on
// duplicate destinations or flag spellings, and on sealed engines.
func (e *Engine) AddArgument(spec *Spec) error {
	if e.sealed {
		return ErrSealed
	}
	if len(spec.Names) == 0 || spec.Dest == "" {
		return fmt.Errorf("argument needs at least one name and a destination")
	}
	if _, exists := e.specs.Get(spec.Dest); exists {
		return fmt.Errorf("argument destination %q already registered", spec.Dest)
	}
	for _, name := range spec.Names {
		if _, exists := e.lookup[name]; exists {
			return fmt.Errorf("flag %q already registered", name)
		}
	}

	e.specs.Set(spec.Dest, spec)
	for _, name := range spec.Names {
		e.lookup[name] = spec
	}

	return nil
}

// EachSpec calls fn for every argument registered at this level, in
// registration order.
func (e *Engine) EachSpec(fn func(*Spec)) {
	for pair := e.specs.Oldest(); pair != nil; pair = pair.Next() {
		fn(pair.Value)
	}
}

// AddCommand registers a named sub-parser and returns its engine. A required
// command makes sub-command selection mandatory at this level.
func (e *Engine) AddCommand(name, help string, required bool) (*Engine, error) {
	if e.sealed {
		return nil, ErrSealed
	}
	if _, exists := e.commands.Get(name); exists {
		return nil, fmt.Errorf("command %q already registered", name)
	}

	child := New(e.prog+" "+name, help, "")
	e.commands.Set(name, &command{name: name, help: help, engine: child})
	if required {
		e.commandRequired = true
	}

	return child, nil
}

// Seal freezes the engine; subsequent registrations fail. Sealing cascades
// to sub-parsers.
func (e *Engine) Seal() {
	e.sealed = true
	for pair := e.commands.Oldest(); pair != nil; pair = pair.Next() {
		pair.Value.engine.Seal()
	}
}

// ParseKnown consumes the stream and returns the resulting namespace plus any
// unrecognized tokens. Unrecognized tokens from sub-parsers bubble up so the
// outermost caller decides how to report them.
func (e *Engine) ParseKnown(st *parse.Stream) (*Namespace, []string, error) {
	ns := newNamespace()
	for pair := e.specs.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Value.HasDefault {
			ns.Set(pair.Value.Dest, pair.Value.Default)
		}
	}

	seen := map[string]bool{}
	commandSeen := false
	var extras []string

	for {
		tok, ok := st.Next()
		if !ok {
			break
		}

		if isFlag(tok) {
			name, inline, hasInline := splitInline(tok)
			spec, known := e.lookup[name]
			if !known {
				extras = append(extras, tok)
				continue
			}

			switch spec.Action {
			case Help:
				return nil, nil, &HelpError{Engine: e}
			case Version:
				return nil, nil, ErrVersion
			case StoreTrue:
				ns.Set(spec.Dest, true)
			case StoreFalse:
				ns.Set(spec.Dest, false)
			case StoreConst:
				ns.Set(spec.Dest, spec.Const)
			case BoolPair:
				ns.Set(spec.Dest, !strings.HasPrefix(name, "--no-"))
			case Store:
				if err := e.storeValue(st, ns, spec, name, inline, hasInline); err != nil {
					return nil, nil, err
				}
			}
			seen[spec.Dest] = true

			continue
		}

		// Not a flag: must name a sub-command when any are registered,
		// otherwise it bubbles up as unrecognized.
		if e.commands.Len() == 0 {
			extras = append(extras, tok)
			continue
		}
		cmd, known := e.commands.Get(tok)
		if !known {
			return nil, nil, fmt.Errorf("unknown command %q (choices: %s)", tok, e.commandNames())
		}

		childNs, childExtras, err := cmd.engine.ParseKnown(st)
		if err != nil {
			return nil, nil, err
		}
		ns.Set(cmd.name, childNs)
		extras = append(extras, childExtras...)
		commandSeen = true
	}

	if missing := e.missingRequired(seen, commandSeen); len(missing) > 0 {
		return nil, nil, fmt.Errorf("the following arguments are required: %s", strings.Join(missing, ", "))
	}

	return ns, extras, nil
}

func (e *Engine) storeValue(st *parse.Stream, ns *Namespace, spec *Spec, name, inline string, hasInline bool) error {
	if spec.Nargs == OneOrMore {
		var values []string
		if hasInline {
			values = append(values, inline)
		}
		for {
			peek, ok := st.Peek()
			if !ok || isFlag(peek) || e.isCommand(peek) {
				break
			}
			next, _ := st.Next()
			values = append(values, next)
		}
		if len(values) == 0 {
			return fmt.Errorf("argument %s: expected at least one argument", name)
		}
		if err := spec.checkChoices(name, values); err != nil {
			return err
		}
		ns.Set(spec.Dest, values)

		return nil
	}

	var value string
	if hasInline {
		value = inline
	} else {
		peek, ok := st.Peek()
		if !ok || isFlag(peek) {
			return fmt.Errorf("argument %s: expected one argument", name)
		}
		value, _ = st.Next()
	}
	if err := spec.checkChoices(name, []string{value}); err != nil {
		return err
	}
	ns.Set(spec.Dest, value)

	return nil
}

func (s *Spec) checkChoices(name string, values []string) error {
	if len(s.Choices) == 0 {
		return nil
	}
	for _, v := range values {
		found := false
		for _, c := range s.Choices {
			if v == c {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("argument %s: invalid choice: %q (choose from %s)",
				name, v, strings.Join(s.Choices, ", "))
		}
	}

	return nil
}

func (e *Engine) missingRequired(seen map[string]bool, commandSeen bool) []string {
	var missing []string
	for pair := e.specs.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Value.Required && !seen[pair.Value.Dest] {
			missing = append(missing, pair.Value.Names[0])
		}
	}
	if e.commands.Len() > 0 && e.commandRequired && !commandSeen {
		missing = append(missing, "{"+e.commandNames()+"}")
	}

	return missing
}

func (e *Engine) isCommand(tok string) bool {
	_, ok := e.commands.Get(tok)
	return ok
}

func (e *Engine) commandNames() string {
	names := make([]string, 0, e.commands.Len())
	for pair := e.commands.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Value.name)
	}

	return strings.Join(names, ", ")
}

// isFlag reports whether a token is a flag spelling rather than a value or
// command. A lone dash and negative numbers are values.
func isFlag(tok string) bool {
	if len(tok) < 2 || tok[0] != '-' {
		return false
	}
	c := tok[1]
	if c >= '0' && c <= '9' || c == '.' {
		return false
	}

	return true
}

// splitInline splits "--flag=value" spellings.
func splitInline(tok string) (name, value string, ok bool) {
	if i := strings.IndexByte(tok, '='); i >= 0 {
		return tok[:i], tok[i+1:], true
	}

	return tok, "", false
}
