package argparse

import (
	"strings"
	"testing"

	"github.com/lbreide/structarg/parse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustAdd(t *testing.T, e *Engine, spec *Spec) {
	t.Helper()
	require.NoError(t, e.AddArgument(spec))
}

func TestStoreActions(t *testing.T) {
	eng := New("prog", "", "")
	mustAdd(t, eng, &Spec{Names: []string{"--name"}, Dest: "name", Action: Store})
	mustAdd(t, eng, &Spec{Names: []string{"--debug"}, Dest: "debug", Action: StoreTrue, Default: false, HasDefault: true})
	mustAdd(t, eng, &Spec{Names: []string{"--no-color"}, Dest: "color", Action: StoreFalse, Default: true, HasDefault: true})
	mustAdd(t, eng, &Spec{Names: []string{"--fast"}, Dest: "mode", Action: StoreConst, Const: "fast"})
	eng.Seal()

	ns, extras, err := eng.ParseKnown(parse.NewStream([]string{"--name", "x", "--debug", "--no-color", "--fast"}))
	require.NoError(t, err)
	assert.Empty(t, extras)

	name, _ := ns.Get("name")
	assert.Equal(t, "x", name)
	debug, _ := ns.Get("debug")
	assert.Equal(t, true, debug)
	color, _ := ns.Get("color")
	assert.Equal(t, false, color)
	mode, _ := ns.Get("mode")
	assert.Equal(t, "fast", mode)
}

func TestDefaultsPreloaded(t *testing.T) {
	eng := New("prog", "", "")
	mustAdd(t, eng, &Spec{Names: []string{"--count"}, Dest: "count", Action: Store, Default: 5, HasDefault: true})
	mustAdd(t, eng, &Spec{Names: []string{"--name"}, Dest: "name", Action: Store})
	eng.Seal()

	ns, _, err := eng.ParseKnown(parse.NewStream(nil))
	require.NoError(t, err)

	count, ok := ns.Get("count")
	require.True(t, ok)
	assert.Equal(t, 5, count)
	_, ok = ns.Get("name")
	assert.False(t, ok, "no default registered, no value stored")
}

func TestInlineValues(t *testing.T) {
	eng := New("prog", "", "")
	mustAdd(t, eng, &Spec{Names: []string{"--name"}, Dest: "name", Action: Store})
	eng.Seal()

	ns, _, err := eng.ParseKnown(parse.NewStream([]string{"--name=a=b"}))
	require.NoError(t, err)

	name, _ := ns.Get("name")
	assert.Equal(t, "a=b", name, "only the first '=' splits")
}

func TestBoolPair(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want any
	}{
		{name: "asserting form", args: []string{"--force"}, want: true},
		{name: "negating form", args: []string{"--no-force"}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng := New("prog", "", "")
			mustAdd(t, eng, &Spec{Names: []string{"--force", "--no-force"}, Dest: "force", Action: BoolPair, Required: true})
			eng.Seal()

			ns, _, err := eng.ParseKnown(parse.NewStream(tt.args))
			require.NoError(t, err)
			got, _ := ns.Get("force")
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOneOrMore(t *testing.T) {
	eng := New("prog", "", "")
	mustAdd(t, eng, &Spec{Names: []string{"--tags"}, Dest: "tags", Action: Store, Nargs: OneOrMore})
	mustAdd(t, eng, &Spec{Names: []string{"--name"}, Dest: "name", Action: Store})
	eng.Seal()

	ns, _, err := eng.ParseKnown(parse.NewStream([]string{"--tags", "a", "b", "c", "--name", "x"}))
	require.NoError(t, err)

	tags, _ := ns.Get("tags")
	assert.Equal(t, []string{"a", "b", "c"}, tags, "collection stops at the next flag")

	_, _, err = eng.ParseKnown(parse.NewStream([]string{"--tags", "--name", "x"}))
	assert.ErrorContains(t, err, "expected at least one argument")
}

func TestMissingValue(t *testing.T) {
	eng := New("prog", "", "")
	mustAdd(t, eng, &Spec{Names: []string{"--name"}, Dest: "name", Action: Store})
	eng.Seal()

	_, _, err := eng.ParseKnown(parse.NewStream([]string{"--name"}))
	assert.ErrorContains(t, err, "expected one argument")
}

func TestNegativeNumbersAreValues(t *testing.T) {
	eng := New("prog", "", "")
	mustAdd(t, eng, &Spec{Names: []string{"--offset"}, Dest: "offset", Action: Store})
	eng.Seal()

	ns, _, err := eng.ParseKnown(parse.NewStream([]string{"--offset", "-5"}))
	require.NoError(t, err)

	offset, _ := ns.Get("offset")
	assert.Equal(t, "-5", offset)
}

func TestChoices(t *testing.T) {
	eng := New("prog", "", "")
	mustAdd(t, eng, &Spec{Names: []string{"--mode"}, Dest: "mode", Action: Store, Choices: []string{"fast", "slow"}})
	eng.Seal()

	ns, _, err := eng.ParseKnown(parse.NewStream([]string{"--mode", "slow"}))
	require.NoError(t, err)
	mode, _ := ns.Get("mode")
	assert.Equal(t, "slow", mode)

	_, _, err = eng.ParseKnown(parse.NewStream([]string{"--mode", "medium"}))
	assert.EqualError(t, err, `argument --mode: invalid choice: "medium" (choose from fast, slow)`)
}

func TestRequiredArguments(t *testing.T) {
	eng := New("prog", "", "")
	mustAdd(t, eng, &Spec{Names: []string{"--count"}, Dest: "count", Action: Store, Required: true})
	mustAdd(t, eng, &Spec{Names: []string{"--name"}, Dest: "name", Action: Store, Required: true})
	eng.Seal()

	_, _, err := eng.ParseKnown(parse.NewStream(nil))
	assert.EqualError(t, err, "the following arguments are required: --count, --name")
}

func TestCommands(t *testing.T) {
	eng := New("prog", "", "")
	mustAdd(t, eng, &Spec{Names: []string{"--verbose"}, Dest: "verbose", Action: StoreTrue, Default: false, HasDefault: true})

	serve, err := eng.AddCommand("serve", "run the server", true)
	require.NoError(t, err)
	mustAdd(t, serve, &Spec{Names: []string{"--port"}, Dest: "port", Action: Store, Required: true})

	inner, err := serve.AddCommand("tls", "enable tls", false)
	require.NoError(t, err)
	mustAdd(t, inner, &Spec{Names: []string{"--cert"}, Dest: "cert", Action: Store})
	eng.Seal()

	ns, extras, err := eng.ParseKnown(parse.NewStream([]string{"--verbose", "serve", "--port", "8080", "tls", "--cert", "c.pem"}))
	require.NoError(t, err)
	assert.Empty(t, extras)

	serveVal, ok := ns.Get("serve")
	require.True(t, ok)
	serveNs := serveVal.(*Namespace)
	port, _ := serveNs.Get("port")
	assert.Equal(t, "8080", port)

	tlsVal, ok := serveNs.Get("tls")
	require.True(t, ok)
	cert, _ := tlsVal.(*Namespace).Get("cert")
	assert.Equal(t, "c.pem", cert)

	assert.Equal(t, "prog serve tls", inner.Prog())
}

func TestRequiredCommandMissing(t *testing.T) {
	eng := New("prog", "", "")
	_, err := eng.AddCommand("serve", "", true)
	require.NoError(t, err)
	eng.Seal()

	_, _, err = eng.ParseKnown(parse.NewStream(nil))
	assert.EqualError(t, err, "the following arguments are required: {serve}")
}

func TestUnknownCommand(t *testing.T) {
	eng := New("prog", "", "")
	_, err := eng.AddCommand("serve", "", false)
	require.NoError(t, err)
	_, err = eng.AddCommand("migrate", "", false)
	require.NoError(t, err)
	eng.Seal()

	_, _, err = eng.ParseKnown(parse.NewStream([]string{"bogus"}))
	assert.EqualError(t, err, `unknown command "bogus" (choices: serve, migrate)`)
}

func TestUnrecognizedTokensBubble(t *testing.T) {
	eng := New("prog", "", "")
	serve, err := eng.AddCommand("serve", "", false)
	require.NoError(t, err)
	mustAdd(t, serve, &Spec{Names: []string{"--port"}, Dest: "port", Action: Store})
	eng.Seal()

	_, extras, err := eng.ParseKnown(parse.NewStream([]string{"--mystery", "serve", "--port", "1", "--bogus", "stray"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"--mystery", "--bogus", "stray"}, extras)
}

func TestHelpAndVersion(t *testing.T) {
	eng := New("prog", "", "")
	mustAdd(t, eng, &Spec{Names: []string{"--help", "-h"}, Dest: "help", Action: Help})
	mustAdd(t, eng, &Spec{Names: []string{"--version"}, Dest: "version", Action: Version})

	serve, err := eng.AddCommand("serve", "", false)
	require.NoError(t, err)
	mustAdd(t, serve, &Spec{Names: []string{"--help", "-h"}, Dest: "help", Action: Help})
	eng.Seal()

	_, _, err = eng.ParseKnown(parse.NewStream([]string{"-h"}))
	var help *HelpError
	require.ErrorAs(t, err, &help)
	assert.Same(t, eng, help.Engine)

	_, _, err = eng.ParseKnown(parse.NewStream([]string{"serve", "--help"}))
	require.ErrorAs(t, err, &help)
	assert.Same(t, serve, help.Engine, "sub-command help names the sub-parser")

	_, _, err = eng.ParseKnown(parse.NewStream([]string{"--version"}))
	assert.ErrorIs(t, err, ErrVersion)
}

func TestRegistrationErrors(t *testing.T) {
	eng := New("prog", "", "")
	mustAdd(t, eng, &Spec{Names: []string{"--name"}, Dest: "name", Action: Store})

	err := eng.AddArgument(&Spec{Names: []string{"--other"}, Dest: "name", Action: Store})
	assert.ErrorContains(t, err, "already registered")

	err = eng.AddArgument(&Spec{Names: []string{"--name"}, Dest: "other", Action: Store})
	assert.ErrorContains(t, err, "already registered")

	err = eng.AddArgument(&Spec{Dest: "empty"})
	assert.Error(t, err)

	eng.Seal()
	err = eng.AddArgument(&Spec{Names: []string{"--late"}, Dest: "late", Action: Store})
	assert.ErrorIs(t, err, ErrSealed)

	_, err = eng.AddCommand("late", "", false)
	assert.ErrorIs(t, err, ErrSealed)
}

func TestFormatHelpGrouping(t *testing.T) {
	eng := New("prog", "demo program", "see the docs")
	mustAdd(t, eng, &Spec{Names: []string{"--count", "-c"}, Dest: "count", Action: Store, Required: true, Group: GroupRequired, Help: "number of widgets"})
	mustAdd(t, eng, &Spec{Names: []string{"--verbose"}, Dest: "verbose", Action: StoreTrue, Group: GroupOptional, Help: "enable verbose output"})
	mustAdd(t, eng, &Spec{Names: []string{"--help", "-h"}, Dest: "help", Action: Help, Group: GroupHelp, Help: "show this help message and exit"})
	_, err := eng.AddCommand("serve", "run the server", false)
	require.NoError(t, err)
	eng.Seal()

	help := eng.FormatHelp()

	assert.Contains(t, help, "usage: prog")
	assert.Contains(t, help, "demo program")
	assert.Contains(t, help, "see the docs")
	assert.Contains(t, help, "--count COUNT, -c COUNT")

	order := []string{"commands:", "required arguments:", "optional arguments:", "help:"}
	last := -1
	for _, section := range order {
		idx := strings.Index(help, section)
		require.GreaterOrEqual(t, idx, 0, section)
		assert.Greater(t, idx, last, "section %s out of order", section)
		last = idx
	}
}
