package argparse

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

const defaultHelpWidth = 80

// terminalWidth returns the width help text is wrapped to. Falls back to a
// fixed width when stdout is not a terminal.
func terminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}

	return defaultHelpWidth
}

// FormatUsage renders the single usage line for this parser level.
func (e *Engine) FormatUsage() string {
	var b strings.Builder
	b.WriteString("usage: ")
	b.WriteString(e.prog)

	for pair := e.specs.Oldest(); pair != nil; pair = pair.Next() {
		part := pair.Value.usagePart()
		if pair.Value.Required {
			fmt.Fprintf(&b, " %s", part)
		} else {
			fmt.Fprintf(&b, " [%s]", part)
		}
	}
	if e.commands.Len() > 0 {
		part := "{" + strings.ReplaceAll(e.commandNames(), ", ", ",") + "} ..."
		if e.commandRequired {
			fmt.Fprintf(&b, " %s", part)
		} else {
			fmt.Fprintf(&b, " [%s]", part)
		}
	}
	b.WriteString("\n")

	return b.String()
}

func (s *Spec) usagePart() string {
	name := s.Names[0]
	switch s.Action {
	case Store:
		metavar := s.metavarOrDefault()
		if s.Nargs == OneOrMore {
			return fmt.Sprintf("%s %s [%s ...]", name, metavar, metavar)
		}
		return fmt.Sprintf("%s %s", name, metavar)
	case BoolPair:
		return strings.Join(s.Names, " | ")
	default:
		return name
	}
}

func (s *Spec) metavarOrDefault() string {
	if s.Metavar != "" {
		return s.Metavar
	}

	return strings.ToUpper(strings.ReplaceAll(s.Dest, "-", "_"))
}

// FormatHelp renders the full help text: usage line, description, then the
// argument groups. The commands group, when present, is always shown first,
// ahead of required/optional/help.
func (e *Engine) FormatHelp() string {
	width := terminalWidth()

	var b strings.Builder
	b.WriteString(e.FormatUsage())
	if e.description != "" {
		b.WriteString("\n")
		b.WriteString(wrap(e.description, width, ""))
		b.WriteString("\n")
	}

	if e.commands.Len() > 0 {
		b.WriteString("\n")
		b.WriteString(string(GroupCommands))
		b.WriteString(":\n")
		for pair := e.commands.Oldest(); pair != nil; pair = pair.Next() {
			writeEntry(&b, pair.Value.name, pair.Value.help, width)
		}
	}

	for _, group := range []Group{GroupRequired, GroupOptional, GroupHelp} {
		var entries []*Spec
		for pair := e.specs.Oldest(); pair != nil; pair = pair.Next() {
			if pair.Value.Group == group {
				entries = append(entries, pair.Value)
			}
		}
		if len(entries) == 0 {
			continue
		}

		b.WriteString("\n")
		b.WriteString(string(group))
		b.WriteString(":\n")
		for _, spec := range entries {
			writeEntry(&b, spec.invocation(), spec.Help, width)
		}
	}

	if e.epilog != "" {
		b.WriteString("\n")
		b.WriteString(wrap(e.epilog, width, ""))
		b.WriteString("\n")
	}

	return b.String()
}

// invocation renders the left-hand column of a help entry, e.g.
// "--count COUNT, -c COUNT" or "--verbose".
func (s *Spec) invocation() string {
	parts := make([]string, 0, len(s.Names))
	for _, name := range s.Names {
		switch s.Action {
		case Store:
			parts = append(parts, name+" "+s.metavarOrDefault())
		default:
			parts = append(parts, name)
		}
	}

	return strings.Join(parts, ", ")
}

const helpColumn = 26

func writeEntry(b *strings.Builder, invocation, help string, width int) {
	fmt.Fprintf(b, "  %s", invocation)
	if help == "" {
		b.WriteString("\n")
		return
	}

	pad := helpColumn - 2 - len(invocation)
	if pad < 2 {
		b.WriteString("\n")
		b.WriteString(strings.Repeat(" ", helpColumn))
	} else {
		b.WriteString(strings.Repeat(" ", pad))
	}
	b.WriteString(wrap(help, width-helpColumn, strings.Repeat(" ", helpColumn)))
	b.WriteString("\n")
}

// wrap performs greedy word wrapping, prefixing continuation lines with
// indent. Width is a soft limit; a single overlong word is never split.
func wrap(text string, width int, indent string) string {
	if width <= 0 {
		return text
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}

	var b strings.Builder
	lineLen := 0
	for i, word := range words {
		if i == 0 {
			b.WriteString(word)
			lineLen = len(word)
			continue
		}
		if lineLen+1+len(word) > width {
			b.WriteString("\n")
			b.WriteString(indent)
			b.WriteString(word)
			lineLen = len(word)
			continue
		}
		b.WriteString(" ")
		b.WriteString(word)
		lineLen += 1 + len(word)
	}

	return b.String()
}
