package security

import (
	"path/filepath"
	"regexp"
	"strings"
)

// quoteKind classifies each byte of a command line by the quoting that applies to it.
type quoteKind uint8

const (
	unquoted quoteKind = iota
	singleQuoted
	doubleQuoted
	escaped // preceded by a backslash that the shell honours
)

// deniedCommands run arbitrary code in the calling shell and are rejected however they are quoted.
var deniedCommands = map[string]bool{
	"eval":   true,
	"exec":   true,
	"source": true,
	".":      true,
}

// wrapperCommands run their first operand as a command. Each maps to the
// short options that consume the following word as their value.
var wrapperCommands = map[string]map[string]bool{
	"command": nil,
	"builtin": nil,
	"nohup":   nil,
	"env":     {"-u": true, "-C": true},
	"time":    {"-f": true, "-o": true},
	"nice":    {"-n": true},
	"sudo":    {"-u": true, "-g": true, "-C": true, "-D": true, "-h": true, "-p": true, "-r": true, "-t": true, "-U": true},
}

var assignmentPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*=`)

// operator is a token that is rejected when it appears with the wrong quoting.
type operator struct {
	token  string
	reason string
	// inDouble is true when the operator keeps its meaning inside double quotes.
	inDouble bool
}

// Longer tokens come first so "&&" is reported rather than "&".
var operators = []operator{
	{token: "&&", reason: "command chaining (&&)"},
	{token: "||", reason: "command chaining (||)"},
	{token: ";", reason: "command chaining (;)"},
	{token: "&", reason: "background execution (&)"},
	{token: "|", reason: "pipe (|)"},
	{token: "<", reason: "redirection (<)"},
	{token: ">", reason: "redirection (>)"},
	{token: "(", reason: "subshell grouping"},
	{token: ")", reason: "subshell grouping"},
	{token: "`", reason: "command substitution (`)", inDouble: true},
	{token: "$(", reason: "command substitution ($()", inDouble: true},
	{token: "$[", reason: "arithmetic expansion ($[)", inDouble: true},
}

// ValidateCommand checks a shell command line before it is handed to sh -c.
// It returns nil when the command is acceptable and an *UnsafeCommandError otherwise.
func ValidateCommand(command string) error {
	if strings.TrimSpace(command) == "" {
		return ErrEmptyCommand
	}

	if i := strings.IndexAny(command, "\n\r\x00"); i >= 0 {
		return &UnsafeCommandError{Command: command, Reason: "embedded newline or NUL", Offset: i}
	}

	mask, err := scanQuotes(command)
	if err != nil {
		return err
	}

	if err := checkOperators(command, mask); err != nil {
		return err
	}

	if err := checkParameterExpansion(command, mask); err != nil {
		return err
	}

	if base := baseCommand(command, mask); deniedCommands[base] {
		return &UnsafeCommandError{Command: command, Reason: "command " + base + " is not allowed", Offset: -1}
	}

	return nil
}

// scanQuotes computes the quoting of every byte in a single pass.
func scanQuotes(command string) ([]quoteKind, error) {
	mask := make([]quoteKind, len(command))
	state := unquoted
	start := -1

	for i := 0; i < len(command); i++ {
		c := command[i]
		switch state {
		case unquoted:
			switch c {
			case '\\':
				mask[i] = escaped
				if i+1 < len(command) {
					i++
					mask[i] = escaped
				}
			case '\'':
				state, start = singleQuoted, i
				mask[i] = singleQuoted
			case '"':
				state, start = doubleQuoted, i
				mask[i] = doubleQuoted
			default:
				mask[i] = unquoted
			}
		case singleQuoted:
			mask[i] = singleQuoted
			if c == '\'' {
				state = unquoted
			}
		case doubleQuoted:
			mask[i] = doubleQuoted
			if c == '\\' && i+1 < len(command) && strings.IndexByte("\\\"$`", command[i+1]) >= 0 {
				i++
				mask[i] = escaped
				continue
			}
			if c == '"' {
				state = unquoted
			}
		}
	}

	if state != unquoted {
		return nil, &UnsafeCommandError{Command: command, Reason: "unterminated quote", Offset: start}
	}
	return mask, nil
}

func checkOperators(command string, mask []quoteKind) error {
	for i := 0; i < len(command); i++ {
		for _, op := range operators {
			if !strings.HasPrefix(command[i:], op.token) {
				continue
			}
			if !activeAt(mask, i, len(op.token), op.inDouble) {
				continue
			}
			return &UnsafeCommandError{Command: command, Reason: op.reason, Offset: i}
		}
	}
	return nil
}

// activeAt reports whether a token of length n starting at i keeps its shell meaning.
func activeAt(mask []quoteKind, i, n int, inDouble bool) bool {
	for j := i; j < i+n; j++ {
		switch mask[j] {
		case unquoted:
		case doubleQuoted:
			if !inDouble {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// checkParameterExpansion rejects ${...} forms that can evaluate code:
// indirection (${!name}) and transformation operators (${name@P} and friends).
func checkParameterExpansion(command string, mask []quoteKind) error {
	for i := 0; i+1 < len(command); i++ {
		if command[i] != '$' || command[i+1] != '{' || !activeAt(mask, i, 2, true) {
			continue
		}
		end := strings.IndexByte(command[i+2:], '}')
		if end < 0 {
			return &UnsafeCommandError{Command: command, Reason: "unterminated parameter expansion", Offset: i}
		}
		body := command[i+2 : i+2+end]
		if strings.HasPrefix(body, "!") || strings.Contains(body, "@") {
			return &UnsafeCommandError{Command: command, Reason: "parameter expansion operator", Offset: i}
		}
	}
	return nil
}

// BaseCommand returns the program a command line runs first, ignoring leading
// variable assignments and wrappers such as env or sudo. It returns "" when
// the quoting is unbalanced.
func BaseCommand(command string) string {
	mask, err := scanQuotes(command)
	if err != nil {
		return ""
	}
	return baseCommand(command, mask)
}

// baseCommand returns the name of the program the shell would run first,
// after dropping variable assignments and wrapper commands.
func baseCommand(command string, mask []quoteKind) string {
	words := splitWords(command, mask)
	for len(words) > 0 {
		w := words[0]
		switch {
		case assignmentPattern.MatchString(w):
			words = words[1:]
		case isWrapper(filepath.Base(w)):
			valued := wrapperCommands[filepath.Base(w)]
			words = words[1:]
			for len(words) > 0 && strings.HasPrefix(words[0], "-") {
				opt := words[0]
				words = words[1:]
				if opt == "--" {
					break
				}
				if valued[opt] && len(words) > 0 {
					words = words[1:]
				}
			}
		default:
			if w == "" || w == "." {
				return w
			}
			return filepath.Base(w)
		}
	}
	return ""
}

func isWrapper(name string) bool {
	_, ok := wrapperCommands[name]
	return ok
}

// splitWords splits on unquoted whitespace and removes quoting characters.
func splitWords(command string, mask []quoteKind) []string {
	var words []string
	var sb strings.Builder
	inWord := false

	flush := func() {
		if inWord {
			words = append(words, sb.String())
			sb.Reset()
			inWord = false
		}
	}

	for i := 0; i < len(command); i++ {
		c := command[i]
		k := mask[i]

		if k == unquoted && (c == ' ' || c == '\t') {
			flush()
			continue
		}
		inWord = true

		switch {
		case k == unquoted && (c == '\'' || c == '"' || c == '\\'):
		case k == escaped && c == '\\' && i+1 < len(command) && mask[i+1] == escaped:
		case k == singleQuoted && c == '\'':
		case k == doubleQuoted && (c == '"' || c == '\\'):
		default:
			sb.WriteByte(c)
		}
	}
	flush()
	return words
}
