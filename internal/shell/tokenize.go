package shell

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformedArgument is returned for command lines or values that cannot
// be parsed.
var ErrMalformedArgument = errors.New("malformed argument")

// Tokenize splits line into arguments on spaces. Double quotes group words
// and a backslash escapes the next character.
func Tokenize(line string) ([]string, error) {
	var (
		argv    []string
		cur     strings.Builder
		inQuote bool
		escape  bool
		started bool
	)
	for _, r := range line {
		switch {
		case escape:
			cur.WriteRune(r)
			escape = false
		case r == '\\':
			escape = true
			started = true
		case r == '"':
			inQuote = !inQuote
			started = true
		case (r == ' ' || r == '\t') && !inQuote:
			if started {
				argv = append(argv, cur.String())
				cur.Reset()
				started = false
			}
		default:
			cur.WriteRune(r)
			started = true
		}
	}
	if escape {
		return nil, fmt.Errorf("%w: trailing backslash", ErrMalformedArgument)
	}
	if inQuote {
		return nil, fmt.Errorf("%w: unterminated quote", ErrMalformedArgument)
	}
	if started {
		argv = append(argv, cur.String())
	}
	return argv, nil
}

func parseInt(name, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid value for %s: %q must be a number", ErrMalformedArgument, name, value)
	}
	return n, nil
}
