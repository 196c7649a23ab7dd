package rolemapping

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
)

// patterns caches compiled rule expressions keyed by their configured text.
var patterns sync.Map //nolint:gochecknoglobals

// compile returns the compiled form of a rule expression.
//
// Expressions are either plain RE2 patterns or delimited patterns in the
// /body/flags form. Supported flags are i, m, s and U, which map to the RE2
// inline flags of the same name; u is accepted and ignored since matching is
// always UTF-8.
func compile(expr string) (*regexp.Regexp, error) {
	if re, ok := patterns.Load(expr); ok {
		return re.(*regexp.Regexp), nil //nolint:forcetypeassert
	}

	translated, err := translate(expr)
	if err != nil {
		return nil, err
	}

	re, err := regexp.Compile(translated)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrInvalidPattern, expr, err)
	}

	patterns.Store(expr, re)

	return re, nil
}

func translate(expr string) (string, error) {
	if len(expr) < 2 || expr[0] != '/' {
		return expr, nil
	}

	end := strings.LastIndexByte(expr, '/')
	if end == 0 {
		return expr, nil
	}

	body, flags := expr[1:end], expr[end+1:]

	var inline strings.Builder

	for _, f := range flags {
		switch f {
		case 'i', 'm', 's', 'U':
			if !strings.ContainsRune(inline.String(), f) {
				inline.WriteRune(f)
			}
		case 'u':
		default:
			return "", fmt.Errorf("%w %q: unsupported flag %q", ErrInvalidPattern, expr, f)
		}
	}

	if inline.Len() == 0 {
		return body, nil
	}

	return "(?" + inline.String() + ")" + body, nil
}
