package rolemapping

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/GoPowerDNS-Admin/idsync/internal/attribute"
)

var validate = validator.New() //nolint:gochecknoglobals

// Rule matches the values of one attribute against a pattern.
type Rule struct {
	// Attribute is the name of the attribute whose values are matched.
	Attribute string `mapstructure:"attribute" json:"attribute" validate:"required"`
	// Regex is a plain RE2 pattern or a delimited /pattern/flags expression.
	Regex string `mapstructure:"regex" json:"regex" validate:"required"`
	// All requires every value to satisfy the rule instead of at least one.
	All bool `mapstructure:"all" json:"all"`
	// Not negates the match result of each single value.
	Not bool `mapstructure:"not" json:"not"`
}

// Entry is one candidate role together with the rules that grant it.
type Entry struct {
	// Name is the role name, resolved case-insensitively.
	Name string `mapstructure:"name" json:"name" validate:"required"`
	// Disabled entries never match.
	Disabled bool `mapstructure:"disabled" json:"disabled"`
	// All requires every rule to hold instead of at least one.
	All bool `mapstructure:"all" json:"all"`
	// Rules are evaluated in order.
	Rules []Rule `mapstructure:"rules" json:"rules" validate:"dive"`
}

// Evaluate reports whether the rule holds for values.
// ok tells whether the attribute was populated at all; a rule on an absent
// attribute never holds. Null values are matched as empty strings.
func (r Rule) Evaluate(values []*string, ok bool) (bool, error) {
	if !ok {
		return false, nil
	}

	re, err := compile(r.Regex)
	if err != nil {
		return false, err
	}

	results := make([]bool, len(values))

	for i, v := range values {
		var s string
		if v != nil {
			s = *v
		}

		matched := re.MatchString(s)
		if r.Not {
			matched = !matched
		}

		results[i] = matched
	}

	return fold(results, r.All), nil
}

// Evaluate reports whether the entry matches the attributes in store.
// Every rule is evaluated; rules with an invalid pattern count as false and
// their errors are returned joined alongside the result.
func (e Entry) Evaluate(store *attribute.Store) (bool, error) {
	var errs []error

	results := make([]bool, len(e.Rules))

	for i, rule := range e.Rules {
		values, ok := store.AllValues(rule.Attribute)

		matched, err := rule.Evaluate(values, ok)
		if err != nil {
			errs = append(errs, err)
		}

		results[i] = matched
	}

	return fold(results, e.All), errors.Join(errs...)
}

// fold combines results with AND when all is set and with OR otherwise.
// AND over nothing is true, OR over nothing is false.
func fold(results []bool, all bool) bool {
	if all {
		for _, r := range results {
			if !r {
				return false
			}
		}

		return true
	}

	for _, r := range results {
		if r {
			return true
		}
	}

	return false
}

// Validate checks a list of entries as loaded from configuration:
// required fields are present and every pattern compiles.
func Validate(entries []Entry) error {
	for i, entry := range entries {
		if err := validate.Struct(entry); err != nil {
			return fmt.Errorf("%w #%d (%s): %w", ErrInvalidEntry, i, entry.Name, err)
		}

		for _, rule := range entry.Rules {
			if _, err := compile(rule.Regex); err != nil {
				return fmt.Errorf("entry #%d (%s): %w", i, entry.Name, err)
			}
		}
	}

	return nil
}
