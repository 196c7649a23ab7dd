package rolemapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoPowerDNS-Admin/idsync/internal/attribute"
)

func values(vs ...string) []*string {
	out := make([]*string, len(vs))
	for i := range vs {
		out[i] = &vs[i]
	}

	return out
}

func TestRuleEvaluateQuantifiers(t *testing.T) {
	testCases := []struct {
		name     string
		rule     Rule
		values   []*string
		expected bool
	}{
		// all=false, not=false: at least one value matches
		{name: "any one matches", rule: Rule{Regex: "^a$"}, values: values("b", "a"), expected: true},
		{name: "any none matches", rule: Rule{Regex: "^a$"}, values: values("b", "c"), expected: false},
		{name: "any empty list", rule: Rule{Regex: "^a$"}, values: values(), expected: false},

		// all=true, not=false: every value matches
		{name: "all every matches", rule: Rule{Regex: "^a", All: true}, values: values("ab", "ac"), expected: true},
		{name: "all one fails", rule: Rule{Regex: "^a", All: true}, values: values("ab", "b"), expected: false},
		{name: "all empty list", rule: Rule{Regex: "^a", All: true}, values: values(), expected: true},

		// all=true, not=true: no value matches
		{name: "all not none matches", rule: Rule{Regex: "^a$", All: true, Not: true}, values: values("b", "c"), expected: true},
		{name: "all not one matches", rule: Rule{Regex: "^a$", All: true, Not: true}, values: values("b", "a"), expected: false},
		{name: "all not empty list", rule: Rule{Regex: "^a$", All: true, Not: true}, values: values(), expected: true},

		// all=false, not=true: at least one value does not match
		{name: "not one fails", rule: Rule{Regex: "^a$", Not: true}, values: values("a", "b"), expected: true},
		{name: "not every matches", rule: Rule{Regex: "^a$", Not: true}, values: values("a", "a"), expected: false},
		{name: "not empty list", rule: Rule{Regex: "^a$", Not: true}, values: values(), expected: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.rule.Evaluate(tc.values, true)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestRuleEvaluateAbsentAttribute(t *testing.T) {
	for _, rule := range []Rule{
		{Regex: ".*"},
		{Regex: ".*", All: true},
		{Regex: ".*", Not: true},
		{Regex: ".*", All: true, Not: true},
	} {
		got, err := rule.Evaluate(nil, false)
		require.NoError(t, err)
		assert.False(t, got, "rule %+v", rule)
	}
}

func TestRuleEvaluateNullValue(t *testing.T) {
	got, err := Rule{Regex: "^$"}.Evaluate([]*string{nil}, true)
	require.NoError(t, err)
	assert.True(t, got)

	got, err = Rule{Regex: "^$", Not: true}.Evaluate([]*string{nil}, true)
	require.NoError(t, err)
	assert.False(t, got)
}

func TestRuleEvaluateInvalidPattern(t *testing.T) {
	got, err := Rule{Regex: "(unclosed"}.Evaluate(values("x"), true)
	require.ErrorIs(t, err, ErrInvalidPattern)
	assert.False(t, got)
}

func TestScenarios(t *testing.T) {
	store := attribute.New()
	store.Add("roles", "administrator")
	store.Add("email", "x@university.org")

	entry := Entry{
		Name: "role_a",
		All:  true,
		Rules: []Rule{
			{Attribute: "roles", Regex: "/^administrator$/"},
			{Attribute: "email", Regex: `/@university\.org$/`},
		},
	}

	t.Run("A both rules hold", func(t *testing.T) {
		ok, err := entry.Evaluate(store)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	banned := attribute.New()
	banned.Add("roles", "user", "banned")

	t.Run("B all not with one banned value", func(t *testing.T) {
		values, ok := banned.AllValues("roles")
		got, err := Rule{Attribute: "roles", All: true, Not: true, Regex: "/^banned$/"}.Evaluate(values, ok)
		require.NoError(t, err)
		assert.False(t, got)
	})

	t.Run("C any not with one other value", func(t *testing.T) {
		values, ok := banned.AllValues("roles")
		got, err := Rule{Attribute: "roles", Not: true, Regex: "/^banned$/"}.Evaluate(values, ok)
		require.NoError(t, err)
		assert.True(t, got)
	})
}

func TestEntryEvaluate(t *testing.T) {
	store := attribute.New()
	store.Add("groups", "staff", "it")

	testCases := []struct {
		name     string
		entry    Entry
		expected bool
	}{
		{name: "no rules all", entry: Entry{All: true}, expected: true},
		{name: "no rules any", entry: Entry{}, expected: false},
		{
			name: "any with one true rule",
			entry: Entry{Rules: []Rule{
				{Attribute: "groups", Regex: "^nope$"},
				{Attribute: "groups", Regex: "^it$"},
			}},
			expected: true,
		},
		{
			name: "all with one false rule",
			entry: Entry{All: true, Rules: []Rule{
				{Attribute: "groups", Regex: "^staff$"},
				{Attribute: "groups", Regex: "^nope$"},
			}},
			expected: false,
		},
		{
			name: "all with missing attribute",
			entry: Entry{All: true, Rules: []Rule{
				{Attribute: "groups", Regex: "^staff$"},
				{Attribute: "department", Regex: ".*", Not: true},
			}},
			expected: false,
		},
		{
			name: "any with missing attribute only",
			entry: Entry{Rules: []Rule{
				{Attribute: "department", Regex: ".*"},
			}},
			expected: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.entry.Evaluate(store)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name    string
		entries []Entry
		wantErr error
	}{
		{name: "empty list"},
		{
			name: "valid",
			entries: []Entry{{Name: "admin", Rules: []Rule{
				{Attribute: "groups", Regex: "/^admins$/i"},
			}}},
		},
		{
			name:    "missing name",
			entries: []Entry{{Rules: []Rule{{Attribute: "groups", Regex: "x"}}}},
			wantErr: ErrInvalidEntry,
		},
		{
			name:    "missing attribute",
			entries: []Entry{{Name: "admin", Rules: []Rule{{Regex: "x"}}}},
			wantErr: ErrInvalidEntry,
		},
		{
			name:    "broken pattern",
			entries: []Entry{{Name: "admin", Rules: []Rule{{Attribute: "groups", Regex: "[a-"}}}},
			wantErr: ErrInvalidPattern,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.entries)
			if tc.wantErr == nil {
				require.NoError(t, err)
				return
			}

			require.ErrorIs(t, err, tc.wantErr)
		})
	}
}
