// Package attribute holds the multi-valued attribute bag an external identity
// provider hands over for a single authentication event.
package attribute

import (
	"sort"

	"github.com/rs/zerolog"
)

// Names of the attributes the synchronization itself depends on.
// Any other attribute is carried opaquely and only used for role mapping.
const (
	ExternalID = "external_id"
	FirstName  = "first_name"
	LastName   = "last_name"
	Email      = "email"
	Image      = "image"
	Groups     = "groups"
)

// Store maps an attribute name to its ordered, append-only list of values.
// A nil value is a null marker. The zero value is ready to use.
// A Store is not safe for concurrent use; it lives for one synchronization.
type Store struct {
	values map[string][]*string
}

// New returns an empty Store.
func New() *Store {
	return &Store{values: make(map[string][]*string)}
}

// FromMap builds a Store from plain string values, keeping the slice order.
func FromMap(m map[string][]string) *Store {
	s := New()

	for name, values := range m {
		s.Add(name, values...)
	}

	return s
}

// AddValue appends value to the list of name. A nil value is kept as null.
func (s *Store) AddValue(name string, value *string) {
	if s.values == nil {
		s.values = make(map[string][]*string)
	}

	s.values[name] = append(s.values[name], value)
}

// Add appends every given value to the list of name.
// Calling Add without values still marks the attribute as populated.
func (s *Store) Add(name string, values ...string) {
	if s.values == nil {
		s.values = make(map[string][]*string)
	}

	if _, ok := s.values[name]; !ok {
		s.values[name] = make([]*string, 0, len(values))
	}

	for i := range values {
		v := values[i]
		s.values[name] = append(s.values[name], &v)
	}
}

// FirstValue returns the first value of name.
// ok is false if the attribute has no values or its first value is null.
func (s *Store) FirstValue(name string) (value string, ok bool) {
	values := s.values[name]
	if len(values) == 0 || values[0] == nil {
		return "", false
	}

	return *values[0], true
}

// AllValues returns the full ordered list of name.
// ok is false if the attribute was never populated.
func (s *Store) AllValues(name string) (values []*string, ok bool) {
	values, ok = s.values[name]

	return values, ok
}

// Names returns the populated attribute names in sorted order.
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.values))
	for name := range s.values {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// MarshalZerologObject writes a snapshot of all attributes to a log event.
// Null values are logged as JSON null.
func (s *Store) MarshalZerologObject(e *zerolog.Event) {
	for _, name := range s.Names() {
		e.Interface(name, s.values[name])
	}
}
