package identity

import (
	"errors"
	"fmt"
)

// ErrMissingAttribute matches every *MissingAttributeError with errors.Is.
var ErrMissingAttribute = errors.New("missing mandatory attribute")

// MissingAttributeError reports a mandatory attribute that was absent or null.
type MissingAttributeError struct {
	Attribute string
}

func (e *MissingAttributeError) Error() string {
	return fmt.Sprintf("missing mandatory attribute %q", e.Attribute)
}

// Is reports whether target is ErrMissingAttribute.
func (e *MissingAttributeError) Is(target error) bool {
	return target == ErrMissingAttribute
}
