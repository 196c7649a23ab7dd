package identity

import (
	"github.com/rs/zerolog"

	"github.com/GoPowerDNS-Admin/idsync/internal/attribute"
)

// mandatory lists the attributes every synchronization needs, in check order.
var mandatory = []string{ //nolint:gochecknoglobals
	attribute.ExternalID,
	attribute.FirstName,
	attribute.LastName,
	attribute.Email,
}

// Validate checks that the mandatory attributes carry a non-null first value.
// It stops at the first failing attribute, logs it together with the whole
// store and returns a *MissingAttributeError.
func Validate(log zerolog.Logger, store *attribute.Store) error {
	for _, name := range mandatory {
		if _, ok := store.FirstValue(name); ok {
			continue
		}

		log.Error().
			Str("attribute", name).
			Object("attributes", store).
			Msg("mandatory attribute missing from identity provider")

		return &MissingAttributeError{Attribute: name}
	}

	return nil
}
