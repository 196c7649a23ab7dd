package identity

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Result label values of the synchronizations counter.
const (
	resultSuccess          = "success"
	resultMissingAttribute = "missing_attribute"
	resultError            = "error"
)

//nolint:gochecknoglobals
var (
	synchronizations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "idsync",
			Name:      "synchronizations_total",
			Help:      "Number of identity synchronizations, by authenticator and result.",
		},
		[]string{"authenticator", "result"},
	)

	roleChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "idsync",
			Name:      "role_assignment_changes_total",
			Help:      "Number of automatic role assignments attached or detached.",
		},
		[]string{"authenticator", "change"},
	)

	unresolvedRoles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "idsync",
			Name:      "unresolved_roles_total",
			Help:      "Number of matched role names without a corresponding role.",
		},
		[]string{"authenticator"},
	)
)
