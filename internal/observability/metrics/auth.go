package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AuthAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_attempts_total",
			Help: "Total number of authentication attempts by result",
		},
		[]string{"result"},
	)

	OwnershipDenialsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ownership_denials_total",
			Help: "Total number of mutations denied by the ownership guard",
		},
	)

	UsersCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "users_created_total",
			Help: "Total number of users created",
		},
	)
)
