// Package metrics holds the Prometheus instruments for the application.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	UsersRegistered prometheus.Counter
	Logins          prometheus.Counter
	AuthRejected    *prometheus.CounterVec
	ContactsCreated prometheus.Counter
	MailSent        prometheus.Counter
	MailFailed      prometheus.Counter
}

// New registers all metrics on the default registerer.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers all metrics on reg; tests pass a fresh registry.
func NewWith(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		UsersRegistered: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "phonebook_users_registered_total",
			Help: "Total number of registered users",
		}),
		Logins: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "phonebook_logins_total",
			Help: "Total number of successful logins",
		}),
		AuthRejected: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "phonebook_auth_rejected_total",
			Help: "Requests rejected by the session guard, by reason",
		}, []string{"reason"}),
		ContactsCreated: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "phonebook_contacts_created_total",
			Help: "Total number of contacts created",
		}),
		MailSent: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "phonebook_mail_sent_total",
			Help: "Total number of mail messages delivered",
		}),
		MailFailed: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "phonebook_mail_failed_total",
			Help: "Total number of mail messages that failed or were dropped",
		}),
	}
}
