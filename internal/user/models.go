// Package user defines the account model shared by the auth service, the
// session guard, and the stores.
package user

import (
	"time"

	"github.com/google/uuid"
)

type Subscription string

const (
	SubscriptionStarter  Subscription = "starter"
	SubscriptionPro      Subscription = "pro"
	SubscriptionBusiness Subscription = "business"
)

// User is a stored account record. VerificationToken is empty once consumed;
// Verified flips true exactly once, atomically with that consumption.
type User struct {
	ID                uuid.UUID
	Email             string
	PasswordHash      string
	Subscription      Subscription
	AvatarURL         string
	Verified          bool
	VerificationToken string
	CreatedAt         time.Time
}
