package entity

import "time"

type SubscriptionState string

const (
	SubscriptionAwaitingDispatch SubscriptionState = "AwaitingDispatch"
	SubscriptionDispatched       SubscriptionState = "Dispatched"
	SubscriptionFailed           SubscriptionState = "Failed"
)

// Subscription schedules a single digest dispatch. At most one subscription
// may be in AwaitingDispatch state; creating a new one replaces it.
type Subscription struct {
	ID        string            `bson:"id,omitempty"`
	Date      time.Time         `bson:"date"`
	Header    string            `bson:"header"`
	Footer    string            `bson:"footer"`
	State     SubscriptionState `bson:"state"`
	Error     string            `bson:"error,omitempty"`
	AuditInfo `bson:",inline"`
}
