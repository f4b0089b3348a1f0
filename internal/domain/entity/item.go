package entity

import "time"

type ItemState string

const (
	StateAwaitingReview ItemState = "AwaitingReview"
	StateApproved       ItemState = "Approved"
	StateRejected       ItemState = "Rejected"
)

// AuditInfo is stamped on every mutable record. UpdatedBy/UpdatedDate are
// refreshed on each mutation, CreatedBy/CreatedDate never change.
type AuditInfo struct {
	CreatedBy   string    `bson:"createdBy"`
	CreatedDate time.Time `bson:"createdDate"`
	UpdatedBy   string    `bson:"updatedBy"`
	UpdatedDate time.Time `bson:"updatedDate"`
}

// Listing is a user-submitted offer or wanted ad. Both categories share the
// same shape and live in separate collections.
type Listing struct {
	ID        string    `bson:"id,omitempty"`
	ItemName  string    `bson:"itemName"`
	UserName  string    `bson:"userName"`
	Info      string    `bson:"info"`
	Deal      string    `bson:"deal"`
	Email     string    `bson:"email"`
	State     ItemState `bson:"state"`
	AuditInfo `bson:",inline"`
}

// Event is a community event submission.
type Event struct {
	ID          string    `bson:"id,omitempty"`
	EventName   string    `bson:"eventName"`
	When        time.Time `bson:"when"`
	Info        string    `bson:"info"`
	ContactInfo string    `bson:"contactInfo"`
	Email       string    `bson:"email"`
	State       ItemState `bson:"state"`
	AuditInfo   `bson:",inline"`
}
