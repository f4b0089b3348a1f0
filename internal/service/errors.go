package service

import "errors"

var (
	// ErrInvalidSchedule rejects arming or creating a dispatch in the past.
	ErrInvalidSchedule = errors.New("dispatch must happen in the future")
	// ErrEmptyDigest fails a dispatch when no category has approved items.
	ErrEmptyDigest = errors.New("cannot dispatch empty subscription email")
	// ErrNoRecipients fails a dispatch with nobody left to send to.
	ErrNoRecipients = errors.New("cannot create a subscription without any recipients")
	// ErrNotAwaiting rejects arming a subscription that is already settled.
	ErrNotAwaiting = errors.New("only awaiting subscriptions can be dispatched")

	ErrInvalidCredentials = errors.New("either password or email was invalid")
)
