package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/swapshop/marketplace-service/internal/adapter/email"
	"github.com/swapshop/marketplace-service/internal/domain/entity"
	"github.com/swapshop/marketplace-service/internal/platform/logger"
	"github.com/swapshop/marketplace-service/internal/repository"
)

// Dispatcher owns the single deferred digest job of the process. Arming
// replaces any previously armed timer; the latest subscription wins, which
// mirrors the single-AwaitingDispatch rule in storage. Once the timer fires
// the dispatch sequence runs to completion and every failure inside it is
// converted into the subscription's Failed state rather than propagated.
type Dispatcher struct {
	offers repository.ListingRepository
	wanted repository.ListingRepository
	events repository.EventRepository
	subs   repository.SubscriptionRepository
	users  repository.UserRepository
	sender email.Sender

	senderEmail string
	subject     string
	log         logger.Logger
	now         func() time.Time

	mu    sync.Mutex
	timer *time.Timer
}

func NewDispatcher(
	offers repository.ListingRepository,
	wanted repository.ListingRepository,
	events repository.EventRepository,
	subs repository.SubscriptionRepository,
	users repository.UserRepository,
	sender email.Sender,
	senderEmail, subject string,
	log logger.Logger,
) *Dispatcher {
	return &Dispatcher{
		offers:      offers,
		wanted:      wanted,
		events:      events,
		subs:        subs,
		users:       users,
		sender:      sender,
		senderEmail: senderEmail,
		subject:     subject,
		log:         log,
		now:         time.Now,
	}
}

// Arm schedules the digest for sub.Date, cancelling any armed timer first.
func (d *Dispatcher) Arm(_ context.Context, sub *entity.Subscription) error {
	if sub.State != entity.SubscriptionAwaitingDispatch {
		return ErrNotAwaiting
	}

	delay := sub.Date.Sub(d.now())
	if delay < 0 {
		return ErrInvalidSchedule
	}

	armed := *sub
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
	d.timer = time.AfterFunc(delay, func() { d.fire(&armed) })
	d.log.Infof("Dispatch armed for subscription %s in %s", sub.ID, delay)
	return nil
}

// Stop cancels the armed timer if any. Safe to call repeatedly.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
}

func (d *Dispatcher) stopLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Restore re-derives the timer from whatever subscription is still awaiting
// in storage. Timers do not survive a process restart; this runs at startup.
// An awaiting subscription whose date has already passed is settled as Failed.
func (d *Dispatcher) Restore(ctx context.Context) error {
	subs, err := d.subs.Find(ctx, repository.Criteria{
		"state": string(entity.SubscriptionAwaitingDispatch),
	})
	if err != nil {
		return err
	}
	if len(subs) == 0 {
		return nil
	}

	sub := subs[0]
	if len(subs) > 1 {
		d.log.Warnf("Found %d awaiting subscriptions on restore, arming %s", len(subs), sub.ID)
	}

	if err := d.Arm(ctx, &sub); err != nil {
		if errors.Is(err, ErrInvalidSchedule) {
			d.settleFailed(ctx, &sub, err)
			return nil
		}
		return err
	}
	return nil
}

// fire is the timer callback. It has no caller to report to, so it is the
// one place that catches everything.
func (d *Dispatcher) fire(sub *entity.Subscription) {
	ctx := context.Background()
	if err := d.dispatch(ctx, sub); err != nil {
		d.log.Errorf("Error occurred while dispatching digest for subscription %s: %v", sub.ID, err)
		d.Stop()
		d.settleFailed(ctx, sub, err)
	}
}

func (d *Dispatcher) settleFailed(ctx context.Context, sub *entity.Subscription, cause error) {
	if err := d.subs.UpdateState(ctx, sub.ID, sub.UpdatedBy, entity.SubscriptionFailed, cause.Error()); err != nil {
		d.log.Errorf("Failed to persist Failed state for subscription %s: %v", sub.ID, err)
	}
}

func (d *Dispatcher) dispatch(ctx context.Context, sub *entity.Subscription) error {
	d.log.Info("Preparing digest for dispatch...")

	criteria := repository.Criteria{
		"state":       string(entity.StateApproved),
		"updatedDate": repository.DateRange{Before: &sub.Date},
	}

	offers, err := d.offers.Find(ctx, criteria)
	if err != nil {
		return err
	}
	wanted, err := d.wanted.Find(ctx, criteria)
	if err != nil {
		return err
	}
	events, err := d.events.Find(ctx, criteria)
	if err != nil {
		return err
	}

	if len(offers) == 0 && len(wanted) == 0 && len(events) == 0 {
		return ErrEmptyDigest
	}

	users, err := d.users.FindVerified(ctx)
	if err != nil {
		return err
	}
	recipients := make([]string, 0, len(users))
	for _, u := range users {
		if u.Email == d.senderEmail {
			continue
		}
		recipients = append(recipients, u.Email)
	}
	if len(recipients) == 0 {
		return ErrNoRecipients
	}

	body := renderDigest(offers, wanted, events, sub.Header, sub.Footer)
	if err := d.sender.Send(recipients, d.subject, body.html, body.text); err != nil {
		return err
	}
	d.log.Infof("Digest dispatched to %d recipients", len(recipients))

	d.Stop()
	if err := d.subs.UpdateState(ctx, sub.ID, sub.UpdatedBy, entity.SubscriptionDispatched, ""); err != nil {
		// The send already happened; a bookkeeping failure must not undo it.
		d.log.Warnf("Digest sent but failed to mark subscription %s dispatched: %v", sub.ID, err)
	}

	d.prune(ctx, offers, wanted, events)
	return nil
}

// prune removes the dispatched items plus anything rejected, per category,
// concurrently. Partial failures are logged and not retried; the
// subscription is already settled.
func (d *Dispatcher) prune(ctx context.Context, offers, wanted []entity.Listing, events []entity.Event) {
	rejected := []entity.ItemState{entity.StateRejected}

	type pruneTarget struct {
		category string
		filter   repository.PruneFilter
		delete   func(context.Context, repository.PruneFilter) (int64, error)
	}
	targets := []pruneTarget{
		{"offers", repository.PruneFilter{IDs: listingIDs(offers), States: rejected}, d.offers.DeleteMatching},
		{"wanted", repository.PruneFilter{IDs: listingIDs(wanted), States: rejected}, d.wanted.DeleteMatching},
		{"events", repository.PruneFilter{IDs: eventIDs(events), States: rejected}, d.events.DeleteMatching},
	}

	var wg sync.WaitGroup
	for _, target := range targets {
		wg.Add(1)
		go func(t pruneTarget) {
			defer wg.Done()
			deleted, err := t.delete(ctx, t.filter)
			if err != nil {
				d.log.Warnf("Failed to delete dispatched %s: %v", t.category, err)
				return
			}
			d.log.Infof("Pruned %d %s after dispatch", deleted, t.category)
		}(target)
	}
	wg.Wait()
}

func listingIDs(listings []entity.Listing) []string {
	ids := make([]string, len(listings))
	for i, l := range listings {
		ids[i] = l.ID
	}
	return ids
}

func eventIDs(events []entity.Event) []string {
	ids := make([]string, len(events))
	for i, e := range events {
		ids[i] = e.ID
	}
	return ids
}
