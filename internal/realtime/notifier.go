package realtime

import (
	"context"
	"fmt"
	"sync"

	"unistay/internal/caching"
	"unistay/internal/metrics"
)

// MailboxNotifier publishes and subscribes to per-user mailbox invalidation
// events over redis pub/sub. The payload carries no diff; subscribers are
// expected to refetch. Overlapping refetches after rapid notifications are
// possible and accepted.
type MailboxNotifier struct {
	cacheSvc caching.CacheService
}

func NewMailboxNotifier(cacheSvc caching.CacheService) *MailboxNotifier {
	return &MailboxNotifier{cacheSvc: cacheSvc}
}

func channelFor(subject string) string {
	return fmt.Sprintf("unistay:mailbox:%s", subject)
}

// Notify signals that the given user's saved-listing set changed.
func (n *MailboxNotifier) Notify(ctx context.Context, subject string) error {
	metrics.MailboxNotifications.Inc()
	return n.cacheSvc.Publish(ctx, channelFor(subject), "invalidate")
}

// Subscription is a scoped handle on a user's invalidation channel. Close
// must be called on every exit path; after Close the Events channel is
// closed and the underlying pub/sub connection released.
type Subscription struct {
	events    chan struct{}
	closeOnce sync.Once
	close     func() error
}

// Events yields one value per invalidation notification received.
func (s *Subscription) Events() <-chan struct{} {
	return s.events
}

// Close releases the subscription. Safe to call more than once.
func (s *Subscription) Close() error {
	var err error
	s.closeOnce.Do(func() {
		err = s.close()
	})
	return err
}

// Watch subscribes to a user's invalidation channel. The returned
// Subscription owns the pub/sub connection; callers must Close it.
func (n *MailboxNotifier) Watch(ctx context.Context, subject string) (*Subscription, error) {
	pubsub := n.cacheSvc.Subscribe(ctx, channelFor(subject))

	// Force the SUBSCRIBE round trip so a broken redis surfaces here, where
	// the caller can still clean up, rather than as a silent dead channel.
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to mailbox channel: %w", err)
	}

	sub := &Subscription{
		events: make(chan struct{}, 1),
		close:  pubsub.Close,
	}

	go func() {
		defer close(sub.events)
		for range pubsub.Channel() {
			select {
			case sub.events <- struct{}{}:
			default:
				// A refetch signal is already pending; dropping this one
				// loses nothing since the subscriber reloads everything.
			}
		}
	}()

	return sub, nil
}
