package ledger

import (
	"context"

	"splitmate/internal/metrics"
	"splitmate/internal/models"
)

// Subscription is a live, cancellable stream of full friend-collection
// snapshots for one userKey. Read failures arrive on Errs, distinct from
// data, and do not terminate the stream; the next change triggers another
// read. Close stops delivery and detaches from the hub.
type Subscription struct {
	snapshots chan []models.Friend
	errs      chan error
	cancel    context.CancelFunc
}

// Subscribe starts a snapshot stream for userKey. The first snapshot is
// delivered immediately; afterwards one arrives per announced change. The
// stream ends when ctx is cancelled or Close is called, at which point the
// snapshot channel is closed.
func (l *Ledger) Subscribe(ctx context.Context, userKey string) *Subscription {
	ctx, cancel := context.WithCancel(ctx)
	sub := &Subscription{
		snapshots: make(chan []models.Friend, 1),
		errs:      make(chan error, 1),
		cancel:    cancel,
	}

	wake, detach := l.hub.Register(userKey)
	metrics.ActiveSubscribers.Inc()

	go func() {
		defer func() {
			detach()
			metrics.ActiveSubscribers.Dec()
			close(sub.snapshots)
		}()

		for {
			friends, err := l.store.ListFriends(ctx, userKey)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("Snapshot read failed", "user", userKey, "error", err)
				select {
				case sub.errs <- err:
				default: // error already pending
				}
			} else {
				sub.deliver(friends)
			}

			select {
			case <-ctx.Done():
				return
			case <-wake:
			}
		}
	}()

	return sub
}

// deliver replaces any unread snapshot with the fresh one. A slow consumer
// never blocks the stream; it simply observes the latest state.
func (s *Subscription) deliver(friends []models.Friend) {
	for {
		select {
		case s.snapshots <- friends:
			return
		default:
		}
		select {
		case <-s.snapshots: // drop the stale snapshot
		default:
		}
	}
}

// Snapshots returns the stream of full collection snapshots. The channel is
// closed when the subscription ends.
func (s *Subscription) Snapshots() <-chan []models.Friend {
	return s.snapshots
}

// Errs returns the stream of snapshot read failures. Each is non-fatal.
func (s *Subscription) Errs() <-chan error {
	return s.errs
}

// Close stops snapshot delivery and releases the hub registration.
func (s *Subscription) Close() {
	s.cancel()
}
