package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/websocket"

	"splitmate/internal/models"
	"splitmate/internal/protocol"
)

// Subscription is a live, cancellable stream of friend-collection
// snapshots from the server. Server-side snapshot failures arrive on Errs
// without ending the stream; a broken connection ends it, after which the
// caller may simply resubscribe.
type Subscription struct {
	conn      *websocket.Conn
	snapshots chan []models.Friend
	errs      chan error
	closeOnce sync.Once
}

// Subscribe opens the live snapshot stream. The server sends the current
// collection immediately, then a new snapshot after every change. The
// stream ends when ctx is cancelled, Close is called, or the connection
// drops; the snapshot channel is closed in all cases.
func (c *Client) Subscribe(ctx context.Context) (*Subscription, error) {
	if c.token == "" {
		return nil, ErrUnauthorized
	}

	wsURL := strings.Replace(c.baseURL, "http", "ws", 1) + "/api/friends/watch"
	header := http.Header{"Authorization": {"Bearer " + c.token}}

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL, header)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusUnauthorized {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to open subscription: %w", err)
	}

	sub := &Subscription{
		conn:      conn,
		snapshots: make(chan []models.Friend, 1),
		errs:      make(chan error, 1),
	}

	// Closing the connection is what unblocks the read loop below.
	go func() {
		<-ctx.Done()
		sub.Close()
	}()

	go sub.readLoop(ctx)

	return sub, nil
}

func (s *Subscription) readLoop(ctx context.Context) {
	defer close(s.snapshots)

	for {
		var msg protocol.WatchMessage
		if err := s.conn.ReadJSON(&msg); err != nil {
			// A deliberate close is not an error worth reporting.
			if ctx.Err() == nil && !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.reportError(fmt.Errorf("subscription lost: %w", err))
			}
			return
		}

		switch msg.Type {
		case protocol.MessageSnapshot:
			friends := msg.Friends
			if friends == nil {
				friends = []models.Friend{}
			}
			select {
			case s.snapshots <- friends:
			default:
				// Replace the unread snapshot with the fresh one.
				select {
				case <-s.snapshots:
				default:
				}
				select {
				case s.snapshots <- friends:
				default:
				}
			}
		case protocol.MessageError:
			s.reportError(errors.New(msg.Error))
		}
	}
}

func (s *Subscription) reportError(err error) {
	select {
	case s.errs <- err:
	default:
	}
}

// Snapshots returns the stream of full collection snapshots. The channel
// is closed when the subscription ends.
func (s *Subscription) Snapshots() <-chan []models.Friend {
	return s.snapshots
}

// Errs returns non-fatal subscription errors.
func (s *Subscription) Errs() <-chan error {
	return s.errs
}

// Close stops snapshot delivery and releases the connection.
func (s *Subscription) Close() {
	s.closeOnce.Do(func() {
		s.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		s.conn.Close()
	})
}
