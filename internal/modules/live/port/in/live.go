package in

import "attune/internal/modules/live/domain"

// Channel is the client-facing surface of the push-update channel.
type Channel interface {
	// Connect starts the channel. Safe to call once; the channel then
	// maintains the connection until Close.
	Connect()
	// Close shuts the channel down and suppresses further reconnects.
	Close() error
	// Latest returns the most recent snapshot, or an empty snapshot when
	// no frame has been received yet.
	Latest() domain.Update
	State() domain.ConnState
	// Subscribe registers a handler invoked once per inbound frame, in
	// frame-arrival order, never concurrently. The latest cache is updated
	// before handlers run, so handlers may read Latest synchronously.
	Subscribe(fn func(domain.Update))
	// SubscribeState registers a handler for connection state changes.
	SubscribeState(fn func(domain.ConnState))
}
