// Package bus is the in-process room bus: a pub/sub exchange keyed by room
// code. Every message a participant sends is delivered to every other
// participant subscribed to the same room, best effort, with no
// acknowledgments and no redelivery. Late subscribers simply miss earlier
// traffic; the host's heartbeat and REQUEST_SYNC cover the gap.
package bus

import (
	"sync"

	"github.com/feudhost/feudhost/internal/feud"
)

// inboxSize bounds how far a slow subscriber can fall behind before
// messages are dropped.
const inboxSize = 64

// Exchange owns every room's subscriber set. One Exchange serves the whole
// process.
type Exchange struct {
	mu    sync.RWMutex
	rooms map[string]map[*Handle]struct{}
}

func NewExchange() *Exchange {
	return &Exchange{
		rooms: make(map[string]map[*Handle]struct{}),
	}
}

// Open subscribes to the room named by code and returns the participant's
// handle. A nil Exchange models an unavailable transport: Open returns a
// nil handle whose methods all no-op, so callers degrade silently instead
// of failing.
func (e *Exchange) Open(code string) *Handle {
	if e == nil {
		return nil
	}

	h := &Handle{
		exchange: e,
		room:     code,
		inbox:    make(chan feud.Message, inboxSize),
	}

	e.mu.Lock()
	if e.rooms[code] == nil {
		e.rooms[code] = make(map[*Handle]struct{})
	}
	e.rooms[code][h] = struct{}{}
	e.mu.Unlock()

	go h.dispatch()
	return h
}

// Handle is one participant's subscription to a room. The session that
// opened it owns it exclusively and is the only one that closes it.
type Handle struct {
	exchange *Exchange
	room     string
	inbox    chan feud.Message

	mu       sync.Mutex
	callback func(feud.Message)
	closed   bool
}

// Send enqueues the message for every other subscriber of the room. The
// sender never receives its own messages. Delivery is fire-and-forget:
// subscribers that cannot keep up drop messages rather than block the
// sender.
func (h *Handle) Send(msg feud.Message) {
	if h == nil {
		return
	}

	h.exchange.mu.RLock()
	defer h.exchange.mu.RUnlock()

	for peer := range h.exchange.rooms[h.room] {
		if peer == h {
			continue
		}
		select {
		case peer.inbox <- msg:
		default:
			// Slow subscriber, drop.
		}
	}
}

// OnMessage registers the handle's single inbound callback, invoked once
// per message in local delivery order. Messages that arrive before a
// callback is registered are dropped.
func (h *Handle) OnMessage(callback func(feud.Message)) {
	if h == nil {
		return
	}
	h.mu.Lock()
	h.callback = callback
	h.mu.Unlock()
}

// Close releases the subscription. No callbacks fire afterwards. Close is
// idempotent.
func (h *Handle) Close() {
	if h == nil {
		return
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	h.mu.Unlock()

	e := h.exchange
	e.mu.Lock()
	delete(e.rooms[h.room], h)
	if len(e.rooms[h.room]) == 0 {
		delete(e.rooms, h.room)
	}
	// Senders hold the read lock while enqueuing, so nothing can be
	// mid-send on the inbox here.
	close(h.inbox)
	e.mu.Unlock()
}

func (h *Handle) dispatch() {
	for msg := range h.inbox {
		h.mu.Lock()
		callback := h.callback
		if h.closed {
			// Messages buffered before Close are discarded, not delivered.
			callback = nil
		}
		h.mu.Unlock()
		if callback != nil {
			callback(msg)
		}
	}
}
