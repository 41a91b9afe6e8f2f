package player

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/feudhost/feudhost/internal/bus"
	"github.com/feudhost/feudhost/internal/feud"
)

// ProbeInterval is how often a probe re-sends REQUEST_SYNC while waiting
// for a host to answer.
const ProbeInterval = 2 * time.Second

// Probe checks whether a room code has a live host before joining: it
// pulses REQUEST_SYNC until a GAME_UPDATE comes back, then reports the
// room's teams. Stop it when the player navigates away or edits the code
// below six digits.
type Probe struct {
	handle *bus.Handle
	clock  clockwork.Clock

	mu    sync.Mutex
	found bool
	teams []feud.TeamConfig

	onFound  func([]feud.TeamConfig)
	stop     chan struct{}
	stopOnce sync.Once
}

// NewProbe starts probing the room. onFound, when set, fires once on the
// first GAME_UPDATE received.
func NewProbe(exchange *bus.Exchange, roomCode string, clock clockwork.Clock, onFound func([]feud.TeamConfig)) *Probe {
	p := &Probe{
		handle:  exchange.Open(roomCode),
		clock:   clock,
		onFound: onFound,
		stop:    make(chan struct{}),
	}
	p.handle.OnMessage(p.onMessage)
	go p.pulse()
	return p
}

// Found reports whether a host has answered yet.
func (p *Probe) Found() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.found
}

// Teams returns the room's team list once a host has answered, nil before.
func (p *Probe) Teams() []feud.TeamConfig {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.teams
}

// Stop cancels the pulse timer and releases the subscription. Idempotent.
func (p *Probe) Stop() {
	p.stopOnce.Do(func() {
		close(p.stop)
		p.handle.Close()
	})
}

func (p *Probe) onMessage(msg feud.Message) {
	if msg.Kind != feud.KindGameUpdate {
		return
	}

	p.mu.Lock()
	first := !p.found
	p.found = true
	p.teams = msg.GameUpdate.Teams
	p.mu.Unlock()

	if first && p.onFound != nil {
		p.onFound(msg.GameUpdate.Teams)
	}
}

func (p *Probe) pulse() {
	ticker := p.clock.NewTicker(ProbeInterval)
	defer ticker.Stop()

	p.handle.Send(feud.RequestSyncMessage())
	for {
		select {
		case <-p.stop:
			return
		case <-ticker.Chan():
			select {
			case <-p.stop:
				return
			default:
			}
			if p.Found() {
				continue
			}
			p.handle.Send(feud.RequestSyncMessage())
		}
	}
}
