package framewire // import "github.com/go-daq/framewire"

// Listener observes byte spans successfully read from or written to a
// Framer's stream. Implementations must not mutate the Framer they
// observe and must return promptly: fan-out is synchronous and happens
// before the Framer's own accounting.
type Listener interface {
	OnRead(p []byte)
	OnWrite(p []byte)
}

// ListenerHandle identifies a registered Listener for later removal.
// Removal is by handle, not by value equality, so two structurally
// identical listeners can be registered and removed independently.
type ListenerHandle uint64

type listenerSet struct {
	next  ListenerHandle
	items map[ListenerHandle]Listener
}

func newListenerSet() *listenerSet {
	return &listenerSet{items: make(map[ListenerHandle]Listener)}
}

func (s *listenerSet) add(l Listener) ListenerHandle {
	s.next++
	h := s.next
	s.items[h] = l
	return h
}

func (s *listenerSet) remove(h ListenerHandle) {
	delete(s.items, h)
}

func (s *listenerSet) notifyRead(p []byte) {
	if len(p) == 0 {
		return
	}
	for _, l := range s.items {
		l.OnRead(p)
	}
}

func (s *listenerSet) notifyWrite(p []byte) {
	if len(p) == 0 {
		return
	}
	for _, l := range s.items {
		l.OnWrite(p)
	}
}
