// Package mailbox provides a single-slot trigger buffer.
package mailbox

// Mailbox is a single-slot buffer where the latest item always wins.
// It is NOT a queue. It holds at most one pending item, so stacked
// triggers coalesce into a single run.
type Mailbox[T any] struct {
	slot chan T
}

// New creates an empty mailbox.
func New[T any]() *Mailbox[T] {
	return &Mailbox[T]{slot: make(chan T, 1)}
}

// Put stores an item, replacing any pending one. It never blocks.
func (m *Mailbox[T]) Put(v T) {
	for {
		select {
		case m.slot <- v:
			return
		default:
			// slot full: drop the stale item and retry
			select {
			case <-m.slot:
			default:
			}
		}
	}
}

// Take blocks until an item is available or done is closed.
// The second return is false when done won.
func (m *Mailbox[T]) Take(done <-chan struct{}) (T, bool) {
	select {
	case v := <-m.slot:
		return v, true
	case <-done:
		var zero T
		return zero, false
	}
}

// TryTake returns the pending item if present. It never blocks.
func (m *Mailbox[T]) TryTake() (T, bool) {
	select {
	case v := <-m.slot:
		return v, true
	default:
		var zero T
		return zero, false
	}
}

// HasItem reports whether an item is currently waiting.
func (m *Mailbox[T]) HasItem() bool {
	return len(m.slot) > 0
}
