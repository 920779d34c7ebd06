// Package segment isolates one translation unit's worth of markup events at a
// time and provides the structural filters that rewrite such a segment in
// place.
//
// A Buffer is owned by exactly one caller. Filters take the buffer and an
// explicit [start, end) range and return the range end after their deletions,
// so callers never depend on iterator invalidation rules.
package segment

import "github.com/arafalov/uncorpora/core/tmx"

// Buffer is an ordered, mutable run of events.
type Buffer struct {
	events []tmx.Event
}

// Len returns the number of buffered events.
func (b *Buffer) Len() int {
	return len(b.events)
}

// At returns the event at index i.
func (b *Buffer) At(i int) tmx.Event {
	return b.events[i]
}

// Last returns the final event, or false if the buffer is empty.
func (b *Buffer) Last() (tmx.Event, bool) {
	if len(b.events) == 0 {
		return tmx.Event{}, false
	}
	return b.events[len(b.events)-1], true
}

// Append adds events at the end.
func (b *Buffer) Append(events ...tmx.Event) {
	b.events = append(b.events, events...)
}

// Delete removes n events starting at index i, shifting later events left.
func (b *Buffer) Delete(i, n int) {
	if n <= 0 {
		return
	}
	tail := len(b.events) - n
	copy(b.events[i:], b.events[i+n:])
	clear(b.events[tail:])
	b.events = b.events[:tail]
}

// Reset empties the buffer, keeping its capacity for the next segment.
func (b *Buffer) Reset() {
	clear(b.events)
	b.events = b.events[:0]
}

// Events returns the buffered events. The slice is only valid until the next
// mutation.
func (b *Buffer) Events() []tmx.Event {
	return b.events
}

// Drain passes every event to fn in order and empties the buffer. If fn
// fails, draining stops and the buffer is still emptied.
func (b *Buffer) Drain(fn func(tmx.Event) error) error {
	defer b.Reset()
	for _, e := range b.events {
		if err := fn(e); err != nil {
			return err
		}
	}
	return nil
}
