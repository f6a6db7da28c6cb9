package snake

import (
	"fmt"

	"github.com/charmbracelet/log"
)

// Policy selects how steering input is buffered between ticks.
type Policy int

const (
	// PolicyImmediate keeps a single pending direction; the latest valid
	// input wins and is applied on the next tick without re-validation.
	PolicyImmediate Policy = iota

	// PolicyQueued buffers up to QueueCapacity distinct directions and
	// drains one per tick, re-checking each against the direction the
	// snake is travelling by the time it is applied.
	PolicyQueued
)

// ParsePolicy maps a config string onto a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "immediate":
		return PolicyImmediate, nil
	case "queued":
		return PolicyQueued, nil
	}
	return 0, fmt.Errorf("unknown input policy %q", s)
}

func (p Policy) String() string {
	if p == PolicyImmediate {
		return "immediate"
	}
	return "queued"
}

// Buffer holds steering intents between ticks. Invalid intents are
// dropped, never surfaced: reversals would steer the snake into its own
// neck, and duplicates would only burn queue slots.
type Buffer struct {
	policy   Policy
	capacity int

	queue []Direction

	slot    Direction
	hasSlot bool
}

func NewBuffer(policy Policy) *Buffer {
	return &Buffer{policy: policy, capacity: QueueCapacity}
}

// Push records a steering intent. current is the direction the snake is
// travelling right now.
func (b *Buffer) Push(candidate, current Direction) {
	switch b.policy {
	case PolicyImmediate:
		if candidate.Opposite(current) {
			return
		}
		b.slot = candidate
		b.hasSlot = true

	case PolicyQueued:
		comparison := current
		if n := len(b.queue); n > 0 {
			comparison = b.queue[n-1]
		}
		if candidate.Opposite(comparison) {
			return
		}
		for _, queued := range b.queue {
			if queued == candidate {
				return
			}
		}
		if len(b.queue) >= b.capacity {
			log.Debug("steering buffer full, input dropped", "direction", candidate)
			return
		}
		b.queue = append(b.queue, candidate)
	}
}

// Next resolves the direction for the coming tick. Under the queued
// policy a buffered direction that has become a reversal since it was
// pushed is discarded rather than applied.
func (b *Buffer) Next(current Direction) Direction {
	switch b.policy {
	case PolicyImmediate:
		if b.hasSlot {
			b.hasSlot = false
			return b.slot
		}

	case PolicyQueued:
		if len(b.queue) > 0 {
			next := b.queue[0]
			b.queue = b.queue[1:]
			if !next.Opposite(current) {
				return next
			}
		}
	}
	return current
}

// Len reports how many directions are waiting to be applied.
func (b *Buffer) Len() int {
	if b.policy == PolicyImmediate {
		if b.hasSlot {
			return 1
		}
		return 0
	}
	return len(b.queue)
}

// Reset drops all buffered input.
func (b *Buffer) Reset() {
	b.queue = b.queue[:0]
	b.hasSlot = false
}
