package history

import "time"

// Policy holds the grouping heuristics. It is injected configuration, not
// package state, so callers can tune or pin the coalescing behavior.
type Policy struct {
	// GroupTimeout is the pause after which the next command starts a new
	// group no matter what it is.
	GroupTimeout time.Duration

	// AdjacencySlack is how far (in bytes) a typing or deletion command may
	// land from the end of the previous command and still extend the group.
	AdjacencySlack int

	// MaxGroups caps the undo stack. Oldest groups are evicted first.
	MaxGroups int
}

// DefaultPolicy returns the standard editor coalescing behavior: one second
// of inactivity breaks a group, contiguous runs stay together, and the last
// hundred groups are kept.
func DefaultPolicy() Policy {
	return Policy{
		GroupTimeout:   time.Second,
		AdjacencySlack: 1,
		MaxGroups:      100,
	}
}

// normalize clamps nonsensical values back to the defaults.
func (p Policy) normalize() Policy {
	def := DefaultPolicy()
	if p.GroupTimeout <= 0 {
		p.GroupTimeout = def.GroupTimeout
	}
	if p.AdjacencySlack < 0 {
		p.AdjacencySlack = def.AdjacencySlack
	}
	if p.MaxGroups <= 0 {
		p.MaxGroups = def.MaxGroups
	}
	return p
}

// contiguous reports whether a command at pos continues the run ended by
// prev within the policy's slack.
func (p Policy) contiguous(prev Command, pos int) bool {
	dist := pos - prev.EndPosition()
	if dist < 0 {
		dist = -dist
	}
	return dist <= p.AdjacencySlack
}
