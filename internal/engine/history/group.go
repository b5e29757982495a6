package history

import "time"

// Group is a time-ordered run of commands that undoes and redoes as a
// single unit. All commands in a group share one category.
type Group struct {
	Category Category
	Commands []Command
	StartAt  time.Time
	EndAt    time.Time
}

func newGroup(cat Category, at time.Time) *Group {
	return &Group{
		Category: cat,
		StartAt:  at,
		EndAt:    at,
	}
}

// append adds a command and extends the group's time span.
func (g *Group) append(cmd Command) {
	g.Commands = append(g.Commands, cmd)
	if g.EndAt.Before(cmd.Timestamp) {
		g.EndAt = cmd.Timestamp
	}
}

// IsEmpty returns true if the group holds no commands.
func (g *Group) IsEmpty() bool {
	return len(g.Commands) == 0
}

// Len returns the number of commands in the group.
func (g *Group) Len() int {
	return len(g.Commands)
}

// last returns the most recently appended command.
// Callers must check IsEmpty first.
func (g *Group) last() Command {
	return g.Commands[len(g.Commands)-1]
}
