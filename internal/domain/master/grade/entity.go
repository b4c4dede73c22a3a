package grade

import "time"

// Grade is the ordinal tier an overtime rule is attached to.
type Grade struct {
	ID        string
	Name      string
	CreatedAt time.Time
}
