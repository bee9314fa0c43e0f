// Package liveness defines the soft-delete state shared by files and time logs.
package liveness

// State marks whether a record is visible to normal reads. Delete flips a
// record to Deleted instead of removing the row, so direct id lookups still
// find it.
type State string

const (
	Active  State = "active"
	Deleted State = "deleted"
)

// Valid reports whether s is a known state.
func (s State) Valid() bool {
	return s == Active || s == Deleted
}
