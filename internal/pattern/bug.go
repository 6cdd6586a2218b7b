package pattern

// BugError marks an internal consistency violation in the checker itself: an
// arity mismatch, a constructor kind in a place it cannot legally occur, and
// the like. It is raised as a panic and recovered at the match-check
// boundary, aborting analysis of one match without taking down the caller.
type BugError struct {
	Msg string
}

func (e *BugError) Error() string {
	return "match analysis bug: " + e.Msg
}

// Bug aborts the current analysis with an internal-consistency panic.
func Bug(msg string) {
	panic(&BugError{Msg: msg})
}

func bug(msg string) {
	Bug(msg)
}
