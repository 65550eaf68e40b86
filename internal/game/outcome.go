package game

import "fmt"

// Outcome is how a game ended.
type Outcome int

// Game outcomes. The values double as process exit codes.
const (
	Found Outcome = iota
	HopLimitExceeded
	DeadEnd
	NoCurrentPage
	TargetMissing
)

// ExitAborted is the process exit code for a run that failed before reaching
// an outcome, such as a transport failure.
const ExitAborted = 5

// ExitCode returns the process exit code of the outcome.
func (o Outcome) ExitCode() int {
	return int(o)
}

// Description returns the line printed when the game ends.
func (o Outcome) Description() string {
	switch o {
	case Found:
		return "Target found successfully!"
	case HopLimitExceeded:
		return "Path exceeded maximum hop limit."
	case DeadEnd:
		return "Dead-end found. No more pages to search."
	case NoCurrentPage:
		return "No current page. Aborting."
	case TargetMissing:
		return "Destination page does not exist."
	default:
		return fmt.Sprintf("Unknown outcome %d.", int(o))
	}
}

func (o Outcome) String() string {
	switch o {
	case Found:
		return "found"
	case HopLimitExceeded:
		return "hop_limit_exceeded"
	case DeadEnd:
		return "dead_end"
	case NoCurrentPage:
		return "no_current_page"
	case TargetMissing:
		return "target_missing"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}
