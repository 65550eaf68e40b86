package game_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonesrussell/philosophy/internal/game"
)

func TestOutcome_ExitCodesAndDescriptions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		outcome     game.Outcome
		code        int
		name        string
		description string
	}{
		{game.Found, 0, "found", "Target found successfully!"},
		{game.HopLimitExceeded, 1, "hop_limit_exceeded", "Path exceeded maximum hop limit."},
		{game.DeadEnd, 2, "dead_end", "Dead-end found. No more pages to search."},
		{game.NoCurrentPage, 3, "no_current_page", "No current page. Aborting."},
		{game.TargetMissing, 4, "target_missing", "Destination page does not exist."},
	}

	seen := map[int]bool{game.ExitAborted: true}
	for _, tt := range tests {
		assert.Equal(t, tt.code, tt.outcome.ExitCode())
		assert.Equal(t, tt.name, tt.outcome.String())
		assert.Equal(t, tt.description, tt.outcome.Description())
		assert.False(t, seen[tt.code], "exit code %d reused", tt.code)
		seen[tt.code] = true
	}

	assert.Equal(t, "Outcome(9)", game.Outcome(9).String())
}
