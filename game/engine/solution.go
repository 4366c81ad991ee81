package engine

import "log"

// Solution is a level's accepted-rotation table: for each
// constrained position, the list of rotation angles the designer considers
// correct. Symmetric pieces list several (a straight bar accepts both 0 and
// 180).
type Solution map[Position][]int

// SolutionEntry is the JSON form of one constrained position in a level file
type SolutionEntry struct {
	X                 int   `json:"x"`
	Y                 int   `json:"y"`
	AcceptedRotations []int `json:"accepted_rotations"`
}

// NewSolution builds a Solution from level-file entries
func NewSolution(entries []SolutionEntry) Solution {
	s := make(Solution, len(entries))
	for _, e := range entries {
		s[Position{X: e.X, Y: e.Y}] = e.AcceptedRotations
	}
	return s
}

// EvaluateWinCondition decides puzzle completion by exact configuration
// match: every constrained position's live rotation (mod 360) must be a
// member of its accepted set. Independent of the connectivity check; the
// configuration match is the authoritative win signal.
//
// The evaluator is stateless; latching the result for a session is the
// caller's job.
func EvaluateWinCondition(grid *Grid, solution Solution) bool {
	if grid == nil || len(solution) == 0 {
		return false
	}

	for pos, accepted := range solution {
		tile := grid.GetTile(pos.X, pos.Y)
		if tile == nil {
			log.Printf("win: no tile at constrained position (%d,%d)", pos.X, pos.Y)
			return false
		}

		if !rotationAccepted(tile.Rotation, accepted) {
			return false
		}
	}

	return true
}

func rotationAccepted(rotation int, accepted []int) bool {
	rotation = normalizeAngle(rotation)
	for _, a := range accepted {
		if normalizeAngle(a) == rotation {
			return true
		}
	}
	return false
}

// Mismatches returns the constrained positions whose live rotation is not in
// the accepted set, for hint and debug surfaces. A missing tile counts as a
// mismatch.
func Mismatches(grid *Grid, solution Solution) []Position {
	var out []Position
	for pos, accepted := range solution {
		tile := grid.GetTile(pos.X, pos.Y)
		if tile == nil || !rotationAccepted(tile.Rotation, accepted) {
			out = append(out, pos)
		}
	}
	return out
}
