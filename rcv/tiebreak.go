package rcv

import (
	"math/rand/v2"
	"slices"
)

// TieBreaker orders a set of candidates with equal votes at the current
// elimination step. The candidate that sorts first is the one
// the batched-elimination walk considers "lowest" first. DESIGN NOTES §9
// asks for this to be pluggable; AscendingCandidateID is the rule spec.md
// §4.C specifies for reproducibility and is the package default.
type TieBreaker func(tied []CandidateId) []CandidateId

// AscendingCandidateID breaks ties by ascending CandidateId, the
// deterministic rule spec.md §4.C mandates.
func AscendingCandidateID(tied []CandidateId) []CandidateId {
	out := slices.Clone(tied)
	slices.Sort(out)
	return out
}

// PriorStageTieBreaker returns a TieBreaker recovered from the Scottish
// STV source (vote/stv_scottish.go): ties are broken by standing at the
// most recent stage at which the tied candidates had an unequal vote
// count, the candidate with fewer votes at that stage sorting first;
// candidates tied at every stage keep a randomized order fixed the first
// time the returned TieBreaker sees them. standings[k] gives each
// candidate's vote total at round k (round 0 first); a candidate with no
// entry in a round's row counts as -1 votes in that round.
func PriorStageTieBreaker(standings [][]int) TieBreaker {
	order := make(map[CandidateId]int)
	return func(tied []CandidateId) []CandidateId {
		out := slices.Clone(tied)
		rand.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
		for _, c := range out {
			if _, ok := order[c]; !ok {
				order[c] = len(order)
			}
		}

		for round := len(standings) - 1; round >= 0; round-- {
			row := standings[round]
			unequal := false
			for i := 1; i < len(out); i++ {
				if voteAt(row, out[i]) != voteAt(row, out[0]) {
					unequal = true
					break
				}
			}
			if unequal {
				slices.SortStableFunc(out, func(a, b CandidateId) int {
					return voteAt(row, a) - voteAt(row, b)
				})
				return out
			}
		}

		slices.SortStableFunc(out, func(a, b CandidateId) int {
			return order[a] - order[b]
		})
		return out
	}
}

func voteAt(row []int, c CandidateId) int {
	if int(c) < 0 || int(c) >= len(row) {
		return -1
	}
	return row[c]
}
