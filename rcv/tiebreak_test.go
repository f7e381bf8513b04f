package rcv_test

import (
	"testing"

	"github.com/rankedvote/rcv-core/rcv"
)

func TestAscendingCandidateIDTieBreaker(t *testing.T) {
	got := rcv.AscendingCandidateID([]rcv.CandidateId{5, 1, 3})
	want := []rcv.CandidateId{1, 3, 5}
	if !equalIds(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestPriorStageTieBreakerUsesMostRecentUnequalStage(t *testing.T) {
	// Candidates 0 and 1 tied at round 1 but 0 led at round 0: the walk
	// looks from the latest round backward, so round 1's tie is skipped
	// and round 0's standing breaks the tie. Candidate 1 trailed there, so
	// it sorts first, i.e. it is the one the elimination walk takes first.
	standings := [][]int{
		{5, 2}, // round 0: candidate 0 ahead
		{3, 3}, // round 1: tied
	}
	tb := rcv.PriorStageTieBreaker(standings)
	got := tb([]rcv.CandidateId{0, 1})
	if len(got) != 2 {
		t.Fatalf("expected 2 candidates back, got %v", got)
	}
	if got[0] != 1 {
		t.Errorf("expected candidate 1 (behind at the most recent unequal stage) first, got %v", got)
	}
}

func TestTabulateWithCustomTieBreak(t *testing.T) {
	ballots := flatten(
		repeat(1, []rcv.CandidateId{candA}),
		repeat(1, []rcv.CandidateId{candB}),
	)
	reverseTieBreak := func(tied []rcv.CandidateId) []rcv.CandidateId {
		out := rcv.AscendingCandidateID(tied)
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
		return out
	}

	rounds, err := rcv.TabulateWithTieBreak([]rcv.Candidate{rcv.NewCandidate("A", false), rcv.NewCandidate("B", false)}, ballots, reverseTieBreak)
	if err != nil {
		t.Fatalf("TabulateWithTieBreak: %v", err)
	}
	if len(rounds) == 0 {
		t.Fatal("expected at least one round")
	}
}
