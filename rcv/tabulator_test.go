package rcv_test

import (
	"testing"

	"github.com/rankedvote/rcv-core/rcv"
)

func normalizedBallots(rankings ...[]rcv.CandidateId) []rcv.NormalizedBallot {
	out := make([]rcv.NormalizedBallot, len(rankings))
	for i, r := range rankings {
		out[i] = rcv.NormalizedBallot{ID: string(rune('a' + i)), Choices: r}
	}
	return out
}

func repeat(n int, ranking []rcv.CandidateId) [][]rcv.CandidateId {
	out := make([][]rcv.CandidateId, n)
	for i := range out {
		out[i] = ranking
	}
	return out
}

func flatten(groups ...[][]rcv.CandidateId) []rcv.NormalizedBallot {
	var rankings [][]rcv.CandidateId
	for _, g := range groups {
		rankings = append(rankings, g...)
	}
	return normalizedBallots(rankings...)
}

const (
	candA rcv.CandidateId = 0
	candB rcv.CandidateId = 1
	candC rcv.CandidateId = 2
)

func three() []rcv.Candidate {
	return []rcv.Candidate{rcv.NewCandidate("A", false), rcv.NewCandidate("B", false), rcv.NewCandidate("C", false)}
}

// Scenario 1: trivial majority, spec.md §8.
func TestTabulateTrivialMajority(t *testing.T) {
	ballots := flatten(
		repeat(3, []rcv.CandidateId{candA}),
		repeat(1, []rcv.CandidateId{candB}),
		repeat(1, []rcv.CandidateId{candC}),
	)

	rounds, err := rcv.Tabulate(three(), ballots)
	if err != nil {
		t.Fatalf("Tabulate: %v", err)
	}
	if len(rounds) != 1 {
		t.Fatalf("rounds = %d, want 1", len(rounds))
	}
	if rounds[0].Allocations[0].Allocatee != rcv.AllocateCandidate(candA) {
		t.Errorf("winner = %v, want A", rounds[0].Allocations[0].Allocatee)
	}
}

// Scenario 2: two-round elimination, spec.md §8.
func TestTabulateTwoRoundElimination(t *testing.T) {
	ballots := flatten(
		repeat(2, []rcv.CandidateId{candA, candC}),
		repeat(2, []rcv.CandidateId{candB, candC}),
		repeat(1, []rcv.CandidateId{candC, candA}),
	)

	rounds, err := rcv.Tabulate(three(), ballots)
	if err != nil {
		t.Fatalf("Tabulate: %v", err)
	}
	if len(rounds) != 2 {
		t.Fatalf("rounds = %d, want 2", len(rounds))
	}

	final := rounds[1]
	if final.Allocations[0].Allocatee != rcv.AllocateCandidate(candA) || final.Allocations[0].Votes != 3 {
		t.Errorf("final winner allocation = %+v, want A=3", final.Allocations[0])
	}
	if len(final.Transfers) != 1 || final.Transfers[0].From != candC || final.Transfers[0].Count != 1 {
		t.Errorf("transfers = %+v, want one transfer from C count 1", final.Transfers)
	}
}

// Scenario 6, spec.md §8: C is eliminated and its ballots carry B past A,
// so the IRV winner is B, which is also the Condorcet winner.
func TestTabulateIRVWinnerMatchesCondorcet(t *testing.T) {
	ballots := flatten(
		repeat(4, []rcv.CandidateId{candA, candB, candC}),
		repeat(3, []rcv.CandidateId{candB, candC, candA}),
		repeat(2, []rcv.CandidateId{candC, candB, candA}),
	)

	rounds, err := rcv.Tabulate(three(), ballots)
	if err != nil {
		t.Fatalf("Tabulate: %v", err)
	}
	final := rounds[len(rounds)-1]
	if final.Allocations[0].Allocatee != rcv.AllocateCandidate(candB) {
		t.Errorf("IRV winner = %v, want B", final.Allocations[0].Allocatee)
	}

	normalized := rcv.NormalizedElection{Candidates: three(), Ballots: ballots}
	report, err := rcv.GenerateReport(normalized, rounds, rcv.ElectionInfo{ContestName: "non-condorcet"})
	if err != nil {
		t.Fatalf("GenerateReport: %v", err)
	}
	if report.Condorcet == nil || *report.Condorcet != candB {
		t.Errorf("Condorcet = %v, want B", report.Condorcet)
	}
	if len(report.SmithSet) != 1 || report.SmithSet[0] != candB {
		t.Errorf("SmithSet = %v, want [B]", report.SmithSet)
	}
}

func TestTabulateOvervoteExhaustion(t *testing.T) {
	candidates := three()
	e := rcv.Election{
		Candidates: candidates,
		Ballots: []rcv.Ballot{
			{ID: "b1", Choices: []rcv.Choice{rcv.Vote(candA)}},
			{ID: "b2", Choices: []rcv.Choice{rcv.Vote(candB)}},
			{ID: "b3", Choices: []rcv.Choice{rcv.Overvote}},
		},
	}

	normalized, err := rcv.Normalize("simple", e)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	rounds, err := rcv.Tabulate(candidates, normalized.Ballots)
	if err != nil {
		t.Fatalf("Tabulate: %v", err)
	}
	if rounds[0].Overvote != 1 {
		t.Errorf("Overvote = %d, want 1", rounds[0].Overvote)
	}
}

func TestTabulateZeroCandidatesIsContestPathology(t *testing.T) {
	_, err := rcv.Tabulate(nil, nil)
	if err == nil {
		t.Fatal("expected an error for zero candidates")
	}
	rerr, ok := err.(rcv.Error)
	if !ok || rerr.Kind() != rcv.ErrContestPathology {
		t.Errorf("got %v, want ErrContestPathology", err)
	}
}

func TestTabulatePermutationInvariance(t *testing.T) {
	ballots := flatten(
		repeat(2, []rcv.CandidateId{candA, candC}),
		repeat(2, []rcv.CandidateId{candB, candC}),
		repeat(1, []rcv.CandidateId{candC, candA}),
	)
	reversed := make([]rcv.NormalizedBallot, len(ballots))
	for i, b := range ballots {
		reversed[len(ballots)-1-i] = b
	}

	r1, err := rcv.Tabulate(three(), ballots)
	if err != nil {
		t.Fatalf("Tabulate: %v", err)
	}
	r2, err := rcv.Tabulate(three(), reversed)
	if err != nil {
		t.Fatalf("Tabulate: %v", err)
	}

	if len(r1) != len(r2) {
		t.Fatalf("round counts differ: %d vs %d", len(r1), len(r2))
	}
	for i := range r1 {
		for j := range r1[i].Allocations {
			if r1[i].Allocations[j] != r2[i].Allocations[j] {
				t.Errorf("round %d allocation %d differs: %+v vs %+v", i, j, r1[i].Allocations[j], r2[i].Allocations[j])
			}
		}
	}
}
