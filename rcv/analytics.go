package rcv

import (
	"slices"

	"github.com/shopspring/decimal"
)

// CandidateTotal is one candidate's total-votes breakdown, spec.md §4.D.
type CandidateTotal struct {
	Candidate       CandidateId `json:"candidate"`
	FirstRoundVotes uint32      `json:"firstRoundVotes"`
	TransferVotes   int32       `json:"transferVotes"`
	RoundEliminated *int        `json:"roundEliminated,omitempty"`
}

// Fraction is a count paired with its share of some denominator, used
// throughout the crosstab and pairwise tables (spec.md §4.D).
type Fraction struct {
	Frac  decimal.Decimal `json:"frac"`
	Count uint32          `json:"count"`
}

// PairwiseEntry is one populated cell of the pairwise preference table.
type PairwiseEntry struct {
	Row   Allocatee `json:"row"`
	Col   Allocatee `json:"col"`
	Entry Fraction  `json:"entry"`
}

// CrosstabEntry is one populated cell of the first-alternate or
// first-final tables.
type CrosstabEntry struct {
	Row   Allocatee `json:"row"`
	Col   Allocatee `json:"col"`
	Entry Fraction  `json:"entry"`
}

// pairwiseCounts implements spec.md §4.D's "Pairwise preference counts":
// for every ordered pair (a, b), the number of ballots on which a is
// ranked strictly above b, with unranked candidates treated as ranked
// below every ranked candidate on that ballot. Grounded in the row-major
// sum-matrix technique of the Condorcet-method reference (pair[i*n+j]).
func pairwiseCounts(candidates []Candidate, ballots []NormalizedBallot) []uint32 {
	n := len(candidates)
	pair := make([]uint32, n*n)
	idx := func(i, j int) int { return n*i + j }

	above := make(map[CandidateId]bool, n)
	for _, b := range ballots {
		clear(above)
		for _, c := range b.Choices {
			for a := range above {
				pair[idx(int(a), int(c))]++
			}
			above[c] = true
		}
		for d := 0; d < n; d++ {
			cid := CandidateId(d)
			if above[cid] {
				continue
			}
			for a := range above {
				pair[idx(int(a), int(cid))]++
			}
		}
	}
	return pair
}

// PairwiseTable builds the square preference matrix from spec.md §4.D,
// omitting diagonal and zero-interaction entries.
func PairwiseTable(candidates []Candidate, pair []uint32) []PairwiseEntry {
	n := len(candidates)
	var out []PairwiseEntry
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			m1 := pair[n*i+j]
			m2 := pair[n*j+i]
			if m1+m2 == 0 {
				continue
			}
			out = append(out, PairwiseEntry{
				Row: AllocateCandidate(CandidateId(i)),
				Col: AllocateCandidate(CandidateId(j)),
				Entry: Fraction{
					Frac:  decimal.NewFromInt32(int32(m1)).Div(decimal.NewFromInt32(int32(m1 + m2))),
					Count: m1 + m2,
				},
			})
		}
	}
	return out
}

// CondorcetResult holds the Smith set and, when it collapses to a single
// member, the Condorcet winner (spec.md §4.D).
type CondorcetResult struct {
	SmithSet  []CandidateId
	Condorcet *CandidateId
}

// ComputeCondorcet implements spec.md §4.D's Smith-set iteration: starting
// from every candidate, repeatedly shrink the set to the candidates that
// beat some member of the current set, until it stops shrinking or
// empties. A singleton Smith set is the Condorcet winner.
func ComputeCondorcet(candidates []Candidate, pair []uint32) CondorcetResult {
	n := len(candidates)
	beats := func(a, b int) bool { return pair[n*a+b] > pair[n*b+a] }

	set := make([]int, n)
	for i := range set {
		set[i] = i
	}

	for {
		inSet := make(map[int]bool, len(set))
		for _, c := range set {
			inSet[c] = true
		}

		next := make(map[int]bool)
		for b := range inSet {
			for a := 0; a < n; a++ {
				if a != b && beats(a, b) {
					next[a] = true
				}
			}
		}

		if len(next) == 0 || len(next) == len(set) {
			break
		}
		set = set[:0]
		for c := range next {
			set = append(set, c)
		}
	}

	slices.Sort(set)
	result := CondorcetResult{SmithSet: make([]CandidateId, len(set))}
	for i, c := range set {
		result.SmithSet[i] = CandidateId(c)
	}
	if len(set) == 1 {
		winner := CandidateId(set[0])
		result.Condorcet = &winner
	}
	return result
}

// TotalVotes implements spec.md §4.D's per-candidate total-votes
// breakdown: first-round votes, votes transferred in by the candidate's
// last appearing round (or final round if never eliminated), and the
// 1-based round the candidate was first eliminated from, if any. Sorted
// descending by combined total.
func TotalVotes(rounds []TabulatorRound) []CandidateTotal {
	if len(rounds) == 0 {
		return nil
	}

	firstRound := make(map[CandidateId]uint32)
	for _, a := range rounds[0].Allocations {
		if !a.Allocatee.Exhausted {
			firstRound[a.Allocatee.Candidate] = a.Votes
		}
	}

	lastVotes := make(map[CandidateId]uint32)
	eliminatedAt := make(map[CandidateId]int)
	for i, round := range rounds {
		for _, a := range round.Allocations {
			if !a.Allocatee.Exhausted {
				lastVotes[a.Allocatee.Candidate] = a.Votes
			}
		}
		for _, t := range round.Transfers {
			if _, ok := eliminatedAt[t.From]; !ok {
				eliminatedAt[t.From] = i
			}
		}
	}

	out := make([]CandidateTotal, 0, len(firstRound))
	for id, first := range firstRound {
		ct := CandidateTotal{
			Candidate:       id,
			FirstRoundVotes: first,
			TransferVotes:   int32(lastVotes[id]) - int32(first),
		}
		if r, ok := eliminatedAt[id]; ok {
			ct.RoundEliminated = &r
		}
		out = append(out, ct)
	}

	slices.SortFunc(out, func(a, b CandidateTotal) int {
		ta := a.FirstRoundVotes + uint32(a.TransferVotes)
		tb := b.FirstRoundVotes + uint32(b.TransferVotes)
		if ta != tb {
			if ta > tb {
				return -1
			}
			return 1
		}
		return int(a.Candidate) - int(b.Candidate)
	})
	return out
}

// FirstAlternateTable implements spec.md §4.D's first-alternate crosstab:
// for ballots grouped by first choice, the distribution of their second
// entry (or Exhausted if none).
func FirstAlternateTable(ballots []NormalizedBallot) []CrosstabEntry {
	counts := make(map[CandidateId]map[Allocatee]uint32)
	denom := make(map[CandidateId]uint32)

	for _, b := range ballots {
		if len(b.Choices) == 0 {
			continue
		}
		first := b.Choices[0]
		denom[first]++
		second := AllocateExhausted
		if len(b.Choices) > 1 {
			second = AllocateCandidate(b.Choices[1])
		}
		if counts[first] == nil {
			counts[first] = make(map[Allocatee]uint32)
		}
		counts[first][second]++
	}

	return buildCrosstab(counts, denom)
}

// FirstFinalTable implements spec.md §4.D's first-final crosstab: for
// ballots whose first choice was eliminated before the final round, the
// distribution of which final-round candidate (or Exhausted) their
// preference ultimately reduced to.
func FirstFinalTable(ballots []NormalizedBallot, finalRound TabulatorRound) []CrosstabEntry {
	final := make(map[CandidateId]bool)
	for _, a := range finalRound.Allocations {
		if !a.Allocatee.Exhausted {
			final[a.Allocatee.Candidate] = true
		}
	}

	counts := make(map[CandidateId]map[Allocatee]uint32)
	denom := make(map[CandidateId]uint32)

	for _, b := range ballots {
		if len(b.Choices) == 0 || final[b.Choices[0]] {
			continue
		}
		first := b.Choices[0]
		denom[first]++

		dest := AllocateExhausted
		for _, c := range b.Choices {
			if final[c] {
				dest = AllocateCandidate(c)
				break
			}
		}
		if counts[first] == nil {
			counts[first] = make(map[Allocatee]uint32)
		}
		counts[first][dest]++
	}

	return buildCrosstab(counts, denom)
}

func buildCrosstab(counts map[CandidateId]map[Allocatee]uint32, denom map[CandidateId]uint32) []CrosstabEntry {
	rows := make([]CandidateId, 0, len(counts))
	for r := range counts {
		rows = append(rows, r)
	}
	slices.Sort(rows)

	var out []CrosstabEntry
	for _, row := range rows {
		d := denom[row]
		cols := make([]Allocatee, 0, len(counts[row]))
		for c := range counts[row] {
			cols = append(cols, c)
		}
		slices.SortFunc(cols, compareAllocatee)
		for _, col := range cols {
			count := counts[row][col]
			if count == 0 {
				continue
			}
			out = append(out, CrosstabEntry{
				Row: AllocateCandidate(row),
				Col: col,
				Entry: Fraction{
					Frac:  decimal.NewFromInt32(int32(count)).Div(decimal.NewFromInt32(int32(d))),
					Count: d,
				},
			})
		}
	}
	return out
}

func compareAllocatee(a, b Allocatee) int {
	if a.Exhausted != b.Exhausted {
		if a.Exhausted {
			return 1
		}
		return -1
	}
	return int(a.Candidate) - int(b.Candidate)
}
