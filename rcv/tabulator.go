package rcv

import "slices"

// TabulatorAllocation is one candidate's (or Exhausted's) vote count
// within a round, spec.md §3.
type TabulatorAllocation struct {
	Allocatee Allocatee `json:"allocatee"`
	Votes     uint32    `json:"votes"`
}

// Transfer records the movement of ballots from an eliminated candidate
// to the allocatee their next preference reduces to.
type Transfer struct {
	From  CandidateId `json:"from"`
	To    Allocatee   `json:"to"`
	Count uint32      `json:"count"`
}

// TabulatorRound is one round's full allocation snapshot plus the
// transfers that produced it (empty for round 0), spec.md §3.
type TabulatorRound struct {
	Allocations       []TabulatorAllocation `json:"allocations"`
	Undervote         uint32                `json:"undervote"`
	Overvote          uint32                `json:"overvote"`
	ContinuingBallots uint32                `json:"continuingBallots"`
	Transfers         []Transfer            `json:"transfers"`
}

// candidateVote pairs a candidate with its current bucketed vote count.
type candidateVote struct {
	id    CandidateId
	votes uint32
}

// tabulatorState is the mutable bucketed-ballot store the loop advances;
// buckets holds, for each current top-of-ballot Choice, the ballots whose
// head reduces to it, grounded in spec.md §4.C.
type tabulatorState struct {
	buckets    map[Choice][]NormalizedBallot
	continuing map[CandidateId]bool
	eliminated map[CandidateId]bool
	tieBreak   TieBreaker
	transfers  []Transfer
}

// Tabulate runs the batched-elimination IRV procedure from spec.md §4.C
// over a NormalizedElection's ballots and returns the ordered sequence of
// rounds. This is the `tabulate(ballots) -> rounds` entry point from
// spec.md §6. Ties are broken ascending by CandidateId, the rule spec.md
// §4.C specifies for reproducibility.
func Tabulate(candidates []Candidate, ballots []NormalizedBallot) ([]TabulatorRound, error) {
	return TabulateWithTieBreak(candidates, ballots, AscendingCandidateID)
}

// TabulateWithTieBreak is Tabulate with an explicit, pluggable tie-break
// policy for batched elimination (DESIGN NOTES §9).
func TabulateWithTieBreak(candidates []Candidate, ballots []NormalizedBallot, tieBreak TieBreaker) ([]TabulatorRound, error) {
	if len(candidates) == 0 {
		return nil, NewError(ErrContestPathology, "tabulation requires at least one candidate")
	}

	st := &tabulatorState{
		buckets:    make(map[Choice][]NormalizedBallot),
		continuing: make(map[CandidateId]bool, len(candidates)),
		eliminated: make(map[CandidateId]bool, len(candidates)),
		tieBreak:   tieBreak,
	}
	for i := range candidates {
		st.continuing[CandidateId(i)] = true
	}
	for _, b := range ballots {
		top := b.TopVote()
		st.buckets[top] = append(st.buckets[top], b)
	}

	var rounds []TabulatorRound
	for {
		alloc, undervote, overvote := st.countAllocations()
		rounds = append(rounds, buildRound(alloc, undervote, overvote, st.transfers))

		if isFinal(alloc) {
			return rounds, nil
		}

		toEliminate, err := selectEliminees(alloc, st.tieBreak)
		if err != nil {
			return nil, err
		}

		st.transfers = st.eliminate(toEliminate)
	}
}

// countAllocations counts every bucket, returning the candidate buckets
// sorted descending by votes (ties broken ascending by CandidateId per
// spec.md §4.C) plus the undervote and overvote bucket totals.
func (st *tabulatorState) countAllocations() ([]candidateVote, uint32, uint32) {
	counts := make(map[CandidateId]uint32, len(st.continuing))
	for id := range st.continuing {
		counts[id] = 0
	}
	var undervote, overvote uint32

	for choice, bucket := range st.buckets {
		switch choice.Kind {
		case ChoiceVote:
			counts[choice.Candidate] += uint32(len(bucket))
		case ChoiceUndervote:
			undervote += uint32(len(bucket))
		case ChoiceOvervote:
			overvote += uint32(len(bucket))
		}
	}

	alloc := make([]candidateVote, 0, len(counts))
	for id, v := range counts {
		alloc = append(alloc, candidateVote{id, v})
	}
	slices.SortFunc(alloc, func(a, b candidateVote) int {
		if a.votes != b.votes {
			if a.votes > b.votes {
				return -1
			}
			return 1
		}
		return int(a.id) - int(b.id)
	})
	return alloc, undervote, overvote
}

func buildRound(alloc []candidateVote, undervote, overvote uint32, transfers []Transfer) TabulatorRound {
	allocations := make([]TabulatorAllocation, 0, len(alloc)+1)
	var continuing uint32
	for _, cv := range alloc {
		allocations = append(allocations, TabulatorAllocation{Allocatee: AllocateCandidate(cv.id), Votes: cv.votes})
		continuing += cv.votes
	}
	allocations = append(allocations, TabulatorAllocation{Allocatee: AllocateExhausted, Votes: undervote + overvote})

	return TabulatorRound{
		Allocations:       allocations,
		Undervote:         undervote,
		Overvote:          overvote,
		ContinuingBallots: continuing,
		Transfers:         transfers,
	}
}

// isFinal implements the termination test of spec.md §4.C: the leader's
// votes strictly exceed the sum of every other continuing candidate's
// votes. Trivially true with one or zero remaining candidates.
func isFinal(alloc []candidateVote) bool {
	if len(alloc) <= 1 {
		return true
	}
	var rest uint32
	for _, cv := range alloc[1:] {
		rest += cv.votes
	}
	return alloc[0].votes > rest
}

// selectEliminees walks the descending-by-votes allocation list from its
// tail (the lowest-vote candidate), popping candidates into the
// elimination batch as long as doing so cannot change the ranking of the
// candidates that remain, per spec.md §4.C step 2. tieBreak reorders
// every group of exactly-tied candidates in the list before the walk so
// that which one is considered "more eliminated" is deterministic.
func selectEliminees(alloc []candidateVote, tieBreak TieBreaker) ([]CandidateId, error) {
	candidates := applyTieBreak(alloc, tieBreak)

	var toEliminate []CandidateId
	var freed uint32
	for len(candidates) >= 2 {
		prev := candidates[len(candidates)-2]
		last := candidates[len(candidates)-1]
		if freed+last.votes > prev.votes {
			break
		}
		toEliminate = append(toEliminate, last.id)
		freed += last.votes
		candidates = candidates[:len(candidates)-1]
	}

	if len(toEliminate) == 0 || len(toEliminate) == len(alloc) {
		return nil, NewError(ErrContestPathology, "unbreakable tie: batched elimination cannot make progress")
	}

	return toEliminate, nil
}

// applyTieBreak re-orders each run of exactly-equal-vote candidates in a
// descending allocation list using tieBreak, which reports who is
// considered "first" in the loser walk (so that candidate ends up last
// in the run, since the walk pops from the tail).
func applyTieBreak(alloc []candidateVote, tieBreak TieBreaker) []candidateVote {
	out := slices.Clone(alloc)

	i := 0
	for i < len(out) {
		j := i + 1
		for j < len(out) && out[j].votes == out[i].votes {
			j++
		}
		if j-i > 1 {
			tied := make([]CandidateId, j-i)
			for k := i; k < j; k++ {
				tied[k-i] = out[k].id
			}
			ordered := tieBreak(tied)
			// ordered[0] is eliminated first, so it belongs at the tail
			// of the run (position j-1); reverse into place.
			for k, id := range ordered {
				out[j-1-k] = candidateVote{id: id, votes: out[i].votes}
			}
		}
		i = j
	}
	return out
}

// eliminate marks every candidate in toEliminate as eliminated, moves
// their ballots to the next continuing preference (or to exhaustion),
// and returns the resulting Transfer records ordered per spec.md §4.C
// step 7 (destination vote count descending, Exhausted last).
func (st *tabulatorState) eliminate(toEliminate []CandidateId) []Transfer {
	for _, id := range toEliminate {
		st.eliminated[id] = true
		delete(st.continuing, id)
	}

	transferCounts := make(map[CandidateId]map[Allocatee]uint32, len(toEliminate))
	for _, id := range toEliminate {
		bucket := st.buckets[Vote(id)]
		delete(st.buckets, Vote(id))
		transferCounts[id] = make(map[Allocatee]uint32)

		for _, ballot := range bucket {
			moved := ballot
			for {
				top := moved.TopVote()
				if top.Kind == ChoiceVote && st.eliminated[top.Candidate] {
					moved = moved.PopTopVote()
					continue
				}
				break
			}

			newTop := moved.TopVote()
			st.buckets[newTop] = append(st.buckets[newTop], moved)
			transferCounts[id][destinationAllocatee(newTop)]++
		}
	}

	postAlloc, _, _ := st.countAllocations()
	strength := make(map[CandidateId]uint32, len(postAlloc))
	for _, cv := range postAlloc {
		strength[cv.id] = cv.votes
	}

	var transfers []Transfer
	for _, id := range toEliminate {
		for to, count := range transferCounts[id] {
			transfers = append(transfers, Transfer{From: id, To: to, Count: count})
		}
	}

	slices.SortFunc(transfers, func(a, b Transfer) int {
		if a.To.Exhausted != b.To.Exhausted {
			if a.To.Exhausted {
				return 1
			}
			return -1
		}
		if !a.To.Exhausted {
			sa, sb := strength[a.To.Candidate], strength[b.To.Candidate]
			if sa != sb {
				if sa > sb {
					return -1
				}
				return 1
			}
		}
		if a.From != b.From {
			return int(a.From) - int(b.From)
		}
		return 0
	})

	return transfers
}

func destinationAllocatee(c Choice) Allocatee {
	if c.Kind == ChoiceVote {
		return AllocateCandidate(c.Candidate)
	}
	return AllocateExhausted
}
