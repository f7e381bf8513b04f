package rcv

// ContestReport binds contest metadata, the round sequence, and every
// analytics table into the single artifact spec.md §3/§6 describes.
type ContestReport struct {
	Info                ElectionInfo     `json:"info"`
	BallotCount         uint32           `json:"ballotCount"`
	Candidates          []Candidate      `json:"candidates"`
	Rounds              []TabulatorRound `json:"rounds"`
	Winner              CandidateId      `json:"winner"`
	Condorcet           *CandidateId     `json:"condorcet,omitempty"`
	NumCandidates       int              `json:"numCandidates"`
	TotalVotes          []CandidateTotal `json:"totalVotes"`
	PairwisePreferences []PairwiseEntry  `json:"pairwisePreferences"`
	FirstAlternate      []CrosstabEntry  `json:"firstAlternate"`
	FirstFinal          []CrosstabEntry  `json:"firstFinal"`
	SmithSet            []CandidateId    `json:"smithSet"`
}

// GenerateReport is the `generate_report(preprocessed, info) ->
// ContestReport` entry point from spec.md §6. preprocessed must already
// be normalized; rounds is the tabulator's output over the same ballots.
func GenerateReport(preprocessed NormalizedElection, rounds []TabulatorRound, info ElectionInfo) (ContestReport, error) {
	if len(rounds) == 0 {
		return ContestReport{}, NewError(ErrContestPathology, "cannot assemble a report with zero rounds")
	}

	finalRound := rounds[len(rounds)-1]
	winnerAlloc := finalRound.Allocations[0]
	if winnerAlloc.Allocatee.Exhausted {
		return ContestReport{}, NewError(ErrContestPathology, "final round's leading allocatee is Exhausted")
	}

	pair := pairwiseCounts(preprocessed.Candidates, preprocessed.Ballots)
	condorcet := ComputeCondorcet(preprocessed.Candidates, pair)

	numCandidates := 0
	for _, c := range preprocessed.Candidates {
		if !c.WriteIn {
			numCandidates++
		}
	}

	winner := winnerAlloc.Allocatee.Candidate
	if condorcet.Condorcet != nil && *condorcet.Condorcet != winner {
		Logger.Info().
			Int("irvWinner", int(winner)).
			Int("condorcetWinner", int(*condorcet.Condorcet)).
			Str("contest", info.ContestName).
			Msg("IRV winner differs from Condorcet winner")
	}

	return ContestReport{
		Info:                info,
		BallotCount:         uint32(len(preprocessed.Ballots)),
		Candidates:          preprocessed.Candidates,
		Rounds:              rounds,
		Winner:              winner,
		Condorcet:           condorcet.Condorcet,
		NumCandidates:       numCandidates,
		TotalVotes:          TotalVotes(rounds),
		PairwisePreferences: PairwiseTable(preprocessed.Candidates, pair),
		FirstAlternate:      FirstAlternateTable(preprocessed.Ballots),
		FirstFinal:          FirstFinalTable(preprocessed.Ballots, finalRound),
		SmithSet:            condorcet.SmithSet,
	}, nil
}
