package rcv

import "golang.org/x/sync/errgroup"

// ContestInput bundles the raw input a single contest needs to produce a
// report, for use with TabulateAll.
type ContestInput struct {
	Key       string
	FormatTag string
	Election  Election
	Info      ElectionInfo
	TieBreak  TieBreaker // nil selects AscendingCandidateID
}

// ContestResult is one contest's outcome from TabulateAll: exactly one of
// Report or Err is set.
type ContestResult struct {
	Key    string
	Report ContestReport
	Err    error
}

// TabulateAll runs normalize -> tabulate -> generate_report over each
// ContestInput concurrently, per spec.md §5 ("Contests are independent
// and MAY be processed in parallel by the calling driver"). A failure in
// one contest does not prevent the others from completing.
func TabulateAll(inputs []ContestInput) []ContestResult {
	results := make([]ContestResult, len(inputs))

	var g errgroup.Group
	for i, in := range inputs {
		i, in := i, in
		g.Go(func() error {
			report, err := tabulateOne(in)
			results[i] = ContestResult{Key: in.Key, Report: report, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func tabulateOne(in ContestInput) (ContestReport, error) {
	normalized, err := Normalize(in.FormatTag, in.Election)
	if err != nil {
		return ContestReport{}, err
	}

	tieBreak := in.TieBreak
	if tieBreak == nil {
		tieBreak = AscendingCandidateID
	}

	rounds, err := TabulateWithTieBreak(normalized.Candidates, normalized.Ballots, tieBreak)
	if err != nil {
		return ContestReport{}, err
	}

	return GenerateReport(normalized, rounds, in.Info)
}
