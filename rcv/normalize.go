package rcv

// Normalizer is a pure per-ballot transform keyed by a string tag, the
// same shape as the teacher's `method` interface in vote/methods.go
// (Name() plus the behavior itself) minus the config/validation pieces
// that belonged to that package's poll methods rather than ours.
type Normalizer interface {
	Name() string
	Normalize(candidates []Candidate, b Ballot) NormalizedBallot
}

var normalizers = map[string]Normalizer{
	"simple": simpleNormalizer{},
	"maine":  maineNormalizer{},
}

// Normalize runs the named normalizer over every ballot in an Election,
// producing a NormalizedElection with the same candidate roster. This is
// the `normalize(format_tag, Election)` entry point from spec.md §6.
func Normalize(formatTag string, e Election) (NormalizedElection, error) {
	if err := e.Validate(); err != nil {
		return NormalizedElection{}, err
	}

	n, ok := normalizers[formatTag]
	if !ok {
		return NormalizedElection{}, Errorf(ErrConfiguration, "unknown normalizer tag %q", formatTag)
	}

	out := NormalizedElection{
		Candidates: e.Candidates,
		Ballots:    make([]NormalizedBallot, len(e.Ballots)),
	}
	for i, b := range e.Ballots {
		out.Ballots[i] = n.Normalize(e.Candidates, b)
	}
	return out, nil
}

// RegisterNormalizer lets a caller add a jurisdiction-specific
// normalizer tag without modifying this package — mirrors the way
// vote/methods.go's method table could in principle grow a new method.
func RegisterNormalizer(tag string, n Normalizer) {
	normalizers[tag] = n
}

// simpleNormalizer implements spec.md §4.B "simple": duplicates of an
// already-seen candidate collapse silently, undervotes are skipped
// without exhausting the ballot, and the first overvote sets the sticky
// flag and stops the walk.
type simpleNormalizer struct{}

func (simpleNormalizer) Name() string { return "simple" }

func (simpleNormalizer) Normalize(_ []Candidate, b Ballot) NormalizedBallot {
	out := NormalizedBallot{ID: b.ID}
	seen := make(map[CandidateId]bool, len(b.Choices))

	for _, choice := range b.Choices {
		switch choice.Kind {
		case ChoiceVote:
			if seen[choice.Candidate] {
				continue
			}
			seen[choice.Candidate] = true
			out.Choices = append(out.Choices, choice.Candidate)
		case ChoiceUndervote:
			continue
		case ChoiceOvervote:
			out.Overvoted = true
			return out
		}
	}
	return out
}

// maineNormalizer implements spec.md §4.B "maine": Maine's statutory
// double-skip exhaustion rule (21-A MRSA §723-A). A single undervote is
// a gap that does not exhaust the ballot; two undervotes in a row
// terminate it (distinct from exhaustion-by-overvote, which sets
// Overvoted).
type maineNormalizer struct{}

func (maineNormalizer) Name() string { return "maine" }

func (maineNormalizer) Normalize(_ []Candidate, b Ballot) NormalizedBallot {
	out := NormalizedBallot{ID: b.ID}
	seen := make(map[CandidateId]bool, len(b.Choices))
	lastWasSkip := false

	for _, choice := range b.Choices {
		switch choice.Kind {
		case ChoiceVote:
			lastWasSkip = false
			if seen[choice.Candidate] {
				continue
			}
			seen[choice.Candidate] = true
			out.Choices = append(out.Choices, choice.Candidate)
		case ChoiceUndervote:
			if lastWasSkip {
				// Second consecutive undervote: exhausted-as-undervote,
				// distinct from an overvote exhaustion.
				return out
			}
			lastWasSkip = true
		case ChoiceOvervote:
			out.Overvoted = true
			return out
		}
	}
	return out
}
