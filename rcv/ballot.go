// Package rcv computes audited round-by-round results of single-winner
// ranked-choice voting contests from normalized cast-vote-record data.
package rcv

import (
	"encoding/json"
	"fmt"

	"golang.org/x/text/unicode/norm"
)

// CandidateId is an opaque dense integer index assigned at ingestion time.
// It is unique within one contest and stable across every round and
// analytics table produced for that contest.
type CandidateId int

// Candidate is immutable once an Election is constructed.
type Candidate struct {
	Name    string `json:"name"`
	WriteIn bool   `json:"writeIn"`
}

// NewCandidate builds a Candidate, NFC-normalizing the name so that two
// write-ins a human reads as identical compare equal.
func NewCandidate(name string, writeIn bool) Candidate {
	return Candidate{Name: norm.NFC.String(name), WriteIn: writeIn}
}

// ChoiceKind discriminates the Choice tagged union.
type ChoiceKind int

const (
	// ChoiceVote is a mark for a specific candidate.
	ChoiceVote ChoiceKind = iota
	// ChoiceUndervote is a rank left blank.
	ChoiceUndervote
	// ChoiceOvervote is a rank with more than one mark.
	ChoiceOvervote
)

// Choice is a single rank position on a raw ballot: a vote for a
// candidate, an undervote, or an overvote. Write-in candidates are
// ordinary candidates flagged via Candidate.WriteIn and voted for with
// Vote, not a separate Choice variant (spec.md §3).
type Choice struct {
	Kind      ChoiceKind
	Candidate CandidateId // only meaningful when Kind == ChoiceVote
}

// Vote constructs a Choice for the given candidate.
func Vote(c CandidateId) Choice { return Choice{Kind: ChoiceVote, Candidate: c} }

// Undervote is the blank-rank Choice.
var Undervote = Choice{Kind: ChoiceUndervote}

// Overvote is the multiple-marks-at-one-rank Choice.
var Overvote = Choice{Kind: ChoiceOvervote}

// IsVote reports whether the choice is a vote for a candidate.
func (c Choice) IsVote() bool { return c.Kind == ChoiceVote }

// MarshalJSON maps Vote(n) -> n, Undervote -> "U", Overvote -> "O".
func (c Choice) MarshalJSON() ([]byte, error) {
	switch c.Kind {
	case ChoiceVote:
		return json.Marshal(int(c.Candidate))
	case ChoiceUndervote:
		return json.Marshal("U")
	case ChoiceOvervote:
		return json.Marshal("O")
	default:
		return nil, fmt.Errorf("marshal choice: unknown kind %d", c.Kind)
	}
}

// UnmarshalJSON accepts "U", "O", and a non-negative integer. Any other
// string — including a legacy "W" write-in tag from an older cache
// revision — is a cache-integrity error per spec.md §4.A ("errors on
// deserialization for any other string are fatal"); a legacy document
// has its "W" entries resolved to a concrete CandidateId by
// MigrateLegacyWriteInBallot before it reaches this decoder.
func (c *Choice) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		switch s {
		case "U":
			*c = Undervote
			return nil
		case "O":
			*c = Overvote
			return nil
		default:
			return NewError(ErrCacheIntegrity, fmt.Sprintf("malformed choice string %q", s))
		}
	}

	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return NewError(ErrCacheIntegrity, fmt.Sprintf("malformed choice %s", data))
	}
	if n < 0 {
		return NewError(ErrCacheIntegrity, fmt.Sprintf("negative candidate id %d", n))
	}
	*c = Vote(CandidateId(n))
	return nil
}

// Ballot is a raw, as-cast ranked ballot. choices[i] is the mark at rank
// i+1; a rank with no mark is Undervote.
type Ballot struct {
	ID      string   `json:"id"`
	Choices []Choice `json:"choices"`
}

// Allocatee is either a candidate or the Exhausted pool.
type Allocatee struct {
	Exhausted bool
	Candidate CandidateId // only meaningful when !Exhausted
}

// AllocateCandidate wraps a candidate id as an Allocatee.
func AllocateCandidate(c CandidateId) Allocatee { return Allocatee{Candidate: c} }

// AllocateExhausted is the Exhausted allocatee.
var AllocateExhausted = Allocatee{Exhausted: true}

// MarshalJSON maps Candidate(n) -> n, Exhausted -> "X".
func (a Allocatee) MarshalJSON() ([]byte, error) {
	if a.Exhausted {
		return json.Marshal("X")
	}
	return json.Marshal(int(a.Candidate))
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (a *Allocatee) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s != "X" {
			return NewError(ErrCacheIntegrity, fmt.Sprintf("malformed allocatee string %q", s))
		}
		*a = AllocateExhausted
		return nil
	}

	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return NewError(ErrCacheIntegrity, fmt.Sprintf("malformed allocatee %s", data))
	}
	if n < 0 {
		return NewError(ErrCacheIntegrity, fmt.Sprintf("negative candidate id %d", n))
	}
	*a = AllocateCandidate(CandidateId(n))
	return nil
}

// NormalizedBallot is the canonical form a normalizer produces from a raw
// Ballot: an ordered remaining-preference list with no duplicate
// candidates, plus a sticky overvoted flag.
//
// Invariant: Choices never contains the same CandidateId twice.
type NormalizedBallot struct {
	ID        string        `json:"id"`
	Choices   []CandidateId `json:"choices"`
	Overvoted bool          `json:"overvoted"`
}

// TopVote is the ballot's current effective preference: a vote for the
// head of Choices if any remain, else Overvote if Overvoted is sticky-set,
// else Undervote.
func (b NormalizedBallot) TopVote() Choice {
	if len(b.Choices) > 0 {
		return Vote(b.Choices[0])
	}
	if b.Overvoted {
		return Overvote
	}
	return Undervote
}

// PopTopVote returns a copy of b with its head preference removed.
func (b NormalizedBallot) PopTopVote() NormalizedBallot {
	if len(b.Choices) == 0 {
		return b
	}
	next := make([]CandidateId, len(b.Choices)-1)
	copy(next, b.Choices[1:])
	b.Choices = next
	return b
}

// Election is the raw contest input: the candidate roster plus every cast
// ballot. Invariant: every Vote(id) choice on every ballot satisfies
// 0 <= id < len(Candidates).
type Election struct {
	Candidates []Candidate `json:"candidates"`
	Ballots    []Ballot    `json:"ballots"`
}

// Validate checks the Election invariant from spec.md §3: every Vote
// references a candidate in range. It is the data-integrity check the
// normalizer runs before transforming raw ballots.
func (e Election) Validate() error {
	n := len(e.Candidates)
	if n == 0 {
		return NewError(ErrContestPathology, "election has zero candidates")
	}
	for _, b := range e.Ballots {
		for _, c := range b.Choices {
			if c.Kind == ChoiceVote && (c.Candidate < 0 || int(c.Candidate) >= n) {
				return NewError(ErrDataIntegrity, fmt.Sprintf("ballot %s references out-of-range candidate %d", b.ID, c.Candidate))
			}
		}
	}
	return nil
}

// NormalizedElection is an Election whose ballots have already been run
// through a normalizer; the candidate roster is unchanged.
type NormalizedElection struct {
	Candidates []Candidate        `json:"candidates"`
	Ballots    []NormalizedBallot `json:"ballots"`
}

// ElectionInfo is opaque contest metadata passed through into the report
// untouched by the core. See NewElectionInfo for a decoder from loosely
// typed jurisdiction descriptors.
type ElectionInfo struct {
	ContestName      string `json:"contestName" mapstructure:"contest_name"`
	Office           string `json:"office" mapstructure:"office"`
	Date             string `json:"date" mapstructure:"date"`
	JurisdictionPath string `json:"jurisdictionPath" mapstructure:"jurisdiction_path"`
	FormatTag        string `json:"formatTag" mapstructure:"format_tag"`
	NormalizationTag string `json:"normalizationTag" mapstructure:"normalization_tag"`
	TabulationTag    string `json:"tabulationTag" mapstructure:"tabulation_tag"`
}
