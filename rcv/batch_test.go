package rcv_test

import (
	"testing"

	"github.com/rankedvote/rcv-core/rcv"
)

func TestTabulateAllIsolatesFailures(t *testing.T) {
	good := rcv.ContestInput{
		Key:       "good",
		FormatTag: "simple",
		Election: rcv.Election{
			Candidates: three(),
			Ballots: []rcv.Ballot{
				{ID: "b1", Choices: []rcv.Choice{rcv.Vote(candA)}},
			},
		},
		Info: rcv.ElectionInfo{ContestName: "good"},
	}
	bad := rcv.ContestInput{
		Key:       "bad",
		FormatTag: "nonexistent",
		Election:  rcv.Election{Candidates: three()},
		Info:      rcv.ElectionInfo{ContestName: "bad"},
	}

	results := rcv.TabulateAll([]rcv.ContestInput{good, bad})
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}

	byKey := make(map[string]rcv.ContestResult, 2)
	for _, r := range results {
		byKey[r.Key] = r
	}

	if byKey["good"].Err != nil {
		t.Errorf("good contest errored: %v", byKey["good"].Err)
	}
	if byKey["bad"].Err == nil {
		t.Error("bad contest should have errored on an unknown format tag")
	}
}
