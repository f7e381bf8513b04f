package rcv_test

import (
	"encoding/json"
	"testing"

	"github.com/rankedvote/rcv-core/rcv"
)

func TestMigrateLegacyWriteInBallot(t *testing.T) {
	legacy := []byte(`{"id":"b1","choices":[0,"W","U"]}`)

	migrated, err := rcv.MigrateLegacyWriteInBallot(legacy, 9)
	if err != nil {
		t.Fatalf("MigrateLegacyWriteInBallot: %v", err)
	}

	var b rcv.Ballot
	if err := json.Unmarshal(migrated, &b); err != nil {
		t.Fatalf("decoding migrated ballot: %v", err)
	}

	want := []rcv.Choice{rcv.Vote(0), rcv.Vote(9), rcv.Undervote}
	if len(b.Choices) != len(want) {
		t.Fatalf("Choices = %v, want %v", b.Choices, want)
	}
	for i := range want {
		if b.Choices[i] != want[i] {
			t.Errorf("Choices[%d] = %v, want %v", i, b.Choices[i], want[i])
		}
	}
}
