package rcv

import "encoding/json"

// MigrateLegacyWriteInBallot rewrites a raw Ballot JSON document from an
// early source revision that used a distinct "W" Choice tag for write-ins
// (spec.md §9 Open Question 2: "Any cached data produced by older
// revisions requires a migration pass") into the current three-variant
// form, substituting writeIn for every "W" entry. The result can then be
// decoded normally with json.Unmarshal into a Ballot; Choice.UnmarshalJSON
// itself never accepts "W" (spec.md §4.A: any other string is fatal), so
// this migration must run first.
func MigrateLegacyWriteInBallot(data []byte, writeIn CandidateId) ([]byte, error) {
	var doc struct {
		ID      string            `json:"id"`
		Choices []json.RawMessage `json:"choices"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, WrapError(ErrCacheIntegrity, err)
	}

	for i, raw := range doc.Choices {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil && s == "W" {
			migrated, err := json.Marshal(int(writeIn))
			if err != nil {
				return nil, WrapError(ErrCacheIntegrity, err)
			}
			doc.Choices[i] = migrated
		}
	}

	out, err := json.Marshal(doc)
	if err != nil {
		return nil, WrapError(ErrCacheIntegrity, err)
	}
	return out, nil
}
