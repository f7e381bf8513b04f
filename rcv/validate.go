package rcv

import (
	"encoding/json"

	"github.com/xeipuuv/gojsonschema"

	"github.com/rankedvote/rcv-core/internal/schema"
)

var (
	normalizedBallotSchema = gojsonschema.NewBytesLoader(schema.NormalizedBallot)
	tabulatorRoundSchema   = gojsonschema.NewBytesLoader(schema.TabulatorRound)
	contestReportSchema    = gojsonschema.NewBytesLoader(schema.ContestReport)
)

// validateAgainst runs a document through its JSON Schema before
// unmarshalling, so a malformed preprocessed cache is rejected with an
// ErrCacheIntegrity error naming every violation rather than an opaque
// json.Unmarshal failure.
func validateAgainst(schemaLoader gojsonschema.JSONLoader, data []byte) error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return WrapError(ErrCacheIntegrity, err)
	}
	if !result.Valid() {
		msg := "cache document failed schema validation:"
		for _, e := range result.Errors() {
			msg += " " + e.String() + ";"
		}
		return NewError(ErrCacheIntegrity, msg)
	}
	return nil
}

// UnmarshalNormalizedBallot validates then decodes one cached
// NormalizedBallot, per spec.md §6's preprocessed-cache serialization.
func UnmarshalNormalizedBallot(data []byte) (NormalizedBallot, error) {
	if err := validateAgainst(normalizedBallotSchema, data); err != nil {
		return NormalizedBallot{}, err
	}
	var b NormalizedBallot
	if err := json.Unmarshal(data, &b); err != nil {
		return NormalizedBallot{}, WrapError(ErrCacheIntegrity, err)
	}
	return b, nil
}

// UnmarshalTabulatorRound validates then decodes one cached TabulatorRound.
func UnmarshalTabulatorRound(data []byte) (TabulatorRound, error) {
	if err := validateAgainst(tabulatorRoundSchema, data); err != nil {
		return TabulatorRound{}, err
	}
	var r TabulatorRound
	if err := json.Unmarshal(data, &r); err != nil {
		return TabulatorRound{}, WrapError(ErrCacheIntegrity, err)
	}
	return r, nil
}

// UnmarshalContestReport validates then decodes a cached ContestReport.
func UnmarshalContestReport(data []byte) (ContestReport, error) {
	if err := validateAgainst(contestReportSchema, data); err != nil {
		return ContestReport{}, err
	}
	var r ContestReport
	if err := json.Unmarshal(data, &r); err != nil {
		return ContestReport{}, WrapError(ErrCacheIntegrity, err)
	}
	return r, nil
}
