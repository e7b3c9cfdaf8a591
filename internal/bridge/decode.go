package bridge

import "encoding/json"

// Decode parses a successful outcome's raw JSON into v. Malformed host JSON
// becomes a parse-error failure rather than reaching the caller; non-success
// outcomes pass through unchanged.
func Decode[T any](o Outcome, v *T) Outcome {
	if !o.OK() {
		return o
	}
	if err := json.Unmarshal([]byte(o.Value), v); err != nil {
		return Outcome{Status: StatusFailure, Kind: KindParseError, Detail: err.Error(), Source: o.Source}
	}
	return o
}
