package bridge

// Status is the top-level result of a bridge call.
type Status int

const (
	StatusSuccess Status = iota
	StatusFailure
	StatusUnavailable
)

// FailureKind classifies failures the way the UI needs to react to them.
type FailureKind string

const (
	KindTimeout    FailureKind = "timeout"
	KindHostError  FailureKind = "host-error"
	KindParseError FailureKind = "parse-error"
	KindValidation FailureKind = "validation-error"
	KindCancelled  FailureKind = "cancelled"
)

// Source records which backend served the outcome, so a fallback-served
// result is distinguishable without changing the shape callers consume.
type Source string

const (
	SourceHost  Source = "host"
	SourceLocal Source = "local"
)

// Outcome is the normalized result of any bridge call: exactly one of
// success (Value holds the raw JSON), failure (Kind and Detail set), or
// unavailable. Adapters return it instead of errors so UI code has one
// decision point and nothing from the host boundary can escape as a panic.
type Outcome struct {
	Status Status
	Value  string
	Kind   FailureKind
	Detail string
	Source Source
}

func Success(raw string) Outcome {
	return Outcome{Status: StatusSuccess, Value: raw, Source: SourceHost}
}

func Failure(kind FailureKind, detail string) Outcome {
	return Outcome{Status: StatusFailure, Kind: kind, Detail: detail, Source: SourceHost}
}

func Unavailable() Outcome {
	return Outcome{Status: StatusUnavailable, Source: SourceHost}
}

// Local marks the outcome as served by the pure-local fallback.
func (o Outcome) Local() Outcome {
	o.Source = SourceLocal
	return o
}

// OK reports whether the call succeeded.
func (o Outcome) OK() bool { return o.Status == StatusSuccess }

// Err returns a short human-readable description of a non-success outcome.
func (o Outcome) Err() string {
	switch o.Status {
	case StatusSuccess:
		return ""
	case StatusUnavailable:
		return "bridge not connected"
	default:
		if o.Detail != "" {
			return string(o.Kind) + ": " + o.Detail
		}
		return string(o.Kind)
	}
}
