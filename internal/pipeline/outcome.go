package pipeline

import "fmt"

// Outcome describes one record's delivery attempt. A failed attempt is a
// classification, not an error: it never propagates beyond the batch
// accounting.
type Outcome struct {
	Kind       Kind
	RecordID   string
	Delivered  bool
	StatusCode int
	Body       string
	Err        error
}

// Reason summarizes why a delivery failed.
func (o Outcome) Reason() string {
	switch {
	case o.Delivered:
		return ""
	case o.Err != nil:
		return o.Err.Error()
	case o.Body != "":
		return fmt.Sprintf("status %d: %s", o.StatusCode, o.Body)
	default:
		return fmt.Sprintf("status %d", o.StatusCode)
	}
}

// Failure is the client-facing summary of one dropped record.
type Failure struct {
	Kind     Kind   `json:"kind"`
	RecordID string `json:"recordId"`
	Reason   string `json:"reason"`
}

// BatchOutcome aggregates delivery results across a whole request, so
// callers can distinguish "all delivered" from "some dropped" even though
// the request itself always completes.
type BatchOutcome struct {
	Delivered int       `json:"delivered"`
	Failed    int       `json:"failed"`
	Failures  []Failure `json:"failures,omitempty"`
}

// Observe folds one delivery outcome into the batch totals. Not safe for
// concurrent use; callers serialize access.
func (b *BatchOutcome) Observe(o Outcome) {
	if o.Delivered {
		b.Delivered++
		return
	}
	b.Failed++
	b.Failures = append(b.Failures, Failure{Kind: o.Kind, RecordID: o.RecordID, Reason: o.Reason()})
}

// AddFailure records a unit that never reached the sink, such as a record
// that could not be constructed.
func (b *BatchOutcome) AddFailure(kind Kind, recordID, reason string) {
	b.Failed++
	b.Failures = append(b.Failures, Failure{Kind: kind, RecordID: recordID, Reason: reason})
}
