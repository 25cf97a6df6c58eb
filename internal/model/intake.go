package model

import "time"

// IntakeRecord is the persisted row uniting the public reference ID, the
// creation timestamp, and the payload document. The payload is stored as a
// single JSON column; it is immutable after insert (no update path exists).
type IntakeRecord struct {
	ID        int64     `json:"id"`
	RefID     string    `json:"ref_id"`
	Payload   Payload   `json:"payload"`
	CreatedAt time.Time `json:"created_at"`
}

// Payload is the document persisted per intake: the patient form data, the
// synthesized screening result, and the creation timestamp baked in as an
// ISO-8601 string.
type Payload struct {
	Intake       Intake   `json:"intake"`
	AI           AIResult `json:"ai"`
	CreatedAtUTC string   `json:"created_at_utc"`
}

// Intake is the patient-provided form data. Age is a pointer so an absent
// value is distinguishable from a legitimate age of zero.
type Intake struct {
	Name string `json:"name"`
	Age  *int   `json:"age"`
	Sex  string `json:"sex"`
}

// AIResult is the screening result attached to a submission. The current
// system only ever fills it with a fixed placeholder.
type AIResult struct {
	Condition string   `json:"condition"`
	OTC       []string `json:"otc"`
	Notes     string   `json:"notes"`
}
