package models

// TimingRecord is one "task completed" measurement pulled from a log.
// Duration is in seconds and never negative.
type TimingRecord struct {
	Name     string  `json:"name"`
	Library  string  `json:"library,omitempty"`
	Duration float64 `json:"seconds"`
}

// NewTimingRecord returns a record, clamping negative durations to zero.
func NewTimingRecord(name, library string, seconds float64) TimingRecord {
	if seconds < 0 {
		seconds = 0
	}
	return TimingRecord{Name: name, Library: library, Duration: seconds}
}
