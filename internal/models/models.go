package models

// Event is one balanced-brace object pulled out of a segment.
// Raw is the substring exactly as it appeared; Text is what gets written
// to the output document after substitutions and repair.
type Event struct {
	Segment int    // index of the segment the event was found in
	Offset  int    // byte offset of the marker within that segment
	Raw     string
	Text    string
}

// Defect records an event whose repair pass failed.
// Whether the event still reaches the output depends on the error policy.
type Defect struct {
	Segment int
	Offset  int
	Raw     string
	Err     error
}

// Result is the outcome of scanning every segment of an input.
type Result struct {
	Events   []Event
	Defects  []Defect
	Segments int // number of segments scanned
	Dropped  int // marker occurrences discarded because braces never balanced
}

// Texts returns the output text of every event, in encounter order.
func (r Result) Texts() []string {
	texts := make([]string, len(r.Events))
	for i, ev := range r.Events {
		texts[i] = ev.Text
	}
	return texts
}
