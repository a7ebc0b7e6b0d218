// Package scan turns a stream of camera frames into distinct, deduplicated
// scan events and drives them through the presence state machine.
package scan

// Deduplicator collapses consecutive frames showing the same QR code into a
// single scan event. A frame with no decodable code clears the in-frame
// memory, so the same code presented again after an absence is accepted as a
// new event. Without that reset a user who stepped away and returned before
// anyone else scanned would be silently ignored.
//
// Not safe for concurrent use; the scan loop is single-threaded.
type Deduplicator struct {
	inFrame bool
	last    string
}

func NewDeduplicator() *Deduplicator {
	return &Deduplicator{}
}

// Observe feeds one frame's decode outcome: ok is false when the frame held
// no code. It reports whether the observation is a new scan event. Frames
// without a code never produce an event and never update the memory beyond
// marking the absence.
func (d *Deduplicator) Observe(code string, ok bool) bool {
	if !ok {
		d.inFrame = false
		return false
	}
	if d.inFrame && d.last == code {
		return false
	}
	d.inFrame = true
	d.last = code
	return true
}

// Reset clears the memory, as if the camera had seen an empty frame.
func (d *Deduplicator) Reset() {
	d.inFrame = false
	d.last = ""
}
