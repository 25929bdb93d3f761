// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

// Recorder collects events of the running operation.
// Events are only taken out once the operation is committed.
type Recorder struct {
	events []*Event
}

// Record appends an event.
func (r *Recorder) Record(ev *Event) {
	r.events = append(r.events, ev)
}

// Len returns the count of recorded events.
func (r *Recorder) Len() int {
	return len(r.events)
}

// Take returns all recorded events and clears the recorder.
func (r *Recorder) Take() []*Event {
	evs := r.events
	r.events = nil
	return evs
}

// Reset drops all recorded events.
func (r *Recorder) Reset() {
	r.events = nil
}
