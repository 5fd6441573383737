package loop

// Trace keeps the most recent tick snapshots in a fixed size ring.
type Trace struct {
	snapshots []Snapshot
	next      int
	full      bool
}

// NewTrace creates a trace holding up to depth snapshots. A depth of
// zero or less disables recording.
func NewTrace(depth int) *Trace {
	if depth <= 0 {
		return &Trace{}
	}
	return &Trace{
		snapshots: make([]Snapshot, depth),
	}
}

func (t *Trace) Record(snapshot Snapshot) {
	if len(t.snapshots) == 0 {
		return
	}
	t.snapshots[t.next] = snapshot
	t.next++
	if t.next == len(t.snapshots) {
		t.next = 0
		t.full = true
	}
}

// Snapshots returns the recorded snapshots, oldest first.
func (t *Trace) Snapshots() []Snapshot {
	if !t.full {
		return append([]Snapshot{}, t.snapshots[:t.next]...)
	}
	result := make([]Snapshot, 0, len(t.snapshots))
	result = append(result, t.snapshots[t.next:]...)
	result = append(result, t.snapshots[:t.next]...)
	return result
}
