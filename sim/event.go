package sim

// EventKind names one of the state-changing events the control loop waits for.
type EventKind int

const (
	EventActivate EventKind = iota
	EventRequestResource
	EventReleaseResource
	EventTerminate
	numEventKinds
)

func (k EventKind) String() string {
	switch k {
	case EventActivate:
		return "activate"
	case EventRequestResource:
		return "request-resource"
	case EventReleaseResource:
		return "release-resource"
	case EventTerminate:
		return "terminate"
	default:
		return "unknown"
	}
}

// EventTable holds a countdown per event kind, in ticks from the current clock.
// A negative entry means no such event is pending; zero means it fires now.
type EventTable [numEventKinds]int64

// Clear marks every event as not pending.
func (t *EventTable) Clear() {
	for i := range t {
		t[i] = -1
	}
}

// Set records the countdown for one event kind.
func (t *EventTable) Set(k EventKind, countdown int64) {
	t[k] = countdown
}

// Get returns the countdown for one event kind.
func (t *EventTable) Get(k EventKind) int64 {
	return t[k]
}

// Next returns the smallest positive countdown, or -1 when none is positive.
// This bounds how far time may advance before some event changes the state.
func (t *EventTable) Next() int64 {
	next := int64(-1)
	for _, c := range t {
		if c > 0 && (next < 0 || c < next) {
			next = c
		}
	}
	return next
}
