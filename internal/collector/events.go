package collector

// EventType distinguishes the notifications a run reports to its
// subscriber.
type EventType string

const (
	// EventProgress fires once per processed interval.
	EventProgress EventType = "PROGRESS"
	// EventCompleted fires when a run finishes with at least one vacancy.
	EventCompleted EventType = "COMPLETED"
	// EventEmpty fires when a run finishes with nothing collected.
	EventEmpty EventType = "EMPTY"
	// EventError fires when a run fails.
	EventError EventType = "ERROR"
)

// Event describes one step of a run. Exactly one of EventCompleted,
// EventEmpty or EventError closes the stream; EventProgress may repeat
// before that with non-decreasing Percent.
type Event struct {
	Type EventType

	// Percent of intervals processed, 0..100. Set for EventProgress.
	Percent int

	// Found is the number of collected vacancies. Set for EventCompleted.
	Found int

	// ReportPath is where the report file was written. Set for
	// EventCompleted. The file is already dispatched (and removed)
	// by the time the event fires.
	ReportPath string

	// Err carries the failure. Set for EventError.
	Err error
}

// EventFunc receives run events. It is invoked from the run's own
// goroutine, one event at a time, in emission order.
type EventFunc func(Event)
