package statemachine

// EventType identifies what happened during a run.
type EventType string

const (
	EventRunStart  EventType = "search.run.start"
	EventExpand    EventType = "search.expand"
	EventSolution  EventType = "search.solution"
	EventRunFinish EventType = "search.run.finish"
)

// Event is emitted by a run to every registered Observer. Counters reflect
// the run at the moment the event fires.
type Event struct {
	Type  EventType
	RunID string
	Label string
	// Checks counts pop-and-expand iterations so far.
	Checks int
	// Depth is the history length of the state just expanded or reported.
	Depth int
	// Successors is how many states Next returned on an expand event.
	Successors int
	Frontier   int
	Seen       int
	// PathLength is set on solution events and counts both endpoints.
	PathLength int
	// Found is set on the finish event when at least one goal was reached.
	Found bool
}

// Observer receives run events. Observers run synchronously on the search
// loop and must not retain the Event beyond the call.
type Observer interface {
	OnEvent(event Event)
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(event Event)

func (f ObserverFunc) OnEvent(event Event) { f(event) }

type observers []Observer

func (o observers) OnEvent(event Event) {
	for _, observer := range o {
		observer.OnEvent(event)
	}
}
