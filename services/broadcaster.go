package services

// LifecycleBroadcaster pushes proposal/match lifecycle events to live
// listeners. The websocket hub satisfies it; tests use a no-op.
type LifecycleBroadcaster interface {
	BroadcastToDivision(division string, eventType string, payload interface{})
}

type noopBroadcaster struct{}

func (noopBroadcaster) BroadcastToDivision(string, string, interface{}) {}

// NopBroadcaster returns a broadcaster that drops every event.
func NopBroadcaster() LifecycleBroadcaster { return noopBroadcaster{} }
