// Package events defines the structured-event vocabulary emitted by core
// engines in this module. Engines depend only on the small Event/Emitter
// interfaces here; the concrete vesting event payloads live in
// core/events/vesting.go.
package events

// Event represents a structured state change emitted by an engine.
type Event interface {
	EventType() string
}

// Emitter broadcasts events to downstream subscribers (indexers, RPC
// streams, logs). Engines accept an Emitter but never depend on how events
// are consumed.
type Emitter interface {
	Emit(Event)
}

// NoopEmitter satisfies Emitter while discarding every event. It is the
// default emitter for any engine that has not been wired to a real one.
type NoopEmitter struct{}

// Emit implements Emitter.
func (NoopEmitter) Emit(Event) {}
