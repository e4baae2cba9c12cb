package pipeline

// ProgressEmitter receives a callback on every stage transition
// (running, completed, failed). The server uses it to broadcast
// progress to websocket clients; the CLI uses a logging emitter.
// Implementations must not block: emits happen on the run's goroutine.
type ProgressEmitter interface {
	EmitStage(deckID string, rec *StageRecord)
}

// nopEmitter is the default when no emitter is configured.
type nopEmitter struct{}

func (nopEmitter) EmitStage(string, *StageRecord) {}

// EmitterFunc adapts a function to the ProgressEmitter interface.
type EmitterFunc func(deckID string, rec *StageRecord)

func (f EmitterFunc) EmitStage(deckID string, rec *StageRecord) { f(deckID, rec) }
