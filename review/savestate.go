package review

//go:generate go tool go-enum --marshal --names --nocomments

// SaveState is the phase the revision orchestrator is currently in. The
// failed phase is transient: a save error passes through it (visible in the
// transition log) and the orchestrator settles back in idle so the editor can
// always retry. Polling State() after a failed save observes idle; the error
// itself is what Save returns.
/*
ENUM(
idle
diffing
semantic_commit
audio_commit
failed
)
*/
type SaveState string
