package core

// Limits shared across the core, mirroring the teacher's convention of a
// single small file of MAX_* constants (direwolf_h.go) that every other
// component imports rather than re-deriving.

const (
	// MaxTransceivers bounds the arena of radio channels a single Core
	// can drive. Generous: real deployments rarely exceed a handful of
	// control + voice channels per cell.
	MaxTransceivers = 64

	// MaxTransactions bounds the transaction arena. Indexed by handle,
	// not by identity, so this is a hard ceiling on concurrent
	// in-progress procedures system-wide.
	MaxTransactions = 512

	// MaxRetries is the default retry ceiling used where a system's
	// FSM doesn't specify its own (paging 2-3, alerting 3 per spec §4.7).
	MaxRetries = 3

	// MaxDMSWindow is the Go-Back-N window size for NMT DMS (§4.9).
	MaxDMSWindow = 4

	// DMSModulo is the sequence-number modulus for N(S)/N(R).
	DMSModulo = 8
)
