package ir

// Version constants for the script representation and engine.
const (
	// IRVersion is the schema version of exported runs and golden files.
	IRVersion = "1"

	// EngineVersion is the broytari engine version.
	EngineVersion = "0.1.0"
)
