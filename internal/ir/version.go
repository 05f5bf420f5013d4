package ir

// Version constants for the model schema and the tool.
const (
	// SchemaVersion is the MonitorSpec schema version.
	SchemaVersion = "1"

	// ToolVersion is the uppmon version written into build records.
	ToolVersion = "0.1.0"
)
