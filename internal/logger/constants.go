package logger

// Default configuration values.
const (
	// DefaultLevel keeps the game output on stdout uncluttered.
	DefaultLevel = WarnLevel
	// DefaultEncoding is the default log encoding format.
	DefaultEncoding = "console"
)

// DefaultOutputPaths sends log lines to stderr; stdout carries the hop trail.
var DefaultOutputPaths = []string{"stderr"}
