// Package logx defines the logging collaborator this decoder is written
// against (spec.md §1: logging is named as an external collaborator, not
// implemented here). The decoder core never imports a concrete logging
// library; callers that want warnings and debug traces surfaced supply a
// Logger, typically a thin adapter over whatever logging library their
// own application already uses.
package logx

// Logger receives the decoder's non-fatal warnings (odd FlexRay length,
// over-long classic-CAN DLC, unknown APP_TEXT source, unknown timestamp
// resolution, skipped object types), after which decoding proceeds, and
// optional debug traces. Payloads clamped to the bytes left in their
// object are not logged.
type Logger interface {
	Debugf(format string, args ...any)
	Warnf(format string, args ...any)
}

// Nop is a Logger that discards everything; it is the default when no
// Logger is configured.
type Nop struct{}

func (Nop) Debugf(string, ...any) {}
func (Nop) Warnf(string, ...any)  {}

// Default is the shared no-op logger instance.
var Default Logger = Nop{}
