// Package activity persists the audit trail written by user info commands.
// The Repository implements both the ActivitySink used by commands and the
// ActivityRepository read side. Payloads pass through a go-masker sanitizer
// before they are stored so contact details never land in the log verbatim.
package activity
