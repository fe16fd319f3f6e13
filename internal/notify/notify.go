// Package notify schedules device-local reminder notifications. The core
// scheduling rules (deterministic identifiers, cancel-then-register
// idempotency, silent degradation) live here; the actual delivery capability
// sits behind the PlatformNotifier interface so the logic is testable without
// a real device.
package notify

// Content is the displayable payload of a scheduled notification
type Content struct {
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data"`
}

// PlatformNotifier is the narrow platform capability the scheduler drives.
// Implementations must treat Cancel of an unknown identifier as a no-op.
type PlatformNotifier interface {
	ScheduleAfter(identifier string, delaySeconds int, content Content) error
	Cancel(identifier string) error
}
