package coordinator

import "context"

// Session is one live debug session as seen by the coordinator. The
// coordinator only ever needs to identify a session by its configured
// program path and to ask it to resume execution.
type Session interface {
	// ConfiguredProgramPath returns the absolute program path the session
	// was launched with.
	ConfiguredProgramPath() string

	// SendContinue asks the session to resume execution.
	SendContinue(ctx context.Context) error
}

// Subscription is the disposable handle returned by event registration.
// Cancel is safe to call more than once; only the first call has effect.
type Subscription interface {
	Cancel()
}

// Host is the capability contract the debugging subsystem must provide.
// The coordinator reads the workspace list, submits one configuration per
// invocation, and listens for active-session changes; everything else
// (session identity, breakpoints, symbols) belongs to the host.
type Host interface {
	// WorkspaceRoots returns the open workspace roots, first one first.
	WorkspaceRoots() []string

	// StartDebugSession submits a launch configuration against a workspace
	// root. A false result without an error means the subsystem refused
	// the configuration.
	StartDebugSession(ctx context.Context, workspaceRoot string, cfg interface{}) (bool, error)

	// OnActiveSessionChanged registers a listener for active-session
	// changes. The listener may be called with a nil session when no
	// session is active. Events are delivered sequentially, never
	// concurrently with each other.
	OnActiveSessionChanged(listener func(Session)) Subscription
}

// Notifier surfaces user-visible notifications. In a real host this is a
// toast popup; in tests it is a recorder.
type Notifier interface {
	Info(msg string)
	Error(msg string)
}

// nopNotifier drops all notifications.
type nopNotifier struct{}

func (nopNotifier) Info(string)  {}
func (nopNotifier) Error(string) {}
