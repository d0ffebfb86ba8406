// Package host implements the debugging subsystem behind the URL
// handler when code-dbg-host runs standalone: it spawns the selected
// debugger backend, drives the DAP launch sequence, and publishes
// active-session-changed events to the coordinator's listeners.
package host

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	godap "github.com/google/go-dap"

	"github.com/bradphelan/code-dbg/internal/adapters"
	"github.com/bradphelan/code-dbg/internal/config"
	"github.com/bradphelan/code-dbg/internal/coordinator"
	"github.com/bradphelan/code-dbg/internal/dap"
	"github.com/bradphelan/code-dbg/internal/launchconfig"
	"github.com/bradphelan/code-dbg/pkg/types"
)

// launchResponseTimeout bounds how long a backend may sit on the launch
// response after configurationDone.
const launchResponseTimeout = 30 * time.Second

// Runtime is a DAP-backed implementation of coordinator.Host.
type Runtime struct {
	cfg      *config.Config
	registry *adapters.Registry
	log      logrus.FieldLogger

	mu          sync.Mutex
	sessions    map[string]*Session
	subscribers map[int]func(coordinator.Session)
	nextSubID   int

	done     chan struct{}
	doneOnce sync.Once
}

// NewRuntime creates a runtime from configuration.
func NewRuntime(cfg *config.Config, log logrus.FieldLogger) *Runtime {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Runtime{
		cfg:         cfg,
		registry:    adapters.NewRegistry(cfg),
		log:         log,
		sessions:    make(map[string]*Session),
		subscribers: make(map[int]func(coordinator.Session)),
		done:        make(chan struct{}),
	}
}

// WorkspaceRoots returns the configured workspace roots, falling back to
// the process working directory so a bare invocation still has a root.
func (r *Runtime) WorkspaceRoots() []string {
	if len(r.cfg.WorkspaceRoots) > 0 {
		return r.cfg.WorkspaceRoots
	}
	if wd, err := os.Getwd(); err == nil {
		return []string{wd}
	}
	return nil
}

// StartDebugSession spawns the backend named by the configuration's type,
// runs the DAP launch sequence against it, and publishes the new session
// as the active one.
func (r *Runtime) StartDebugSession(ctx context.Context, workspaceRoot string, rawCfg interface{}) (bool, error) {
	cfg, ok := rawCfg.(*launchconfig.DebugConfiguration)
	if !ok {
		return false, fmt.Errorf("unsupported configuration type %T", rawCfg)
	}

	adapter, err := r.registry.Get(types.Backend(cfg.Type))
	if err != nil {
		return false, err
	}

	client, cmd, err := adapter.Spawn(ctx, cfg)
	if err != nil {
		return false, err
	}

	session := &Session{
		id:      uuid.New().String(),
		program: cfg.Program,
		status:  types.SessionStatusInitializing,
		client:  client,
		process: cmd,
	}
	if cmd != nil && cmd.Process != nil {
		session.pid = cmd.Process.Pid
	}

	client.SetEventHandler(func(msg godap.Message) {
		r.handleEvent(session, msg)
	})

	if err := r.launchSequence(client, adapter, cfg); err != nil {
		_ = client.Close()
		if killErr := killProcessGroup(session.pid, cmd); killErr != nil {
			r.log.WithError(killErr).Warn("failed to kill backend after launch failure")
		}
		return false, err
	}

	session.setStatus(types.SessionStatusRunning)

	r.mu.Lock()
	r.sessions[session.id] = session
	r.mu.Unlock()

	r.log.WithFields(logrus.Fields{
		"session": session.id,
		"program": session.program,
		"backend": cfg.Type,
		"root":    workspaceRoot,
	}).Info("debug session started")

	// The backend has attached; report the session as active.
	r.publishActiveSession(session)

	return true, nil
}

// launchSequence runs the DAP handshake: initialize, launch, wait for the
// initialized event, configurationDone, then the launch response. The
// backends hold the launch response until after configurationDone.
func (r *Runtime) launchSequence(client *dap.Client, adapter adapters.Adapter, cfg *launchconfig.DebugConfiguration) error {
	if _, err := client.Initialize("code-dbg-host", "code-dbg"); err != nil {
		return fmt.Errorf("initialize failed: %w", err)
	}

	launchCh, err := client.LaunchAsync(adapter.BuildLaunchArgs(cfg))
	if err != nil {
		return fmt.Errorf("launch failed: %w", err)
	}

	if err := client.WaitInitialized(10 * time.Second); err != nil {
		return err
	}

	if err := client.ConfigurationDone(); err != nil {
		return err
	}

	select {
	case msg := <-launchCh:
		switch resp := msg.(type) {
		case *godap.LaunchResponse:
			if !resp.Success {
				return fmt.Errorf("launch failed: %s", resp.Message)
			}
		case *godap.ErrorResponse:
			return fmt.Errorf("launch failed: %s", resp.Message)
		default:
			return fmt.Errorf("unexpected launch response type: %T", msg)
		}
	case <-time.After(launchResponseTimeout):
		return fmt.Errorf("timeout waiting for launch response")
	}

	return nil
}

// handleEvent reacts to backend events for a session.
func (r *Runtime) handleEvent(session *Session, msg godap.Message) {
	switch msg.(type) {
	case *godap.TerminatedEvent, *godap.ExitedEvent:
		session.setStatus(types.SessionStatusTerminated)

		r.mu.Lock()
		delete(r.sessions, session.id)
		remaining := len(r.sessions)
		r.mu.Unlock()

		r.log.WithField("session", session.id).Info("debug session terminated")
		r.publishActiveSession(nil)

		if remaining == 0 {
			r.doneOnce.Do(func() { close(r.done) })
		}
	case *godap.StoppedEvent:
		session.setStatus(types.SessionStatusStopped)
	case *godap.ContinuedEvent:
		session.setStatus(types.SessionStatusRunning)
	}
}

// OnActiveSessionChanged registers a listener for active-session changes.
func (r *Runtime) OnActiveSessionChanged(listener func(coordinator.Session)) coordinator.Subscription {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.nextSubID
	r.nextSubID++
	r.subscribers[id] = listener

	return &subscription{runtime: r, id: id}
}

// publishActiveSession delivers an active-session change to every
// subscriber, sequentially.
func (r *Runtime) publishActiveSession(session *Session) {
	r.mu.Lock()
	listeners := make([]func(coordinator.Session), 0, len(r.subscribers))
	for _, l := range r.subscribers {
		listeners = append(listeners, l)
	}
	r.mu.Unlock()

	for _, l := range listeners {
		if session == nil {
			l(nil)
		} else {
			l(session)
		}
	}
}

// Done is closed once every session has terminated. The code-dbg-host
// binary waits on it before exiting.
func (r *Runtime) Done() <-chan struct{} {
	return r.done
}

// Close tears down all sessions and their backend processes.
func (r *Runtime) Close() {
	r.mu.Lock()
	sessions := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		sessions = append(sessions, s)
	}
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()

	for _, s := range sessions {
		if err := s.client.Disconnect(true); err != nil {
			r.log.WithError(err).WithField("session", s.id).Warn("failed to disconnect session (continuing cleanup)")
		}
		if err := s.client.Close(); err != nil {
			r.log.WithError(err).WithField("session", s.id).Warn("failed to close client (continuing cleanup)")
		}
		if err := killProcessGroup(s.pid, s.process); err != nil {
			r.log.WithError(err).WithField("session", s.id).Warn("failed to kill backend process group")
		}
	}

	r.doneOnce.Do(func() { close(r.done) })
}

// subscription is the cancellable handle returned by OnActiveSessionChanged.
type subscription struct {
	runtime *Runtime
	id      int
	once    sync.Once
}

// Cancel unregisters the listener. Safe to call more than once.
func (s *subscription) Cancel() {
	s.once.Do(func() {
		s.runtime.mu.Lock()
		delete(s.runtime.subscribers, s.id)
		s.runtime.mu.Unlock()
	})
}

// Session is one live debug session backed by a DAP client.
type Session struct {
	id      string
	program string
	client  *dap.Client
	process *exec.Cmd
	pid     int

	mu     sync.RWMutex
	status types.SessionStatus
}

// ID returns the session's unique identifier.
func (s *Session) ID() string {
	return s.id
}

// ConfiguredProgramPath returns the absolute program path the session was
// launched with.
func (s *Session) ConfiguredProgramPath() string {
	return s.program
}

// Status returns the session's current status.
func (s *Session) Status() types.SessionStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

func (s *Session) setStatus(status types.SessionStatus) {
	s.mu.Lock()
	s.status = status
	s.mu.Unlock()
}

// SendContinue resumes execution of the debuggee. The native backends
// resume the whole process from any thread.
func (s *Session) SendContinue(ctx context.Context) error {
	threads, err := s.client.Threads()
	if err != nil {
		return err
	}

	threadID := 0
	if len(threads) > 0 {
		threadID = threads[0].Id
	}

	return s.client.Continue(threadID)
}
