// Package coordinator implements the URL handler that turns a launch
// request into a running, auto-resumed debug session.
//
// Each incoming URL runs one pass of a fixed sequence: workspace check,
// payload decode, request validation, path resolution, executable
// verification, backend selection, configuration construction, session
// start, and finally registration of a one-shot auto-continue listener.
// Any failure aborts the remaining steps and surfaces a single error
// notification; no partial configuration is ever submitted. Invocations
// are independent and carry no state between each other.
package coordinator

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/bradphelan/code-dbg/internal/backend"
	"github.com/bradphelan/code-dbg/internal/errors"
	"github.com/bradphelan/code-dbg/internal/launch"
	"github.com/bradphelan/code-dbg/internal/launchconfig"
)

// DefaultAttachDelay is the grace period between the backend reporting an
// active session and the auto-continue request. It gives the backend time
// to finish attaching; there is no signal to poll for readiness.
const DefaultAttachDelay = 500 * time.Millisecond

// Options configures a Coordinator. Zero values select production
// behavior; tests override the filesystem, platform, and delay.
type Options struct {
	// Notifier receives user-visible notifications. Defaults to a no-op.
	Notifier Notifier

	// Logger receives diagnostics and soft failures. Defaults to the
	// standard logrus logger.
	Logger logrus.FieldLogger

	// GOOS overrides the platform used for backend selection.
	GOOS string

	// AttachDelay overrides the attach grace period.
	AttachDelay time.Duration

	// Stat overrides the filesystem probe used to verify the executable.
	Stat func(path string) error
}

// Coordinator handles launch URLs against a debugging host.
type Coordinator struct {
	host        Host
	notifier    Notifier
	log         logrus.FieldLogger
	goos        string
	attachDelay time.Duration
	stat        func(path string) error
}

// New creates a coordinator bound to a host.
func New(host Host, opts Options) *Coordinator {
	c := &Coordinator{
		host:        host,
		notifier:    opts.Notifier,
		log:         opts.Logger,
		goos:        opts.GOOS,
		attachDelay: opts.AttachDelay,
		stat:        opts.Stat,
	}
	if c.notifier == nil {
		c.notifier = nopNotifier{}
	}
	if c.log == nil {
		c.log = logrus.StandardLogger()
	}
	if c.goos == "" {
		c.goos = runtime.GOOS
	}
	if c.attachDelay == 0 {
		c.attachDelay = DefaultAttachDelay
	}
	if c.stat == nil {
		c.stat = func(path string) error {
			_, err := os.Stat(path)
			return err
		}
	}
	return c
}

// HandleURL runs one launch invocation. It returns the failure that
// aborted the sequence, if any; the same failure is also surfaced through
// the notifier.
func (c *Coordinator) HandleURL(ctx context.Context, rawURL string) error {
	if err := c.handle(ctx, rawURL); err != nil {
		c.notifier.Error(err.Error())
		return err
	}
	return nil
}

func (c *Coordinator) handle(ctx context.Context, rawURL string) error {
	// WorkspaceCheck
	roots := c.host.WorkspaceRoots()
	if len(roots) == 0 {
		return errors.NoWorkspace()
	}

	// Decode
	req, err := launch.ParseURL(rawURL)
	if err != nil {
		return err
	}

	// ResolvePath + VerifyExecutable. Permission bits and binary format
	// are deliberately not checked; the backend validates those itself.
	resolved := launch.ResolveExe(req.Exe, req.Cwd)
	if err := c.stat(resolved); err != nil {
		return errors.ExecutableNotFound(resolved)
	}

	// SelectBackend + BuildConfiguration
	selected := backend.Select(backend.PlatformFromGOOS(c.goos))
	cfg := launchconfig.Build(req, resolved, selected)

	c.log.WithFields(logrus.Fields{
		"program": resolved,
		"backend": selected,
	}).Info("starting debug session")

	// StartSession. The subsystem may report the session active while the
	// start call is still in flight, so the auto-continue listener has to
	// exist before the call is made; the failure paths cancel it so a
	// failed start never leaves a dangling listener behind.
	state := c.registerAutoContinue(ctx, resolved)
	ok, err := c.host.StartDebugSession(ctx, roots[0], cfg)
	if err != nil {
		state.cancel()
		return errors.SessionStartFailed(resolved, err)
	}
	if !ok {
		state.cancel()
		return errors.SessionStartFailed(resolved, nil)
	}

	c.notifier.Info(fmt.Sprintf("Debugging %s (%s)", cfg.Name, selected))
	return nil
}

// autoContinueState guards the one-shot continue attempt. The listener
// can fire before the registration call returns the subscription handle,
// so the handle is stored behind the same mutex that serializes the
// match decision.
type autoContinueState struct {
	mu       sync.Mutex
	sub      Subscription
	fired    bool
	cancelMe bool
}

func (a *autoContinueState) setSubscription(sub Subscription) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sub = sub
	if a.cancelMe {
		sub.Cancel()
	}
}

func (a *autoContinueState) tryFire() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.fired {
		return false
	}
	a.fired = true
	return true
}

func (a *autoContinueState) cancel() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.sub != nil {
		a.sub.Cancel()
		return
	}
	a.cancelMe = true
}

// registerAutoContinue arranges for the session whose configured program
// matches resolved to be resumed once after the attach grace period. The
// subscription is cancelled on success or failure of the continue request,
// so at most one continue is ever attempted per launch. Events for
// unrelated sessions are ignored and the listener keeps waiting. If the
// matching event never fires the subscription stays registered for the
// lifetime of the host process. The returned state lets the caller tear
// the listener down when the session it was registered for never starts.
func (c *Coordinator) registerAutoContinue(ctx context.Context, resolved string) *autoContinueState {
	state := &autoContinueState{}

	sub := c.host.OnActiveSessionChanged(func(s Session) {
		if s == nil || s.ConfiguredProgramPath() != resolved {
			return
		}
		if !state.tryFire() {
			return
		}

		go func() {
			defer state.cancel()

			select {
			case <-time.After(c.attachDelay):
			case <-ctx.Done():
				return
			}

			if err := s.SendContinue(ctx); err != nil {
				// Best effort: the session is already running and
				// usable without the auto-continue.
				c.log.WithError(errors.ContinueFailed(resolved, err)).Warn("auto-continue failed")
				return
			}
			c.log.WithField("program", resolved).Debug("auto-continue sent")
		}()
	})

	state.setSubscription(sub)
	return state
}
