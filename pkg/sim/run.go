// Package sim wires a built system, a time-stepping scheme and a set of
// monitors into the per-step driver loop: INIT -> RUN -> (STEP -> RECORD)*
// -> FINAL. It is the ambient shell around the core, not part of the
// spatial-interaction subsystem itself.
package sim

import (
	"github.com/google/uuid"

	"github.com/jkkdy/april/pkg/integrate"
	"github.com/jkkdy/april/pkg/logx"
	"github.com/jkkdy/april/pkg/monitor"
	"github.com/jkkdy/april/pkg/system"
)

// Scheme is satisfied by every time-stepping scheme (VelocityVerlet,
// Yoshida4): it advances sys by one step, including the rebuild / boundary
// / force-evaluation sequence the scheme itself is responsible for.
type Scheme[U any] interface {
	Step(sys integrate.Steppable[U])
}

// Runner drives a System through a bounded or unbounded number of steps,
// dispatching every registered monitor after each one. Per-step monitor
// failures are logged and never abort the run, per the core's error-
// handling policy; a Scheme or System failure is not expected mid-run since
// build already validated everything construction-time.
type Runner[U any] struct {
	Sys      *system.System[U]
	Scheme   Scheme[U]
	Monitors []monitor.Monitor[U]
	Logger   logx.Logger

	// RunID uniquely tags this run in logs and in any monitor that labels
	// its output by run (Benchmark's "run" label, DumpWriter's file prefix).
	RunID string

	// MaxSteps bounds the run; 0 means run until Stop is called.
	MaxSteps uint64

	stopped bool
}

// New builds a Runner with a no-op logger and a freshly generated RunID;
// call WithLogger to attach a logger.
func New[U any](sys *system.System[U], scheme Scheme[U]) *Runner[U] {
	return &Runner[U]{Sys: sys, Scheme: scheme, Logger: logx.NewNop(), RunID: uuid.NewString()}
}

func (r *Runner[U]) WithLogger(l logx.Logger) *Runner[U] {
	r.Logger = l
	return r
}

func (r *Runner[U]) WithMonitors(m ...monitor.Monitor[U]) *Runner[U] {
	r.Monitors = append(r.Monitors, m...)
	return r
}

func (r *Runner[U]) WithMaxSteps(n uint64) *Runner[U] {
	r.MaxSteps = n
	return r
}

// Stop requests the run loop exit after the current step's monitors have
// run. Safe to call from within a monitor or controller.
func (r *Runner[U]) Stop() { r.stopped = true }

// Run executes STEP->RECORD until MaxSteps is reached or Stop is called.
func (r *Runner[U]) Run() {
	r.Logger.Infof("run %s starting (particles=%d)", r.RunID, r.Sys.ParticleCount())
	for !r.stopped && (r.MaxSteps == 0 || r.Sys.Step() < r.MaxSteps) {
		r.Scheme.Step(r.Sys)
		for _, m := range r.Monitors {
			if err := m.OnStep(r.Sys); err != nil {
				r.Logger.Errorf("run %s: monitor step failed at step %d: %v", r.RunID, r.Sys.Step(), err)
			}
		}
	}
	r.Logger.Infof("run %s finished after %d steps (t=%g)", r.RunID, r.Sys.Step(), r.Sys.Time())
}
