// Package probe implements the debug session orchestrator: it drives a DAP
// adapter through configure, initialize, set-breakpoints, launch, and the
// stop/continue loop, correlating adapter events with caller-declared
// breakpoint specs and producing a structured run report.
package probe

import "fmt"

// BreakpointSpec is a caller-declared request to break at a source line and
// sample data there. Location holds the caller's "file:line" text; the
// Location Normalizer fills File (an absolute path when one of its rules
// matches) and Line from it before registration, and leaves Location as it
// was. The spec is never mutated again afterward.
type BreakpointSpec struct {
	Location       string
	File           string
	Line           int
	HitLimit       int
	InlineExpr     []string
	PrintCallStack bool
}

// NamedValue is one evaluated expression's name and string representation.
type NamedValue struct {
	Name  string
	Value string
}

// HitInfo is one recorded stop at a registered breakpoint.
type HitInfo struct {
	Callstack  string
	InlineExpr []NamedValue
}

// Report is the accumulated result for one successfully registered spec.
type Report struct {
	ID           int
	FilePath     string
	Line         int
	FunctionName string
	HitTimes     int
	HitsInfo     []HitInfo

	spec *BreakpointSpec
}

// RunResult is the full output of one session.
type RunResult struct {
	Stdout  []byte
	Stderr  []byte
	Reports map[int]*Report
	Order   []int
	Timeout bool
	ExitCode *int
	Signal   *string
}

// Frame is one entry of a call stack, translated from the adapter's own
// stack-frame representation. ID is the adapter-assigned frame identifier
// used to scope evaluate requests to this frame's context.
type Frame struct {
	ID   int
	Name string
	File string
	Line int
}

// StopEvent describes why the debuggee's thread stopped.
type StopEvent struct {
	Kind             string // "breakpoint", "exception", "entry", "step", "other"
	ThreadID         int
	Description      string
	HitBreakpointIDs []int
}

// ExitInfo carries a debuggee's terminal exit code, when the adapter reports one.
type ExitInfo struct {
	Code    int
	HasCode bool
}

// StopResult is the view returned by a Launch or Continue call: either a new
// stop (Stop and Frames set; a nil Stop, or a non-exception stop with no
// Frames, is a "spurious" stop the orchestrator continues past), or session
// termination (Terminated true, Exited set when the adapter reported an exit
// code first).
type StopResult struct {
	Frames     []Frame
	Stop       *StopEvent
	Terminated bool
	Exited     *ExitInfo
}

// LaunchArgs are the parameters handed to the adapter's launch request.
type LaunchArgs struct {
	Program      string
	Args         []string
	Env          map[string]string
	StopOnEntry  bool
	InitCommands []string
}

// AdapterError is an adapter-signalled failure (success=false response),
// distinct from a transport/protocol error. Evaluate-error classification in
// evaluate.go only ever inspects AdapterError messages.
type AdapterError struct {
	Message string
}

func (e *AdapterError) Error() string {
	if e.Message == "" {
		return "adapter reported failure"
	}
	return e.Message
}

// Client is the outbound collaborator interface the orchestrator drives (§6
// of the spec: "a client exposing typed request/response/event calls"). The
// DAP wire codec and JSON framing live entirely behind this interface, in
// internal/dapio.
type Client interface {
	Initialize(adapterID string) error
	SetBreakpoint(file string, line int) (id int, ok bool, err error)
	RemoveBreakpoint(file string, line int) error
	Launch(args LaunchArgs) (*StopResult, error)
	Continue(threadID int) (*StopResult, error)
	Evaluate(expr string, frameID int) (string, error)
	Terminate() error
	Close() error
}

func (s *BreakpointSpec) String() string {
	return fmt.Sprintf("%s (hit_limit=%d, inline_expr=%v)", s.Location, s.HitLimit, s.InlineExpr)
}
