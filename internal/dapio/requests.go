package dapio

import (
	"fmt"

	"github.com/google/go-dap"

	"github.com/glthr/go-dap-probe/internal/probe"
)

func newRequest(seq int, command string) dap.Request {
	return dap.Request{
		ProtocolMessage: dap.ProtocolMessage{Seq: seq, Type: "request"},
		Command:         command,
	}
}

// Initialize sends the initialize request and waits for both the matching
// response and the adapter's "initialized" event, which many adapters
// (lldb-dap included) emit immediately after acknowledging initialize and
// before any setBreakpoints/launch request may be sent.
func (c *Client) Initialize(adapterID string) error {
	seq := c.nextSeq()
	req := &dap.InitializeRequest{
		Request: newRequest(seq, "initialize"),
		Arguments: dap.InitializeRequestArguments{
			ClientID:        "go-dap-probe",
			AdapterID:       adapterID,
			LinesStartAt1:   true,
			ColumnsStartAt1: true,
			PathFormat:      "path",
		},
	}
	if err := c.send(req); err != nil {
		return fmt.Errorf("send initialize request: %w", err)
	}

	gotResponse, gotInitialized := false, false
	for !gotResponse || !gotInitialized {
		msg, err := c.readMessage()
		if err != nil {
			return err
		}
		switch m := msg.(type) {
		case *dap.InitializeResponse:
			if m.RequestSeq != seq {
				continue
			}
			if !m.Success {
				return &probe.AdapterError{Message: m.Message}
			}
			gotResponse = true
		case *dap.ErrorResponse:
			if m.RequestSeq != seq {
				continue
			}
			return &probe.AdapterError{Message: errorResponseMessage(m)}
		case *dap.InitializedEvent:
			gotInitialized = true
		default:
			continue
		}
	}
	return nil
}

// SetBreakpoint registers line as an additional breakpoint in file,
// resending the full accumulated line list for that file (see the
// breakpointsByFile field doc on Client). Returns the adapter-assigned id
// for the newly-added line — by construction, always the last entry of the
// response's breakpoint list, matching the tie-break rule of §4.4.
func (c *Client) SetBreakpoint(file string, line int) (id int, ok bool, err error) {
	lines := append(append([]int{}, c.breakpointsByFile[file]...), line)
	resp, err := c.setBreakpoints(file, lines)
	if err != nil {
		return 0, false, err
	}
	c.breakpointsByFile[file] = lines
	if len(resp.Body.Breakpoints) == 0 {
		return 0, false, nil
	}
	bp := resp.Body.Breakpoints[len(resp.Body.Breakpoints)-1]
	if !bp.Verified {
		return 0, false, nil
	}
	return bp.Id, true, nil
}

// RemoveBreakpoint drops line from file's registered set and resends the
// reduced list.
func (c *Client) RemoveBreakpoint(file string, line int) error {
	existing := c.breakpointsByFile[file]
	lines := make([]int, 0, len(existing))
	for _, l := range existing {
		if l != line {
			lines = append(lines, l)
		}
	}
	if _, err := c.setBreakpoints(file, lines); err != nil {
		return err
	}
	c.breakpointsByFile[file] = lines
	return nil
}

func (c *Client) setBreakpoints(file string, lines []int) (*dap.SetBreakpointsResponse, error) {
	seq := c.nextSeq()
	breakpoints := make([]dap.SourceBreakpoint, len(lines))
	for i, l := range lines {
		breakpoints[i] = dap.SourceBreakpoint{Line: l}
	}
	req := &dap.SetBreakpointsRequest{
		Request: newRequest(seq, "setBreakpoints"),
		Arguments: dap.SetBreakpointsArguments{
			Source:      dap.Source{Path: file},
			Breakpoints: breakpoints,
		},
	}
	if err := c.send(req); err != nil {
		return nil, fmt.Errorf("send setBreakpoints request: %w", err)
	}
	for {
		msg, err := c.readMessage()
		if err != nil {
			return nil, err
		}
		switch m := msg.(type) {
		case *dap.SetBreakpointsResponse:
			if m.RequestSeq != seq {
				continue
			}
			if !m.Success {
				return nil, &probe.AdapterError{Message: m.Message}
			}
			return m, nil
		case *dap.ErrorResponse:
			if m.RequestSeq != seq {
				continue
			}
			return nil, &probe.AdapterError{Message: errorResponseMessage(m)}
		default:
			continue
		}
	}
}

// Launch sends launch followed by configurationDone (lldb-dap, like most
// adapters, only begins running the debuggee once configuration is done),
// then waits for the program's first natural stop or termination. Ack
// responses for launch/configurationDone may arrive before or after that
// stop, depending on the adapter; either ordering is handled.
func (c *Client) Launch(args probe.LaunchArgs) (*probe.StopResult, error) {
	launchArgsJSON, err := marshalLaunchArguments(args.Program, args.Args, args.Env, args.StopOnEntry, args.InitCommands)
	if err != nil {
		return nil, fmt.Errorf("marshal launch arguments: %w", err)
	}

	launchSeq := c.nextSeq()
	launchReq := &dap.LaunchRequest{
		Request:   newRequest(launchSeq, "launch"),
		Arguments: launchArgsJSON,
	}
	if err := c.send(launchReq); err != nil {
		return nil, fmt.Errorf("send launch request: %w", err)
	}

	cfgSeq := c.nextSeq()
	cfgReq := &dap.ConfigurationDoneRequest{Request: newRequest(cfgSeq, "configurationDone")}
	if err := c.send(cfgReq); err != nil {
		return nil, fmt.Errorf("send configurationDone request: %w", err)
	}

	return c.awaitStop()
}

// Continue resumes threadID and waits for the next stop or termination.
func (c *Client) Continue(threadID int) (*probe.StopResult, error) {
	seq := c.nextSeq()
	req := &dap.ContinueRequest{
		Request:   newRequest(seq, "continue"),
		Arguments: dap.ContinueArguments{ThreadId: threadID},
	}
	if err := c.send(req); err != nil {
		return nil, fmt.Errorf("send continue request: %w", err)
	}
	return c.awaitStop()
}

// awaitStop reads messages until a StoppedEvent or TerminatedEvent arrives,
// buffering any ExitedEvent seen along the way so its exit code can be
// attached to a subsequent TerminatedEvent. Plain request acks unrelated to
// the wait (e.g. a launch/configurationDone response) are ignored.
func (c *Client) awaitStop() (*probe.StopResult, error) {
	for {
		msg, err := c.readMessage()
		if err != nil {
			return nil, err
		}
		switch m := msg.(type) {
		case *dap.StoppedEvent:
			frames, err := c.stackTrace(m.Body.ThreadId)
			if err != nil {
				return nil, err
			}
			return &probe.StopResult{
				Frames: frames,
				Stop: &probe.StopEvent{
					Kind:             m.Body.Reason,
					ThreadID:         m.Body.ThreadId,
					Description:      m.Body.Description,
					HitBreakpointIDs: m.Body.HitBreakpointIds,
				},
			}, nil
		case *dap.ExitedEvent:
			c.lastExited = m
		case *dap.TerminatedEvent:
			result := &probe.StopResult{Terminated: true}
			if c.lastExited != nil {
				result.Exited = &probe.ExitInfo{Code: c.lastExited.Body.ExitCode, HasCode: true}
			}
			return result, nil
		default:
			continue
		}
	}
}

func (c *Client) stackTrace(threadID int) ([]probe.Frame, error) {
	seq := c.nextSeq()
	req := &dap.StackTraceRequest{
		Request:   newRequest(seq, "stackTrace"),
		Arguments: dap.StackTraceArguments{ThreadId: threadID},
	}
	if err := c.send(req); err != nil {
		return nil, fmt.Errorf("send stackTrace request: %w", err)
	}
	for {
		msg, err := c.readMessage()
		if err != nil {
			return nil, err
		}
		switch m := msg.(type) {
		case *dap.StackTraceResponse:
			if m.RequestSeq != seq {
				continue
			}
			if !m.Success {
				return nil, &probe.AdapterError{Message: m.Message}
			}
			frames := make([]probe.Frame, 0, len(m.Body.StackFrames))
			for _, f := range m.Body.StackFrames {
				frame := probe.Frame{ID: f.Id, Name: f.Name, Line: f.Line}
				if f.Source != nil {
					frame.File = f.Source.Path
				}
				frames = append(frames, frame)
			}
			return frames, nil
		case *dap.ErrorResponse:
			if m.RequestSeq != seq {
				continue
			}
			return nil, &probe.AdapterError{Message: errorResponseMessage(m)}
		default:
			continue
		}
	}
}

// Evaluate issues an evaluate request scoped to frameID and returns the
// result string. Adapter-signalled failures come back as *probe.AdapterError
// (checked via errors.As by the Expression Evaluator Wrapper); anything else
// is a transport/protocol error.
func (c *Client) Evaluate(expr string, frameID int) (string, error) {
	seq := c.nextSeq()
	req := &dap.EvaluateRequest{
		Request: newRequest(seq, "evaluate"),
		Arguments: dap.EvaluateArguments{
			Expression: expr,
			FrameId:    frameID,
			Context:    "watch",
		},
	}
	if err := c.send(req); err != nil {
		return "", fmt.Errorf("send evaluate request: %w", err)
	}
	for {
		msg, err := c.readMessage()
		if err != nil {
			return "", err
		}
		switch m := msg.(type) {
		case *dap.EvaluateResponse:
			if m.RequestSeq != seq {
				continue
			}
			if !m.Success {
				return "", &probe.AdapterError{Message: m.Message}
			}
			return m.Body.Result, nil
		case *dap.ErrorResponse:
			if m.RequestSeq != seq {
				continue
			}
			return "", &probe.AdapterError{Message: errorResponseMessage(m)}
		default:
			continue
		}
	}
}

// Terminate asks the adapter to end the debug session. Failures are
// non-fatal; the orchestrator's teardown proceeds regardless (§9: scoped
// cleanup is guaranteed to run on every exit path).
func (c *Client) Terminate() error {
	seq := c.nextSeq()
	req := &dap.TerminateRequest{Request: newRequest(seq, "terminate")}
	if err := c.send(req); err != nil {
		return fmt.Errorf("send terminate request: %w", err)
	}
	for {
		msg, err := c.readMessage()
		if err != nil {
			return err
		}
		switch m := msg.(type) {
		case *dap.TerminateResponse:
			if m.RequestSeq != seq {
				continue
			}
			return nil
		case *dap.TerminatedEvent:
			return nil
		default:
			continue
		}
	}
}
