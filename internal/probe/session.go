package probe

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// ClientFactory builds a Client bound to an already-spawned adapter
// process's stdio pipes. Injected by the caller (cmd/dap-probe) so this
// package never imports the concrete DAP wire codec in internal/dapio —
// that would create an import cycle, since dapio's Client implementation
// constructs the very probe.StopResult/Frame/AdapterError types defined in
// this package.
type ClientFactory func(stdin io.WriteCloser, stdout io.ReadCloser, log *slog.Logger) Client

// Discoverer locates an invocable adapter binary and its DAP adapter id
// (e.g. "lldb"). Injected the same way as ClientFactory, to keep
// internal/adapter's concerns (PATH search, version heuristics) out of the
// core's import graph.
type Discoverer func() (path string, adapterID string, err error)

// Config bundles the orchestrator's two external collaborators.
type Config struct {
	Discover  Discoverer
	NewClient ClientFactory
	Logger    *slog.Logger // base logger; Run attaches a per-session run_id
}

const defaultThreadID = 1

// Run is the single inbound operation of §6: it drives one full debug
// session — configure, initialize, set breakpoints, launch, the
// stop/continue loop, terminate, and stdio collection — and returns the
// accumulated RunResult. A non-nil error is returned only when the session
// cannot be set up: the adapter binary cannot be found or started, or the
// temporary stdio files or the adapter's pipes cannot be created. Every other
// failure (registration, evaluation, timeout, protocol-shape surprises)
// becomes data inside the returned RunResult.
func Run(cfg Config, req RunRequest) (*RunResult, error) {
	baseLog := cfg.Logger
	if baseLog == nil {
		baseLog = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	log := baseLog.With("run_id", uuid.NewString())

	adapterPath := req.AdapterPath
	adapterID := "lldb"
	if adapterPath == "" {
		path, id, err := cfg.Discover()
		if err != nil {
			return nil, fmt.Errorf("locate adapter: %w", err)
		}
		adapterPath, adapterID = path, id
	}
	log.Debug("adapter located", "path", adapterPath, "adapter_id", adapterID)

	stdio, err := prepareStdio(req.Stdin)
	if err != nil {
		return nil, fmt.Errorf("prepare stdio: %w", err)
	}
	defer stdio.cleanup()

	cmd := exec.Command(adapterPath)
	cmd.Env = augmentedPath(filepath.Dir(adapterPath))
	stdinPipe, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("open adapter stdin pipe: %w", err)
	}
	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("open adapter stdout pipe: %w", err)
	}
	if os.Getenv("DAP_PROBE_LOG") != "" {
		cmd.Stderr = os.Stderr
	} else {
		cmd.Stderr = io.Discard
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start adapter process: %w", err)
	}

	client := cfg.NewClient(stdinPipe, stdoutPipe, log)

	var gateBudget time.Duration
	if req.TimeoutSec != nil {
		gateBudget = time.Duration(*req.TimeoutSec * float64(time.Second))
	}
	gate := NewTimeoutGate(gateBudget)

	result := &RunResult{Reports: make(map[int]*Report)}

	normalizer := NewNormalizer(req.RepoRoot, nil)
	specs := make([]*BreakpointSpec, 0, len(req.Breakpoints))
	for _, spec := range req.Breakpoints {
		if err := normalizer.Resolve(spec); err != nil {
			log.Warn("breakpoint location could not be parsed", "location", spec.Location, "error", err)
			continue
		}
		specs = append(specs, spec)
	}

	registry := NewRegistry(client, log)

	teardown := func() {
		stdout, stderr := stdio.read()
		result.Stdout = stdout
		result.Stderr = stderr
		if err := client.Terminate(); err != nil {
			log.Debug("terminate request failed", "error", err)
		}
		if err := client.Close(); err != nil {
			log.Debug("client close failed", "error", err)
		}
		_ = cmd.Wait()
		order, reports := registry.ReportsInOrder()
		result.Order = order
		result.Reports = reports
	}
	defer teardown()

	if _, err := Await(gate, func() (struct{}, error) {
		return struct{}{}, client.Initialize(adapterID)
	}); err != nil {
		if errors.Is(err, ErrTimeout) {
			result.Timeout = true
		} else {
			log.Warn("adapter initialize failed", "error", err)
		}
		return result, nil
	}

	for _, spec := range specs {
		registry.Register(spec)
	}

	launchArgs := buildLaunchArgs(req.Cmd[0], req.Cmd[1:], mergeEnv(req.Env), stdio)
	stop, err := Await(gate, func() (*StopResult, error) {
		return client.Launch(launchArgs)
	})
	if err != nil {
		if errors.Is(err, ErrTimeout) {
			result.Timeout = true
		} else {
			log.Warn("launch failed", "error", err)
		}
		return result, nil
	}

	for {
		if stop.Terminated {
			if stop.Exited != nil && stop.Exited.HasCode {
				code := stop.Exited.Code
				result.ExitCode = &code
			}
			return result, nil
		}
		if stop.Stop == nil || (len(stop.Frames) == 0 && stop.Stop.Kind != "exception") {
			// spurious stop: no recognizable reason or no frames to act on
			// (an exception stop is recorded from its description alone).
			stop, err = continueFrom(gate, client, defaultThreadID)
			if err != nil {
				if errors.Is(err, ErrTimeout) {
					result.Timeout = true
				}
				return result, nil
			}
			continue
		}

		switch stop.Stop.Kind {
		case "breakpoint":
			handleBreakpointStop(registry, client, stop)
		case "exception":
			desc := stop.Stop.Description
			result.Signal = &desc
			return result, nil
		default:
			log.Warn("unhandled stop reason", "reason", stop.Stop.Kind)
		}

		stop, err = continueFrom(gate, client, stop.Stop.ThreadID)
		if err != nil {
			if errors.Is(err, ErrTimeout) {
				result.Timeout = true
			}
			return result, nil
		}
	}
}

func continueFrom(gate *TimeoutGate, client Client, threadID int) (*StopResult, error) {
	if threadID == 0 {
		threadID = defaultThreadID
	}
	return Await(gate, func() (*StopResult, error) {
		return client.Continue(threadID)
	})
}

func handleBreakpointStop(registry *Registry, client Client, stop *StopResult) {
	frameID := 0
	if len(stop.Frames) > 0 {
		frameID = stop.Frames[0].ID
	}
	for _, id := range stop.Stop.HitBreakpointIDs {
		spec, ok := registry.SpecFor(id)
		if !ok {
			continue
		}
		var callstack string
		if spec.PrintCallStack {
			callstack = FormatBacktrace(stop.Frames)
		}
		var inline []NamedValue
		if len(spec.InlineExpr) > 0 {
			inline = EvaluateAll(client, frameID, spec.InlineExpr)
		}
		hit := HitInfo{Callstack: callstack, InlineExpr: inline}
		if registry.OnHit(id, stop.Frames, hit) {
			registry.Remove(id)
		}
	}
}
