// dap-probe reads a single run request as JSON on stdin, drives a DAP
// adapter through one debug session, and writes the structured report as
// JSON on stdout.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	json "github.com/goccy/go-json"
	"github.com/mattn/go-isatty"

	"github.com/glthr/go-dap-probe/internal/adapter"
	"github.com/glthr/go-dap-probe/internal/dapio"
	"github.com/glthr/go-dap-probe/internal/probe"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "dap-probe: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	log := newLogger()

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("read request: %w", err)
	}

	var dto probe.RunRequestDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return fmt.Errorf("decode request: %w", err)
	}
	if err := dto.Validate(); err != nil {
		return err
	}

	cfg := probe.Config{
		Discover:  adapter.Discover,
		NewClient: dapio.New,
		Logger:    log,
	}

	result, err := probe.Run(cfg, dto.ToRunRequest())
	if err != nil {
		return err
	}

	report := probe.BuildOutput(result)
	enc := json.NewEncoder(os.Stdout)
	if isatty.IsTerminal(os.Stdout.Fd()) {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}

// newLogger mirrors the teacher's env-var-gated logging convention
// (DLV_RPC_LOG there, DAP_PROBE_LOG here): silent unless the caller opts in.
func newLogger() *slog.Logger {
	path := os.Getenv("DAP_PROBE_LOG")
	if path == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dap-probe: open log file %s: %v\n", path, err)
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
