package probe

import (
	"fmt"
	"os"
	"strings"
)

// stdioFiles are the three temporary files the debuggee's standard streams
// are redirected to via adapter init commands. They are created empty,
// closed immediately (the adapter process inherits the path, not an fd —
// this is a DAP initCommand, not exec.Cmd.Stdout), and read back after the
// adapter reports termination.
type stdioFiles struct {
	stdoutPath string
	stderrPath string
	stdinPath  string // empty if no stdin was supplied
}

// prepareStdio stages the three temp files. Grounded on the teacher's
// start.go: a regular file, not a pipe, so the debuggee can keep writing to
// it after this process's own goroutines (or process) are gone — a pipe's
// read side closing produces SIGPIPE in the child; a file never does.
func prepareStdio(stdin []byte) (*stdioFiles, error) {
	stdout, err := os.CreateTemp("", "dap-probe-stdout-*")
	if err != nil {
		return nil, fmt.Errorf("create stdout temp file: %w", err)
	}
	stdoutPath := stdout.Name()
	if err := stdout.Close(); err != nil {
		os.Remove(stdoutPath)
		return nil, fmt.Errorf("close stdout temp file: %w", err)
	}

	stderr, err := os.CreateTemp("", "dap-probe-stderr-*")
	if err != nil {
		os.Remove(stdoutPath)
		return nil, fmt.Errorf("create stderr temp file: %w", err)
	}
	stderrPath := stderr.Name()
	if err := stderr.Close(); err != nil {
		os.Remove(stdoutPath)
		os.Remove(stderrPath)
		return nil, fmt.Errorf("close stderr temp file: %w", err)
	}

	files := &stdioFiles{stdoutPath: stdoutPath, stderrPath: stderrPath}

	if stdin != nil {
		in, err := os.CreateTemp("", "dap-probe-stdin-*")
		if err != nil {
			files.cleanup()
			return nil, fmt.Errorf("create stdin temp file: %w", err)
		}
		if _, err := in.Write(stdin); err != nil {
			in.Close()
			files.cleanup()
			os.Remove(in.Name())
			return nil, fmt.Errorf("write stdin temp file: %w", err)
		}
		if err := in.Close(); err != nil {
			files.cleanup()
			os.Remove(in.Name())
			return nil, fmt.Errorf("close stdin temp file: %w", err)
		}
		files.stdinPath = in.Name()
	}

	return files, nil
}

func (f *stdioFiles) cleanup() {
	os.Remove(f.stdoutPath)
	os.Remove(f.stderrPath)
	if f.stdinPath != "" {
		os.Remove(f.stdinPath)
	}
}

// read loads the redirected stdout/stderr content after the adapter has
// terminated the debuggee. Missing files (e.g. the debuggee never ran) are
// reported as empty rather than an error.
func (f *stdioFiles) read() (stdout, stderr []byte) {
	stdout, _ = os.ReadFile(f.stdoutPath)
	stderr, _ = os.ReadFile(f.stderrPath)
	return
}

// initCommands builds the lldb settings commands that redirect the
// debuggee's standard streams to the staged temp files.
func (f *stdioFiles) initCommands() []string {
	cmds := []string{
		fmt.Sprintf("settings set target.output-path %s", f.stdoutPath),
		fmt.Sprintf("settings set target.error-path %s", f.stderrPath),
	}
	if f.stdinPath != "" {
		cmds = append(cmds, fmt.Sprintf("settings set target.input-path %s", f.stdinPath))
	}
	return cmds
}

// mergeEnv forwards only string-valued entries into the launch arguments
// (§4.8). When caller is nil the process environment is forwarded in full;
// otherwise caller's entries are used as-is (already string-valued, since
// RunRequest only accepts a map[string]string).
func mergeEnv(caller map[string]string) map[string]string {
	if caller != nil {
		out := make(map[string]string, len(caller))
		for k, v := range caller {
			out[k] = v
		}
		return out
	}
	out := make(map[string]string)
	for _, kv := range os.Environ() {
		if idx := strings.IndexByte(kv, '='); idx >= 0 {
			out[kv[:idx]] = kv[idx+1:]
		}
	}
	return out
}

// augmentedPath prepends adapterDir to the process PATH, so the adapter
// process can locate its own companion tools (§4.8, §6 "Environment").
func augmentedPath(adapterDir string) []string {
	env := os.Environ()
	out := make([]string, 0, len(env)+1)
	found := false
	for _, kv := range env {
		if strings.HasPrefix(kv, "PATH=") {
			out = append(out, "PATH="+adapterDir+string(os.PathListSeparator)+kv[len("PATH="):])
			found = true
			continue
		}
		out = append(out, kv)
	}
	if !found {
		out = append(out, "PATH="+adapterDir)
	}
	return out
}

func buildLaunchArgs(program string, argv []string, env map[string]string, stdio *stdioFiles) LaunchArgs {
	return LaunchArgs{
		Program:      program,
		Args:         argv,
		Env:          env,
		StopOnEntry:  false,
		InitCommands: stdio.initCommands(),
	}
}
