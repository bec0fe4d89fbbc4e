package dapio

import "encoding/json"

// lldbLaunchArguments is the adapter-specific launch request body lldb-dap
// and lldb-vscode expect. go-dap types LaunchRequest.Arguments as raw JSON
// precisely because these fields are adapter-defined, not part of the DAP
// base protocol.
type lldbLaunchArguments struct {
	Program      string            `json:"program"`
	Args         []string          `json:"args,omitempty"`
	Env          map[string]string `json:"env,omitempty"`
	StopOnEntry  bool              `json:"stopOnEntry"`
	InitCommands []string          `json:"initCommands,omitempty"`
}

func marshalLaunchArguments(program string, args []string, env map[string]string, stopOnEntry bool, initCommands []string) (json.RawMessage, error) {
	return json.Marshal(lldbLaunchArguments{
		Program:      program,
		Args:         args,
		Env:          env,
		StopOnEntry:  stopOnEntry,
		InitCommands: initCommands,
	})
}
