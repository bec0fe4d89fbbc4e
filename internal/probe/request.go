package probe

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// BreakpointSpecDTO is the wire shape of one breakpoint declaration in the
// inbound run request (§6).
type BreakpointSpecDTO struct {
	Location       string   `json:"location" validate:"required"`
	HitLimit       int      `json:"hit_limit,omitempty" validate:"omitempty,min=1"`
	InlineExpr     []string `json:"inline_expr,omitempty"`
	PrintCallStack bool     `json:"print_call_stack,omitempty"`
}

// RunRequestDTO is the wire shape of the single inbound operation (§6).
type RunRequestDTO struct {
	Cmd         []string            `json:"cmd" validate:"required,min=1"`
	Stdin       []byte              `json:"stdin,omitempty"`
	TimeoutSec  *float64            `json:"timeout_sec,omitempty" validate:"omitempty,gt=0"`
	Breakpoints []BreakpointSpecDTO `json:"breakpoints,omitempty" validate:"dive"`
	RepoRoot    string              `json:"repo_root,omitempty"`
	Env         map[string]string   `json:"env,omitempty"`
	AdapterPath string              `json:"adapter_path,omitempty"`
}

// Validate checks the DTO against its struct tags, failing fast before any
// adapter process is spawned.
func (d *RunRequestDTO) Validate() error {
	if err := validate.Struct(d); err != nil {
		return fmt.Errorf("invalid run request: %w", err)
	}
	return nil
}

const defaultHitLimit = 10

// ToRunRequest converts the validated wire DTO into the internal RunRequest,
// applying the hit_limit default (§3: "default 10").
func (d *RunRequestDTO) ToRunRequest() RunRequest {
	specs := make([]*BreakpointSpec, 0, len(d.Breakpoints))
	for _, b := range d.Breakpoints {
		hitLimit := b.HitLimit
		if hitLimit == 0 {
			hitLimit = defaultHitLimit
		}
		specs = append(specs, &BreakpointSpec{
			Location:       b.Location,
			HitLimit:       hitLimit,
			InlineExpr:     b.InlineExpr,
			PrintCallStack: b.PrintCallStack,
		})
	}
	return RunRequest{
		Cmd:         d.Cmd,
		Stdin:       d.Stdin,
		TimeoutSec:  d.TimeoutSec,
		Breakpoints: specs,
		RepoRoot:    d.RepoRoot,
		Env:         d.Env,
		AdapterPath: d.AdapterPath,
	}
}

// RunRequest is the internal form of the single inbound operation.
type RunRequest struct {
	Cmd         []string
	Stdin       []byte
	TimeoutSec  *float64
	Breakpoints []*BreakpointSpec
	RepoRoot    string
	Env         map[string]string
	AdapterPath string
}
