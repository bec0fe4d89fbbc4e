package probe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunRequestDTOValidateRequiresCmd(t *testing.T) {
	dto := RunRequestDTO{}
	assert.Error(t, dto.Validate())
}

func TestRunRequestDTOValidateRejectsNonPositiveTimeout(t *testing.T) {
	zero := 0.0
	dto := RunRequestDTO{Cmd: []string{"./a.out"}, TimeoutSec: &zero}
	assert.Error(t, dto.Validate())
}

func TestRunRequestDTOValidateRejectsNonPositiveHitLimit(t *testing.T) {
	dto := RunRequestDTO{
		Cmd:         []string{"./a.out"},
		Breakpoints: []BreakpointSpecDTO{{Location: "main.go:1", HitLimit: -1}},
	}
	assert.Error(t, dto.Validate())
}

func TestRunRequestDTOValidateAcceptsMinimalRequest(t *testing.T) {
	dto := RunRequestDTO{Cmd: []string{"./a.out"}}
	require.NoError(t, dto.Validate())
}

func TestToRunRequestAppliesDefaultHitLimit(t *testing.T) {
	dto := RunRequestDTO{
		Cmd:         []string{"./a.out", "arg1"},
		Breakpoints: []BreakpointSpecDTO{{Location: "main.go:10"}, {Location: "main.go:20", HitLimit: 3}},
	}
	req := dto.ToRunRequest()
	require.Len(t, req.Breakpoints, 2)
	assert.Equal(t, defaultHitLimit, req.Breakpoints[0].HitLimit)
	assert.Equal(t, 3, req.Breakpoints[1].HitLimit)
	assert.Equal(t, []string{"./a.out", "arg1"}, req.Cmd)
}
