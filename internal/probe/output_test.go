package probe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildOutputOrdersByRegistrationNotAdapterID(t *testing.T) {
	result := &RunResult{
		Order: []int{5, 2},
		Reports: map[int]*Report{
			2: {ID: 2, FilePath: "b.go", Line: 2},
			5: {ID: 5, FilePath: "a.go", Line: 1},
		},
	}
	out := BuildOutput(result)
	if assert.Len(t, out.Breakpoints, 2) {
		assert.Equal(t, 5, out.Breakpoints[0].ID)
		assert.Equal(t, 2, out.Breakpoints[1].ID)
	}
}

func TestBuildOutputReplacesInvalidUTF8InStderr(t *testing.T) {
	result := &RunResult{Stderr: []byte("valid \xffinvalid")}
	out := BuildOutput(result)
	assert.Contains(t, out.Stderr, "valid ")
	assert.Contains(t, out.Stderr, "�")
}

func TestBuildOutputCarriesExitCodeSignalAndTimeout(t *testing.T) {
	code := 139
	sig := "SIGSEGV"
	result := &RunResult{ExitCode: &code, Signal: &sig, Timeout: true}
	out := BuildOutput(result)
	assert.Equal(t, &code, out.ExitCode)
	assert.Equal(t, &sig, out.Signal)
	assert.True(t, out.HasTimeout)
}

func TestBuildOutputMissingReportIsSkipped(t *testing.T) {
	result := &RunResult{Order: []int{1, 2}, Reports: map[int]*Report{1: {ID: 1}}}
	out := BuildOutput(result)
	assert.Len(t, out.Breakpoints, 1)
}
