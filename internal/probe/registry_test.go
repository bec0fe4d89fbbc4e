package probe

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLog() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRegistryRegisterSuccess(t *testing.T) {
	client := newFakeClient()
	r := NewRegistry(client, discardLog())
	spec := &BreakpointSpec{File: "main.go", Line: 10, HitLimit: 2}

	id, ok := r.Register(spec)
	require.True(t, ok)
	assert.Equal(t, 1, id)

	got, ok := r.SpecFor(id)
	require.True(t, ok)
	assert.Same(t, spec, got)

	rep, ok := r.ReportFor(id)
	require.True(t, ok)
	assert.Equal(t, "main.go", rep.FilePath)
	assert.Equal(t, 10, rep.Line)
}

func TestRegistryRegisterRejected(t *testing.T) {
	client := newFakeClient()
	client.rejectAll = true
	r := NewRegistry(client, discardLog())
	spec := &BreakpointSpec{File: "main.go", Line: 10, HitLimit: 1}

	_, ok := r.Register(spec)
	assert.False(t, ok)
	assert.Empty(t, r.order)
}

func TestRegistryOnHitUpdatesFrameAndCountsTowardLimit(t *testing.T) {
	client := newFakeClient()
	r := NewRegistry(client, discardLog())
	spec := &BreakpointSpec{File: "main.go", Line: 10, HitLimit: 2}
	id, ok := r.Register(spec)
	require.True(t, ok)

	frames := []Frame{{Name: "main.loop", File: "/abs/main.go", Line: 11}}
	reached := r.OnHit(id, frames, HitInfo{Callstack: "trace-1"})
	assert.False(t, reached)

	rep, _ := r.ReportFor(id)
	assert.Equal(t, 1, rep.HitTimes)
	assert.Equal(t, "/abs/main.go", rep.FilePath)
	assert.Equal(t, 11, rep.Line)
	assert.Equal(t, "main.loop", rep.FunctionName)
	require.Len(t, rep.HitsInfo, 1)
	assert.Equal(t, "trace-1", rep.HitsInfo[0].Callstack)

	reached = r.OnHit(id, frames, HitInfo{Callstack: "trace-2"})
	assert.True(t, reached)
	assert.Equal(t, 2, rep.HitTimes)
}

func TestRegistryOnHitUnknownID(t *testing.T) {
	client := newFakeClient()
	r := NewRegistry(client, discardLog())
	reached := r.OnHit(999, nil, HitInfo{})
	assert.False(t, reached)
}

func TestRegistryRemoveIsNonFatalOnClientError(t *testing.T) {
	client := newFakeClient()
	client.removeErr = errors.New("adapter gone")
	r := NewRegistry(client, discardLog())
	spec := &BreakpointSpec{File: "main.go", Line: 10, HitLimit: 1}
	id, _ := r.Register(spec)

	r.Remove(id)
	assert.Equal(t, []string{"main.go"}, client.removed)
}

func TestRegistryReportsInOrderPreservesRegistrationOrder(t *testing.T) {
	client := newFakeClient()
	r := NewRegistry(client, discardLog())
	specA := &BreakpointSpec{File: "a.go", Line: 1, HitLimit: 1}
	specB := &BreakpointSpec{File: "b.go", Line: 2, HitLimit: 1}

	idA, _ := r.Register(specA)
	idB, _ := r.Register(specB)

	order, reports := r.ReportsInOrder()
	assert.Equal(t, []int{idA, idB}, order)
	assert.Len(t, reports, 2)
}
