package probe

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAwaitNoBudgetDelegatesDirectly(t *testing.T) {
	gate := NewTimeoutGate(0)
	v, err := Await(gate, func() (int, error) { return 42, nil })
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestAwaitCompletesWithinBudget(t *testing.T) {
	gate := NewTimeoutGate(time.Second)
	v, err := Await(gate, func() (string, error) { return "ok", nil })
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
}

func TestAwaitTimesOutWhenOpOutlivesBudget(t *testing.T) {
	gate := NewTimeoutGate(10 * time.Millisecond)
	_, err := Await(gate, func() (int, error) {
		time.Sleep(200 * time.Millisecond)
		return 1, nil
	})
	assert.True(t, errors.Is(err, ErrTimeout))
}

func TestAwaitBudgetAlreadyElapsed(t *testing.T) {
	gate := NewTimeoutGate(time.Millisecond)
	time.Sleep(5 * time.Millisecond)
	_, err := Await(gate, func() (int, error) {
		t := 1
		return t, nil
	})
	assert.True(t, errors.Is(err, ErrTimeout))
}

func TestAwaitPropagatesOpError(t *testing.T) {
	gate := NewTimeoutGate(0)
	wantErr := errors.New("boom")
	_, err := Await(gate, func() (int, error) { return 0, wantErr })
	assert.Equal(t, wantErr, err)
}
