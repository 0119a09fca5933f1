package circuit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBreaker_StartsClosed(t *testing.T) {
	b := New("eissd")
	assert.Equal(t, StateClosed, b.State())
	assert.False(t, b.IsOpen())
	assert.True(t, b.Allow())
	assert.Equal(t, "eissd", b.Name())
}

func TestBreaker_OpensAtFailureThreshold(t *testing.T) {
	b := New("eissd", WithFailureThreshold(3))

	open, change := b.RecordFailure()
	assert.False(t, open)
	assert.False(t, change.Opened)

	open, change = b.RecordFailure()
	assert.False(t, open)
	assert.False(t, change.Opened)

	open, change = b.RecordFailure()
	assert.True(t, open)
	assert.True(t, change.Opened)
	assert.True(t, b.IsOpen())

	// Further failures keep it open without another transition.
	open, change = b.RecordFailure()
	assert.True(t, open)
	assert.False(t, change.Opened)
}

func TestBreaker_SuccessResetsFailureStreak(t *testing.T) {
	b := New("eissd", WithFailureThreshold(2))

	b.RecordFailure()
	b.RecordSuccess()
	b.RecordFailure()
	assert.False(t, b.IsOpen())

	b.RecordFailure()
	assert.True(t, b.IsOpen())
}

func TestBreaker_ClosesAfterSuccessThreshold(t *testing.T) {
	b := New("eissd", WithFailureThreshold(1), WithSuccessThreshold(2))

	b.RecordFailure()
	assert.True(t, b.IsOpen())

	closed, change := b.RecordSuccess()
	assert.False(t, closed)
	assert.False(t, change.Closed)

	closed, change = b.RecordSuccess()
	assert.True(t, closed)
	assert.True(t, change.Closed)
	assert.False(t, b.IsOpen())
}

func TestBreaker_FailureResetsSuccessStreak(t *testing.T) {
	b := New("eissd", WithFailureThreshold(1), WithSuccessThreshold(2))

	b.RecordFailure()
	b.RecordSuccess()
	b.RecordFailure()
	b.RecordSuccess()
	assert.True(t, b.IsOpen())
	b.RecordSuccess()
	assert.False(t, b.IsOpen())
}

func TestBreaker_OpenAllowsOneProbePerInterval(t *testing.T) {
	b := New("eissd", WithFailureThreshold(1), WithRetryInterval(time.Hour))

	b.RecordFailure()
	assert.True(t, b.IsOpen())

	// First probe after opening is allowed, the next within the interval
	// is not.
	assert.True(t, b.Allow())
	assert.False(t, b.Allow())
}

func TestBreaker_ResetClearsState(t *testing.T) {
	b := New("eissd", WithFailureThreshold(1))

	b.RecordFailure()
	assert.True(t, b.IsOpen())

	b.Reset()
	assert.Equal(t, StateClosed, b.State())
	assert.True(t, b.Allow())
}
