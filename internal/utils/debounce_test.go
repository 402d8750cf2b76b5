package utils

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDebounceCoalesces(t *testing.T) {
	var d Debouncer
	var calls atomic.Int32
	for i := 0; i < 5; i++ {
		d.Debounce(20*time.Millisecond, func() { calls.Add(1) })
	}
	assert.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
	assert.False(t, d.LastCalled().IsZero())
}

func TestDebounceStop(t *testing.T) {
	var d Debouncer
	var calls atomic.Int32
	d.Debounce(50*time.Millisecond, func() { calls.Add(1) })
	assert.True(t, d.Pending())
	assert.True(t, d.Stop())
	assert.False(t, d.Pending())
	assert.False(t, d.Stop())
	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, int32(0), calls.Load())
}
