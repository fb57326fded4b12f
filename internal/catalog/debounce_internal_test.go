package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// recordingClock never fires on its own; tests invoke callbacks directly.
type recordingClock struct {
	funcs []func()
}

type noopTimer struct{}

func (noopTimer) Stop() bool { return false }

func (c *recordingClock) AfterFunc(_ time.Duration, f func()) Timer {
	c.funcs = append(c.funcs, f)
	return noopTimer{}
}

func TestDebouncer_StaleCallbackIgnored(t *testing.T) {
	clock := &recordingClock{}
	var fired []string
	d := NewDebouncer(DefaultDebounce, clock, func(v string) { fired = append(fired, v) })

	d.Push("old")
	d.Push("new")

	// The first timer could not be stopped in time and runs anyway.
	clock.funcs[0]()
	assert.Empty(t, fired)

	clock.funcs[1]()
	assert.Equal(t, []string{"new"}, fired)

	// A callback running after Cancel is ignored too.
	d.Push("later")
	d.Cancel()
	clock.funcs[2]()
	assert.Equal(t, []string{"new"}, fired)
}

func TestNewDebouncer_Defaults(t *testing.T) {
	d := NewDebouncer(-time.Second, nil, func(string) {})
	assert.Equal(t, DefaultDebounce, d.delay)
	assert.IsType(t, SystemClock{}, d.clock)
}
