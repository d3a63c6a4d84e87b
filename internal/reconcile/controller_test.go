package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestControllerInitialState(t *testing.T) {
	ctrl := NewController()
	assert.False(t, ctrl.Draining())
	assert.False(t, ctrl.Stopping())
}

func TestControllerDrainResume(t *testing.T) {
	ctrl := NewController()

	ctrl.Drain()
	assert.True(t, ctrl.Draining())

	// A parked loop gets nudged.
	select {
	case <-ctrl.Wake():
	default:
		t.Fatal("expected a wake nudge after drain")
	}

	ctrl.Resume()
	assert.False(t, ctrl.Draining())
}

func TestControllerStopIsSticky(t *testing.T) {
	ctrl := NewController()

	assert.True(t, ctrl.RequestStop(), "first request")
	assert.False(t, ctrl.RequestStop(), "second request")
	assert.True(t, ctrl.Stopping())

	select {
	case <-ctrl.StopRequested():
	default:
		t.Fatal("stop channel should be closed")
	}
}

func TestControllerRepeatedDrainDoesNotBlock(t *testing.T) {
	ctrl := NewController()
	// The wake channel has capacity one; flipping state repeatedly without a
	// listener must not deadlock the signal goroutine.
	for i := 0; i < 10; i++ {
		ctrl.Drain()
		ctrl.Resume()
	}
	assert.False(t, ctrl.Draining())
}
