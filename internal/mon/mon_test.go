package mon

import (
	"testing"

	"github.com/zeebo/assert"
)

func TestThunk(t *testing.T) {
	var th Thunk

	timer := th.Start()
	assert.Equal(t, th.Current(), int64(1))
	timer.Stop()

	assert.Equal(t, th.Current(), int64(0))
	assert.Equal(t, th.Total(), int64(1))
	assert.That(t, th.Nanos() >= 0)
}
