package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoginThrottleBlocksAfterLimit(t *testing.T) {
	th := NewLoginThrottle(5, time.Minute)

	for i := 0; i < 5; i++ {
		assert.True(t, th.Allowed("1.2.3.4"), "attempt %d should be allowed", i+1)
		th.Fail("1.2.3.4")
	}
	assert.False(t, th.Allowed("1.2.3.4"))
	assert.True(t, th.Allowed("5.6.7.8"))

	th.Reset("1.2.3.4")
	assert.True(t, th.Allowed("1.2.3.4"))
}

func TestLoginThrottleWindowExpires(t *testing.T) {
	th := NewLoginThrottle(1, 50*time.Millisecond)
	th.Fail("ip")
	assert.False(t, th.Allowed("ip"))

	time.Sleep(80 * time.Millisecond)
	assert.True(t, th.Allowed("ip"))
}
