package job

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type countingPurger struct{ calls int }

func (c *countingPurger) PurgeExpired() int {
	c.calls++
	return 3
}

func TestCachePurgeJob_Run(t *testing.T) {
	p := &countingPurger{}
	j := NewCachePurgeJob("channels", p)
	j.Run()
	j.Run()
	assert.Equal(t, 2, p.calls)
}
