package container

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewPacer_NoDelay(t *testing.T) {
	pacer := newPacer(0)

	start := time.Now()
	for i := 0; i < 5; i++ {
		pacer.Take()
	}
	assert.Less(t, time.Since(start), 50*time.Millisecond)
}

func TestNewPacer_SpacesTakes(t *testing.T) {
	pacer := newPacer(60)

	var takes []time.Time
	for i := 0; i < 3; i++ {
		takes = append(takes, pacer.Take())
	}

	for i := 1; i < len(takes); i++ {
		assert.GreaterOrEqual(t, takes[i].Sub(takes[i-1]), 55*time.Millisecond)
	}
}

func TestNewPacer_NoBurstAfterIdle(t *testing.T) {
	pacer := newPacer(60)

	pacer.Take()
	time.Sleep(200 * time.Millisecond)
	first := pacer.Take()
	second := pacer.Take()

	assert.GreaterOrEqual(t, second.Sub(first), 55*time.Millisecond)
}
