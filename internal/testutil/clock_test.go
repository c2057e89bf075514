package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var epoch = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

func TestDeterministicClock_StartsAtStart(t *testing.T) {
	c := NewDeterministicClock(epoch, time.Second)
	assert.Equal(t, epoch, c.Now())
}

func TestDeterministicClock_Steps(t *testing.T) {
	c := NewDeterministicClock(epoch, time.Minute)
	c.Now()
	c.Now()
	assert.Equal(t, epoch.Add(2*time.Minute), c.Now())
	assert.Equal(t, 3, c.Calls())
}

func TestDeterministicClock_Reset(t *testing.T) {
	c := NewDeterministicClock(epoch, time.Second)
	c.Now()
	c.Now()
	c.Reset()
	assert.Equal(t, epoch, c.Now())
}

func TestDeterministicClock_ThreadSafe(t *testing.T) {
	c := NewDeterministicClock(epoch, time.Millisecond)

	var wg sync.WaitGroup
	seen := make(chan time.Time, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seen <- c.Now()
		}()
	}
	wg.Wait()
	close(seen)

	unique := make(map[time.Time]bool)
	for ts := range seen {
		unique[ts] = true
	}
	assert.Len(t, unique, 100)
}
