package worker

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

type jobFunc struct {
	name string
	fn   func(context.Context) error
}

func (j jobFunc) Run(ctx context.Context) error { return j.fn(ctx) }
func (j jobFunc) Name() string                  { return j.name }

func TestPoolSnapshotCountsOutcomes(t *testing.T) {
	p := NewPool("test", 2, 4)
	p.Start(context.Background())

	var wg sync.WaitGroup
	wg.Add(2)
	p.Submit(jobFunc{name: "ok", fn: func(ctx context.Context) error {
		defer wg.Done()
		return nil
	}})
	p.Submit(jobFunc{name: "boom", fn: func(ctx context.Context) error {
		defer wg.Done()
		return errors.New("boom")
	}})
	wg.Wait()
	p.Stop()

	snap := p.Snapshot()
	assert.Equal(t, int64(1), snap.Completed)
	assert.Equal(t, int64(1), snap.Failed)
	assert.Zero(t, snap.Pending)
}

func TestPoolDefaultsSizing(t *testing.T) {
	p := NewPool("test", 0, 0)
	assert.Equal(t, 2, p.workers)
	assert.Equal(t, 64, p.queue)
}
