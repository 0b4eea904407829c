/*
DESCRIPTION
  pool.go pools detector/extractor instances so that the view simulator
  can run views concurrently without assuming the underlying capability
  is safe for concurrent use.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package simview

import "github.com/ausocean/asift/feature"

// closer is implemented by detector/extractor adapters that hold
// external resources (e.g. a gocv algorithm instance) needing explicit
// release. Adapters that don't need it simply don't implement it.
type closer interface {
	Close() error
}

// tool bundles one detector and one extractor instance that may be used
// together, serially, by a single goroutine at a time.
type tool struct {
	detector  feature.Detector
	extractor feature.Extractor
}

func (t tool) close() {
	if c, ok := t.detector.(closer); ok {
		c.Close()
	}
	if e, ok := t.extractor.(closer); ok && e != interface{}(t.detector) {
		e.Close()
	}
}

// toolPool hands out tool instances built by a factory, up to size
// concurrently in use. It is the concurrency-side analogue of
// github.com/ausocean/utils/pool: where that pool recycles byte buffers
// across frames, this one recycles external detector/extractor instances
// across simulated views, since those instances are not assumed
// reentrant.
type toolPool struct {
	ch chan tool
}

// newToolPool eagerly constructs size tools via factory. An error from
// factory aborts construction and releases any tools already made.
func newToolPool(size int, factory func() (feature.Detector, feature.Extractor, error)) (*toolPool, error) {
	if size < 1 {
		size = 1
	}
	p := &toolPool{ch: make(chan tool, size)}
	for i := 0; i < size; i++ {
		d, x, err := factory()
		if err != nil {
			close(p.ch)
			for t := range p.ch {
				t.close()
			}
			return nil, err
		}
		p.ch <- tool{detector: d, extractor: x}
	}
	return p, nil
}

// acquire blocks until a tool is available.
func (p *toolPool) acquire() tool {
	return <-p.ch
}

// release returns a tool to the pool for reuse.
func (p *toolPool) release(t tool) {
	p.ch <- t
}

// drainAndClose closes every tool currently sitting idle in the pool. It
// must only be called once every acquired tool has been released back,
// i.e. after all simulation work using this pool has finished.
func (p *toolPool) drainAndClose(size int) {
	for i := 0; i < size; i++ {
		t := <-p.ch
		t.close()
	}
	close(p.ch)
}
