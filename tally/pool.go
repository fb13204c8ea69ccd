package tally

import (
	"sync"

	"github.com/heliosmc/keff/transport"
)

// Child is a worker-private scratch accumulator. It is only ever touched
// by the worker that currently holds it; joining at cycle end is the only
// place it is read by another goroutine, and only after the borrowing
// worker has returned it.
type Child struct {
	Leakage        float64
	Absorption     float64
	KeffTrack      float64
	KeffCollision  float64
	KeffAbsorption float64
	N2N, N3N, N4N  float64
	FissionChance  map[int]float64
}

// Add folds one history's result into this child accumulator.
func (c *Child) Add(r transport.Result) {
	c.Leakage += r.Leakage
	c.Absorption += r.Absorption
	c.KeffTrack += r.KeffTrack
	c.KeffCollision += r.KeffCollision
	c.KeffAbsorption += r.KeffAbsorption
	c.N2N += r.N2N
	c.N3N += r.N3N
	c.N4N += r.N4N
	for mt, w := range r.FissionChance {
		c.FissionChance[mt] += w
	}
}

// reset clears the child in place so it can be reused without reallocating
// the FissionChance map.
func (c *Child) reset() {
	c.Leakage, c.Absorption = 0, 0
	c.KeffTrack, c.KeffCollision, c.KeffAbsorption = 0, 0, 0
	c.N2N, c.N3N, c.N4N = 0, 0, 0
	for k := range c.FissionChance {
		delete(c.FissionChance, k)
	}
}

func newChild() *Child {
	return &Child{FissionChance: map[int]float64{}}
}

// Pool is the pooled deque of child accumulators workers borrow from and
// return to, under a short critical section, so the hot path never takes
// an atomic or holds a lock across a history.
type Pool struct {
	mu    sync.Mutex
	spare []*Child
}

// Borrow returns a clean child accumulator, either reused from the pool or
// freshly allocated if the pool is empty.
func (p *Pool) Borrow() *Child {
	p.mu.Lock()
	defer p.mu.Unlock()
	if n := len(p.spare); n > 0 {
		c := p.spare[n-1]
		p.spare = p.spare[:n-1]
		return c
	}
	return newChild()
}

// Return clears c and returns it to the pool.
func (p *Pool) Return(c *Child) {
	c.reset()
	p.mu.Lock()
	p.spare = append(p.spare, c)
	p.mu.Unlock()
}
