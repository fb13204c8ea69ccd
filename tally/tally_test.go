package tally

import (
	"testing"

	"github.com/heliosmc/keff/transport"
)

func TestPoolBorrowReturnIsClean(t *testing.T) {
	pool := &Pool{}
	c := pool.Borrow()
	c.Add(transport.Result{Leakage: 5, FissionChance: map[int]float64{19: 2}})
	pool.Return(c)

	c2 := pool.Borrow()
	if c2.Leakage != 0 || len(c2.FissionChance) != 0 {
		t.Errorf("expected a clean child from the pool, got %+v", c2)
	}
}

func TestJoinAccumulatesIntoParent(t *testing.T) {
	pool := &Pool{}
	ps := NewParentSet()

	c1 := pool.Borrow()
	c1.Add(transport.Result{Leakage: 3, Absorption: 2})
	c2 := pool.Borrow()
	c2.Add(transport.Result{Leakage: 1, Absorption: 4})

	ps.Join([]*Child{c1, c2}, pool, 10)

	if ps.Leakage.Mean() != 0.4 {
		t.Errorf("expected leakage mean 0.4, got %v", ps.Leakage.Mean())
	}
	if ps.Absorption.Mean() != 0.6 {
		t.Errorf("expected absorption mean 0.6, got %v", ps.Absorption.Mean())
	}
	if ps.Leakage.N() != 1 {
		t.Errorf("expected one accumulated cycle, got %d", ps.Leakage.N())
	}
}

func TestDrainNoStatsLeavesParentUntouched(t *testing.T) {
	pool := &Pool{}
	ps := NewParentSet()

	c := pool.Borrow()
	c.Add(transport.Result{Leakage: 100})
	DrainNoStats([]*Child{c}, pool)

	if ps.Leakage.N() != 0 {
		t.Errorf("expected inactive-cycle drain not to touch the parent, got N=%d", ps.Leakage.N())
	}
}

func TestStdErrZeroWithOneSample(t *testing.T) {
	var tl Tally
	tl.Accumulate(5, 1)
	if tl.StdErr() != 0 {
		t.Errorf("expected stderr 0 with a single sample, got %v", tl.StdErr())
	}
}
