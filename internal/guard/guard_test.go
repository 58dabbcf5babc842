package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type node struct {
	name string
	next *node
}

// walk compares two linked structures that may loop back on themselves.
func walk(p *Pairs, a, b *node, maxDepth *int) bool {
	return Run(p, a, b, true, func() bool {
		if p.Depth() > *maxDepth {
			*maxDepth = p.Depth()
		}

		if a.name != b.name {
			return false
		}

		if a.next == nil || b.next == nil {
			return a.next == nil && b.next == nil
		}

		return walk(p, a.next, b.next, maxDepth)
	})
}

func TestRunTerminatesOnCycle(t *testing.T) {
	self := &node{name: "a"}
	self.next = self

	maxDepth := 0
	p := New()

	assert.True(t, walk(p, self, self, &maxDepth))
	assert.Equal(t, 1, maxDepth)
	assert.Equal(t, 0, p.Depth())
}

func TestRunTwoNodeCycle(t *testing.T) {
	a := &node{name: "a"}
	b := &node{name: "b", next: a}
	a.next = b

	c := &node{name: "a"}
	d := &node{name: "b", next: c}
	c.next = d

	maxDepth := 0
	p := New()

	assert.True(t, walk(p, a, c, &maxDepth))
	assert.Equal(t, 2, maxDepth)

	d.name = "x"
	assert.False(t, walk(p, a, c, &maxDepth))
}

func TestRunReturnsNeutralForInProgressPair(t *testing.T) {
	a, b := &node{}, &node{}
	p := New()

	got := Run(p, a, b, 7, func() int {
		assert.True(t, p.InProgress(a, b))
		assert.False(t, p.InProgress(b, a))

		return Run(p, a, b, 42, func() int {
			t.Fatal("body must not run for an in-progress pair")
			return 0
		})
	})

	assert.Equal(t, 42, got)
	assert.False(t, p.InProgress(a, b))
}

func TestRunReleasesOnPanic(t *testing.T) {
	a := &node{}
	p := New()

	require.Panics(t, func() {
		Run(p, a, a, false, func() bool {
			panic("boom")
		})
	})

	assert.Equal(t, 0, p.Depth())
	assert.False(t, p.InProgress(a, a))
}

func TestNilPairs(t *testing.T) {
	var p *Pairs

	assert.Equal(t, 0, p.Depth())
	assert.False(t, p.InProgress(1, 2))
}

func TestRunZeroValueAndNil(t *testing.T) {
	var zero Pairs

	a := &node{}
	got := Run(&zero, a, a, false, func() bool {
		return zero.InProgress(a, a)
	})

	assert.True(t, got)
	assert.Equal(t, 0, zero.Depth())

	assert.PanicsWithValue(t, "guard: Run called with nil Pairs", func() {
		Run(nil, a, a, false, func() bool { return true })
	})
}
