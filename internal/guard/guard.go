package guard

type pair struct {
	a, b any
}

// Pairs is an ordered stack of identity pairs currently being traversed.
// The zero value is ready to use.
type Pairs struct {
	stack []pair
}

// New returns an empty Pairs.
func New() *Pairs {
	return &Pairs{}
}

// Depth returns the number of pairs currently in progress.
func (p *Pairs) Depth() int {
	if p == nil {
		return 0
	}

	return len(p.stack)
}

// InProgress reports whether the pair (a, b) is currently being traversed.
// Operands are compared with ==, so they should be pointers.
func (p *Pairs) InProgress(a, b any) bool {
	if p == nil {
		return false
	}

	for i := len(p.stack) - 1; i >= 0; i-- {
		if p.stack[i].a == a && p.stack[i].b == b {
			return true
		}
	}

	return false
}

func (p *Pairs) push(a, b any) {
	p.stack = append(p.stack, pair{a: a, b: b})
}

func (p *Pairs) pop() {
	p.stack[len(p.stack)-1] = pair{}
	p.stack = p.stack[:len(p.stack)-1]
}

// Run executes body with (a, b) marked as in progress and returns its result.
// When (a, b) is already in progress, body is not called and neutral is
// returned. The pair is released when body returns or panics.
//
// p must not be nil; a zero Pairs is ready to use.
func Run[T any](p *Pairs, a, b any, neutral T, body func() T) T {
	if p == nil {
		panic("guard: Run called with nil Pairs")
	}

	if p.InProgress(a, b) {
		return neutral
	}

	p.push(a, b)
	defer p.pop()

	return body()
}
