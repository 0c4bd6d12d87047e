package coordinator

// rollbackStack accumulates cleanup actions and runs them in LIFO order.
// Grounded on other_examples/atomicni's rollbackStack, used here in place
// of the teacher's chain of per-step "defer func() { if err != nil {...} }"
// blocks for the busier, multi-step CreateEndpoint provisioning sequence.
type rollbackStack struct {
	fns []func()
}

func (r *rollbackStack) push(fn func()) {
	r.fns = append(r.fns, fn)
}

func (r *rollbackStack) run() {
	for i := len(r.fns) - 1; i >= 0; i-- {
		r.fns[i]()
	}
}
