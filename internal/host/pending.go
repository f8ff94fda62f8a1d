package host

// Pending is the result of an asynchronous function. It is returned to the
// caller immediately and settles once the underlying work finishes.
type Pending struct {
	done  chan struct{}
	value any
	err   error
}

// Go runs fn on its own goroutine and returns a Pending for its result.
func Go(fn func() (any, error)) *Pending {
	p := &Pending{done: make(chan struct{})}

	go func() {
		defer close(p.done)

		p.value, p.err = fn()
	}()

	return p
}

// Resolved returns an already settled Pending.
func Resolved(value any, err error) *Pending {
	p := &Pending{done: make(chan struct{}), value: value, err: err}
	close(p.done)

	return p
}

// Done is closed when the result is available.
func (p *Pending) Done() <-chan struct{} {
	return p.done
}

// Await blocks until the result is available.
func (p *Pending) Await() (any, error) {
	<-p.done

	return p.value, p.err
}
