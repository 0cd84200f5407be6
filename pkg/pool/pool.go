package pool

import (
	"runtime"
)

// parallelizeAlone calculates the result of f count times
func parallelizeAlone(f func(int) interface{}, count int) []interface{} {
	results := make([]interface{}, count)
	for i := 0; i < len(results); i++ {
		results[i] = f(i)
	}
	return results
}

// command is used to trigger our latent workers to evaluate a function at a single index.
type command struct {
	// This is the index we evaluate our function at
	i int
	f func(int) interface{}
	// This is the array where we put results
	results []interface{}
	// done receives one value per evaluated index, it has room for all of them.
	done chan<- struct{}
}

// worker starts up a new worker, listening to commands, and producing results
func worker(commands <-chan command) {
	for c := range commands {
		c.results[c.i] = c.f(c.i)
		c.done <- struct{}{}
	}
}

// Pool represents a pool of workers, used for parallelizing functions.
//
// Functions needing a *Pool will work with a nil receiver, doing the equivalent
// work on the current thread instead.
//
// By creating a pool, you avoid the overhead of spinning up goroutines for
// each new operation. A pool may be used by several goroutines at once,
// as long as f never calls Parallelize on the same pool.
type Pool struct {
	// The common channel used to send commands to the workers.
	//
	// This effectively makes a work stealing pool.
	commands chan command
	// This holds the number of workers we've created
	workerCount int
}

// NewPool creates a new pool, with a certain number of workers.
//
// If count <= 0, this will use the number of available CPUs instead.
func NewPool(count int) *Pool {
	var p Pool

	if count <= 0 {
		count = runtime.NumCPU()
	}

	p.commands = make(chan command)
	p.workerCount = count

	for i := 0; i < count; i++ {
		go worker(p.commands)
	}

	return &p
}

// TearDown cleanly tears down a pool, closing channels, etc.
func (p *Pool) TearDown() {
	close(p.commands)
}

// Parallelize calls a function count times, passing in indices from 0..count-1.
//
// The result will be a slice containing [f(0), f(1), ..., f(count - 1)], regardless
// of the order in which the workers evaluated f.
func (p *Pool) Parallelize(count int, f func(int) interface{}) []interface{} {
	if p == nil {
		return parallelizeAlone(f, count)
	}

	results := make([]interface{}, count)
	done := make(chan struct{}, count)
	for i := 0; i < count; i++ {
		p.commands <- command{
			i:       i,
			f:       f,
			results: results,
			done:    done,
		}
	}
	for i := 0; i < count; i++ {
		<-done
	}

	return results
}
