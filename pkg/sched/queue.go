// Package sched provides the cooperative scheduling primitives that hosts use
// to defer render passes to the end of the current turn.
//
// A turn is one macrotask (a dispatched callback or an animation frame)
// followed by a drain of the microtask [Queue]. Work posted to the queue while
// it drains runs in the same drain, after everything posted before it, which
// mirrors the ordering of promise reactions.
package sched

import "sync"

// Scheduler posts a task to run at the next deferred point.
type Scheduler interface {
	Post(task func())
}

// Queue is a FIFO of microtasks.
type Queue struct {
	mu    sync.Mutex
	tasks []func()

	// OnPost is called when a task is posted to an empty queue, signalling
	// the owner that a drain is needed.
	OnPost func()
}

// Post appends a task. Nil tasks are ignored.
func (q *Queue) Post(task func()) {
	if task == nil {
		return
	}
	wasEmpty := func() bool {
		q.mu.Lock()
		defer q.mu.Unlock()
		empty := len(q.tasks) == 0
		q.tasks = append(q.tasks, task)
		return empty
	}()

	if wasEmpty && q.OnPost != nil {
		q.OnPost()
	}
}

// Len returns the number of queued tasks.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

// Drain runs queued tasks until the queue is empty, including tasks posted
// by the tasks it runs. It returns the number of tasks run.
//
// Tasks are popped one at a time, so a panicking task leaves the remaining
// tasks queued for the next drain.
func (q *Queue) Drain() int {
	n := 0
	for {
		task := q.pop()
		if task == nil {
			return n
		}
		task()
		n++
	}
}

func (q *Queue) pop() func() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.tasks) == 0 {
		return nil
	}
	task := q.tasks[0]
	q.tasks[0] = nil
	q.tasks = q.tasks[1:]
	return task
}
