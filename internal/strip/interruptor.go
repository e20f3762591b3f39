package strip

import (
	"errors"
	log "github.com/sirupsen/logrus"
	"sync"
)

// Queue hands out exclusive turns on the strip. A full transaction (read
// state, encode, transmit, commit) runs with the turn held, so frames can
// never interleave on the bus. Long holders such as the startup sweep
// SHOULD poll IsInterrupted between frames and yield early when another
// caller has queued for its turn.
type Queue struct {
	waiting   int
	runLock   sync.Mutex
	stateLock sync.Mutex
}

type Unlocker func()

// Queue waits for an exclusive turn on the strip. Marks the queue as
// interrupted first, so the current holder knows someone is waiting, then
// blocks for the run lock.
func (q *Queue) Queue() Unlocker {
	q.interrupt()
	q.runLock.Lock()

	q.running()
	return func() {
		q.done()
	}
}

func (q *Queue) running() {
	q.stateLock.Lock()
	defer q.stateLock.Unlock()

	q.waiting--
}

func (q *Queue) interrupt() {
	q.stateLock.Lock()
	defer q.stateLock.Unlock()

	q.waiting++
	log.Debug("Queued for the strip: ", q.waiting)
}

// IsInterrupted reports whether some caller is waiting for its turn.
func (q *Queue) IsInterrupted() bool {
	q.stateLock.Lock()
	defer q.stateLock.Unlock()

	return q.waiting != 0
}

func (q *Queue) done() {
	defer q.runLock.Unlock()

	if q.waiting < 0 {
		log.Warn(errors.New("number waiting in queue less than zero"))
	}
}
