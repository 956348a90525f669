// internal/logger/queue.go

package logger

// MaxQueueLength is the hard capacity bound of the deferred-mode queue.
// Pushing beyond it evicts the oldest record, one per push.
const MaxQueueLength = 1000

// logQueue is a bounded FIFO of pending records. Not safe for concurrent
// use on its own; the facility mutex serializes access.
type logQueue struct {
	records []Record
	max     int
}

func newLogQueue(max int) *logQueue {
	if max <= 0 {
		max = MaxQueueLength
	}
	return &logQueue{max: max}
}

// push appends a record, evicting the oldest entry first when the queue is
// at capacity. Eviction is strict FIFO regardless of severity.
func (q *logQueue) push(r Record) {
	if len(q.records) >= q.max {
		q.records = q.records[1:]
	}
	q.records = append(q.records, r)
}

// drainAll detaches and returns the whole queue contents, oldest first,
// leaving the queue empty. Ownership of the returned slice transfers to
// the caller.
func (q *logQueue) drainAll() []Record {
	out := q.records
	q.records = nil
	return out
}

func (q *logQueue) len() int {
	return len(q.records)
}
