package logger

import (
	"fmt"
	"testing"
	"time"
)

func testRecord(msg string) Record {
	return Record{Level: LevelInfo, Time: time.Now(), Message: msg}
}

func TestQueuePushAndDrain(t *testing.T) {
	q := newLogQueue(10)

	q.push(testRecord("one"))
	q.push(testRecord("two"))
	q.push(testRecord("three"))

	records := q.drainAll()
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	for i, want := range []string{"one", "two", "three"} {
		if records[i].Message != want {
			t.Errorf("records[%d].Message = %q, want %q", i, records[i].Message, want)
		}
	}

	if q.len() != 0 {
		t.Errorf("queue should be empty after drain, has %d", q.len())
	}
}

func TestQueueDrainTwice(t *testing.T) {
	q := newLogQueue(10)
	q.push(testRecord("only"))

	first := q.drainAll()
	second := q.drainAll()

	if len(first) != 1 || len(second) != 0 {
		t.Errorf("drains returned %d and %d records, want 1 and 0", len(first), len(second))
	}
}

func TestQueueEvictsOldest(t *testing.T) {
	q := newLogQueue(MaxQueueLength)

	for i := 0; i < MaxQueueLength+1; i++ {
		q.push(testRecord(fmt.Sprintf("msg-%d", i)))
		if q.len() > MaxQueueLength {
			t.Fatalf("queue exceeded capacity at push %d: %d", i, q.len())
		}
	}

	records := q.drainAll()
	if len(records) != MaxQueueLength {
		t.Fatalf("expected %d records, got %d", MaxQueueLength, len(records))
	}
	// The very first record was evicted; the head is the second push.
	if records[0].Message != "msg-1" {
		t.Errorf("head record is %q, want %q", records[0].Message, "msg-1")
	}
	if last := records[len(records)-1].Message; last != fmt.Sprintf("msg-%d", MaxQueueLength) {
		t.Errorf("tail record is %q, want msg-%d", last, MaxQueueLength)
	}
}

func TestQueueDrainEmpty(t *testing.T) {
	q := newLogQueue(5)
	if records := q.drainAll(); len(records) != 0 {
		t.Errorf("drain of empty queue returned %d records", len(records))
	}
}
