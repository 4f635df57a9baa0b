package events_test

import (
	"testing"

	"github.com/ardanlabs/powchain/foundation/events"
)

func Test_Events(t *testing.T) {
	evts := events.New()

	ch1 := evts.Acquire("one")
	ch2 := evts.Acquire("two")

	if evts.Acquire("one") != ch1 {
		t.Fatalf("Should get the same channel for the same id.")
	}

	evts.Send("block mined")

	for _, ch := range []<-chan events.Event{ch1, ch2} {
		e := <-ch
		if e.Message != "block mined" || e.Time.IsZero() {
			t.Fatalf("Should receive the event, got %+v", e)
		}
	}

	if err := evts.Release("one"); err != nil {
		t.Fatalf("Should be able to release: %v", err)
	}
	if err := evts.Release("one"); err == nil {
		t.Fatalf("Should not release twice.")
	}
	if _, open := <-ch1; open {
		t.Fatalf("Should close a released channel.")
	}

	// A full receiver must not block the sender.
	for range 200 {
		evts.Send("flood")
	}

	evts.Shutdown()
	if evts.Count() != 0 {
		t.Fatalf("Should remove every receiver on shutdown.")
	}
	for range ch2 {
	}
}
