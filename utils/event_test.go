package utils

import (
	"sync"
	"testing"
)

func TestEvent_FreshEventHasNotHappened(t *testing.T) {
	event := MakeEvent()
	if event.HasHappened() {
		t.Errorf("fresh event should not be marked as happened")
	}
	select {
	case <-event.Wait():
		t.Errorf("wait channel of a fresh event must block")
	default:
	}
}

func TestEvent_RepeatedSignalsAreIgnored(t *testing.T) {
	event := MakeEvent()
	for i := 0; i < 5; i++ {
		event.Signal()
		if !event.HasHappened() {
			t.Errorf("a signaled event should be reported as happened")
		}
	}
}

func TestEvent_ConcurrentSignalsReleaseAllWaiters(t *testing.T) {
	event := MakeEvent()

	var waiters sync.WaitGroup
	for i := 0; i < 8; i++ {
		waiters.Add(1)
		go func() {
			defer waiters.Done()
			<-event.Wait()
		}()
	}

	var signals sync.WaitGroup
	for i := 0; i < 8; i++ {
		signals.Add(1)
		go func() {
			defer signals.Done()
			event.Signal()
		}()
	}
	signals.Wait()
	waiters.Wait()

	if !event.HasHappened() {
		t.Errorf("event should be reported as happened")
	}
}
