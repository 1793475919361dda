package timer

import (
	"testing"
	"time"
)

func TestServiceAfterFiresOnce(t *testing.T) {
	events := make(chan Event, 4)
	svc := NewService(events)

	id := svc.After(10 * time.Millisecond)
	if svc.Count() != 1 {
		t.Fatalf("expected 1 active timer, got %d", svc.Count())
	}

	select {
	case ev := <-events:
		if ev.ID != id || ev.Repeat {
			t.Errorf("unexpected event: %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("timer never fired")
	}

	if svc.Count() != 0 {
		t.Errorf("expected one-shot timer removed after firing, got count %d", svc.Count())
	}
}

func TestServiceEveryReschedules(t *testing.T) {
	events := make(chan Event, 4)
	svc := NewService(events)

	id := svc.Every(5 * time.Millisecond)

	for i := 0; i < 2; i++ {
		select {
		case ev := <-events:
			if ev.ID != id || !ev.Repeat {
				t.Errorf("unexpected event: %+v", ev)
			}
		case <-time.After(time.Second):
			t.Fatal("repeating timer never fired")
		}
	}

	if svc.Count() != 1 {
		t.Errorf("expected repeating timer still active, got count %d", svc.Count())
	}
	svc.Cancel(id)
	if svc.Count() != 0 {
		t.Errorf("expected timer removed after Cancel, got count %d", svc.Count())
	}
}

func TestServiceCancelBeforeFire(t *testing.T) {
	events := make(chan Event, 1)
	svc := NewService(events)

	id := svc.After(50 * time.Millisecond)
	svc.Cancel(id)

	select {
	case ev := <-events:
		t.Fatalf("expected no event after cancel, got %+v", ev)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestServiceCancelAll(t *testing.T) {
	events := make(chan Event, 4)
	svc := NewService(events)

	svc.After(time.Minute)
	svc.Every(time.Minute)
	if svc.Count() != 2 {
		t.Fatalf("expected 2 active timers, got %d", svc.Count())
	}

	svc.CancelAll()
	if svc.Count() != 0 {
		t.Errorf("expected 0 active timers after CancelAll, got %d", svc.Count())
	}
}

func TestSchedulerSchedule(t *testing.T) {
	out := make(chan func(), 1)
	s := New(out)

	ran := make(chan struct{})
	s.Schedule(5*time.Millisecond, func() { close(ran) })

	select {
	case job := <-out:
		job()
	case <-time.After(time.Second):
		t.Fatal("scheduled job never arrived")
	}

	select {
	case <-ran:
	default:
		t.Fatal("job was not invoked")
	}
}

func TestSchedulerCancel(t *testing.T) {
	out := make(chan func(), 1)
	s := New(out)

	cancel := s.Schedule(50*time.Millisecond, func() {})
	cancel()

	select {
	case job := <-out:
		t.Fatalf("expected no job after cancel, got %p", job)
	case <-time.After(100 * time.Millisecond):
	}
}
