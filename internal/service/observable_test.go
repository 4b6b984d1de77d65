package service

import "testing"

func TestObservableSubscribeReceivesCurrentValue(t *testing.T) {
	obs := NewObservable(1)
	ch, cancel := obs.Subscribe()
	defer cancel()

	if got := <-ch; got != 1 {
		t.Fatalf("initial = %d, want 1", got)
	}
	obs.Set(2)
	if got := <-ch; got != 2 {
		t.Fatalf("next = %d, want 2", got)
	}
}

func TestObservableSlowSubscriberSeesLatest(t *testing.T) {
	obs := NewObservable(0)
	ch, cancel := obs.Subscribe()
	defer cancel()

	for i := 1; i <= 5; i++ {
		obs.Set(i)
	}
	if got := <-ch; got != 5 {
		t.Fatalf("latest = %d, want 5", got)
	}
	select {
	case v := <-ch:
		t.Fatalf("unexpected extra value %d", v)
	default:
	}
}

func TestObservableUpdateAndCancel(t *testing.T) {
	obs := NewObservable(10)
	ch, cancel := obs.Subscribe()
	if obs.Subscribers() != 1 {
		t.Fatalf("subscribers = %d", obs.Subscribers())
	}
	if got := obs.Update(func(v int) int { return v + 5 }); got != 15 {
		t.Fatalf("Update = %d", got)
	}
	cancel()
	cancel()
	if obs.Subscribers() != 0 {
		t.Fatalf("subscribers after cancel = %d", obs.Subscribers())
	}
	// 已缓冲的值仍可读，之后通道关闭
	if got := <-ch; got != 15 {
		t.Fatalf("buffered = %d", got)
	}
	if _, ok := <-ch; ok {
		t.Fatalf("channel should be closed")
	}
	obs.Set(20)
	if obs.Get() != 20 {
		t.Fatalf("Get = %d", obs.Get())
	}
}
