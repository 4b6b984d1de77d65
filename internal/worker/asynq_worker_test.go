package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/futbolprime-next/internal/queue"

	"github.com/hibiken/asynq"
)

type recordingDispatcher struct {
	payloads []queue.OrderPlacedPayload
	err      error
}

func (d *recordingDispatcher) DispatchOrderPlaced(_ context.Context, payload queue.OrderPlacedPayload) error {
	d.payloads = append(d.payloads, payload)
	return d.err
}

func newTestMux(dispatcher *recordingDispatcher) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	NewConsumer(dispatcher).Register(mux)
	return mux
}

func TestOrderPlacedTaskIsDispatched(t *testing.T) {
	dispatcher := &recordingDispatcher{}
	mux := newTestMux(dispatcher)

	payload := queue.OrderPlacedPayload{OrderID: 501, OrderNo: "ORD-501", UserID: 7, Total: 149970, ItemCount: 3}
	task, err := queue.NewOrderPlacedTask(payload)
	if err != nil {
		t.Fatalf("new task: %v", err)
	}
	if err := mux.ProcessTask(context.Background(), task); err != nil {
		t.Fatalf("process task: %v", err)
	}
	if len(dispatcher.payloads) != 1 || dispatcher.payloads[0] != payload {
		t.Fatalf("unexpected dispatched payloads: %+v", dispatcher.payloads)
	}
}

func TestOrderPlacedTaskWithoutOrderIsSkipped(t *testing.T) {
	dispatcher := &recordingDispatcher{}
	mux := newTestMux(dispatcher)

	task, _ := queue.NewOrderPlacedTask(queue.OrderPlacedPayload{UserID: 7})
	if err := mux.ProcessTask(context.Background(), task); err != nil {
		t.Fatalf("process task: %v", err)
	}
	if len(dispatcher.payloads) != 0 {
		t.Fatalf("payload without order id must be skipped")
	}
}

func TestOrderPlacedMalformedPayloadSkipsRetry(t *testing.T) {
	dispatcher := &recordingDispatcher{}
	mux := newTestMux(dispatcher)

	task := asynq.NewTask(queue.TaskCheckoutOrderPlaced, []byte("{not json"))
	err := mux.ProcessTask(context.Background(), task)
	if !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("want SkipRetry got %v", err)
	}
}

func TestOrderPlacedDispatchFailureIsRetried(t *testing.T) {
	dispatcher := &recordingDispatcher{err: errors.New("smtp down")}
	mux := newTestMux(dispatcher)

	task, _ := queue.NewOrderPlacedTask(queue.OrderPlacedPayload{OrderID: 1})
	err := mux.ProcessTask(context.Background(), task)
	if err == nil || errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("dispatch failure must be returned for retry, got %v", err)
	}
}

func TestNewServiceRequiresEnabledQueue(t *testing.T) {
	if _, err := NewService(nil, NewConsumer(nil)); err == nil {
		t.Fatalf("disabled queue must not build a worker")
	}
}
