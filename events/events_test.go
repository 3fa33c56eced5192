package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockTopic struct {
	mock.Mock
}

func (m *mockTopic) PublishEvent(ctx context.Context, eventType, groupKey string, body []byte) (string, error) {
	args := m.Called(ctx, eventType, groupKey, body)
	return args.String(0), args.Error(1)
}

type failingSink struct{ calls int }

func (f *failingSink) Name() string { return "failing" }

func (f *failingSink) Send(context.Context, Message) error {
	f.calls++
	return errors.New("broker down")
}

type recordingSink struct {
	mu      sync.Mutex
	release chan struct{}
	types   []string
}

func (r *recordingSink) Name() string { return "recording" }

func (r *recordingSink) Send(ctx context.Context, msg Message) error {
	if r.release != nil {
		select {
		case <-r.release:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types = append(r.types, msg.EventType)
	return nil
}

func (r *recordingSink) received() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.types...)
}

func TestEmitter_PublishesToSNS(t *testing.T) {
	topic := new(mockTopic)
	var sent []byte
	topic.On("PublishEvent", mock.Anything, EventOrderOpened, "3", mock.Anything).
		Run(func(args mock.Arguments) { sent = args.Get(3).([]byte) }).
		Return("msg-1", nil).Once()

	e := NewEmitter(zap.NewNop(), NewSNSSink(topic))
	e.Emit(context.Background(), OrderEvent{EventType: EventOrderOpened, OrderID: 3, TableID: 1, MenuIDs: []int64{4, 5}})
	require.NoError(t, e.Close(context.Background()))

	topic.AssertExpectations(t)
	var decoded OrderEvent
	require.NoError(t, json.Unmarshal(sent, &decoded))
	assert.Equal(t, EventOrderOpened, decoded.EventType)
	assert.Equal(t, []int64{4, 5}, decoded.MenuIDs)
	assert.False(t, decoded.OccurredAt.IsZero())
}

func TestEmitter_SinkFailureDoesNotStopOthers(t *testing.T) {
	failing := &failingSink{}
	topic := new(mockTopic)
	topic.On("PublishEvent", mock.Anything, EventOrderClosed, "9", mock.Anything).Return("msg-2", nil).Once()

	e := NewEmitter(zap.NewNop(), failing, NewSNSSink(topic))
	e.Emit(context.Background(), OrderEvent{EventType: EventOrderClosed, OrderID: 9})
	require.NoError(t, e.Close(context.Background()))

	assert.Equal(t, 1, failing.calls)
	topic.AssertExpectations(t)
}

func TestEmitter_EmitDoesNotWaitForSinks(t *testing.T) {
	sink := &recordingSink{release: make(chan struct{})}
	e := NewEmitter(zap.NewNop(), sink)

	returned := make(chan struct{})
	go func() {
		e.Emit(context.Background(), OrderEvent{EventType: EventOrderOpened, OrderID: 1})
		close(returned)
	}()

	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("Emit blocked on a stalled sink")
	}
	assert.Empty(t, sink.received())

	close(sink.release)
	require.NoError(t, e.Close(context.Background()))
	assert.Equal(t, []string{EventOrderOpened}, sink.received())
}

func TestEmitter_DeliversInEmitOrder(t *testing.T) {
	sink := &recordingSink{}
	e := NewEmitter(zap.NewNop(), sink)

	e.Emit(context.Background(), OrderEvent{EventType: EventOrderOpened, OrderID: 1})
	e.Emit(context.Background(), OrderEvent{EventType: EventOrderItemsAdded, OrderID: 1})
	e.Emit(context.Background(), OrderEvent{EventType: EventOrderClosed, OrderID: 1})
	require.NoError(t, e.Close(context.Background()))

	assert.Equal(t, []string{EventOrderOpened, EventOrderItemsAdded, EventOrderClosed}, sink.received())
}

func TestEmitter_CloseHonorsContext(t *testing.T) {
	sink := &recordingSink{release: make(chan struct{})}
	e := NewEmitter(zap.NewNop(), sink)
	e.Emit(context.Background(), OrderEvent{EventType: EventOrderOpened, OrderID: 1})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, e.Close(ctx), context.DeadlineExceeded)

	close(sink.release)
	require.NoError(t, e.Close(context.Background()))
}

func TestEmitter_DropsAfterClose(t *testing.T) {
	sink := &recordingSink{}
	e := NewEmitter(zap.NewNop(), sink)
	require.NoError(t, e.Close(context.Background()))

	e.Emit(context.Background(), OrderEvent{EventType: EventOrderOpened, OrderID: 1})
	assert.Empty(t, sink.received())
}

func TestEmitter_DisabledIsNoop(t *testing.T) {
	var e *Emitter
	assert.False(t, e.Enabled())
	e.Emit(context.Background(), OrderEvent{EventType: EventOrderOpened})
	assert.NoError(t, e.Close(context.Background()))

	assert.False(t, NewEmitter(zap.NewNop()).Enabled())
}
