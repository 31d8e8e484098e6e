package listener

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fekuna/omnipos-admin-console/internal/logger"
	"github.com/fekuna/omnipos-admin-console/internal/model"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// chanReader feeds messages from a channel and blocks until ctx is done
// once it is drained.
type chanReader struct {
	msgs chan kafka.Message
	errs chan error
}

func newChanReader() *chanReader {
	return &chanReader{msgs: make(chan kafka.Message, 8), errs: make(chan error, 8)}
}

func (r *chanReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	select {
	case <-ctx.Done():
		return kafka.Message{}, ctx.Err()
	case err := <-r.errs:
		return kafka.Message{}, err
	case m := <-r.msgs:
		return m, nil
	}
}

// fakeOrders gains one processing order per refresh.
type fakeOrders struct {
	mu        sync.Mutex
	refreshes int
	err       error
	done      chan struct{}
}

func (f *fakeOrders) Refresh(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.refreshes++
	return nil
}

func (f *fakeOrders) ByStatus() map[model.OrderStatus][]model.Order {
	f.mu.Lock()
	out := map[model.OrderStatus][]model.Order{
		model.StatusProcessing: make([]model.Order, f.refreshes),
		model.StatusCancelled:  {},
	}
	f.mu.Unlock()
	if f.done != nil {
		f.done <- struct{}{}
	}
	return out
}

type recorder struct {
	mu     sync.Mutex
	events []string
	counts map[string]int
}

func (c *recorder) OrderEvent(t string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, t)
}

func (c *recorder) OrdersByStatus(status string, n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.counts == nil {
		c.counts = map[string]int{}
	}
	c.counts[status] = n
}

func event(t *testing.T, eventType, id string) kafka.Message {
	t.Helper()
	b, err := json.Marshal(OrderEvent{EventID: "evt-" + id, EventType: eventType, Payload: OrderPayload{ID: id}})
	require.NoError(t, err)
	return kafka.Message{Value: b}
}

func TestOrderListener(t *testing.T) {
	reader := newChanReader()
	orders := &fakeOrders{done: make(chan struct{}, 8)}
	cnt := &recorder{}
	l := NewOrderListener(reader, orders, cnt, logger.NewNop())
	l.backoff = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		l.Start(ctx)
		close(stopped)
	}()

	reader.msgs <- kafka.Message{Value: []byte("not json")}
	reader.msgs <- event(t, "PaymentCaptured", "ord_0")
	reader.errs <- errors.New("broker unavailable")
	reader.msgs <- event(t, EventOrderCreated, "ord_1")
	reader.msgs <- event(t, EventOrderCancelled, "ord_2")

	for i := 0; i < 2; i++ {
		select {
		case <-orders.done:
		case <-time.After(2 * time.Second):
			t.Fatal("order list was not refreshed")
		}
	}

	cancel()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("listener did not stop")
	}

	assert.Equal(t, 2, orders.refreshes)
	assert.Equal(t, []string{EventOrderCreated, EventOrderCancelled}, cnt.events)
	assert.Equal(t, map[string]int{"processing": 2, "cancelled": 0}, cnt.counts)
}

func TestSyncPublishesCounts(t *testing.T) {
	orders := &fakeOrders{}
	rec := &recorder{}
	l := NewOrderListener(newChanReader(), orders, rec, logger.NewNop())

	require.NoError(t, l.Sync(context.Background()))
	assert.Equal(t, map[string]int{"processing": 1, "cancelled": 0}, rec.counts)

	// a failed reload keeps the last published counts
	orders.err = errors.New("backend down")
	assert.Error(t, l.Sync(context.Background()))
	assert.Equal(t, map[string]int{"processing": 1, "cancelled": 0}, rec.counts)
	assert.Empty(t, rec.events)
}
