package kafka

import (
	"testing"

	"github.com/eapache/queue"
)

func TestBrokerProducerEnqueuePreservesFIFOOrder(t *testing.T) {
	bp := &brokerProducer{buffer: make(map[string]map[int32]*queue.Queue)}

	msgs := []*ProducerMessage{
		{Topic: "orders", Partition: 0, Value: StringEncoder("a")},
		{Topic: "orders", Partition: 0, Value: StringEncoder("b")},
		{Topic: "orders", Partition: 1, Value: StringEncoder("c")},
		{Topic: "orders", Partition: 0, Value: StringEncoder("d")},
	}
	for _, m := range msgs {
		bp.enqueue(m)
	}

	if bp.bufferCount != len(msgs) {
		t.Fatalf("bufferCount = %d, want %d", bp.bufferCount, len(msgs))
	}

	p0 := drainQueue(bp.buffer["orders"][0])
	if len(p0) != 3 {
		t.Fatalf("partition 0 got %d messages, want 3", len(p0))
	}
	wantOrder := []string{"a", "b", "d"}
	for i, m := range p0 {
		v, _ := m.Value.Encode()
		if string(v) != wantOrder[i] {
			t.Errorf("partition 0 message %d = %q, want %q", i, v, wantOrder[i])
		}
	}

	p1 := drainQueue(bp.buffer["orders"][1])
	if len(p1) != 1 {
		t.Fatalf("partition 1 got %d messages, want 1", len(p1))
	}
}
