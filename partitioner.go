package kafka

import (
	"hash"
	"hash/fnv"
	"math/rand"
	"time"
)

// Partitioner decides which partition of a topic a message without an
// explicit partition should land on. A fresh Partitioner is constructed per
// topic via Config.Producer.Partitioner, mirroring sarama's convention of
// letting an assignor keep topic-scoped state (e.g. round-robin counters).
type Partitioner interface {
	Partition(message *ProducerMessage, numPartitions int32) (int32, error)
	RequiresConsistency() bool
}

// ProducerMessage is the unit the producer's partitioner and batch builder
// operate on before it becomes a Record inside a RecordBatch.
type ProducerMessage struct {
	Topic     string
	Key       Encoder
	Value     Encoder
	Headers   []RecordHeader
	Partition int32
	Offset    int64
	Timestamp time.Time

	sequence int32
	retries  int
}

// byteSize estimates the wire footprint of the message's key/value, used to
// decide when a brokerProducer's buffer has crossed Config.Producer.Flush.Bytes.
func (m *ProducerMessage) byteSize() int {
	size := recordOverhead
	if m.Key != nil {
		size += m.Key.Length()
	}
	if m.Value != nil {
		size += m.Value.Length()
	}
	for _, h := range m.Headers {
		size += len(h.Key) + len(h.Value)
	}
	return size
}

const recordOverhead = 26

// Encoder is anything a ProducerMessage's Key/Value can hold; encoding is
// deferred until the message is actually built into a Record.
type Encoder interface {
	Encode() ([]byte, error)
	Length() int
}

// ByteEncoder is the trivial Encoder wrapping an already-serialized value.
type ByteEncoder []byte

func (b ByteEncoder) Encode() ([]byte, error) { return b, nil }
func (b ByteEncoder) Length() int             { return len(b) }

// StringEncoder is the trivial Encoder wrapping a UTF-8 string.
type StringEncoder string

func (s StringEncoder) Encode() ([]byte, error) { return []byte(s), nil }
func (s StringEncoder) Length() int             { return len(s) }

type hashPartitioner struct {
	hasher hash.Hash32
	random Partitioner
}

// NewHashPartitioner returns the default partitioner: FNV-1a hash of the key
// modulo partition count, falling back to random placement for an unkeyed
// message, matching sarama's own default.
func NewHashPartitioner(topic string) Partitioner {
	return &hashPartitioner{
		hasher: fnv.New32a(),
		random: NewRandomPartitioner(topic),
	}
}

func (p *hashPartitioner) Partition(message *ProducerMessage, numPartitions int32) (int32, error) {
	if message.Key == nil {
		return p.random.Partition(message, numPartitions)
	}
	bytes, err := message.Key.Encode()
	if err != nil {
		return -1, err
	}
	p.hasher.Reset()
	if _, err := p.hasher.Write(bytes); err != nil {
		return -1, err
	}
	hash := int32(p.hasher.Sum32())
	if hash < 0 {
		hash = -hash
	}
	return hash % numPartitions, nil
}

func (p *hashPartitioner) RequiresConsistency() bool { return true }

type randomPartitioner struct{}

// NewRandomPartitioner picks a uniformly random partition for every message;
// used as the hash partitioner's fallback for unkeyed messages.
func NewRandomPartitioner(topic string) Partitioner { return new(randomPartitioner) }

func (p *randomPartitioner) Partition(message *ProducerMessage, numPartitions int32) (int32, error) {
	return int32(rand.Intn(int(numPartitions))), nil
}

func (p *randomPartitioner) RequiresConsistency() bool { return false }

type roundRobinPartitioner struct {
	partition int32
}

// NewRoundRobinPartitioner cycles through partitions in order, giving every
// partition an equal share regardless of key distribution.
func NewRoundRobinPartitioner(topic string) Partitioner { return &roundRobinPartitioner{partition: -1} }

func (p *roundRobinPartitioner) Partition(message *ProducerMessage, numPartitions int32) (int32, error) {
	p.partition = (p.partition + 1) % numPartitions
	return p.partition, nil
}

func (p *roundRobinPartitioner) RequiresConsistency() bool { return false }

// NewManualPartitioner places every message on its caller-set Partition, for
// producers that want full control over placement. No message is rejected: a
// message whose Partition was never set goes to partition 0.
func NewManualPartitioner(topic string) Partitioner { return new(manualPartitioner) }

type manualPartitioner struct{}

func (p *manualPartitioner) Partition(message *ProducerMessage, numPartitions int32) (int32, error) {
	return message.Partition, nil
}

func (p *manualPartitioner) RequiresConsistency() bool { return true }
