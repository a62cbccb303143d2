package kafka

import (
	"time"
)

// Message is the legacy (pre-0.11, magic 0/1) message format. The producer
// only emits magic-2 record batches (record_batch.go); a fetched partition
// whose payload is a legacy message set is decoded into Messages, which the
// group consumer delivers and partitionConsumer.parseRecords skips.
// message_test.go round-trips the format, CRC included.
type Message struct {
	Codec     CompressionCodec // codec used to compress the message contents
	CompLevel int              // compression level
	Key       []byte           // the message key, may be nil
	Value     []byte           // the message contents
	Set       *MessageSet      // the message set a compressed message wraps, if any
	Version   int8             // v1 requires Kafka 0.10+
	Timestamp time.Time        // the timestamp of the message (v1+ only)

	compressedCache []byte
	compressedSize  int
}

func (m *Message) encode(pe packetEncoder) error {
	pe.push(&crc32Field{})

	pe.putInt8(m.Version)

	attributes := int8(m.Codec) & compressionCodecMask
	pe.putInt8(attributes)

	if m.Version >= 1 {
		timestamp := m.Timestamp
		if timestamp.IsZero() {
			timestamp = time.Unix(0, 0)
		}
		pe.putInt64(timestamp.UnixNano() / int64(time.Millisecond))
	}

	err := pe.putBytes(m.Key)
	if err != nil {
		return err
	}

	var payload []byte

	if m.compressedCache != nil {
		payload = m.compressedCache
		m.compressedCache = nil
	} else if m.Value != nil {
		switch m.Codec {
		case CompressionNone:
			payload = m.Value
		default:
			payload, err = compress(m.Codec, m.CompLevel, m.Value)
			if err != nil {
				return err
			}
			m.compressedCache = payload
		}
	}

	if err = pe.putBytes(payload); err != nil {
		return err
	}

	return pe.pop()
}

func (m *Message) decode(pd packetDecoder) (err error) {
	err = pd.push(&crc32Field{})
	if err != nil {
		return err
	}

	m.Version, err = pd.getInt8()
	if err != nil {
		return err
	}

	if m.Version > 1 {
		return PacketDecodingError{Info: "unknown magic byte (" + itoa(int(m.Version)) + ")"}
	}

	attribute, err := pd.getInt8()
	if err != nil {
		return err
	}
	m.Codec = CompressionCodec(attribute & compressionCodecMask)

	if m.Version == 1 {
		millis, err := pd.getInt64()
		if err != nil {
			return err
		}
		m.Timestamp = time.Unix(millis/1000, (millis%1000)*int64(time.Millisecond))
	}

	m.Key, err = pd.getBytes()
	if err != nil {
		return err
	}

	m.Value, err = pd.getBytes()
	if err != nil {
		return err
	}

	if m.Codec != CompressionNone && m.Value != nil {
		raw, err := decompress(m.Codec, m.Value)
		if err != nil {
			return err
		}
		if err := m.decodeSet(raw); err != nil {
			return err
		}
	}

	return pd.pop()
}

// decodeSet decodes a message set from a previously decompressed message's value.
func (m *Message) decodeSet(raw []byte) (err error) {
	pd := newRealDecoder(raw)
	m.Set = &MessageSet{}
	return m.Set.decode(pd)
}

// itoa avoids pulling in strconv solely for error strings in the hot decode path.
func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// MessageBlock is one (offset, Message) pair inside a legacy MessageSet.
type MessageBlock struct {
	Offset int64
	Msg    *Message
}

func (m *MessageBlock) encode(pe packetEncoder) error {
	pe.putInt64(m.Offset)
	pe.push(&lengthField{})
	err := m.Msg.encode(pe)
	if err != nil {
		return err
	}
	return pe.pop()
}

func (m *MessageBlock) decode(pd packetDecoder) (err error) {
	if m.Offset, err = pd.getInt64(); err != nil {
		return err
	}

	if err = pd.push(&lengthField{}); err != nil {
		return err
	}

	m.Msg = new(Message)
	if err = m.Msg.decode(pd); err != nil {
		return err
	}

	return pd.pop()
}

// MessageSet is a (possibly compressed) sequence of legacy messages.
type MessageSet struct {
	PartialTrailingMessage bool
	OverflowMessage        bool
	Messages               []*MessageBlock
}

func (ms *MessageSet) encode(pe packetEncoder) error {
	for i := range ms.Messages {
		err := ms.Messages[i].encode(pe)
		if err != nil {
			return err
		}
	}
	return nil
}

func (ms *MessageSet) decode(pd packetDecoder) (err error) {
	ms.Messages = nil

	for pd.remaining() > 0 {
		magic, err := pd.peekInt8(8 + 4 + 4)
		if err != nil {
			if pd.remaining() < 12 {
				ms.PartialTrailingMessage = true
				break
			}
			return err
		}
		if magic > 1 {
			return PacketDecodingError{Info: "unknown magic byte (" + itoa(int(magic)) + ")"}
		}

		msb := new(MessageBlock)
		err = msb.decode(pd)
		switch err {
		case nil:
			ms.Messages = append(ms.Messages, msb)
		case ErrInsufficientData:
			if pd.remaining() == 0 {
				ms.PartialTrailingMessage = true
			} else {
				ms.OverflowMessage = true
			}
			return nil
		default:
			return err
		}
	}

	return nil
}

func (ms *MessageSet) addMessage(msg *Message) {
	offset := int64(0)
	if len(ms.Messages) > 0 {
		offset = ms.Messages[len(ms.Messages)-1].Offset + 1
	}
	ms.Messages = append(ms.Messages, &MessageBlock{Msg: msg, Offset: offset})
}
