//go:build !functional

package kafka

import (
	"bytes"
	"testing"
	"time"
)

// roundTripMessage encodes m, decodes the result into a fresh Message, and
// returns it for the caller to assert against.
func roundTripMessage(t *testing.T, name string, m *Message) *Message {
	t.Helper()
	buf, err := encode(m, nil)
	if err != nil {
		t.Fatalf("%s: encode failed: %v", name, err)
	}
	out := &Message{Version: m.Version}
	if err := decode(buf, out, nil); err != nil {
		t.Fatalf("%s: decode failed: %v", name, err)
	}
	return out
}

func TestMessageEncodeDecodeRoundTrip(t *testing.T) {
	cases := []struct {
		name    string
		codec   CompressionCodec
		version int8
	}{
		{"v0 uncompressed", CompressionNone, 0},
		{"v0 gzip", CompressionGZIP, 0},
		{"v0 snappy", CompressionSnappy, 0},
		{"v1 lz4", CompressionLZ4, 1},
		{"v1 zstd", CompressionZSTD, 1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			in := &Message{
				Codec:   c.codec,
				Key:     []byte("order-42"),
				Value:   []byte("produce request payload"),
				Version: c.version,
			}
			if c.version >= 1 {
				in.Timestamp = time.Unix(1700000000, 0)
			}
			out := roundTripMessage(t, c.name, in)

			if out.Codec != c.codec {
				t.Errorf("codec = %v, want %v", out.Codec, c.codec)
			}
			if !bytes.Equal(out.Key, in.Key) {
				t.Errorf("key = %q, want %q", out.Key, in.Key)
			}
			if !bytes.Equal(out.Value, in.Value) {
				t.Errorf("value = %q, want %q", out.Value, in.Value)
			}
			if c.version >= 1 && !out.Timestamp.Equal(in.Timestamp) {
				t.Errorf("timestamp = %v, want %v", out.Timestamp, in.Timestamp)
			}
		})
	}
}

func TestMessageEncodeDecodeEmptyValue(t *testing.T) {
	in := &Message{Value: []byte{}}
	out := roundTripMessage(t, "empty value", in)
	if out.Key != nil {
		t.Errorf("key = %+v, want nil", out.Key)
	}
	if out.Value == nil || len(out.Value) != 0 {
		t.Errorf("value = %+v, want non-nil empty slice", out.Value)
	}
}

func TestMessageSetBulkRoundTrip(t *testing.T) {
	cases := []struct {
		name  string
		codec CompressionCodec
	}{
		{"bulk gzip", CompressionGZIP},
		{"bulk snappy", CompressionSnappy},
		{"bulk lz4", CompressionLZ4},
		{"bulk zstd", CompressionZSTD},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			set := &MessageSet{
				Messages: []*MessageBlock{
					{Offset: 0, Msg: &Message{Key: []byte("k0"), Value: []byte("partition leader epoch bump")}},
					{Offset: 1, Msg: &Message{Key: []byte("k1"), Value: []byte("isr shrink notification")}},
				},
			}
			setBytes, err := encode(set, nil)
			if err != nil {
				t.Fatalf("encode message set: %v", err)
			}

			wrapper := &Message{Codec: c.codec, Value: setBytes, Set: set}
			out := roundTripMessage(t, c.name, wrapper)

			if out.Codec != c.codec {
				t.Errorf("codec = %v, want %v", out.Codec, c.codec)
			}
			if out.Set == nil {
				t.Fatal("decoded message carried no message set")
			}
			if len(out.Set.Messages) != len(set.Messages) {
				t.Fatalf("got %d inner messages, want %d", len(out.Set.Messages), len(set.Messages))
			}
			for i, block := range out.Set.Messages {
				want := set.Messages[i].Msg.Value
				if !bytes.Equal(block.Msg.Value, want) {
					t.Errorf("inner message %d value = %q, want %q", i, block.Msg.Value, want)
				}
			}
		})
	}
}

// TestMessageDecodingUnknownMagicByte builds a real v1-encoded message then
// flips its magic byte past what this codec understands, asserting the
// decoder rejects it rather than silently misparsing a future wire format.
func TestMessageDecodingUnknownMagicByte(t *testing.T) {
	valid := &Message{Version: 1, Value: []byte("x")}
	buf, err := encode(valid, nil)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	// magic byte sits right after the 4-byte CRC field.
	buf[4] = 2

	out := &Message{Version: 2}
	err = decode(buf, out, nil)
	if err == nil {
		t.Fatal("decoding did not produce an error for an unsupported magic byte")
	}
	if err.Error() != "kafka: error decoding packet: unknown magic byte (2)" {
		t.Errorf("unexpected error for unsupported magic byte: %v", err)
	}
}

func TestCompressionCodecUnmarshal(t *testing.T) {
	cases := []struct {
		Input         string
		Expected      CompressionCodec
		ExpectedError bool
	}{
		{"none", CompressionNone, false},
		{"zstd", CompressionZSTD, false},
		{"gzip", CompressionGZIP, false},
		{"unknown", CompressionNone, true},
	}
	for _, c := range cases {
		var cc CompressionCodec
		err := cc.UnmarshalText([]byte(c.Input))
		if err != nil && !c.ExpectedError {
			t.Errorf("UnmarshalText(%q) error:\n%+v", c.Input, err)
			continue
		}
		if err == nil && c.ExpectedError {
			t.Errorf("UnmarshalText(%q) got %v but expected error", c.Input, cc)
			continue
		}
		if cc != c.Expected {
			t.Errorf("UnmarshalText(%q) got %v but expected %v", c.Input, cc, c.Expected)
			continue
		}
	}
}
