package kafka

import (
	"bytes"
	"testing"
)

func testEncodable(t *testing.T, name string, in encoder, expect []byte) {
	t.Helper()
	packet, err := encode(in, nil)
	if err != nil {
		t.Errorf("Failed to encode %s: %s", name, err)
	} else if !bytes.Equal(packet, expect) {
		t.Errorf("Encoding %s failed\ngot  %#v\nwant %#v", name, packet, expect)
	}
}

func testDecodable(t *testing.T, name string, out decoder, in []byte) {
	t.Helper()
	err := decode(in, out, nil)
	if err != nil {
		t.Errorf("Failed to decode %s: %s", name, err)
	}
}

func testVersionDecodable(t *testing.T, name string, out versionedDecoder, in []byte, version int16) {
	t.Helper()
	err := versionedDecode(in, out, version, nil)
	if err != nil {
		t.Errorf("Failed to decode %s: %s", name, err)
	}
}

// testRequest encodes req, checks the body matches expect, then decodes it
// back into a fresh value of the same type and compares the key.
func testRequest(t *testing.T, name string, req protocolBody, expect []byte) {
	t.Helper()
	packet, err := encode(req, nil)
	if err != nil {
		t.Fatalf("Failed to encode request %s: %s", name, err)
	}
	if expect != nil && !bytes.Equal(packet, expect) {
		t.Errorf("Encoding request %s failed\ngot  %#v\nwant %#v", name, packet, expect)
	}
	decoded := allocateRequestBody(req.key(), req.version())
	if decoded == nil {
		t.Errorf("Failed to decode request %s back: unknown request key %d", name, req.key())
		return
	}
	if err := versionedDecode(packet, decoded, req.version(), nil); err != nil {
		t.Errorf("Failed to decode request %s back: %s", name, err)
		return
	}
	if decoded.key() != req.key() {
		t.Errorf("Decoded request %s key mismatch: got %d want %d", name, decoded.key(), req.key())
	}
}
