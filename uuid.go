package kafka

import "github.com/google/uuid"

// KUUID is Kafka's 16-byte big-endian UUID primitive (§4.A), used for topic
// ids. It is a thin alias over google/uuid so callers get String()/Parse()
// for free while the wire encoding stays the plain 16 raw bytes Kafka uses
// (no dashes, no version-specific formatting).
type KUUID = uuid.UUID

// NilUUID is the all-zero UUID Kafka uses to mean "unknown" or "not yet assigned".
var NilUUID = uuid.UUID{}

func newRandomUUID() KUUID {
	id, err := uuid.NewRandom()
	if err != nil {
		return NilUUID
	}
	return id
}
