package kafka

import "fmt"

func init() {
	registerAPI(apiKeyDeleteTopics, "DeleteTopics", 0, 3,
		func() protocolBody { return &DeleteTopicsRequest{} },
		func() protocolBody { return &DeleteTopicsResponse{} })
}

// DeleteTopicsResponse reports, per topic, whether ClusterAdmin.DeleteTopic's
// marking for deletion succeeded; clusterAdmin.DeleteTopic looks its single
// requested topic up in TopicErrorCodes and returns that KError directly.
type DeleteTopicsResponse struct {
	Version         int16
	ThrottleTimeMs  int32
	TopicErrorCodes map[string]KError
}

func (d *DeleteTopicsResponse) setVersion(v int16) {
	d.Version = v
}

func (d *DeleteTopicsResponse) encode(pe packetEncoder) error {
	if d.Version >= 1 {
		pe.putInt32(d.ThrottleTimeMs)
	}

	if err := pe.putArrayLength(len(d.TopicErrorCodes)); err != nil {
		return err
	}
	for topic, errorCode := range d.TopicErrorCodes {
		if err := pe.putString(topic); err != nil {
			return err
		}
		pe.putInt16(int16(errorCode))
	}

	return nil
}

func (d *DeleteTopicsResponse) decode(pd packetDecoder, version int16) (err error) {
	d.Version = version
	if version >= 1 {
		if d.ThrottleTimeMs, err = pd.getInt32(); err != nil {
			return err
		}
	}

	n, err := pd.getArrayLength()
	if err != nil {
		return err
	}

	d.TopicErrorCodes = make(map[string]KError, n)

	for i := 0; i < n; i++ {
		topic, err := pd.getString()
		if err != nil {
			return err
		}
		errorCode, err := pd.getInt16()
		if err != nil {
			return err
		}

		d.TopicErrorCodes[topic] = KError(errorCode)
	}

	return nil
}

func (d *DeleteTopicsResponse) key() int16 {
	return apiKeyDeleteTopics
}

func (d *DeleteTopicsResponse) version() int16 {
	return d.Version
}

func (d *DeleteTopicsResponse) headerVersion() int16 {
	return 0
}

func (d *DeleteTopicsResponse) isValidVersion() bool {
	return d.Version >= 0 && d.Version <= 3
}

func (d *DeleteTopicsResponse) requiredVersion() KafkaVersion {
	switch d.Version {
	case 3:
		return V2_1_0_0
	case 2:
		return V2_0_0_0
	case 1:
		return V0_11_0_0
	case 0:
		return V0_10_1_0
	default:
		return V2_2_0_0
	}
}

func (d *DeleteTopicsResponse) throttleTime() int32 {
	return d.ThrottleTimeMs
}

// Errors folds every non-ErrNoError entry in TopicErrorCodes into a single
// aggregate, for callers that delete several topics in one request and want
// one error back instead of walking the map themselves.
func (d *DeleteTopicsResponse) Errors() error {
	var errs []error
	for topic, kerr := range d.TopicErrorCodes {
		if kerr != ErrNoError {
			errs = append(errs, fmt.Errorf("%s: %w", topic, kerr))
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return Wrap(ErrDeleteTopics, errs...)
}
