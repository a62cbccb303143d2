package kafka

import (
	"crypto/tls"
	"fmt"
	"net"
	"regexp"
	"time"

	"github.com/rcrowley/go-metrics"
)

// SASLMechanism names a SASL mechanism supported over the Kafka wire
// protocol's SaslHandshake/SaslAuthenticate APIs.
type SASLMechanism string

const (
	SASLTypePlaintext   SASLMechanism = "PLAIN"
	SASLTypeSCRAMSHA256 SASLMechanism = "SCRAM-SHA-256"
	SASLTypeSCRAMSHA512 SASLMechanism = "SCRAM-SHA-512"
	SASLTypeGSSAPI      SASLMechanism = "GSSAPI"
)

var validClientID = regexp.MustCompile(`\A[A-Za-z0-9._-]+\z`)

// Config gates every tunable of the client; the nested sections mirror the
// phases of a request's life: Net (dial and breaker), Metadata (topic
// discovery cadence), Admin, Producer, Consumer.
type Config struct {
	ClientID  string
	RackID    string
	ChannelBufferSize int
	Version   KafkaVersion
	MetricRegistry metrics.Registry

	Net struct {
		MaxOpenRequests int
		DialTimeout     time.Duration
		ReadTimeout     time.Duration
		WriteTimeout    time.Duration
		TLS             struct {
			Enable bool
			Config *tls.Config
		}
		SASL struct {
			Enable    bool
			Mechanism SASLMechanism
			Handshake bool
			User      string
			Password  string
			GSSAPI    struct {
				AuthType           int
				KeyTabPath         string
				KerberosConfigPath string
				ServiceName        string
				Username           string
				Password           string
				Realm              string
				DisablePAFXFAST    bool
			}
		}
		KeepAlive time.Duration
		LocalAddr net.Addr
	}

	Metadata struct {
		Retry struct {
			Max     int
			Backoff time.Duration
		}
		RefreshFrequency time.Duration
		Full             bool
		Timeout          time.Duration
		AllowAutoTopicCreation bool
	}

	Admin struct {
		Retry struct {
			Max     int
			Backoff time.Duration
		}
		Timeout time.Duration
	}

	Producer struct {
		MaxMessageBytes  int
		RequiredAcks     int16
		Timeout          time.Duration
		Compression      CompressionCodec
		CompressionLevel int
		Idempotent       bool
		Transaction      struct {
			ID        string
			Timeout   time.Duration
			Retry     struct {
				Max     int
				Backoff time.Duration
			}
		}
		Partitioner func(topic string) Partitioner
		Flush       struct {
			Bytes       int
			Messages    int
			Frequency   time.Duration
			MaxMessages int
		}
		Retry struct {
			Max     int
			Backoff time.Duration
		}
		Return struct {
			Successes bool
			Errors    bool
		}
	}

	Consumer struct {
		Group struct {
			Session struct {
				Timeout time.Duration
			}
			Heartbeat struct {
				Interval time.Duration
			}
			Rebalance struct {
				Strategy GroupBalanceStrategy
				Timeout  time.Duration
				Retry    struct {
					Max     int
					Backoff time.Duration
				}
			}
			InstanceId string
		}
		Retry struct {
			Backoff     time.Duration
			BackoffFunc func(retries int) time.Duration
		}
		Fetch struct {
			Min     int32
			Default int32
			Max     int32
		}
		MaxWaitTime       time.Duration
		MaxProcessingTime time.Duration
		Return            struct {
			Errors bool
		}
		Offsets struct {
			AutoCommit struct {
				Enable   bool
				Interval time.Duration
			}
			Initial   int64
			Retry     struct {
				Max int
			}
			Retention time.Duration
		}
		IsolationLevel int8
	}
}

// GroupBalanceStrategy assigns partitions to group members once JoinGroup
// has determined membership (§4.I); the standard "range" and
// "roundrobin" assignors both implement it.
type GroupBalanceStrategy interface {
	Name() string
	Plan(members map[string][]byte, topics map[string][]int32) (map[string]map[string][]int32, error)
}

// NewConfig returns a Config with sarama's conventional defaults: small
// bounded retries, autocommit enabled, acks=1, and no compression.
func NewConfig() *Config {
	c := &Config{}
	c.ClientID = "kafka-go"
	c.ChannelBufferSize = 256
	c.Version = V0_10_2_0
	c.MetricRegistry = metrics.NewRegistry()

	c.Net.MaxOpenRequests = 5
	c.Net.DialTimeout = 30 * time.Second
	c.Net.ReadTimeout = 30 * time.Second
	c.Net.WriteTimeout = 30 * time.Second
	c.Net.SASL.Handshake = true
	c.Net.KeepAlive = 0

	c.Metadata.Retry.Max = 3
	c.Metadata.Retry.Backoff = 250 * time.Millisecond
	c.Metadata.RefreshFrequency = 10 * time.Minute
	c.Metadata.Full = true
	c.Metadata.Timeout = 0

	c.Admin.Retry.Max = 5
	c.Admin.Retry.Backoff = 100 * time.Millisecond
	c.Admin.Timeout = 3 * time.Second

	c.Producer.MaxMessageBytes = 1000000
	c.Producer.RequiredAcks = 1
	c.Producer.Timeout = 10 * time.Second
	c.Producer.Partitioner = NewHashPartitioner
	c.Producer.Retry.Max = 3
	c.Producer.Retry.Backoff = 100 * time.Millisecond
	c.Producer.Return.Errors = true
	c.Producer.CompressionLevel = CompressionLevelDefault

	c.Consumer.Fetch.Min = 1
	c.Consumer.Fetch.Default = 1024 * 1024
	c.Consumer.MaxWaitTime = 500 * time.Millisecond
	c.Consumer.MaxProcessingTime = 100 * time.Millisecond
	c.Consumer.Return.Errors = false
	c.Consumer.Offsets.AutoCommit.Enable = true
	c.Consumer.Offsets.AutoCommit.Interval = time.Second
	c.Consumer.Offsets.Initial = OffsetNewest
	c.Consumer.Offsets.Retry.Max = 3
	c.Consumer.Group.Session.Timeout = 10 * time.Second
	c.Consumer.Group.Heartbeat.Interval = 3 * time.Second
	c.Consumer.Group.Rebalance.Strategy = BalanceStrategyRange
	c.Consumer.Group.Rebalance.Timeout = 60 * time.Second
	c.Consumer.Group.Rebalance.Retry.Max = 4
	c.Consumer.Group.Rebalance.Retry.Backoff = 2 * time.Second

	return c
}

// Validate enforces the configuration surface's invariants, catching
// mistakes (e.g. an idempotent producer without RequiredAcks=-1) before a
// client ever dials a broker.
func (c *Config) Validate() error {
	if c.Net.TLS.Enable && c.Net.TLS.Config == nil {
		return ConfigurationError("Net.TLS is enabled but no TLS.Config was provided")
	}
	if c.Net.SASL.Enable {
		switch c.Net.SASL.Mechanism {
		case "", SASLTypePlaintext, SASLTypeSCRAMSHA256, SASLTypeSCRAMSHA512, SASLTypeGSSAPI:
		default:
			return ConfigurationError(fmt.Sprintf("Net.SASL.Mechanism %q is not supported", c.Net.SASL.Mechanism))
		}
	}
	if c.Metadata.Retry.Max < 0 {
		return ConfigurationError("Metadata.Retry.Max must be >= 0")
	}
	if c.Producer.RequiredAcks < -1 {
		return ConfigurationError("Producer.RequiredAcks must be >= -1")
	}
	if c.Producer.Idempotent {
		if c.Producer.RequiredAcks != -1 {
			return ConfigurationError("Producer.Idempotent requires RequiredAcks=-1")
		}
		if c.Net.MaxOpenRequests > 1 {
			return ConfigurationError("Producer.Idempotent requires Net.MaxOpenRequests <= 1 to preserve ordering")
		}
	}
	if c.Consumer.Fetch.Min <= 0 {
		return ConfigurationError("Consumer.Fetch.Min must be > 0")
	}
	if c.Consumer.Fetch.Max < 0 {
		return ConfigurationError("Consumer.Fetch.Max must be >= 0")
	}
	if c.ChannelBufferSize < 0 {
		return ConfigurationError("ChannelBufferSize must be >= 0")
	}
	if c.ClientID != "" && !validClientID.MatchString(c.ClientID) {
		return ConfigurationError(fmt.Sprintf("ClientID %q is invalid", c.ClientID))
	}
	return nil
}
