package kafka

import (
	"crypto/tls"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/eapache/go-resiliency/breaker"
	metrics "github.com/rcrowley/go-metrics"
)

// Broker is a single connection to a Kafka broker (§4.C): it owns the TCP
// socket, the correlation-id sequence, the inflight request table, and a
// circuit breaker that trips once the connection starts failing so retries
// stop piling onto a dead socket.
type Broker struct {
	id   int32
	addr string
	conf *Config

	lock   sync.Mutex
	opened int32

	conn        net.Conn
	correlationID int32

	versions map[int16][2]int16 // apiKey -> [minVersion, maxVersion]; never filled, Open sends no ApiVersions request

	breaker *breaker.Breaker

	responses chan responseRequest
	done      chan struct{}

	registry metrics.Registry
}

type responseRequest struct {
	correlationID int32
	headerVersion int16
	body          protocolBody
	packets       chan []byte
	errors        chan error
}

// NewBroker constructs a Broker for the given address without dialing it;
// Open does the actual connect.
func NewBroker(addr string) *Broker {
	return &Broker{id: -1, addr: addr}
}

func (b *Broker) ID() int32 { return b.id }

func (b *Broker) Addr() string { return b.addr }

// Open dials the broker, completing a SASL handshake first when configured,
// matching sarama's Broker.Open.
func (b *Broker) Open(conf *Config) error {
	b.lock.Lock()
	defer b.lock.Unlock()

	if atomic.LoadInt32(&b.opened) == 1 {
		return ErrAlreadyConnected
	}

	if conf == nil {
		conf = NewConfig()
	}
	if err := conf.Validate(); err != nil {
		return err
	}
	b.conf = conf
	b.registry = conf.MetricRegistry
	b.breaker = breaker.New(3, 1, 10*time.Second)
	b.responses = make(chan responseRequest, conf.Net.MaxOpenRequests)
	b.done = make(chan struct{})

	dialer := net.Dialer{Timeout: conf.Net.DialTimeout, KeepAlive: conf.Net.KeepAlive, LocalAddr: conf.Net.LocalAddr}

	var conn net.Conn
	var err error
	if conf.Net.TLS.Enable {
		conn, err = tls.DialWithDialer(&dialer, "tcp", b.addr, conf.Net.TLS.Config)
	} else {
		conn, err = dialer.Dial("tcp", b.addr)
	}
	if err != nil {
		return err
	}
	b.conn = conn
	atomic.StoreInt32(&b.opened, 1)

	go b.responseReceiver()

	if conf.Net.SASL.Enable {
		if err := b.authenticateViaSASL(); err != nil {
			_ = b.Close()
			return err
		}
	}

	return nil
}

func (b *Broker) Connected() bool {
	return atomic.LoadInt32(&b.opened) == 1
}

// Close tears down the socket. Any requests still inflight fail with
// ErrClosedClient.
func (b *Broker) Close() error {
	b.lock.Lock()
	defer b.lock.Unlock()
	if atomic.LoadInt32(&b.opened) == 0 {
		return ErrNotConnected
	}
	close(b.done)
	err := b.conn.Close()
	atomic.StoreInt32(&b.opened, 0)
	return err
}

// responseReceiver reads length-prefixed response frames off the socket and
// dispatches each to the waiter registered under its correlation id.
func (b *Broker) responseReceiver() {
	pending := make(map[int32]responseRequest)
	for {
		select {
		case <-b.done:
			for _, p := range pending {
				p.errors <- ErrClosedClient
			}
			return
		case rr := <-b.responses:
			pending[rr.correlationID] = rr
			buf, err := b.readFullResponse()
			if err != nil {
				rr.errors <- err
				delete(pending, rr.correlationID)
				continue
			}
			var header responseHeader
			rd := newRealDecoder(buf)
			if err := header.decode(rd, rr.headerVersion); err != nil {
				rr.errors <- err
				delete(pending, rr.correlationID)
				continue
			}
			waiter, ok := pending[header.correlationID]
			if !ok {
				continue
			}
			if err := waiter.body.decode(rd, waiter.body.version()); err != nil {
				waiter.errors <- err
			} else {
				waiter.packets <- buf
			}
			delete(pending, header.correlationID)
		}
	}
}

func (b *Broker) readFullResponse() ([]byte, error) {
	sizeBytes := make([]byte, 4)
	if _, err := readFull(b.conn, sizeBytes); err != nil {
		return nil, err
	}
	size := int32(sizeBytes[0])<<24 | int32(sizeBytes[1])<<16 | int32(sizeBytes[2])<<8 | int32(sizeBytes[3])
	buf := make([]byte, size)
	if _, err := readFull(b.conn, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func readFull(conn net.Conn, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := conn.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// noResponse sends a request whose Acks the broker will not answer (acks=0
// produce); the write itself still goes through the breaker.
func (b *Broker) noResponse(clientID string, body protocolBody) error {
	_, err := b.sendAndReceive(clientID, body, false)
	return err
}

// sendWithResponse sends a request and blocks for its matching response.
func (b *Broker) sendWithResponse(clientID string, body protocolBody) (protocolBody, error) {
	return b.sendAndReceive(clientID, body, true)
}

func (b *Broker) sendAndReceive(clientID string, body protocolBody, wantResponse bool) (protocolBody, error) {
	if !b.Connected() {
		return nil, ErrNotConnected
	}

	api := apiName(body.key())
	correlationID := atomic.AddInt32(&b.correlationID, 1)
	if wantResponse {
		emitDiagnostic(DiagnosticStart, b.addr, api, correlationID, nil)
	} else {
		emitDiagnostic(DiagnosticAsyncStart, b.addr, api, correlationID, nil)
	}

	req := &Request{CorrelationID: correlationID, ClientID: clientID, Body: body}
	buf, err := encodeRequest(req, b.registry)
	if err != nil {
		if !wantResponse {
			emitDiagnostic(DiagnosticAsyncEnd, b.addr, api, correlationID, err)
		}
		emitDiagnostic(DiagnosticError, b.addr, api, correlationID, err)
		return nil, err
	}

	writeErr := b.breaker.Run(func() error {
		_ = b.conn.SetWriteDeadline(time.Now().Add(b.conf.Net.WriteTimeout))
		_, err := b.conn.Write(buf)
		return err
	})
	if writeErr != nil {
		if !wantResponse {
			emitDiagnostic(DiagnosticAsyncEnd, b.addr, api, correlationID, writeErr)
		}
		emitDiagnostic(DiagnosticError, b.addr, api, correlationID, writeErr)
		if writeErr == breaker.ErrBreakerOpen {
			return nil, ErrNotConnected
		}
		return nil, writeErr
	}

	if !wantResponse {
		emitDiagnostic(DiagnosticAsyncEnd, b.addr, api, correlationID, nil)
		return nil, nil
	}

	respBody := allocateResponseBody(body.key(), body.version())
	if respBody == nil {
		err := PacketDecodingError{Info: "unknown response type for request key"}
		emitDiagnostic(DiagnosticError, b.addr, api, correlationID, err)
		return nil, err
	}

	rr := responseRequest{
		correlationID: correlationID,
		headerVersion: respBody.headerVersion(),
		body:          respBody,
		packets:       make(chan []byte, 1),
		errors:        make(chan error, 1),
	}
	b.responses <- rr

	select {
	case <-rr.packets:
		return respBody, nil
	case err := <-rr.errors:
		emitDiagnostic(DiagnosticError, b.addr, api, correlationID, err)
		return nil, err
	}
}

// Fetch is a typed convenience wrapper around sendWithResponse for the
// consumer's hot path, which calls it once per broker per poll interval and
// benefits from not re-asserting the response type at every call site.
func (b *Broker) Fetch(req *FetchRequest) (*FetchResponse, error) {
	resp, err := b.sendWithResponse(b.conf.ClientID, req)
	if err != nil {
		return nil, err
	}
	return resp.(*FetchResponse), nil
}

// Produce is the producer's analogous hot-path wrapper; a nil response means
// the request was sent with RequiredAcks == NoResponse.
func (b *Broker) Produce(req *ProduceRequest) (*ProduceResponse, error) {
	if req.RequiredAcks == NoResponse {
		return nil, b.noResponse(b.conf.ClientID, req)
	}
	resp, err := b.sendWithResponse(b.conf.ClientID, req)
	if err != nil {
		return nil, err
	}
	return resp.(*ProduceResponse), nil
}

func (b *Broker) String() string { return fmt.Sprintf("broker(%d,%s)", b.id, b.addr) }
