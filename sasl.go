package kafka

import (
	"fmt"

	"github.com/xdg-go/scram"
)

// authenticateViaSASL dispatches to the configured mechanism; PLAIN and the
// two SCRAM variants run the SaslHandshake/SaslAuthenticate exchange
// in-process, GSSAPI delegates to sasl_gssapi.go's Kerberos AP-REQ flow.
func (b *Broker) authenticateViaSASL() error {
	switch b.conf.Net.SASL.Mechanism {
	case SASLTypeGSSAPI:
		return b.authenticateViaGSSAPI()
	case SASLTypeSCRAMSHA256:
		return b.authenticateViaSCRAM(scram.SHA256)
	case SASLTypeSCRAMSHA512:
		return b.authenticateViaSCRAM(scram.SHA512)
	default:
		return b.authenticateViaPlain()
	}
}

func (b *Broker) handshake(mechanism SASLMechanism) error {
	if !b.conf.Net.SASL.Handshake {
		return nil
	}
	req := &SaslHandshakeRequest{Mechanism: string(mechanism)}
	resp, err := b.sendWithResponse(b.conf.ClientID, req)
	if err != nil {
		return err
	}
	handshakeResp := resp.(*SaslHandshakeResponse)
	if handshakeResp.Err != ErrNoError {
		return handshakeResp.Err
	}
	return nil
}

func (b *Broker) saslAuthenticate(payload []byte) ([]byte, error) {
	req := &SaslAuthenticateRequest{SaslAuthBytes: payload}
	resp, err := b.sendWithResponse(b.conf.ClientID, req)
	if err != nil {
		return nil, err
	}
	authResp := resp.(*SaslAuthenticateResponse)
	if authResp.Err != ErrNoError {
		msg := authResp.Err.Error()
		if authResp.ErrorMessage != nil {
			msg = *authResp.ErrorMessage
		}
		return nil, fmt.Errorf("kafka: SASL authentication failed: %s", msg)
	}
	return authResp.SaslAuthBytes, nil
}

func (b *Broker) authenticateViaPlain() error {
	if err := b.handshake(SASLTypePlaintext); err != nil {
		return err
	}
	payload := []byte("\x00" + b.conf.Net.SASL.User + "\x00" + b.conf.Net.SASL.Password)
	_, err := b.saslAuthenticate(payload)
	return err
}

func (b *Broker) authenticateViaSCRAM(fn scram.HashGeneratorFcn) error {
	if err := b.handshake(b.conf.Net.SASL.Mechanism); err != nil {
		return err
	}

	client, err := fn.NewClient(b.conf.Net.SASL.User, b.conf.Net.SASL.Password, "")
	if err != nil {
		return err
	}
	conv := client.NewConversation()

	msg, err := conv.Step("")
	if err != nil {
		return err
	}
	for !conv.Done() {
		received, err := b.saslAuthenticate([]byte(msg))
		if err != nil {
			return err
		}
		msg, err = conv.Step(string(received))
		if err != nil {
			return err
		}
	}
	return nil
}
