package kafka

import (
	"fmt"

	"github.com/jcmturner/gokrb5/v8/client"
	"github.com/jcmturner/gokrb5/v8/config"
	"github.com/jcmturner/gokrb5/v8/keytab"
	"github.com/jcmturner/gokrb5/v8/spnego"
)

const (
	gssapiAuthUserPass = iota
	gssapiAuthKeyTab
)

// authenticateViaGSSAPI runs the Kerberos v5 AP-REQ/AP-REP exchange over
// SaslAuthenticate: a client ticket is fetched from the realm's KDC (either
// from a keytab or a username/password) and wrapped into a SPNEGO token
// understood by the broker's JAAS GSSAPI login module.
func (b *Broker) authenticateViaGSSAPI() error {
	if err := b.handshake(SASLTypeGSSAPI); err != nil {
		return err
	}

	cfg := b.conf.Net.SASL.GSSAPI
	krbConf, err := config.Load(cfg.KerberosConfigPath)
	if err != nil {
		return err
	}

	var cl *client.Client
	switch cfg.AuthType {
	case gssapiAuthKeyTab:
		kt, err := keytab.Load(cfg.KeyTabPath)
		if err != nil {
			return err
		}
		cl = client.NewWithKeytab(cfg.Username, cfg.Realm, kt, krbConf, client.DisablePAFXFAST(cfg.DisablePAFXFAST))
	default:
		cl = client.NewWithPassword(cfg.Username, cfg.Realm, cfg.Password, krbConf, client.DisablePAFXFAST(cfg.DisablePAFXFAST))
	}

	if err := cl.Login(); err != nil {
		return err
	}
	defer cl.Destroy()

	spnegoClient := spnego.SPNEGOClient(cl, cfg.ServiceName)
	token, err := spnegoClient.InitSecContext()
	if err != nil {
		return fmt.Errorf("kafka: failed to build SPNEGO token: %w", err)
	}
	tokenBytes, err := token.Marshal()
	if err != nil {
		return err
	}

	_, err = b.saslAuthenticate(tokenBytes)
	return err
}
