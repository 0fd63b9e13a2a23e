package fabric

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goodness-exchange/gx-protocol-backend-sub010/pkg/mlog"

	"github.com/hyperledger/fabric-gateway/pkg/client"
	"github.com/hyperledger/fabric-gateway/pkg/identity"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
)

// TLSConfig holds the transport security material for one endpoint.
type TLSConfig struct {
	Enabled            bool
	CertPath           string
	KeyPath            string
	CACertPath         string
	ServerNameOverride string
}

// FabricConnection is a hub which deal with fabric gateway connections.
// One instance per process; Connect is idempotent.
type FabricConnection struct {
	Network         string
	Channel         string
	Chaincode       string
	MSPID           string
	IdentityLabel   string
	WalletDir       string
	PeerEndpoint    string
	OrdererEndpoint string
	TLS             TLSConfig
	EndorseTimeout  time.Duration
	SubmitTimeout   time.Duration

	Connected bool
	Logger    mlog.Logger

	grpcConn *grpc.ClientConn
	gateway  *client.Gateway
	network  *client.Network
	contract *client.Contract
}

// Connect loads the wallet identity for the configured network, opens the
// gRPC channel to the peer with mTLS and verifies liveness with a metadata
// query. Safe to call twice; the second call is a no-op.
func (fc *FabricConnection) Connect(ctx context.Context) error {
	if fc.Connected {
		return nil
	}

	fc.Logger.Infof("Connecting to fabric network (%s)...", fc.Network)

	id, signer, err := fc.loadWalletIdentity()
	if err != nil {
		return ConnectError{Network: fc.Network, Err: err}
	}

	conn, err := fc.dialPeer()
	if err != nil {
		return ConnectError{Network: fc.Network, Err: err}
	}

	gw, err := client.Connect(
		id,
		client.WithSign(signer),
		client.WithClientConnection(conn),
		client.WithEvaluateTimeout(fc.EndorseTimeout),
		client.WithEndorseTimeout(fc.EndorseTimeout),
		client.WithSubmitTimeout(fc.SubmitTimeout),
		client.WithCommitStatusTimeout(fc.SubmitTimeout),
	)
	if err != nil {
		_ = conn.Close()

		return ConnectError{Network: fc.Network, Err: err}
	}

	network := gw.GetNetwork(fc.Channel)
	contract := network.GetContract(fc.Chaincode)

	// Lightweight liveness probe before declaring the connection healthy.
	// The evaluate timeout set above bounds it.
	if _, err := contract.Evaluate("org.hyperledger.fabric:GetMetadata"); err != nil {
		fc.Logger.Warnf("fabric liveness probe failed: %v", err)

		_ = gw.Close()
		_ = conn.Close()

		return ConnectError{Network: fc.Network, Err: err}
	}

	fc.Logger.Info("Connected to fabric ✅ ")

	fc.Connected = true
	fc.grpcConn = conn
	fc.gateway = gw
	fc.network = network
	fc.contract = contract

	return nil
}

// Disconnect closes the gateway and the underlying gRPC channel.
func (fc *FabricConnection) Disconnect() {
	if fc.gateway != nil {
		_ = fc.gateway.Close()
	}

	if fc.grpcConn != nil {
		_ = fc.grpcConn.Close()
	}

	fc.Connected = false
	fc.gateway = nil
	fc.grpcConn = nil
	fc.network = nil
	fc.contract = nil
}

// GetContract returns the connected contract, connecting first if necessary.
func (fc *FabricConnection) GetContract(ctx context.Context) (*client.Contract, error) {
	if !fc.Connected {
		if err := fc.Connect(ctx); err != nil {
			fc.Logger.Infof("ERRCONECT %s", err)

			return nil, err
		}
	}

	return fc.contract, nil
}

// GetNetwork returns the connected channel, connecting first if necessary.
func (fc *FabricConnection) GetNetwork(ctx context.Context) (*client.Network, error) {
	if !fc.Connected {
		if err := fc.Connect(ctx); err != nil {
			fc.Logger.Infof("ERRCONECT %s", err)

			return nil, err
		}
	}

	return fc.network, nil
}

// loadWalletIdentity reads the X.509 identity from the per-network wallet
// directory. Private key material never leaves this method except as a signer.
func (fc *FabricConnection) loadWalletIdentity() (*identity.X509Identity, identity.Sign, error) {
	identityDir := filepath.Join(fc.WalletDir, fc.Network, fc.IdentityLabel)

	certPEM, err := os.ReadFile(filepath.Join(identityDir, "cert.pem"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read wallet certificate: %w", err)
	}

	cert, err := parseX509Certificate(certPEM)
	if err != nil {
		return nil, nil, err
	}

	id, err := identity.NewX509Identity(fc.MSPID, cert)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create identity: %w", err)
	}

	keyPEM, err := os.ReadFile(filepath.Join(identityDir, "key.pem"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read wallet private key: %w", err)
	}

	pk, err := identity.PrivateKeyFromPEM(keyPEM)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse wallet private key: %w", err)
	}

	signer, err := identity.NewPrivateKeySign(pk)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create signer: %w", err)
	}

	return id, signer, nil
}

// dialPeer opens the gRPC channel to the peer. When TLS is on, the CA cert is
// pinned and ServerNameOverride is applied as the target authority so that
// internal DNS names keep matching externally issued certificates.
func (fc *FabricConnection) dialPeer() (*grpc.ClientConn, error) {
	if !fc.TLS.Enabled {
		return grpc.NewClient(fc.PeerEndpoint, grpc.WithTransportCredentials(insecure.NewCredentials()))
	}

	caPEM, err := os.ReadFile(fc.TLS.CACertPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read TLS CA cert: %w", err)
	}

	certPool := x509.NewCertPool()
	if !certPool.AppendCertsFromPEM(caPEM) {
		return nil, errors.New("failed to add TLS CA cert to pool")
	}

	tlsConfig := &tls.Config{RootCAs: certPool, ServerName: fc.TLS.ServerNameOverride}

	if fc.TLS.CertPath != "" && fc.TLS.KeyPath != "" {
		clientCert, err := tls.LoadX509KeyPair(fc.TLS.CertPath, fc.TLS.KeyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load TLS client key pair: %w", err)
		}

		tlsConfig.Certificates = []tls.Certificate{clientCert}
	}

	transportCreds := credentials.NewTLS(tlsConfig)

	opts := []grpc.DialOption{grpc.WithTransportCredentials(transportCreds)}
	if fc.TLS.ServerNameOverride != "" {
		opts = append(opts, grpc.WithAuthority(fc.TLS.ServerNameOverride))
	}

	return grpc.NewClient(fc.PeerEndpoint, opts...)
}

func parseX509Certificate(contents []byte) (*x509.Certificate, error) {
	if len(contents) == 0 {
		return nil, errors.New("certificate pem is empty")
	}

	block, _ := pem.Decode(contents)
	if block == nil {
		return nil, errors.New("failed to decode PEM block")
	}

	crt, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return nil, err
	}

	return crt, nil
}
