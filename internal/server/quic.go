package server

import (
	"bufio"
	"bytes"
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"io"
	"math/big"
	"net"
	"time"

	"github.com/pkg/errors"
	"github.com/quic-go/quic-go"

	"github.com/zeusync/polycollide/internal/core/observability/log"
	"github.com/zeusync/polycollide/pkg/generic"
)

const (
	transportQUIC = "quic"

	// ALPN is the application protocol negotiated on QUIC connections.
	ALPN = "polycollide"

	quicCodeClosed     quic.ApplicationErrorCode = 0
	quicCodeServerFull quic.ApplicationErrorCode = 1
)

// linePool holds the buffers frames are framed into before a stream write.
var linePool = generic.NewPool(func() *bytes.Buffer { return new(bytes.Buffer) }, (*bytes.Buffer).Reset)

func defaultQUICConfig() *quic.Config {
	return &quic.Config{
		MaxIdleTimeout:     30 * time.Second,
		MaxIncomingStreams: 4,
		KeepAlivePeriod:    15 * time.Second,
	}
}

func (s *Server) listenQUIC() error {
	if s.tlsConfig == nil {
		tlsConfig, err := generateTLSConfig()
		if err != nil {
			return err
		}
		s.tlsConfig = tlsConfig
	}

	ln, err := quic.ListenAddr(s.config.QUICAddr, s.tlsConfig, defaultQUICConfig())
	if err != nil {
		return errors.Wrapf(err, "listen quic on %s", s.config.QUICAddr)
	}
	s.quicListener = ln

	s.workerGroup.Add(1)
	go func() {
		defer s.workerGroup.Done()
		s.acceptQUIC(ln)
	}()

	s.logger.Info("QUIC listener started", log.String("quic_addr", ln.Addr().String()))
	return nil
}

func (s *Server) acceptQUIC(ln *quic.Listener) {
	s.logger.Debug("QUIC acceptor started")
	defer s.logger.Debug("QUIC acceptor stopped")

	for {
		conn, err := ln.Accept(context.Background())
		if err != nil {
			if errors.Is(err, quic.ErrServerClosed) {
				return
			}
			s.logger.Error("Failed to accept QUIC connection", log.Error(err))
			return
		}
		go s.handleQUIC(conn)
	}
}

// handleQUIC serves one connection. The renderer opens a single
// bidirectional stream and both sides exchange newline-delimited JSON.
func (s *Server) handleQUIC(conn *quic.Conn) {
	c := newClient(transportQUIC, s.config.SendBuffer)
	if err := s.register(c); err != nil {
		s.logger.Warn("Rejecting QUIC client",
			log.String("remote_addr", conn.RemoteAddr().String()),
			log.Error(err))
		_ = conn.CloseWithError(quicCodeServerFull, err.Error())
		return
	}
	defer s.unregister(c)
	c.setCloser(func() error { return conn.CloseWithError(quicCodeClosed, "closed") })

	stream, err := conn.AcceptStream(conn.Context())
	if err != nil {
		s.logger.Debug("QUIC stream not opened", log.String("client_id", c.id), log.Error(err))
		return
	}

	s.greet(c)
	go s.quicWritePump(stream, c)

	defer c.stop()
	scanner := bufio.NewScanner(stream)
	scanner.Buffer(make([]byte, 0, maxMessageSize), maxMessageSize)
	for scanner.Scan() {
		if len(scanner.Bytes()) == 0 {
			continue
		}
		s.handleInput(c, scanner.Bytes())
	}
	if err := scanner.Err(); err != nil {
		s.logger.Debug("QUIC read failed", log.String("client_id", c.id), log.Error(err))
	}
}

func (s *Server) quicWritePump(stream *quic.Stream, c *client) {
	for {
		select {
		case msg := <-c.send:
			_ = stream.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
			if err := writeLine(stream, msg); err != nil {
				s.logger.Debug("QUIC write failed", log.String("client_id", c.id), log.Error(err))
				c.stop()
				return
			}
		case <-c.done:
			return
		}
	}
}

// writeLine writes msg followed by a newline in a single stream write.
func writeLine(w io.Writer, msg []byte) error {
	buf := linePool.Get()
	defer linePool.Put(buf)

	buf.Write(msg)
	buf.WriteByte('\n')
	_, err := w.Write(buf.Bytes())
	return err
}

// generateTLSConfig creates a self-signed certificate for local renderers.
func generateTLSConfig() (*tls.Config, error) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, errors.Wrap(err, "generate key")
	}

	template := x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{Organization: []string{"polycollide"}},
		NotBefore:    time.Now(),
		NotAfter:     time.Now().Add(365 * 24 * time.Hour),
		KeyUsage:     x509.KeyUsageKeyEncipherment | x509.KeyUsageDigitalSignature,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		IPAddresses:  []net.IP{net.IPv4(127, 0, 0, 1), net.IPv6loopback},
		DNSNames:     []string{"localhost"},
	}

	certDER, err := x509.CreateCertificate(rand.Reader, &template, &template, &key.PublicKey, key)
	if err != nil {
		return nil, errors.Wrap(err, "create certificate")
	}

	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})
	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: certDER})

	cert, err := tls.X509KeyPair(certPEM, keyPEM)
	if err != nil {
		return nil, errors.Wrap(err, "load key pair")
	}

	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		NextProtos:   []string{ALPN},
		MinVersion:   tls.VersionTLS13,
	}, nil
}
