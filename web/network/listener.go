// Package network opens the listeners of the LOGI HTTP services. With a
// certificate configured the listener speaks TLS and answers plain HTTP
// requests on the same port with a redirect to https.
package network

import (
	"bufio"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/Sreehari-M-dev/LOGI-tests/config"
	"github.com/Sreehari-M-dev/LOGI-tests/logger"
)

// tlsHandshake is the first byte of every TLS record carrying a handshake.
const tlsHandshake = 0x16

// Listen opens the listener described by s. A certificate that cannot be
// loaded is logged and the service falls back to plain HTTP.
func Listen(name string, s config.ServerSettings) (net.Listener, error) {
	addr := net.JoinHostPort(s.Listen, strconv.Itoa(s.Port))
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	if s.CertFile == "" && s.KeyFile == "" {
		logger.Infof("%s running HTTP on %s", name, listener.Addr())
		return listener, nil
	}

	cert, err := tls.LoadX509KeyPair(s.CertFile, s.KeyFile)
	if err != nil {
		logger.Error("Error loading certificates:", err)
		logger.Infof("%s running HTTP on %s", name, listener.Addr())
		return listener, nil
	}

	cfg := &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}
	logger.Infof("%s running HTTPS on %s", name, listener.Addr())
	return tls.NewListener(&redirectListener{Listener: listener}, cfg), nil
}

type redirectListener struct {
	net.Listener
}

func (l *redirectListener) Accept() (net.Conn, error) {
	conn, err := l.Listener.Accept()
	if err != nil {
		return nil, err
	}
	return &sniffConn{Conn: conn, r: bufio.NewReader(conn)}, nil
}

// sniffConn looks at the first byte a client sends. Anything other than a
// TLS handshake is read as an HTTP request and answered with a redirect.
type sniffConn struct {
	net.Conn
	r *bufio.Reader

	once       sync.Once
	redirected bool
}

func (c *sniffConn) sniff() {
	_ = c.Conn.SetReadDeadline(time.Now().Add(10 * time.Second))
	defer c.Conn.SetReadDeadline(time.Time{})

	first, err := c.r.Peek(1)
	if err != nil || first[0] == tlsHandshake {
		return
	}

	c.redirected = true
	req, err := http.ReadRequest(c.r)
	if err != nil {
		_ = c.Conn.Close()
		return
	}
	resp := http.Response{
		StatusCode: http.StatusTemporaryRedirect,
		ProtoMajor: 1,
		ProtoMinor: 1,
		Header:     http.Header{},
	}
	resp.Header.Set("Location", fmt.Sprintf("https://%s%s", req.Host, req.RequestURI))
	resp.Header.Set("Connection", "close")
	_ = resp.Write(c.Conn)
	_ = c.Conn.Close()
}

func (c *sniffConn) Read(b []byte) (int, error) {
	c.once.Do(c.sniff)
	if c.redirected {
		return 0, io.EOF
	}
	return c.r.Read(b)
}
