package sl4a

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"
)

// ConnectErrorKind tells which step of Connect failed.
type ConnectErrorKind int

const (
	// ResolutionFailed means the hostname did not resolve to any address.
	ResolutionFailed ConnectErrorKind = iota + 1
	// ConnectFailed means no resolved address accepted a TCP connection.
	ConnectFailed
)

func (kind ConnectErrorKind) String() string {
	switch kind {
	case ResolutionFailed:
		return "resolution failed"
	case ConnectFailed:
		return "connect failed"
	}
	return "unknown"
}

// ConnectError is returned by Connect.
type ConnectError struct {
	Kind ConnectErrorKind
	Host string
	Port int
	Err  error
}

func (err *ConnectError) Error() string {
	return fmt.Sprintf("%s: %s: %s", err.Kind, net.JoinHostPort(err.Host, strconv.Itoa(err.Port)), err.Err)
}

func (err *ConnectError) Unwrap() error {
	return err.Err
}

var errNoAddress = errors.New("no such host")

// Connector opens TCP connections to an RPC server. The zero value blocks
// until the operating system gives up on a connection attempt.
type Connector struct {
	// Timeout bounds each connection attempt. Zero means no timeout.
	Timeout time.Duration
	// Resolver is used for hostname lookups, net.DefaultResolver if nil.
	Resolver *net.Resolver
}

// Connect resolves hostname and opens a TCP connection to the first resolved
// address that accepts one. The caller owns the returned connection.
func (c *Connector) Connect(ctx context.Context, hostname string, port int) (net.Conn, error) {
	if port < 0 || port > 65535 {
		return nil, &ConnectError{ConnectFailed, hostname, port, fmt.Errorf("invalid port %d", port)}
	}

	resolver := c.Resolver
	if resolver == nil {
		resolver = net.DefaultResolver
	}
	addrs, err := resolver.LookupHost(ctx, hostname)
	if err == nil && len(addrs) == 0 {
		err = errNoAddress
	}
	if err != nil {
		return nil, &ConnectError{ResolutionFailed, hostname, port, err}
	}

	dialer := net.Dialer{Timeout: c.Timeout}
	for _, addr := range addrs {
		target := net.JoinHostPort(addr, strconv.Itoa(port))
		logger.Printf("Connecting to %s (%s)", target, hostname)
		var conn net.Conn
		conn, err = dialer.DialContext(ctx, "tcp", target)
		if err == nil {
			return conn, nil
		}
		logger.Printf("Connection to %s failed: %s", target, err)
	}
	return nil, &ConnectError{ConnectFailed, hostname, port, err}
}

// Connect opens a TCP connection using a zero Connector.
func Connect(ctx context.Context, hostname string, port int) (net.Conn, error) {
	return (&Connector{}).Connect(ctx, hostname, port)
}
