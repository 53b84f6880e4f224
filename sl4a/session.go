package sl4a

import (
	"context"
	"io"

	"github.com/ndk-sl4a/sl4a/jsonrpc2"
)

// Open connects to the SL4A server at hostname:port and returns a Session
// over the new connection.
func Open(ctx context.Context, hostname string, port int) (*Session, error) {
	conn, err := Connect(ctx, hostname, port)
	if err != nil {
		return nil, err
	}
	return NewSession(conn), nil
}

// NewSession returns a Session speaking newline-delimited JSON-RPC over rwc.
// The Session takes ownership of rwc.
func NewSession(rwc io.ReadWriteCloser) *Session {
	return NewCodecSession(jsonrpc2.LineCodec(rwc))
}

// NewCodecSession returns a Session over an established codec, such as a
// websocket codec.
func NewCodecSession(codec jsonrpc2.Codec) *Session {
	return &Session{
		remote: &jsonrpc2.Remote{
			Codec:  codec,
			Client: &jsonrpc2.Client{},
		},
	}
}

// Session is one logical conversation with an SL4A server. Request IDs start
// at 0 for every Session.
type Session struct {
	remote *jsonrpc2.Remote
}

// Call sends one request and returns the raw response line.
func (s *Session) Call(ctx context.Context, method string, params ...interface{}) (*jsonrpc2.Response, error) {
	return s.remote.Call(ctx, method, params...)
}

// Result sends one request and decodes the result into result.
func (s *Session) Result(ctx context.Context, result interface{}, method string, params ...interface{}) error {
	return s.remote.Result(ctx, result, method, params...)
}

// MakeToast shows a toast message on the device.
func (s *Session) MakeToast(ctx context.Context, message string) error {
	return s.Result(ctx, nil, "makeToast", message)
}

// Close closes the underlying connection.
func (s *Session) Close() error {
	return s.remote.Close()
}
