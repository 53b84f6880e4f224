// Websocket implementation using gobwas' low-level websocket library
package gobwas

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
	"github.com/ndk-sl4a/sl4a/jsonrpc2"
	wsframe "github.com/ndk-sl4a/sl4a/jsonrpc2/ws"
)

type readWriter struct {
	io.Reader
	io.Writer
}

// WebSocketDial returns a Codec that carries one line per text frame over a
// client-side websocket connection.
func WebSocketDial(ctx context.Context, url string) (jsonrpc2.Codec, error) {
	conn, br, _, err := ws.Dial(ctx, url)
	if err != nil {
		return nil, err
	}
	return clientWebSocketCodec(conn, br), nil
}

func clientWebSocketCodec(conn net.Conn, br *bufio.Reader) *wsCodec {
	codec := &wsCodec{
		conn:  conn,
		rw:    conn,
		read:  wsutil.ReadServerText,
		write: wsutil.WriteClientText,
	}
	if br != nil {
		// Frames that arrived together with the handshake response.
		codec.rw = readWriter{io.MultiReader(br, conn), conn}
	}
	return codec
}

// serverWebSocketCodec returns a server-side Codec over an upgraded connection.
func serverWebSocketCodec(conn net.Conn) *wsCodec {
	return &wsCodec{
		conn:  conn,
		rw:    conn,
		read:  wsutil.ReadClientText,
		write: wsutil.WriteServerText,
	}
}

var _ jsonrpc2.Codec = &wsCodec{}

type wsCodec struct {
	muWrite sync.Mutex
	conn    net.Conn
	rw      io.ReadWriter
	read    func(io.ReadWriter) ([]byte, error)
	write   func(io.Writer, []byte) error
}

func (codec *wsCodec) ReadMessage() ([]byte, error) {
	p, err := codec.read(codec.rw)
	if err != nil {
		var closed wsutil.ClosedError
		if errors.As(err, &closed) || err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, jsonrpc2.ErrConnectionClosed
		}
		return nil, err
	}
	return wsframe.Unframe(p), nil
}

func (codec *wsCodec) WriteMessage(msg []byte) error {
	codec.muWrite.Lock()
	defer codec.muWrite.Unlock()
	return codec.write(codec.conn, wsframe.Frame(msg))
}

func (codec *wsCodec) Close() error {
	return codec.conn.Close()
}

func (codec *wsCodec) SetDeadline(t time.Time) error {
	return codec.conn.SetDeadline(t)
}

var _ wsframe.Upgrader = &Upgrader{}

// Upgrader upgrades an HTTP request to a WebSocket request and returns the
// appropriate jsonrpc2 codec.
type Upgrader struct {
	Upgrader ws.HTTPUpgrader
}

func (u *Upgrader) Upgrade(r *http.Request, w http.ResponseWriter, h http.Header) (jsonrpc2.Codec, error) {
	// TODO: Pass h through once it's converted to a ws.HandshakeHeader.
	conn, _, _, err := u.Upgrader.Upgrade(r, w)
	if err != nil {
		return nil, err
	}
	return serverWebSocketCodec(conn), nil
}
