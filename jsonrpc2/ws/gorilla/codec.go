// Websocket implementation using Gorilla's Websocket library
package gorilla

import (
	"context"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/ndk-sl4a/sl4a/jsonrpc2"
	wsframe "github.com/ndk-sl4a/sl4a/jsonrpc2/ws"
)

// WebSocketDial returns a Codec that carries one line per text frame over a
// client-side websocket connection.
func WebSocketDial(ctx context.Context, url string) (jsonrpc2.Codec, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, err
	}

	return &wsCodec{conn: conn}, nil
}

var _ jsonrpc2.Codec = &wsCodec{}

type wsCodec struct {
	muWrite sync.Mutex
	muRead  sync.Mutex
	conn    *websocket.Conn
}

func (codec *wsCodec) ReadMessage() ([]byte, error) {
	codec.muRead.Lock()
	defer codec.muRead.Unlock()
	_, p, err := codec.conn.ReadMessage()
	if err != nil {
		if _, ok := err.(*websocket.CloseError); ok || err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, jsonrpc2.ErrConnectionClosed
		}
		return nil, err
	}
	return wsframe.Unframe(p), nil
}

func (codec *wsCodec) WriteMessage(msg []byte) error {
	codec.muWrite.Lock()
	defer codec.muWrite.Unlock()
	return codec.conn.WriteMessage(websocket.TextMessage, wsframe.Frame(msg))
}

func (codec *wsCodec) Close() error {
	return codec.conn.Close()
}

func (codec *wsCodec) SetDeadline(t time.Time) error {
	if err := codec.conn.SetReadDeadline(t); err != nil {
		return err
	}
	return codec.conn.SetWriteDeadline(t)
}

var _ wsframe.Upgrader = &Upgrader{}

// Upgrader upgrades an HTTP request to a WebSocket request and returns the
// appropriate jsonrpc2 codec.
type Upgrader struct {
	Upgrader websocket.Upgrader
}

func (u *Upgrader) Upgrade(r *http.Request, w http.ResponseWriter, h http.Header) (jsonrpc2.Codec, error) {
	conn, err := u.Upgrader.Upgrade(w, r, h)
	if err != nil {
		return nil, err
	}
	return &wsCodec{conn: conn}, nil
}
