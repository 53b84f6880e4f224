package ws

import (
	"bytes"
	"net/http"

	"github.com/ndk-sl4a/sl4a/jsonrpc2"
)

// Upgrader takes an HTTP request, upgrades it to a websocket server and
// returns a codec interface. This allows switching between different websocket
// implementations.
type Upgrader interface {
	Upgrade(*http.Request, http.ResponseWriter, http.Header) (jsonrpc2.Codec, error)
}

// Frame returns the payload of the text frame that carries msg: the line
// including its newline.
func Frame(msg []byte) []byte {
	p := make([]byte, 0, len(msg)+1)
	p = append(p, msg...)
	return append(p, '\n')
}

// Unframe returns the line carried by a frame payload. Peers that omit the
// trailing newline are tolerated.
func Unframe(p []byte) []byte {
	if i := bytes.IndexByte(p, '\n'); i >= 0 {
		return p[:i]
	}
	return p
}
