package jsonrpc2

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"net"
	"testing"
)

// lineServer answers each request line read from conn with reply(line) until
// the connection closes. Received lines are sent on the returned channel.
func lineServer(conn net.Conn, reply func(line []byte) []byte) <-chan []byte {
	received := make(chan []byte, 100)
	go func() {
		defer close(received)
		r := bufio.NewReader(conn)
		for {
			line, err := r.ReadBytes('\n')
			if err != nil {
				return
			}
			received <- line
			if _, err := conn.Write(reply(bytes.TrimSuffix(line, []byte("\n")))); err != nil {
				return
			}
		}
	}()
	return received
}

// echoID replies with the request id as both id and result.
func echoID(line []byte) []byte {
	var req struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(line, &req); err != nil {
		return []byte(fmt.Sprintf(`{"id":null,"result":null,"error":%q}`+"\n", err.Error()))
	}
	return []byte(fmt.Sprintf(`{"id":%d,"result":%d,"error":null}`+"\n", req.ID, req.ID))
}

func fixedReply(reply string) func([]byte) []byte {
	return func([]byte) []byte {
		return []byte(reply + "\n")
	}
}

func assertEqualJSON(t *testing.T, a, b interface{}, format string, args ...interface{}) {
	t.Helper()

	aa, err := json.Marshal(a)
	if err != nil {
		t.Fatal(err)
	}
	bb, err := json.Marshal(b)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(aa, bb) {
		prefix := fmt.Sprintf(format, args...)
		t.Errorf(prefix+"\n   got: %q\n  want: %q", aa, bb)
	}
}
