package jsonrpc2

import (
	"bufio"
	"errors"
	"io"
	"sync"
	"time"
)

// Codec is an abstraction for receiving and sending JSONRPC messages. A
// message is one request or response line without its newline.
type Codec interface {
	ReadMessage() ([]byte, error)
	WriteMessage([]byte) error
	Close() error
}

var errDeadlineUnsupported = errors.New("stream does not support deadlines")

// deadliner is implemented by codecs whose blocking I/O can be interrupted,
// usually because they wrap a net.Conn.
type deadliner interface {
	SetDeadline(t time.Time) error
}

var _ Codec = &lineCodec{}

// LineCodec returns a Codec that frames messages as '\n'-terminated lines
// over rwc. Reads are buffered: bytes after a newline are kept for the next
// ReadMessage and never waited for.
func LineCodec(rwc io.ReadWriteCloser) *lineCodec {
	return &lineCodec{
		rwc: rwc,
		r:   bufio.NewReader(rwc),
	}
}

type lineCodec struct {
	muWrite sync.Mutex
	rwc     io.ReadWriteCloser
	r       *bufio.Reader
}

func (codec *lineCodec) ReadMessage() ([]byte, error) {
	line, err := codec.r.ReadBytes('\n')
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		if len(line) > 0 {
			logger.Printf("lineCodec.ReadMessage(): discarding %d bytes of partial line", len(line))
		}
		return nil, ErrConnectionClosed
	}
	if err != nil {
		return nil, err
	}
	return line[:len(line)-1], nil
}

// WriteMessage writes msg and the terminating newline in a single write.
func (codec *lineCodec) WriteMessage(msg []byte) error {
	buf := make([]byte, 0, len(msg)+1)
	buf = append(buf, msg...)
	buf = append(buf, '\n')

	codec.muWrite.Lock()
	defer codec.muWrite.Unlock()
	_, err := codec.rwc.Write(buf)
	return err
}

func (codec *lineCodec) Close() error {
	return codec.rwc.Close()
}

// SetDeadline forwards to the underlying stream when it supports deadlines.
func (codec *lineCodec) SetDeadline(t time.Time) error {
	if d, ok := codec.rwc.(deadliner); ok {
		return d.SetDeadline(t)
	}
	return errDeadlineUnsupported
}
