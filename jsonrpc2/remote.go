package jsonrpc2

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/ndk-sl4a/sl4a/internal/pretty"
)

// ServePipe returns a Remote and the server end of an in-memory connection
// to it. Useful for testing.
func ServePipe() (*Remote, net.Conn) {
	c1, c2 := net.Pipe()
	return &Remote{
		Codec:  LineCodec(c1),
		Client: &Client{},
	}, c2
}

// Remote is a wrapper around a connection that sends calls and reads their
// responses. Calls are serialized: the next request is only written once the
// previous response line has been read.
type Remote struct {
	Codec
	Client *Client

	mu sync.Mutex
}

// Call sends a request and returns the matching response line. Omitting
// params sends [null]; pass NoParams... to send [].
//
// Without a deadline or cancellation on ctx, Call blocks until the peer
// answers or the connection fails. When ctx is done first and the codec
// supports deadlines, the blocked I/O is aborted and ctx.Err() is returned;
// the connection is unusable afterwards.
func (r *Remote) Call(ctx context.Context, method string, params ...interface{}) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Client == nil {
		r.Client = &Client{}
	}
	req, err := r.Client.Request(method, params...)
	if err != nil {
		return nil, err
	}
	line, err := req.Encode()
	if err != nil {
		return nil, err
	}

	stop := r.watch(ctx)
	defer stop()

	logger.Printf("Remote.Call(): -> %s", pretty.Abbrev(string(line), 200, 180))
	if err := r.Codec.WriteMessage(line); err != nil {
		return nil, ctxErr(ctx, err)
	}
	resp, err := r.Codec.ReadMessage()
	if err != nil {
		return nil, ctxErr(ctx, err)
	}
	logger.Printf("Remote.Call(): <- %s", pretty.Abbrev(string(resp), 200, 180))
	return ParseResponse(resp), nil
}

// Result calls method and decodes the result member into result. A non-null
// error member is returned as an *ErrResponse.
func (r *Remote) Result(ctx context.Context, result interface{}, method string, params ...interface{}) error {
	resp, err := r.Call(ctx, method, params...)
	if err != nil {
		return err
	}
	return resp.UnmarshalResult(result)
}

var aLongTimeAgo = time.Unix(1, 0)

// watch aborts the codec's blocked I/O once ctx is done, so that ctx.Err()
// is already set when the I/O error surfaces. The returned func must be
// called once the call is done.
func (r *Remote) watch(ctx context.Context) func() {
	d, ok := r.Codec.(deadliner)
	if !ok || ctx.Done() == nil {
		return func() {}
	}
	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		select {
		case <-ctx.Done():
			d.SetDeadline(aLongTimeAgo)
		case <-done:
		}
	}()
	return func() {
		close(done)
		wg.Wait()
		d.SetDeadline(time.Time{})
	}
}

// ctxErr prefers the context's error when the context ended the call.
func ctxErr(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return err
}
