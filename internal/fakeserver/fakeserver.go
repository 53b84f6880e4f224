package fakeserver

import (
	"bufio"
	"net"
	"sync"
)

// Reply returns the same line for every request.
func Reply(line string) func(req []byte) []byte {
	return func([]byte) []byte {
		return []byte(line)
	}
}

// Start listens on a free localhost port and answers every request line with
// reply(line) followed by a newline.
func Start(reply func(req []byte) []byte) (*FakeServer, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, err
	}
	s := &FakeServer{
		reply:    reply,
		listener: listener,
		conns:    map[net.Conn]struct{}{},
	}
	s.wg.Add(1)
	go s.serve()
	return s, nil
}

// FakeServer is a stand-in for the SL4A RPC server. It records every line it
// receives, including the trailing newline.
type FakeServer struct {
	reply    func(req []byte) []byte
	listener net.Listener
	wg       sync.WaitGroup

	mu       sync.Mutex
	received []string
	conns    map[net.Conn]struct{}
	closed   bool
}

// Port is the TCP port the server listens on.
func (s *FakeServer) Port() int {
	return s.listener.Addr().(*net.TCPAddr).Port
}

// Received returns the lines received so far, in order.
func (s *FakeServer) Received() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.received...)
}

// Close stops listening and drops all open connections.
func (s *FakeServer) Close() error {
	err := s.listener.Close()
	s.mu.Lock()
	s.closed = true
	for conn := range s.conns {
		conn.Close()
	}
	s.mu.Unlock()
	s.wg.Wait()
	return err
}

func (s *FakeServer) serve() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return
		}
		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			conn.Close()
			return
		}
		s.conns[conn] = struct{}{}
		s.mu.Unlock()

		s.wg.Add(1)
		go s.handle(conn)
	}
}

func (s *FakeServer) handle(conn net.Conn) {
	defer s.wg.Done()
	defer func() {
		conn.Close()
		s.mu.Lock()
		delete(s.conns, conn)
		s.mu.Unlock()
	}()

	r := bufio.NewReader(conn)
	for {
		line, err := r.ReadBytes('\n')
		if err != nil {
			return
		}
		s.mu.Lock()
		s.received = append(s.received, string(line))
		s.mu.Unlock()

		resp := append(s.reply(line[:len(line)-1]), '\n')
		if _, err := conn.Write(resp); err != nil {
			return
		}
	}
}
