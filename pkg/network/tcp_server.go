package network

import (
	"context"
	"errors"
	"io"
	"net"
	"sync"

	"fakenode/pkg/common"
	"fakenode/pkg/log"
	"fakenode/pkg/monitor"
	"fakenode/pkg/protocol"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "fakenode/network"

type TCPServer struct {
	svc    protocol.Service
	stats  *monitor.CallStats
	tracer trace.Tracer
	// serial is held around every dispatch: the node's fixture and scanner
	// state is unsynchronized.
	serial sync.Locker

	mu       sync.Mutex
	listener net.Listener
	conns    map[net.Conn]struct{}
	closed   bool
	wg       sync.WaitGroup
}

type Option func(*TCPServer)

func WithStats(cs *monitor.CallStats) Option {
	return func(s *TCPServer) {
		s.stats = cs
	}
}

func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *TCPServer) {
		s.tracer = tp.Tracer(tracerName)
	}
}

// WithLocker shares the dispatch lock with other front ends serving the same
// node.
func WithLocker(l sync.Locker) Option {
	return func(s *TCPServer) {
		s.serial = l
	}
}

func NewTCPServer(svc protocol.Service, opts ...Option) *TCPServer {
	s := &TCPServer{
		svc:    svc,
		stats:  monitor.NewCallStats(),
		tracer: otel.Tracer(tracerName),
		serial: &sync.Mutex{},
		conns:  make(map[net.Conn]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start listens on addr and serves until Close.
func (s *TCPServer) Start(addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(listener)
}

// Serve accepts connections on l until Close. It returns nil after Close.
func (s *TCPServer) Serve(l net.Listener) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		l.Close()
		return nil
	}
	s.listener = l
	s.mu.Unlock()

	log.Network.Info().Str("addr", l.Addr().String()).Msg("listening")

	for {
		conn, err := l.Accept()
		if err != nil {
			if s.isClosed() {
				return nil
			}
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				log.Network.Warn().Err(err).Msg("accept")
				continue
			}
			return err
		}

		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			conn.Close()
			return nil
		}
		s.conns[conn] = struct{}{}
		s.wg.Add(1)
		s.mu.Unlock()

		go s.handleConn(conn)
	}
}

func (s *TCPServer) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Close stops accepting, drops open connections and waits for their
// handlers to return.
func (s *TCPServer) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	var err error
	if s.listener != nil {
		err = s.listener.Close()
	}
	for c := range s.conns {
		c.Close()
	}
	s.mu.Unlock()

	s.wg.Wait()
	return err
}

func (s *TCPServer) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *TCPServer) handleConn(conn net.Conn) {
	defer func() {
		conn.Close()
		s.mu.Lock()
		delete(s.conns, conn)
		s.mu.Unlock()
		s.wg.Done()
	}()

	remote := conn.RemoteAddr().String()
	for {
		req, err := protocol.Decode(conn)
		if err != nil {
			if err != io.EOF && !s.isClosed() {
				log.Network.Debug().Err(err).Str("remote", remote).Msg("decode")
			}
			return
		}

		op, body := s.serve(req)
		if err := protocol.Encode(conn, op, nil, body); err != nil {
			log.Network.Debug().Err(err).Str("remote", remote).Msg("encode")
			return
		}
	}
}

func (s *TCPServer) serve(req *protocol.Packet) (byte, []byte) {
	s.stats.Record(req.Op)

	ctx, span := s.tracer.Start(context.Background(), protocol.OpName(req.Op), trace.WithAttributes(
		attribute.Int("fakenode.op", int(req.Op)),
		attribute.String("fakenode.region", common.RegionKey(req.Key).String()),
	))
	defer span.End()

	s.serial.Lock()
	op, body, err := Dispatch(ctx, s.svc, req)
	s.serial.Unlock()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		log.Network.Debug().Err(err).Str("op", protocol.OpName(req.Op)).Msg("request failed")
	}
	return op, body
}
