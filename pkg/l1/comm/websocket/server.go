// Package websocket carries frames over websocket connections.
// Every binary message is appended to the byte stream of the
// connection, so frames may be split across messages.
package websocket

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"

	"github.com/robotalks/solenoid.go/pkg/l0/comm"
)

// Server accepts websocket peers. Each connection is parsed by its
// own Receiver, so partial frames of different peers never mix.
type Server struct {
	Addr        string
	Path        string
	DeviceCount int
	Handler     comm.CommandHandler
	Observer    comm.Observer
}

// Handler creates the http.Handler accepting connections. Receivers
// stop when ctx is done.
func (s *Server) Handler(ctx context.Context) http.Handler {
	return websocket.Server{
		Handler: func(conn *websocket.Conn) {
			s.serveConn(ctx, conn)
		},
	}
}

func (s *Server) serveConn(ctx context.Context, conn *websocket.Conn) {
	name := conn.Request().RemoteAddr
	glog.Infof("websocket peer %s connected", name)
	transport := comm.NewStreamTransport(conn)
	receiver := comm.NewReceiver(transport, s.deviceCount())
	receiver.Name, receiver.Handler, receiver.Observer = name, s.Handler, s.Observer
	err := receiver.Run(ctx)
	transport.Close()
	if err != nil && err != io.EOF && err != context.Canceled {
		glog.Warningf("websocket peer %s: %v", name, err)
	}
	glog.Infof("websocket peer %s disconnected", name)
}

// Run implements Runnable.
func (s *Server) Run(ctx context.Context) error {
	path := s.Path
	if path == "" {
		path = "/"
	}
	mux := http.NewServeMux()
	mux.Handle(path, s.Handler(ctx))
	srv := &http.Server{Addr: s.Addr, Handler: mux}
	errCh := make(chan error, 1)
	go func() {
		glog.Infof("websocket listening on %s%s", s.Addr, path)
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
		return ctx.Err()
	}
}

func (s *Server) deviceCount() int {
	if s.DeviceCount == 0 {
		return comm.DefaultDeviceCount
	}
	return s.DeviceCount
}

// Dial connects to a Server. Every Write is sent as one binary message.
func Dial(url string) (io.WriteCloser, error) {
	conn, err := websocket.Dial(url, "", "http://localhost/")
	if err != nil {
		return nil, err
	}
	conn.PayloadType = websocket.BinaryFrame
	return conn, nil
}
