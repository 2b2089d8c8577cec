package http

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yaoapp/kun/log"
)

// New create a new http server
func New(router *gin.Engine, option Option) *Server {
	withDefaults(&option)
	server := &Server{
		router: router,
		option: &option,
		signal: make(chan uint8, 1),
		event:  make(chan uint8, 1),
	}
	server.setStatus(CREATED)
	return server
}

func withDefaults(option *Option) {
	if option.ReadTimeout == 0 {
		option.ReadTimeout = 5 * time.Minute
	}

	if option.WriteTimeout == 0 {
		option.WriteTimeout = 10 * time.Minute
	}

	if option.ShutdownTimeout == 0 {
		option.ShutdownTimeout = 30 * time.Second
	}
}

// Event get event signal
func (server *Server) Event() chan uint8 {
	return server.event
}

// Port get server port
func (server *Server) Port() (int, error) {
	if server.addr == nil {
		return 0, fmt.Errorf("server is not listening")
	}

	tcp, ok := server.addr.(*net.TCPAddr)
	if !ok {
		return 0, fmt.Errorf("can't get port %s", server.addr.String())
	}
	return tcp.Port, nil
}

// Ready check if the status is ready
func (server *Server) Ready() bool {
	return server.Status() == READY
}

// Status returns the server status
func (server *Server) Status() uint8 {
	return uint8(server.status.Load())
}

func (server *Server) setStatus(status uint8) {
	server.status.Store(uint32(status))
}

// Start a http server, it blocks until the server is closed
func (server *Server) Start() error {

	switch server.Status() {
	case READY:
		return fmt.Errorf("server already started")

	case STARTING:
		return fmt.Errorf("server is starting")
	}

	server.setStatus(STARTING)

	addr := fmt.Sprintf("%s:%d", server.option.Host, server.option.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		log.Error("[Server] %s %s", addr, err.Error())
		server.setStatus(CREATED)
		server.emit(ERROR)
		return err
	}

	server.addr = listener.Addr()
	srv := &http.Server{
		Addr:              server.addr.String(),
		Handler:           server.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       server.option.ReadTimeout,
		WriteTimeout:      server.option.WriteTimeout,
	}

	failed := make(chan error, 1)
	go func() {
		if errSrv := srv.Serve(listener); errSrv != nil && !errors.Is(errSrv, http.ErrServerClosed) {
			failed <- errSrv
		}
	}()

	server.setStatus(READY)
	server.emit(READY)
	log.Info("[Server] %s is ready", srv.Addr)

	select {
	case err := <-failed:
		log.Error("[Server] %s was closed (%s)", srv.Addr, err.Error())
		server.setStatus(CLOSED)
		server.emit(ERROR)
		return err

	case signal := <-server.signal:
		switch signal {
		case CLOSE:
			err := server.shutdown(srv)
			server.setStatus(CLOSED)
			server.emit(CLOSE)
			log.Info("[Server] %s was closed", srv.Addr)
			return err

		case RESTART:
			server.setStatus(RESTARTING)
			if err := server.shutdown(srv); err != nil {
				log.Error("[Server] %s restarting (%s)", srv.Addr, err.Error())
				server.setStatus(CLOSED)
				return err
			}
			log.Info("[Server] %s was closed (for restarting)", srv.Addr)
			server.apply()
			return server.Start()

		default:
			server.shutdown(srv)
			server.setStatus(CLOSED)
			log.Error("[Server] %s was closed (unknown signal %d)", srv.Addr, signal)
			return fmt.Errorf("get an unknown signal %d", signal)
		}
	}
}

// shutdown waits for in-flight requests, then forces the close
func (server *Server) shutdown(srv *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), server.option.ShutdownTimeout)
	defer cancel()

	err := srv.Shutdown(ctx)
	if err != nil {
		log.Warn("[Server] %s graceful shutdown failed (%s)", srv.Addr, err.Error())
		return srv.Close()
	}
	return nil
}

func (server *Server) emit(event uint8) {
	select {
	case server.event <- event:
	default:
	}
}

// Stop a http server
func (server *Server) Stop() error {
	if server.Status() != READY {
		return fmt.Errorf("server is not ready")
	}
	server.signal <- CLOSE
	return nil
}

// Restart a http server
func (server *Server) Restart() error {
	if server.Status() != READY {
		return fmt.Errorf("server is not ready")
	}
	server.signal <- RESTART
	return nil
}

// Reload restarts the server with a new router and option. In-flight requests
// finish on the old router.
func (server *Server) Reload(router *gin.Engine, option Option) error {
	if server.Status() != READY {
		return fmt.Errorf("server is not ready")
	}

	withDefaults(&option)
	server.mu.Lock()
	server.pending = &reload{router: router, option: option}
	server.mu.Unlock()

	server.signal <- RESTART
	return nil
}

// apply swaps in the router and option given to Reload
func (server *Server) apply() {
	server.mu.Lock()
	defer server.mu.Unlock()
	if server.pending == nil {
		return
	}
	server.router = server.pending.router
	server.option = &server.pending.option
	server.pending = nil
}

// With middlewares
func (server *Server) With(middlewares ...func(ctx *gin.Context)) *Server {
	for _, middleware := range middlewares {
		server.router.Use(middleware)
	}
	return server
}
