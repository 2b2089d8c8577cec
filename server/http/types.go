package http

import (
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	// CREATED the server instance was created
	CREATED = uint8(iota)
	// STARTING the server instance is starting
	STARTING
	// READY the server instance is ready
	READY
	// RESTARTING the server instance is restarting
	RESTARTING
	// CLOSED the server instance was stopped
	CLOSED
)

const (
	// CLOSE close signal
	CLOSE = uint8(iota) + 10
	// RESTART restart signal
	RESTART
	// ERROR error signal
	ERROR
)

// Option the http server option
type Option struct {
	Port            int           `json:"port,omitempty" yaml:"port,omitempty"`
	Host            string        `json:"host,omitempty" yaml:"host,omitempty"`
	ReadTimeout     time.Duration `json:"read_timeout,omitempty" yaml:"read_timeout,omitempty"`
	WriteTimeout    time.Duration `json:"write_timeout,omitempty" yaml:"write_timeout,omitempty"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout,omitempty" yaml:"shutdown_timeout,omitempty"` // Graceful shutdown, in-flight conversions may finish
}

// Server the http server
type Server struct {
	router *gin.Engine
	addr   net.Addr
	signal chan uint8
	event  chan uint8
	status atomic.Uint32
	option *Option

	mu      sync.Mutex
	pending *reload
}

// reload a router and option applied on the next restart
type reload struct {
	router *gin.Engine
	option Option
}
