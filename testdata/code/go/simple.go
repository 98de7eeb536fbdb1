package server

import (
	"net/http"
	"sync"
	"time"
)

const DefaultPort = 8080

type Config struct {
	Host, Bind string
	Port       int
	Timeout    time.Duration
	_          struct{}
}

type Handler struct {
	sync.Mutex
	*Config
	routes map[string]http.HandlerFunc
}

type Middleware func(http.Handler) http.Handler

func NewHandler(config *Config) *Handler {
	type scratch struct{ n int }
	return &Handler{Config: config}
}
