package server

import "errors"

var (
	ErrNilHandler          = errors.New("server: nil handler")
	ErrFailedToStartServer = errors.New("server: failed to start")
	ErrFailedToStopServer  = errors.New("server: failed to stop")
)
