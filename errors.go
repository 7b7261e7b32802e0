package controller

import "errors"

var (
	// Configuration errors.
	ErrNoDispatcher = errors.New("controller: no dispatcher configured")
	ErrNoLogger     = errors.New("controller: no logger configured")
)
