package client

import "errors"

var (
	ErrUnavailable = errors.New("server unavailable")
	ErrRejected    = errors.New("request rejected")
	ErrServer      = errors.New("server error")
	ErrLinkExpired = errors.New("link expired or invalid")
)
