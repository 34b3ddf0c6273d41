package config

import "errors"

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid")
