package config

import "errors"

// ErrInvalidConfiguration is returned when mutually exclusive options
// are both enabled, or configuration is changed after Build has been
// called.
var ErrInvalidConfiguration = errors.New("config: invalid configuration")

// ErrUnknownOption is returned by Set for a canonical name that is not
// in the option table.
var ErrUnknownOption = errors.New("config: unknown option")
