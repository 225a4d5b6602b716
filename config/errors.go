package config

import "errors"

// ErrConfigFileNotFound reports that no configuration file exists in any
// search path. The loader's file search returns it; AutoLoad handles it by
// falling back to the defaults and never returns it to the caller.
var ErrConfigFileNotFound = errors.New("config file not found")
