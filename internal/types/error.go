package types

import "errors"

var ErrNotFound = errors.New("not found")
var ErrCacheMiss = errors.New("cache miss")
