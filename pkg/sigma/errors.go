package sigma

import "errors"

var errInvalidBit = errors.New("sigma: bit must be 0 or 1")
