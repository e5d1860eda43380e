package scenefile

import "errors"

var ErrInvalidDocument = errors.New("scenefile: invalid scene document")
