package render

import (
	"errors"
)

// ErrIndexOutOfRange reports a cell write outside the raster target
var ErrIndexOutOfRange = errors.New("index out of range")
