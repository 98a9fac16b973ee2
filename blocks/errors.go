package blocks

import (
	"errors"
	"fmt"

	"github.com/voxelsplace/blockpack/media"
)

// ErrPrecondition marks caller errors that indicate a misconfigured run.
// They are fatal to the call and should abort a batch.
var ErrPrecondition = errors.New("precondition failed")

var (
	ErrEmptyPalette     = fmt.Errorf("%w: empty palette", ErrPrecondition)
	ErrInvalidChunkSize = fmt.Errorf("%w: chunk size must be positive", ErrPrecondition)
)

// ErrUnreadableSource is returned when an image or frame source yields no
// pixels. The conversion of that source is aborted; a batch may continue.
var ErrUnreadableSource = media.ErrUnreadable
