package media

import "errors"

// ErrUnreadable is returned when a source cannot be decoded or holds no pixels.
var ErrUnreadable = errors.New("unreadable source")
