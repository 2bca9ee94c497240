package output

import "errors"

// ErrUnsupportedFormat is returned when a report format name is unknown.
var ErrUnsupportedFormat = errors.New("unsupported output format")
