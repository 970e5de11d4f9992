package checksum

import stderrors "errors"

// ErrAmbiguousPath is wrapped by strict-mode collisions.
var ErrAmbiguousPath = stderrors.New("ambiguous path")
