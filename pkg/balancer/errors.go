package balancer

import "errors"

// ErrInvalidGroupCount is returned by Solve before any worker starts when the
// requested group count is below 1 or exceeds the participant count.
var ErrInvalidGroupCount = errors.New("group count must be between 1 and the number of participants")
