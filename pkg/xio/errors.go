package xio

import "errors"

var (
	// ErrAgain indicates no input is currently available. This is the
	// expected steady state while waiting on a transport; retry later
	// with the same cursor.
	ErrAgain = errors.New("no input available")
	// ErrBufferFull indicates capacity was reached before a line
	// terminator arrived. The caller decides whether to discard the
	// partial line or retry with a larger buffer.
	ErrBufferFull = errors.New("buffer full")
	// ErrSizeExceeded indicates the cursor was already at or past
	// capacity on entry. This is a programming error in the caller.
	ErrSizeExceeded = errors.New("size exceeded")
	// ErrAssertion indicates the integrity sentinels no longer hold
	// their expected values. The subsystem state is corrupted and must
	// not be trusted; there is no local recovery.
	ErrAssertion = errors.New("integrity check failed")
)
