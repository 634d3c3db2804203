package xio

// ReadLine assembles one terminated line from the active transport,
// tolerating partial input across repeated calls. Either CR or LF ends
// a line (CRLF pairs are not collapsed).
//
// buf is the destination; its length is the capacity. index is the
// caller-held cursor:
//
//	nil            complete line; the terminator was replaced by NUL and
//	               index equals the line length (terminator excluded).
//	               The caller resets index to zero for the next line.
//	ErrAgain       input exhausted mid-line; index is at the next
//	               unwritten position, call again later to resume.
//	io.EOF         a file-backed transport is exhausted; index counts
//	               the bytes assembled so far.
//	ErrBufferFull  capacity reached with no terminator; index == len(buf).
//	ErrSizeExceeded index was at or past capacity on entry; nothing read.
//
// ReadLine performs no allocation and touches no state beyond buf and
// index, so it is safe to call repeatedly from the single-threaded
// main loop.
func (x *XIO) ReadLine(buf []byte, index *int) error {
	if *index >= len(buf) {
		return ErrSizeExceeded
	}
	for ; *index < len(buf); *index++ {
		b, err := x.ReadByte()
		if err != nil {
			return err
		}
		buf[*index] = b
		if b == '\n' || b == '\r' {
			buf[*index] = 0
			return nil
		}
	}
	return ErrBufferFull
}
