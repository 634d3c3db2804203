package port

import "io"

// Reader adapts an io.Reader into a Port for file-backed byte sources.
// Reads pass straight through, so the source must not block; io.EOF is
// surfaced when the source is exhausted. A file-backed source has no
// sink, so writes are discarded.
type Reader struct {
	r io.Reader
}

// NewReader wraps r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// ReadByte implements Port.
func (f *Reader) ReadByte() (byte, error) {
	var buf [1]byte
	n, err := f.r.Read(buf[:])
	if n == 1 {
		return buf[0], nil
	}
	if err == nil {
		err = ErrNoData
	}
	return 0, err
}

// Write implements Port.
func (f *Reader) Write(p []byte) (int, error) {
	return len(p), nil
}
