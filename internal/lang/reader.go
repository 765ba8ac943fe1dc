package lang

// Reader yields the lines of a source buffer one at a time, tracking the
// 1-based number of the line it most recently returned. Scanners work a
// line at a time and never look across line boundaries.
type Reader struct {
	src  []byte
	pos  int
	line int
}

// NewReader returns a reader over src.
func NewReader(src []byte) *Reader {
	return &Reader{src: src}
}

// ReadLine returns the next line with the trailing newline stripped (a
// carriage return before it is stripped too), and false once the input is
// exhausted. The returned slice aliases the source buffer.
func (r *Reader) ReadLine() ([]byte, bool) {
	if r.pos >= len(r.src) {
		return nil, false
	}
	start := r.pos
	end := start
	for end < len(r.src) && r.src[end] != '\n' {
		end++
	}
	r.pos = end + 1
	r.line++

	line := r.src[start:end]
	if n := len(line); n > 0 && line[n-1] == '\r' {
		line = line[:n-1]
	}
	return line, true
}

// Line reports the 1-based number of the line most recently returned by
// ReadLine, 0 before the first read.
func (r *Reader) Line() int {
	return r.line
}
