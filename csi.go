package terminal

import (
	"bytes"
	"fmt"
	"math"
)

const (
	escBufSize = 512
	escArgSize = 16
	strBufSize = 512
)

// seqBuffer is a byte buffer with a fixed capacity; appends past the limit are dropped.
type seqBuffer struct {
	buf   []byte
	limit int
}

func newSeqBuffer(limit int) seqBuffer {
	return seqBuffer{buf: make([]byte, 0, limit), limit: limit}
}

// append adds b and reports whether it fitted.
func (s *seqBuffer) append(b byte) bool {
	if len(s.buf) >= s.limit {
		return false
	}
	s.buf = append(s.buf, b)
	return true
}

func (s *seqBuffer) reset() {
	s.buf = s.buf[:0]
}

func (s *seqBuffer) bytes() []byte {
	return s.buf
}

func (s *seqBuffer) len() int {
	return len(s.buf)
}

// argList holds up to escArgSize CSI parameters.
type argList struct {
	vals [escArgSize]int32
	n    int
}

func (a *argList) append(v int32) bool {
	if a.n >= len(a.vals) {
		return false
	}
	a.vals[a.n] = v
	a.n++
	return true
}

func (a *argList) full() bool {
	return a.n >= len(a.vals)
}

func (a *argList) reset() {
	a.vals = [escArgSize]int32{}
	a.n = 0
}

// csiEscape accumulates one control sequence from the byte after the introducer to its final byte.
type csiEscape struct {
	buf     seqBuffer
	private bool
	args    argList
	mode    [2]byte // first bytes after the arguments, normally the final byte
}

func newCSIEscape() csiEscape {
	return csiEscape{buf: newSeqBuffer(escBufSize)}
}

func (c *csiEscape) reset() {
	c.buf.reset()
	c.private = false
	c.args.reset()
	c.mode = [2]byte{}
}

// parse splits the buffered bytes into the private flag, numeric arguments and the trailing mode bytes.
// An empty field between separators records an explicit zero. Parsing of arguments stops at the
// first byte that is neither a digit nor ';' or once the list is full.
func (c *csiEscape) parse() {
	raw := c.buf.bytes()
	c.args.reset()
	i := 0
	if i < len(raw) && raw[i] == '?' {
		c.private = true
		i++
	}
args:
	for i < len(raw) && !c.args.full() {
		b := raw[i]
		switch {
		case isDigit(b):
			var v int64
			for i < len(raw) && isDigit(raw[i]) {
				if v < math.MaxInt32 {
					v = v*10 + int64(raw[i]-'0')
				}
				i++
			}
			if v > math.MaxInt32 {
				v = math.MaxInt32
			}
			c.args.append(int32(v))
		case b == ';':
			if c.args.n == 0 || raw[i-1] == ';' {
				c.args.append(0)
			}
			i++
		default:
			break args
		}
	}
	if i < len(raw) {
		c.mode[0] = raw[i]
		if i+1 < len(raw) {
			c.mode[1] = raw[i+1]
		}
	}
}

// arg returns argument i, or def when it is absent or zero.
func (c *csiEscape) arg(i int, def int) int {
	if i < c.args.n && c.args.vals[i] != 0 {
		return int(c.args.vals[i])
	}
	return def
}

// argAt returns argument i, or def only when it is absent. Used where zero is meaningful.
func (c *csiEscape) argAt(i int, def int) int {
	if i < c.args.n {
		return int(c.args.vals[i])
	}
	return def
}

func (c *csiEscape) nargs() int {
	return c.args.n
}

func (c *csiEscape) String() string {
	prefix := ""
	if c.private {
		prefix = "?"
	}
	return fmt.Sprintf("CSI %s%v %q", prefix, c.args.vals[:c.args.n], string(bytes.TrimRight(c.mode[:], "\x00")))
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
