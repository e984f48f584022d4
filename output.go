package terminal

import (
	"log"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

const (
	asciiNull       = 0x00
	asciiBell       = 0x07
	asciiBackspace  = 0x08
	asciiTab        = 0x09
	asciiLineFeed   = 0x0a
	asciiFormFeed   = 0x0c
	asciiReturn     = 0x0d
	asciiCancel     = 0x18
	asciiSubstitute = 0x1a
	asciiEscape     = 0x1b
	asciiDelete     = 0x7f

	c1Index   = 0x84
	c1NextLn  = 0x85
	c1TabSet  = 0x88
	c1RevIdx  = 0x8d
	c1DCS     = 0x90
	c1SOS     = 0x98
	c1CSI     = 0x9b
	c1ST      = 0x9c
	c1OSC     = 0x9d
	c1PM      = 0x9e
	c1APC     = 0x9f
	c1Highest = 0x9f
)

type parserState uint8

const (
	stateGround parserState = iota
	stateEscape
	stateEscapeIntermediate
	stateCSIEntry
	stateCSIParam
	stateCSIIgnore
	stateOSCString
	stateDCSEntry
	stateDCSPassthrough
	stateSosPmApcString
)

var stateNames = [...]string{
	"Ground", "Escape", "EscapeIntermediate", "CsiEntry", "CsiParam", "CsiIgnore",
	"OscString", "DcsEntry", "DcsPassthrough", "SosPmApcString",
}

func (p parserState) String() string {
	if int(p) < len(stateNames) {
		return stateNames[p]
	}
	return "Unknown"
}

// Decoder turns a terminal byte stream into operations on a Screen.
// It owns only its parse position and buffers; the screen is supplied on every call,
// so one byte at a time and whole chunks produce identical results.
type Decoder struct {
	state        parserState
	csi          csiEscape
	str          seqBuffer
	intermediate byte

	// partial UTF-8 sequence
	utf8Buf  [utf8.UTFMax]byte
	utf8Len  int
	utf8Need int

	debug bool
}

// NewDecoder returns a decoder in the Ground state.
func NewDecoder() *Decoder {
	return &Decoder{
		csi: newCSIEscape(),
		str: newSeqBuffer(strBufSize),
	}
}

// SetDebug enables logging of discarded and unrecognised sequences.
func (d *Decoder) SetDebug(debug bool) {
	d.debug = debug
}

// Reset returns the decoder to Ground and discards any partial sequence.
func (d *Decoder) Reset() {
	d.toGround()
	d.utf8Len, d.utf8Need = 0, 0
}

// Feed processes every byte of buf in order.
func (d *Decoder) Feed(s *Screen, buf []byte) {
	for _, b := range buf {
		d.Process(s, b)
	}
}

// Process consumes a single byte. It never fails: anything unrecognised is dropped
// and parsing resumes in Ground.
func (d *Decoder) Process(s *Screen, b byte) {
	if d.utf8Need > 0 && (b < 0x80 || b > 0xbf) {
		d.utf8Need, d.utf8Len = 0, 0
		s.PutChar(utf8.RuneError)
	}

	switch b {
	case asciiCancel, asciiSubstitute:
		if d.state != stateGround {
			d.logf("Aborted sequence in", d.state)
		}
		d.toGround()
		return
	case asciiEscape:
		d.finishString()
		d.state = stateEscape
		d.intermediate = 0
		return
	}

	switch d.state {
	case stateGround:
		d.ground(s, b)
	case stateEscape:
		d.escape(s, b)
	case stateEscapeIntermediate:
		d.escapeIntermediate(s, b)
	case stateCSIEntry, stateCSIParam:
		d.csiParam(s, b)
	case stateCSIIgnore:
		if b >= '@' && b <= '~' {
			d.logf("Ignored CSI", string(d.csi.buf.bytes())+string(rune(b)))
			d.toGround()
		}
	case stateOSCString, stateDCSEntry, stateDCSPassthrough, stateSosPmApcString:
		d.stringByte(s, b)
	default:
		d.toGround()
	}
}

func (d *Decoder) toGround() {
	d.state = stateGround
	d.intermediate = 0
	d.str.reset()
}

func (d *Decoder) ground(s *Screen, b byte) {
	switch {
	case d.utf8Need > 0:
		d.utf8Continue(s, b)
	case b == asciiNull, b == asciiBell, b == asciiDelete:
	case b == asciiBackspace:
		s.Backspace()
	case b == asciiTab:
		s.Tab()
	case b >= asciiLineFeed && b <= asciiFormFeed:
		s.LineFeed()
	case b == asciiReturn:
		s.CarriageReturn()
	case b < ' ':
	case b < asciiDelete:
		s.PutChar(rune(b))
	case b <= c1Highest:
		d.c1Control(s, b)
	default:
		d.highByte(s, b)
	}
}

// c1Control handles the 8 bit forms of IND, NEL, HTS, RI and the string/CSI introducers.
func (d *Decoder) c1Control(s *Screen, b byte) {
	switch b {
	case c1Index:
		s.Index()
	case c1NextLn:
		s.NextLine()
	case c1TabSet:
		s.logUnimplemented("HTS")
	case c1RevIdx:
		s.ReverseIndex()
	case c1DCS:
		d.enterString(stateDCSEntry)
	case c1SOS, c1PM, c1APC:
		d.enterString(stateSosPmApcString)
	case c1CSI:
		d.enterCSI()
	case c1OSC:
		d.enterString(stateOSCString)
	case c1ST:
	default:
		d.logf("Unhandled C1", b)
	}
}

// highByte handles 0xA0-0xFF: a UTF-8 lead byte in UTF8 mode, a Latin-1 character otherwise.
func (d *Decoder) highByte(s *Screen, b byte) {
	if !s.Mode().Has(ModeUTF8) {
		s.PutChar(charmap.ISO8859_1.DecodeByte(b))
		return
	}
	need := 0
	switch {
	case b >= 0xc2 && b <= 0xdf:
		need = 1
	case b >= 0xe0 && b <= 0xef:
		need = 2
	case b >= 0xf0 && b <= 0xf4:
		need = 3
	default:
		s.PutChar(utf8.RuneError)
		return
	}
	d.utf8Buf[0] = b
	d.utf8Len = 1
	d.utf8Need = need
}

func (d *Decoder) utf8Continue(s *Screen, b byte) {
	d.utf8Buf[d.utf8Len] = b
	d.utf8Len++
	d.utf8Need--
	if d.utf8Need > 0 {
		return
	}
	r, size := utf8.DecodeRune(d.utf8Buf[:d.utf8Len])
	if size != d.utf8Len {
		r = utf8.RuneError
	}
	d.utf8Len = 0
	s.PutChar(r)
}

func (d *Decoder) escape(s *Screen, b byte) {
	d.state = stateGround
	switch b {
	case '[':
		d.enterCSI()
	case ']':
		d.enterString(stateOSCString)
	case 'P':
		d.enterString(stateDCSEntry)
	case 'X', '^', '_':
		d.enterString(stateSosPmApcString)
	case '(', ')', '*', '+', '%', '#', ' ':
		d.intermediate = b
		d.state = stateEscapeIntermediate
	case 'D':
		s.Index()
	case 'E':
		s.NextLine()
	case 'H':
		s.logUnimplemented("HTS")
	case 'M':
		s.ReverseIndex()
	case 'c':
		s.Reset()
		d.Reset()
	case '7':
		s.SaveCursor()
	case '8':
		s.RestoreCursor()
	case '\\', '=', '>':
	default:
		d.logf("Unrecognised Escape:", string(rune(b)))
	}
}

// escapeIntermediate completes two byte escapes. Character set designations are accepted
// and ignored; ESC % G and ESC % @ switch UTF-8 decoding on and off.
func (d *Decoder) escapeIntermediate(s *Screen, b byte) {
	if b >= ' ' && b <= '/' {
		d.intermediate = b
		return
	}
	if d.intermediate == '%' {
		switch b {
		case 'G':
			s.SetMode(ModeUTF8, true)
		case '@':
			s.SetMode(ModeUTF8, false)
		}
	} else if d.debug && d.intermediate != '(' && d.intermediate != ')' {
		log.Println("Unhandled escape", string([]byte{d.intermediate, b}))
	}
	d.toGround()
}

func (d *Decoder) enterCSI() {
	d.csi.reset()
	d.state = stateCSIEntry
}

func (d *Decoder) csiParam(s *Screen, b byte) {
	switch {
	case isDigit(b), b == ';', b == ':', b == '?':
		d.csi.buf.append(b)
		d.state = stateCSIParam
	case b >= '@' && b <= '~':
		d.csi.buf.append(b)
		d.csi.parse()
		d.dispatchCSI(s, b)
		d.toGround()
	case b >= ' ' && b <= '/', b == '<', b == '=', b == '>':
		d.csi.buf.append(b)
		d.state = stateCSIIgnore
	case b == asciiDelete:
	default:
		d.logf("Aborted CSI on byte", b)
		d.toGround()
	}
}

func (d *Decoder) enterString(state parserState) {
	d.str.reset()
	d.state = state
}

// stringByte collects one byte of an OSC, DCS, SOS, PM or APC payload.
// In UTF-8 mode an OSC ends only on BEL or ESC \, as 0x9c can be part of a
// multi-byte character in a title.
func (d *Decoder) stringByte(s *Screen, b byte) {
	osc := d.state == stateOSCString
	switch {
	case b == c1ST && !(osc && s.mode.Has(ModeUTF8)), b == asciiBell && osc:
		d.finishString()
		d.toGround()
	case d.state == stateDCSEntry && b >= '@' && b <= '~':
		d.str.append(b)
		d.state = stateDCSPassthrough
	case b < ' ':
	default:
		d.str.append(b)
	}
}

// finishString drops the payload of a terminated OSC, DCS, SOS, PM or APC string.
// Titles, clipboard access and device queries are not implemented.
func (d *Decoder) finishString() {
	switch d.state {
	case stateOSCString:
		d.logf("Discarded OSC", string(d.str.bytes()))
	case stateDCSEntry, stateDCSPassthrough:
		d.logf("Unhandled DCS", string(d.str.bytes()))
	case stateSosPmApcString:
		d.logf("Discarded string", string(d.str.bytes()))
	default:
		return
	}
	d.str.reset()
}

func (d *Decoder) logf(msg string, args ...interface{}) {
	if d.debug {
		log.Println(append([]interface{}{msg}, args...)...)
	}
}
