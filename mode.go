package terminal

import "strings"

// Mode is the 32 bit set of terminal-wide mode flags.
type Mode uint32

const (
	ModeWrap Mode = 1 << iota
	ModeInsert
	ModeAltScreen
	ModeCRLF
	ModeEcho
	ModeUTF8

	defaultMode = ModeWrap | ModeUTF8
)

var modeNames = []string{"wrap", "insert", "altscreen", "crlf", "echo", "utf8"}

// Has reports whether every bit of m2 is set in m.
func (m Mode) Has(m2 Mode) bool {
	return m&m2 == m2
}

// With returns m with the bits of m2 set or cleared.
func (m Mode) With(m2 Mode, on bool) Mode {
	if on {
		return m | m2
	}
	return m &^ m2
}

func (m Mode) String() string {
	if m == 0 {
		return "none"
	}
	var parts []string
	for i, name := range modeNames {
		if m&(1<<i) != 0 {
			parts = append(parts, name)
		}
	}
	return strings.Join(parts, "|")
}
