// Package line defines the Line value that flows from the telnet layer
// through trigger dispatch to the UI.
package line

import "strings"

// Line is a unit of received (or host-synthesized) text.
type Line struct {
	Raw    string // original bytes, including ANSI styling
	Clean  string // styling stripped
	Matched     bool // at least one trigger matched
	Gag         bool // suppress display (still logged if logging enabled)
	BypassScript bool // skip alias/trigger dispatch entirely
	Prompt      bool // this is a prompt, not a scrolled line
}

// New creates a Line from raw text, stripping ANSI codes for Clean.
func New(raw string) Line {
	return Line{Raw: raw, Clean: StripANSI(raw)}
}

// NewPrompt creates a prompt Line from raw text.
func NewPrompt(raw string) Line {
	l := New(raw)
	l.Prompt = true
	return l
}

// StripANSI removes ANSI escape sequences from s.
func StripANSI(s string) string {
	var out strings.Builder
	inEscape := false
	for _, r := range s {
		if r == '\x1b' {
			inEscape = true
			continue
		}
		if inEscape {
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				inEscape = false
			}
			continue
		}
		out.WriteRune(r)
	}
	return out.String()
}
