package command

import "fmt"

const (
	runeBackspace = '\x7f'
	runeEscape    = '\x1b'
)

// HumanKey concatenates mod directly onto key, special-casing the two
// control characters that don't print legibly on their own. mod carries
// its own separator, e.g. HumanKey("ctrl-", 'd') == "ctrl-d" and
// HumanKey("f", 'x') == "fx".
func HumanKey(mod string, r rune) string {
	switch r {
	case runeBackspace:
		return mod + "backspace"
	case runeEscape:
		return mod + "escape"
	default:
		return mod + string(r)
	}
}

// FunctionKey formats an F-key binding name, e.g. FunctionKey(1) -> "f1".
func FunctionKey(n int) string {
	return fmt.Sprintf("f%d", n)
}
