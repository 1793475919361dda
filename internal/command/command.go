// Package command implements the line-editor state machine behind the
// input box: cursor motion, word-boundary editing, history navigation, and
// tab completion. It holds no terminal or event-loop dependencies so it can
// be driven directly by both the TUI key handler and tests.
package command

const maxHistory = 100

// Buffer is a single-line text editor with undo-free history navigation
// and prefix completion, operating on runes so multi-byte input (accents,
// CJK, box-drawing) never splits a character across edits.
type Buffer struct {
	buf          []rune
	cursor       int
	cached       []rune // buffer saved when history navigation starts
	history      []string
	currentIndex int

	completionTree *completionTree
	completion     completionStep
}

type completionStep struct {
	options []string
	index   int
	base    string
}

func (c *completionStep) isEmpty() bool { return len(c.options) == 0 }

func (c *completionStep) setOptions(base string, options []string) {
	c.options = options
	c.base = base
	c.index = 0
}

func (c *completionStep) clear() {
	c.options = nil
	c.index = 0
}

// next cycles through the candidate list and then back to the original
// text.
func (c *completionStep) next() (string, bool) {
	if c.isEmpty() {
		return "", false
	}
	last := c.index
	c.index = (c.index + 1) % (len(c.options) + 1)
	if last < len(c.options) {
		return c.options[last], true
	}
	return c.base, true
}

// New creates an empty buffer. Word completion treats '/' and '_' as word
// characters (so slash commands and snake_case identifiers complete as a
// whole) and only indexes words of at least 3 runes.
func New() *Buffer {
	t := newCompletionTree('/', '_')
	t.setMinWordLen(3)
	return &Buffer{completionTree: t}
}

// SeedCompletion indexes words (server names, help topics, a static word
// list) without adding them to history.
func (b *Buffer) SeedCompletion(words ...string) {
	for _, w := range words {
		b.completionTree.insert(w)
	}
}

// LoadHistory replaces the history from persisted entries (most recent
// last), seeding completion from each line.
func (b *Buffer) LoadHistory(entries []string) {
	b.history = append([]string(nil), entries...)
	if len(b.history) > maxHistory {
		b.history = b.history[len(b.history)-maxHistory:]
	}
	b.currentIndex = len(b.history)
	for _, h := range b.history {
		b.completionTree.insert(h)
	}
}

// History returns the persisted history entries, oldest first.
func (b *Buffer) History() []string {
	return append([]string(nil), b.history...)
}

// Text returns the current buffer contents.
func (b *Buffer) Text() string { return string(b.buf) }

// CursorPos returns the cursor's rune offset into Text().
func (b *Buffer) CursorPos() int { return b.cursor }

// Submit finalizes the current input: pushes non-empty, non-duplicate text
// onto history (deduped only against the immediately preceding entry, so
// "a b a" keeps both "a"s), resets the cursor, and returns the submitted
// text.
func (b *Buffer) Submit() string {
	if len(b.buf) == 0 {
		return ""
	}
	text := string(b.buf)
	b.completionTree.insert(text)

	if len(b.history) == 0 || b.history[len(b.history)-1] != text {
		b.history = append(b.history, text)
	}
	for len(b.history) > maxHistory {
		b.history = b.history[1:]
	}

	b.currentIndex = len(b.history)
	b.buf = nil
	b.cursor = 0
	b.completion.clear()
	return text
}

// PushKey inserts a rune at the cursor and advances it.
func (b *Buffer) PushKey(r rune) {
	if b.cursor >= len(b.buf) {
		b.buf = append(b.buf, r)
	} else {
		b.buf = append(b.buf[:b.cursor+1], b.buf[b.cursor:]...)
		b.buf[b.cursor] = r
	}
	b.completion.clear()
	b.MoveRight()
}

// Remove deletes the rune to the left of the cursor (backspace).
func (b *Buffer) Remove() {
	if b.cursor == 0 {
		return
	}
	if b.cursor < len(b.buf) {
		b.buf = append(b.buf[:b.cursor-1], b.buf[b.cursor:]...)
	} else {
		b.buf = b.buf[:len(b.buf)-1]
	}
	b.MoveLeft()
}

// DeleteRight deletes the rune under the cursor (forward delete).
func (b *Buffer) DeleteRight() {
	if b.cursor < len(b.buf) {
		b.buf = append(b.buf[:b.cursor], b.buf[b.cursor+1:]...)
	}
}

// MoveLeft moves the cursor one rune left, clamped at 0.
func (b *Buffer) MoveLeft() {
	if b.cursor > 0 {
		b.cursor--
	}
}

// MoveRight moves the cursor one rune right, clamped at the buffer length.
func (b *Buffer) MoveRight() {
	if b.cursor < len(b.buf) {
		b.cursor++
	}
}

// MoveToStart moves the cursor to offset 0.
func (b *Buffer) MoveToStart() { b.cursor = 0 }

// MoveToEnd moves the cursor past the last rune.
func (b *Buffer) MoveToEnd() { b.cursor = len(b.buf) }

// MoveWordRight advances the cursor to the next space, or the end of the
// buffer if there is none.
func (b *Buffer) MoveWordRight() {
	origin := b.cursor + 1
	if origin > len(b.buf) {
		origin = len(b.buf)
	}
	for i := origin; i < len(b.buf); i++ {
		if b.buf[i] == ' ' {
			b.cursor = i
			return
		}
	}
	b.cursor = len(b.buf)
}

// MoveWordLeft retreats the cursor to just past the previous space, or to
// the start of the buffer if there is none.
func (b *Buffer) MoveWordLeft() {
	origin := b.cursor - 1
	if origin < 0 {
		origin = 0
	}
	for i := origin - 1; i >= 0; i-- {
		if b.buf[i] == ' ' {
			b.cursor = i + 1
			return
		}
	}
	b.cursor = 0
}

// DeleteToEnd removes everything from the cursor to the end of the buffer.
func (b *Buffer) DeleteToEnd() {
	b.buf = b.buf[:b.cursor]
}

// DeleteFromStart removes everything from the start of the buffer to the
// cursor, moving the cursor to 0.
func (b *Buffer) DeleteFromStart() {
	b.buf = b.buf[b.cursor:]
	b.cursor = 0
}

// DeleteWordRight removes from the cursor to where MoveWordRight would
// land, without moving past it.
func (b *Buffer) DeleteWordRight() {
	origin := b.cursor
	b.MoveWordRight()
	if origin != b.cursor {
		b.buf = append(b.buf[:origin], b.buf[b.cursor:]...)
		b.cursor = origin
	}
}

// DeleteWordLeft removes from where MoveWordLeft would land to the cursor.
func (b *Buffer) DeleteWordLeft() {
	origin := b.cursor
	b.MoveWordLeft()
	if origin != b.cursor {
		b.buf = append(b.buf[:b.cursor], b.buf[origin:]...)
	}
}

// TabComplete cycles through completions for the last word of the buffer
// (wherever the cursor is), replacing the whole buffer with each candidate
// in turn and finally
// wrapping back to the original text. A no-op on a buffer of 0 or 1 runes.
func (b *Buffer) TabComplete() {
	if len(b.buf) <= 1 {
		return
	}
	if b.completion.isEmpty() {
		if opts := b.completionTree.complete(string(b.buf)); opts != nil {
			b.completion.setOptions(string(b.buf), opts)
		}
	}
	if next, ok := b.completion.next(); ok {
		b.buf = []rune(next)
		b.cursor = len(b.buf)
	}
}

// Previous steps one entry back in history, caching the in-progress buffer
// the first time it's called so Next can restore it.
func (b *Buffer) Previous() {
	if len(b.history) == 0 {
		return
	}
	if b.currentIndex == len(b.history) {
		b.cached = append([]rune(nil), b.buf...)
	}
	if b.currentIndex > 0 {
		b.currentIndex--
	}
	b.buf = []rune(b.history[b.currentIndex])
	b.cursor = len(b.buf)
}

// Next steps one entry forward in history, restoring the cached
// in-progress buffer once it reaches the end.
func (b *Buffer) Next() {
	newIndex := b.currentIndex
	if b.currentIndex < len(b.history) {
		newIndex = b.currentIndex + 1
	}
	if newIndex != b.currentIndex {
		b.currentIndex = newIndex
		if b.currentIndex == len(b.history) {
			b.buf = b.cached
			b.cached = nil
		} else {
			b.buf = []rune(b.history[b.currentIndex])
		}
	}
	b.cursor = len(b.buf)
}
