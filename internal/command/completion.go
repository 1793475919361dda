package command

import "sort"

// completionTree is a minimal word-completion index: every inserted word of
// at least minWordLen runes becomes completable by any of its prefixes.
// There is no Go port of the original client's completion library in this
// module's dependency set, so this is a small native replacement grounded
// directly on the same behavior (see complete/insert below).
type completionTree struct {
	minWordLen int
	inclusions map[rune]bool
	words      map[string]struct{}
}

func newCompletionTree(inclusions ...rune) *completionTree {
	m := make(map[rune]bool, len(inclusions))
	for _, r := range inclusions {
		m[r] = true
	}
	return &completionTree{minWordLen: 1, inclusions: m, words: make(map[string]struct{})}
}

func (t *completionTree) setMinWordLen(n int) {
	t.minWordLen = n
}

func (t *completionTree) isWordRune(r rune) bool {
	if t.inclusions[r] {
		return true
	}
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// insert splits text into words on non-word runes and indexes each word
// meeting the minimum length.
func (t *completionTree) insert(text string) {
	for _, w := range t.splitWords(text) {
		if len([]rune(w)) >= t.minWordLen {
			t.words[w] = struct{}{}
		}
	}
}

func (t *completionTree) splitWords(text string) []string {
	var words []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = nil
		}
	}
	for _, r := range text {
		if t.isWordRune(r) {
			cur = append(cur, r)
		} else {
			flush()
		}
	}
	flush()
	return words
}

// complete returns every indexed word with the trailing word of text as a
// prefix (case-insensitive), sorted, or nil if text's trailing word is
// shorter than one rune or nothing matches.
func (t *completionTree) complete(text string) []string {
	words := t.splitWords(text)
	if len(words) == 0 {
		return nil
	}
	prefix := words[len(words)-1]
	lower := toLower(prefix)

	var out []string
	for w := range t.words {
		if len([]rune(w)) <= len([]rune(prefix)) {
			continue
		}
		if hasPrefixFold(w, lower) {
			out = append(out, w)
		}
	}
	if len(out) == 0 {
		return nil
	}
	sort.Strings(out)
	return out
}

func toLower(s string) string {
	r := []rune(s)
	for i, c := range r {
		if c >= 'A' && c <= 'Z' {
			r[i] = c + ('a' - 'A')
		}
	}
	return string(r)
}

func hasPrefixFold(s, lowerPrefix string) bool {
	sl := toLower(s)
	rs, rp := []rune(sl), []rune(lowerPrefix)
	if len(rp) > len(rs) {
		return false
	}
	for i, r := range rp {
		if rs[i] != r {
			return false
		}
	}
	return true
}
