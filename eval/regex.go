package eval

import (
	"regexp"
	"strings"
	"sync"

	"github.com/wbrown/janus-sparql/plan"
	"github.com/wbrown/janus-sparql/term"
	"github.com/wbrown/janus-sparql/tuple"
)

// maxCompiledPatterns bounds the per-evaluation regex cache, a practical
// stand-in for the spec's "compiled-pattern memory budget": once the
// cache is full, the oldest cached pattern is evicted to make room for
// the new one, so the cache never grows beyond this many entries.
const maxCompiledPatterns = 256

// maxPatternLength rejects absurdly long patterns before compilation,
// the other half of the budget (RE2 program size is roughly linear in
// source length).
const maxPatternLength = 4096

type regexCache struct {
	mu      sync.Mutex
	entries map[string]*regexp.Regexp
	order   []string
}

func newRegexCache() *regexCache {
	return &regexCache{entries: make(map[string]*regexp.Regexp)}
}

func (c *regexCache) compile(pattern string) (*regexp.Regexp, bool) {
	if len(pattern) > maxPatternLength {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if re, ok := c.entries[pattern]; ok {
		return re, true
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, false
	}
	if len(c.order) >= maxCompiledPatterns {
		evict := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, evict)
	}
	c.entries[pattern] = re
	c.order = append(c.order, pattern)
	return re, true
}

// flagsToPrefix translates SPARQL REGEX flags to Go's inline flag
// syntax. 's' (dot matches newline), 'm' (multiline anchors) and 'i'
// (case-insensitive) map directly onto RE2 inline flags; 'x' (extended,
// whitespace-insensitive) has no RE2 equivalent and is instead applied
// by stripping the pattern's insignificant whitespace and comments
// before compilation. 'q' (literal match) and any other unrecognized
// flag are silently ignored, matching Oxigraph's behavior for flags it
// does not implement.
func flagsToPrefix(flags string) (prefix string, extended bool) {
	var b strings.Builder
	for _, f := range flags {
		switch f {
		case 's', 'm', 'i':
			b.WriteRune(f)
		case 'x':
			extended = true
		}
	}
	if b.Len() == 0 {
		return "", extended
	}
	return "(?" + b.String() + ")", extended
}

// stripExtended removes 'x'-mode insignificant whitespace and
// '#'-to-end-of-line comments from a pattern, outside character classes,
// since RE2 has no native extended mode.
func stripExtended(pattern string) string {
	var b strings.Builder
	inClass := false
	escaped := false
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		switch {
		case escaped:
			b.WriteByte(c)
			escaped = false
		case c == '\\':
			b.WriteByte(c)
			escaped = true
		case c == '[':
			inClass = true
			b.WriteByte(c)
		case c == ']':
			inClass = false
			b.WriteByte(c)
		case inClass:
			b.WriteByte(c)
		case c == '#':
			for i < len(pattern) && pattern[i] != '\n' {
				i++
			}
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			// dropped
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func (ev *Evaluator) evalRegex(expr *plan.Expression, row tuple.Tuple) (term.Encoded, bool, error) {
	textV, ok, err := ev.Eval(expr.Operand, row)
	if err != nil || !ok || !isStringTyped(textV) {
		return term.Encoded{}, false, err
	}
	patternV, ok, err := ev.Eval(expr.Left, row)
	if err != nil || !ok || !isStringTyped(patternV) {
		return term.Encoded{}, false, err
	}
	text, err := ev.lexicalText(textV)
	if err != nil {
		return term.Encoded{}, false, err
	}
	pattern, err := ev.lexicalText(patternV)
	if err != nil {
		return term.Encoded{}, false, err
	}
	var flags string
	if expr.Right != nil {
		flagsV, ok, err := ev.Eval(expr.Right, row)
		if err != nil {
			return term.Encoded{}, false, err
		}
		if ok && isStringTyped(flagsV) {
			flags, err = ev.lexicalText(flagsV)
			if err != nil {
				return term.Encoded{}, false, err
			}
		}
	}
	prefix, extended := flagsToPrefix(flags)
	if extended {
		pattern = stripExtended(pattern)
	}
	re, ok := ev.regexp.compile(prefix + pattern)
	if !ok {
		return term.Encoded{}, false, nil
	}
	return term.Boolean(re.MatchString(text)), true, nil
}
