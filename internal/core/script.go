package core

// script.go decides whether a cell is written in a foreign script.
//
// Only letters vote. Digits, punctuation, symbols, emoji, combining marks and
// whitespace are neutral, so "Harga 50% 🔥" and "Café crème" are native while
// a single CJK, Hangul, Cyrillic, Arabic or Devanagari letter makes a cell
// foreign under the default zero threshold.

import (
	"fmt"
	"unicode"
)

// DefaultTargetScripts is the native script set when none is configured.
var DefaultTargetScripts = []string{"Latin"}

// ScriptDetector classifies text against a set of native Unicode scripts.
// It is immutable and safe for concurrent use.
type ScriptDetector struct {
	native    []*unicode.RangeTable
	threshold float64
}

// NewScriptDetector builds a detector for the named Unicode scripts
// (keys of unicode.Scripts, e.g. "Latin", "Greek").
//
// threshold is the share of foreign letters a text may carry and still count
// as native; 0 means any foreign letter makes the text foreign.
func NewScriptDetector(scripts []string, threshold float64) (*ScriptDetector, error) {
	if len(scripts) == 0 {
		scripts = DefaultTargetScripts
	}
	if threshold < 0 || threshold >= 1 {
		return nil, fmt.Errorf("foreign threshold %g out of range [0, 1)", threshold)
	}

	native := make([]*unicode.RangeTable, 0, len(scripts)+2)
	for _, name := range scripts {
		table, ok := unicode.Scripts[name]
		if !ok {
			return nil, fmt.Errorf("unknown unicode script %q", name)
		}
		native = append(native, table)
	}
	// Letters shared across scripts never count against a cell.
	native = append(native, unicode.Common, unicode.Inherited)

	return &ScriptDetector{native: native, threshold: threshold}, nil
}

var defaultDetector, _ = NewScriptDetector(DefaultTargetScripts, 0)

// DefaultScriptDetector returns the Latin-only, zero-threshold detector.
func DefaultScriptDetector() *ScriptDetector {
	return defaultDetector
}

// IsForeign reports whether text is written predominantly outside the
// native scripts. Empty, numeric and purely symbolic text is never foreign.
func (d *ScriptDetector) IsForeign(text string) bool {
	var letters, foreign int
	// Ranging over a string decodes runes; invalid bytes come out as
	// utf8.RuneError, which is not a letter.
	for _, r := range text {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		if !unicode.In(r, d.native...) {
			foreign++
		}
	}
	if foreign == 0 {
		return false
	}
	return float64(foreign)/float64(letters) > d.threshold
}

// IsForeign classifies text with the default detector.
func IsForeign(text string) bool {
	return defaultDetector.IsForeign(text)
}
