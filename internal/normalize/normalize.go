// Package normalize reduces raw receipt strings to canonical comparison
// forms. Every matching stage goes through here first, so the pipeline must
// stay deterministic: same input, same output, no locale or state
// dependence.
package normalize

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// basePool holds transformer chains for Normalize. NFKC unifies half-width
// katakana with full-width forms and full-width latin with ASCII, which is
// exactly the visual-equivalence folding the rule tables assume.
var basePool = sync.Pool{
	New: func() any {
		return transform.Chain(norm.NFKC, width.Fold)
	},
}

// foldPool holds the aggressive chain used only by rescue matching: NFKD
// decomposition with combining marks stripped trades precision for recall.
var foldPool = sync.Pool{
	New: func() any {
		return transform.Chain(
			norm.NFKD,
			runes.Remove(runes.In(unicode.Mn)),
			width.Fold,
			norm.NFC,
		)
	},
}

func applyChain(pool *sync.Pool, s string) string {
	tr := pool.Get().(transform.Transformer)
	out, _, err := transform.String(tr, s)
	tr.Reset()
	pool.Put(tr)
	if err != nil {
		// Transform failures only occur on invalid UTF-8; fall back to the
		// repaired input rather than dropping the line.
		return strings.ToValidUTF8(s, "")
	}
	return out
}

// Normalize returns the canonical comparison form of a raw receipt string:
// UTF-8 repaired, character widths unified, latin lowercased, whitespace
// runs collapsed to single spaces, edges trimmed.
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}
	s := strings.ToValidUTF8(raw, "")
	s = applyChain(&basePool, s)
	s = strings.ToLower(s)
	return collapseSpaces(s)
}

// SimplifyKey returns the loose containment key: Normalize with all
// whitespace, punctuation and symbol runes stripped. Keyword matching runs
// against this form so "サバ 水煮" and "サバ・水煮" compare equal.
func SimplifyKey(raw string) string {
	return stripNoise(Normalize(raw))
}

// FoldKey returns the aggressive rescue key: like SimplifyKey but with
// combining marks removed after NFKD decomposition. Dakuten distinctions
// are lost here, which is acceptable only on the rescue path.
func FoldKey(raw string) string {
	if raw == "" {
		return ""
	}
	s := strings.ToValidUTF8(raw, "")
	s = applyChain(&foldPool, s)
	s = strings.ToLower(s)
	return stripNoise(s)
}

// collapseSpaces converts whitespace runs to single ASCII spaces and trims
// the edges.
func collapseSpaces(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inWS := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			inWS = true
			continue
		}
		if inWS && b.Len() > 0 {
			b.WriteByte(' ')
		}
		inWS = false
		b.WriteRune(r)
	}
	return b.String()
}

// stripNoise removes whitespace, punctuation and symbol runes.
func stripNoise(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
