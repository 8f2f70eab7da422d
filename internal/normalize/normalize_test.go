package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "trims and collapses whitespace",
			input: "  牛乳   1000ml  ",
			want:  "牛乳 1000ml",
		},
		{
			name:  "unifies half-width katakana",
			input: "ﾃｨｯｼｭ",
			want:  "ティッシュ",
		},
		{
			name:  "unifies full-width latin and lowercases",
			input: "ＭＩＬＫ",
			want:  "milk",
		},
		{
			name:  "lowercases ascii",
			input: "Banana",
			want:  "banana",
		},
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
		{
			name:  "tabs and ideographic spaces collapse",
			input: "食パン\t６枚切　袋",
			want:  "食パン 6枚切 袋",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestNormalizeDeterministic(t *testing.T) {
	input := "ｶｯﾌﾟ ﾗｰﾒﾝ　ＢＩＧ"
	first := Normalize(input)
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, Normalize(input))
	}
}

func TestSimplifyKey(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "strips spacing between tokens",
			input: "サバ 水煮 190g",
			want:  "サバ水煮190g",
		},
		{
			name:  "strips symbols",
			input: "サバ・水煮（缶）",
			want:  "サバ水煮缶",
		},
		{
			name:  "asterisks and hash marks removed",
			input: "*卵 10個#",
			want:  "卵10個",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SimplifyKey(tt.input))
		})
	}
}

func TestFoldKey(t *testing.T) {
	// The fold key trades dakuten precision for recall: both spellings of
	// the same sound collapse to one key.
	assert.Equal(t, FoldKey("タマゴ"), FoldKey("ﾀﾏｺﾞ"))
	assert.Equal(t, FoldKey("パン"), FoldKey("ハン"))
	assert.NotEqual(t, FoldKey("たまご"), FoldKey("タマゴ"))
}

func TestSimplifyKeyEquatesVisualVariants(t *testing.T) {
	// Visually equivalent spellings must produce the same containment key.
	assert.Equal(t, SimplifyKey("食ﾊﾟﾝ"), SimplifyKey("食パン"))
	assert.Equal(t, SimplifyKey("ＴＩＳＳＵＥ"), SimplifyKey("tissue"))
}
