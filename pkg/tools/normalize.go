package tools

import "strings"

// Typographic characters models substitute for ASCII when they have
// been trained on prose. Keys are the variants, values the canonical
// ASCII form. Shared by the edit tool's fuzzy matcher and, through
// NormalizeQuotes, by tool-call recovery.
var (
	doubleQuoteVariants = []rune{
		'“', '”', '„', '‟', // “ ” „ ‟
		'«', '»', // « »
		'〝', '〞', // 〝 〞
		'「', '」', '『', '』', // 「 」 『 』
		'＂', // ＂
	}
	singleQuoteVariants = []rune{
		'‘', '’', '‚', '‛', // ‘ ’ ‚ ‛
		'′', '´', '＇', // ′ ´ ＇
	}
	dashVariants = []rune{
		'‐', '‑', '‒', '–', '—', '―', // ‐ ‑ ‒ – — ―
		'−', // −
	}
)

// NormalizeQuotes maps every quote variant to its ASCII form, leaving
// all other characters alone. Used to repair model-emitted JSON where
// smart quotes break parsing; dashes and spaces must survive because
// they may be part of argument values.
func NormalizeQuotes(s string) string {
	return strings.Map(func(r rune) rune {
		if mapped, ok := normalizeQuoteRune(r); ok {
			return mapped
		}
		return r
	}, s)
}

func normalizeQuoteRune(r rune) (rune, bool) {
	for _, v := range doubleQuoteVariants {
		if r == v {
			return '"', true
		}
	}
	for _, v := range singleQuoteVariants {
		if r == v {
			return '\'', true
		}
	}
	return 0, false
}

// normalizeRune is the wider mapping used for fuzzy edit matching:
// quotes plus typographic dashes and spaces.
func normalizeRune(r rune) (rune, bool) {
	if mapped, ok := normalizeQuoteRune(r); ok {
		return mapped, true
	}
	for _, v := range dashVariants {
		if r == v {
			return '-', true
		}
	}
	switch {
	case r == ' ' || r == ' ' || r == '　': // non-breaking and CJK spaces
		return ' ', true
	case r >= ' ' && r <= '​': // typographic space family
		return ' ', true
	}
	return 0, false
}

// normalizeForMatch rewrites s with typographic characters replaced by
// ASCII and returns a byte-index map back into the original: idx[k] is
// the original offset of the rune that produced normalized byte k, and
// idx[len(normalized)] == len(s). BOMs are dropped.
func normalizeForMatch(s string) (string, []int) {
	var sb strings.Builder
	idx := make([]int, 0, len(s)+1)
	for i, r := range s {
		if r == '\uFEFF' { // BOM
			continue
		}
		emitted := string(r)
		if mapped, ok := normalizeRune(r); ok {
			emitted = string(mapped)
		}
		sb.WriteString(emitted)
		for j := 0; j < len(emitted); j++ {
			idx = append(idx, i)
		}
	}
	idx = append(idx, len(s))
	return sb.String(), idx
}
