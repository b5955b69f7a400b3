// Package normalize cleans raw search-API text: HTML entities, highlight
// markup, and editorial affixes around headlines. All functions are pure.
package normalize

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// minHeadline is the floor below which a suffix strip is rolled back. Short
// headlines can consist entirely of what looks like a source suffix.
const minHeadline = 5

var (
	decimalRef = regexp.MustCompile(`&#([0-9]{1,7});`)
	hexRef     = regexp.MustCompile(`&#[xX]([0-9a-fA-F]{1,6});`)

	namedEntities = strings.NewReplacer(
		"&quot;", `"`,
		"&apos;", "'",
		"&lt;", "<",
		"&gt;", ">",
		"&nbsp;", " ",
		"&amp;", "&",
	)

	highlightTags = strings.NewReplacer("<b>", "", "</b>", "", "<B>", "", "</B>", "")

	leadingTags = []*regexp.Regexp{
		regexp.MustCompile(`^\[[^\[\]]*\]\s*`),
		regexp.MustCompile(`^【[^【】]*】\s*`),
		regexp.MustCompile(`^\([^()]*\)\s*`),
	}

	// Trailing source-attribution forms, tried in this order. Each strip is
	// kept only if the remainder stays at or above minHeadline runes.
	trailingTags = []*regexp.Regexp{
		regexp.MustCompile(` - [^-]+$`),
		regexp.MustCompile(` \| [^|]+$`),
		regexp.MustCompile(` \([^()]+\)$`),
		regexp.MustCompile(` 【[^【】]+】$`),
		regexp.MustCompile(` \[[^\[\]]+\]$`),
	}
)

// DecodeEntities replaces the named HTML entities emitted by the search API
// and any numeric or hex character references with their literal characters.
// Unknown entities pass through unchanged.
func DecodeEntities(text string) string {
	text = decimalRef.ReplaceAllStringFunc(text, func(ref string) string {
		digits := decimalRef.FindStringSubmatch(ref)[1]
		code, err := strconv.ParseInt(digits, 10, 32)
		if err != nil || !utf8.ValidRune(rune(code)) {
			return ref
		}
		return string(rune(code))
	})
	text = hexRef.ReplaceAllStringFunc(text, func(ref string) string {
		digits := hexRef.FindStringSubmatch(ref)[1]
		code, err := strconv.ParseInt(digits, 16, 32)
		if err != nil || !utf8.ValidRune(rune(code)) {
			return ref
		}
		return string(rune(code))
	})
	return namedEntities.Replace(text)
}

// StripHighlightMarkup removes the bold tags the search API inserts around
// matched query terms.
func StripHighlightMarkup(text string) string {
	return highlightTags.Replace(text)
}

// CleanHeadline removes one leading bracketed editorial tag and then tries
// each trailing source-attribution pattern in a fixed order. A trailing
// strip is applied only when the remainder keeps at least minHeadline runes;
// otherwise the text from before that step is kept.
func CleanHeadline(text string) string {
	text = strings.TrimSpace(text)

	for _, re := range leadingTags {
		if stripped := re.ReplaceAllString(text, ""); stripped != text {
			text = strings.TrimSpace(stripped)
			break
		}
	}

	for _, re := range trailingTags {
		stripped := strings.TrimSpace(re.ReplaceAllString(text, ""))
		if stripped == text {
			continue
		}
		if utf8.RuneCountInString(stripped) >= minHeadline {
			text = stripped
		}
	}

	return text
}
