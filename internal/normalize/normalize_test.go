package normalize

import "testing"

func TestDecodeEntities(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		want string
	}{
		{"named", "&quot;hello&quot; &amp; &lt;world&gt;", `"hello" & <world>`},
		{"apostrophes", "it&apos;s &#039;quoted&#039;", "it's 'quoted'"},
		{"nbsp", "a&nbsp;b", "a b"},
		{"decimal", "&#65;&#66;", "AB"},
		{"hex", "&#x41;&#x42;", "AB"},
		{"unknown passthrough", "&bogus; stays", "&bogus; stays"},
		{"plain", "no entities here", "no entities here"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := DecodeEntities(tc.in); got != tc.want {
				t.Fatalf("DecodeEntities(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestDecodeEntitiesIdempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"&quot;quoted&quot; &amp; plain",
		"&#x41; and &#66;",
		"nothing special",
	}
	for _, in := range inputs {
		once := DecodeEntities(in)
		twice := DecodeEntities(once)
		if once != twice {
			t.Fatalf("not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestStripHighlightMarkup(t *testing.T) {
	t.Parallel()

	if got := StripHighlightMarkup("<b>Acme</b> wins <b>contract</b>"); got != "Acme wins contract" {
		t.Fatalf("unexpected result: %q", got)
	}
	if got := StripHighlightMarkup("no markup"); got != "no markup" {
		t.Fatalf("unexpected result: %q", got)
	}
}

func TestCleanHeadline(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		want string
	}{
		{"leading square tag", "[단독] Acme lands deal", "Acme lands deal"},
		{"leading cjk tag", "【速報】Acme lands deal", "Acme lands deal"},
		{"leading paren tag", "(Update) Acme lands deal", "Acme lands deal"},
		{"only one leading tag", "[A] [B] headline text", "[B] headline text"},
		{"trailing dash source", "Acme lands deal - Daily News", "Acme lands deal"},
		{"trailing pipe source", "Acme lands deal | Daily News", "Acme lands deal"},
		{"trailing paren source", "Acme lands deal (Daily News)", "Acme lands deal"},
		{"trailing cjk source", "Acme lands deal 【Daily News】", "Acme lands deal"},
		{"trailing square source", "Acme lands deal [Daily News]", "Acme lands deal"},
		{"leading and trailing", "[속보] Acme lands deal - Daily News", "Acme lands deal"},
		{"untouched", "Acme lands a new deal", "Acme lands a new deal"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := CleanHeadline(tc.in); got != tc.want {
				t.Fatalf("CleanHeadline(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestCleanHeadlineBacksOffShortRemainder(t *testing.T) {
	t.Parallel()

	// Stripping " - News" would leave "Up", below the 5-rune floor, so the
	// suffix stays.
	if got := CleanHeadline("Up - News"); got != "Up - News" {
		t.Fatalf("expected backoff, got %q", got)
	}

	// A long headline with the same shape is stripped.
	if got := CleanHeadline("Market rally continues - News"); got != "Market rally continues" {
		t.Fatalf("expected strip, got %q", got)
	}
}
