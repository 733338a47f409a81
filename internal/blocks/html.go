package blocks

import (
	"strings"

	"golang.org/x/net/html"
)

// StripTags returns the visible text of a markup fragment with surrounding
// whitespace removed. Script and style contents are dropped.
func StripTags(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return strings.TrimSpace(fragment)
	}
	var (
		b       strings.Builder
		skipped int
	)
	z := html.NewTokenizer(strings.NewReader(fragment))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.TrimSpace(b.String())
		case html.TextToken:
			if skipped == 0 {
				b.Write(z.Text())
			}
		case html.StartTagToken:
			if name, _ := z.TagName(); isRawTextTag(name) {
				skipped++
			}
		case html.EndTagToken:
			if name, _ := z.TagName(); isRawTextTag(name) && skipped > 0 {
				skipped--
			}
		}
	}
}

// ExtractIframeSrc returns the src attribute of the first iframe in fragment.
func ExtractIframeSrc(fragment string) (string, bool) {
	z := html.NewTokenizer(strings.NewReader(fragment))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return "", false
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			if string(name) != "iframe" {
				continue
			}
			for hasAttr {
				var key, val []byte
				key, val, hasAttr = z.TagAttr()
				if string(key) == "src" {
					src := strings.TrimSpace(string(val))
					return src, src != ""
				}
			}
			return "", false
		}
	}
}

// videoURL accepts a bare URL or an embed fragment.
func videoURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if !strings.Contains(strings.ToLower(trimmed), "<iframe") {
		return trimmed
	}
	if src, ok := ExtractIframeSrc(trimmed); ok {
		return src
	}
	return ""
}

func isRawTextTag(name []byte) bool {
	switch string(name) {
	case "script", "style":
		return true
	}
	return false
}
