package scraper

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func parseHTML(t *testing.T, html string) *goquery.Selection {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return doc.Selection
}

func TestExtractText(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		sel      Selector
		fallback string
		want     string
	}{
		{
			name:     "match by class",
			html:     `<h1 class="pr_header__heading">  Some Title  </h1>`,
			sel:      Selector{Tag: "h1", Match: MatchClass, Value: "pr_header__heading"},
			fallback: "not found",
			want:     "Some Title",
		},
		{
			name:     "match by multi class",
			html:     `<div class="column list-item extra">entry</div>`,
			sel:      Selector{Tag: "div", Match: MatchClass, Value: "column list-item"},
			fallback: "not found",
			want:     "entry",
		},
		{
			name:     "match by id",
			html:     `<div id="description_text">A description.</div>`,
			sel:      Selector{Tag: "div", Match: MatchID, Value: "description_text"},
			fallback: "not found",
			want:     "A description.",
		},
		{
			name:     "absent element returns fallback",
			html:     `<div class="other">x</div>`,
			sel:      Selector{Tag: "div", Match: MatchClass, Value: "missing"},
			fallback: "publisher information not found",
			want:     "publisher information not found",
		},
		{
			name:     "present but empty returns empty string",
			html:     `<div class="price__item"></div>`,
			sel:      Selector{Tag: "div", Match: MatchClass, Value: "price__item"},
			fallback: "price information not found",
			want:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := parseHTML(t, tt.html)
			if got := ExtractText(root, tt.sel, tt.fallback); got != tt.want {
				t.Fatalf("ExtractText = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractSiblingText(t *testing.T) {
	html := `<table><tr><td>ISBN:</td><td> 9781234567897 </td></tr>
		<tr><td>Dil:</td><td></td></tr>
		<tr><td>Orphan:</td></tr></table>`
	root := parseHTML(t, html)

	isbn := ExtractSiblingText(root, Selector{Tag: "td", Match: MatchText, Value: "ISBN:"}, "none")
	if isbn != "9781234567897" {
		t.Fatalf("isbn = %q, want trimmed sibling text", isbn)
	}

	lang := ExtractSiblingText(root, Selector{Tag: "td", Match: MatchText, Value: "Dil:"}, "none")
	if lang != "" {
		t.Fatalf("empty sibling should yield empty string, got %q", lang)
	}

	orphan := ExtractSiblingText(root, Selector{Tag: "td", Match: MatchText, Value: "Orphan:"}, "none")
	if orphan != "none" {
		t.Fatalf("label without sibling should yield fallback, got %q", orphan)
	}

	missing := ExtractSiblingText(root, Selector{Tag: "td", Match: MatchText, Value: "Fiyat:"}, "none")
	if missing != "none" {
		t.Fatalf("missing label should yield fallback, got %q", missing)
	}
}

func TestExtractSiblingInt(t *testing.T) {
	tests := []struct {
		name string
		html string
		want int
	}{
		{
			name: "numeric value",
			html: `<table><tr><td>Sayfa Sayısı:</td><td>352</td></tr></table>`,
			want: 352,
		},
		{
			name: "non-numeric coerces to zero",
			html: `<table><tr><td>Sayfa Sayısı:</td><td>unknown</td></tr></table>`,
			want: 0,
		},
		{
			name: "empty cell coerces to zero",
			html: `<table><tr><td>Sayfa Sayısı:</td><td></td></tr></table>`,
			want: 0,
		},
		{
			name: "absent label coerces to zero",
			html: `<table><tr><td>Dil:</td><td>TÜRKÇE</td></tr></table>`,
			want: 0,
		},
	}

	sel := Selector{Tag: "td", Match: MatchText, Value: "Sayfa Sayısı:"}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := parseHTML(t, tt.html)
			if got := ExtractSiblingInt(root, sel); got != tt.want {
				t.Fatalf("ExtractSiblingInt = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestExtractAttr(t *testing.T) {
	root := parseHTML(t, `<div class="book-front"><img src="https://img.example/cover.jpg"/></div><a class="pr-img-link">no href</a>`)

	src := ExtractAttr(root, Selector{Tag: "img", Match: MatchAny}, "src", "none")
	if src != "https://img.example/cover.jpg" {
		t.Fatalf("src = %q", src)
	}

	href := ExtractAttr(root, Selector{Tag: "a", Match: MatchClass, Value: "pr-img-link"}, "href", "none")
	if href != "none" {
		t.Fatalf("missing attribute should yield fallback, got %q", href)
	}
}

func TestExists(t *testing.T) {
	root := parseHTML(t, `<h1 class="pr_header__heading">T</h1>`)

	if !Exists(root, Selector{Tag: "h1", Match: MatchClass, Value: "pr_header__heading"}) {
		t.Fatalf("expected title element to exist")
	}
	if Exists(root, Selector{Tag: "td", Match: MatchText, Value: "ISBN:"}) {
		t.Fatalf("expected ISBN label to be absent")
	}
}
