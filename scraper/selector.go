package scraper

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// MatchKind selects how a Selector locates its element.
type MatchKind int

const (
	// MatchAny matches the first element with the tag name alone.
	MatchAny MatchKind = iota
	// MatchClass matches by tag name and class attribute.
	MatchClass
	// MatchText matches by tag name and exact trimmed text content.
	MatchText
	// MatchID matches by tag name and id attribute.
	MatchID
)

// Selector identifies one element in a parsed page: a tag name plus a
// class, an id, or literal text content. Label cells in "label: value"
// table rows are located with MatchText and read through
// ExtractSiblingText.
type Selector struct {
	Tag   string
	Match MatchKind
	Value string
}

func (s Selector) find(root *goquery.Selection) *goquery.Selection {
	switch s.Match {
	case MatchClass:
		// Class values may hold several space-separated classes.
		return root.Find(s.Tag + "." + strings.Join(strings.Fields(s.Value), "."))
	case MatchID:
		return root.Find(s.Tag + "#" + s.Value)
	case MatchText:
		var found *goquery.Selection
		root.Find(s.Tag).EachWithBreak(func(_ int, el *goquery.Selection) bool {
			if strings.TrimSpace(el.Text()) == s.Value {
				found = el
				return false
			}
			return true
		})
		if found == nil {
			return root.Find(s.Tag).Slice(0, 0)
		}
		return found
	default:
		return root.Find(s.Tag)
	}
}

// Exists reports whether the selector locates at least one element.
func Exists(root *goquery.Selection, sel Selector) bool {
	return sel.find(root).Length() > 0
}

// ExtractText returns the trimmed text of the first matched element, or
// fallback when no element matches. An element that is present but
// empty yields the empty string, which is distinct from the fallback.
func ExtractText(root *goquery.Selection, sel Selector, fallback string) string {
	el := sel.find(root)
	if el.Length() == 0 {
		return fallback
	}
	return strings.TrimSpace(el.First().Text())
}

// ExtractAttr returns an attribute of the first matched element, or
// fallback when the element or the attribute is absent.
func ExtractAttr(root *goquery.Selection, sel Selector, attr, fallback string) string {
	el := sel.find(root)
	if el.Length() == 0 {
		return fallback
	}
	value, ok := el.First().Attr(attr)
	if !ok {
		return fallback
	}
	return strings.TrimSpace(value)
}

// ExtractSiblingText locates a label element and returns the trimmed
// text of its next structural sibling, the value cell in table-style
// "label: value" layouts. The fallback is returned when either the
// label or the sibling is absent.
func ExtractSiblingText(root *goquery.Selection, sel Selector, fallback string) string {
	el := sel.find(root)
	if el.Length() == 0 {
		return fallback
	}
	sibling := el.First().Next()
	if sibling.Length() == 0 {
		return fallback
	}
	return strings.TrimSpace(sibling.Text())
}

// ExtractSiblingInt reads a sibling value cell as an integer. Absent,
// empty or non-numeric text coerces to 0; the value is advisory and
// never blocks assembly.
func ExtractSiblingInt(root *goquery.Selection, sel Selector) int {
	text := ExtractSiblingText(root, sel, "0")
	value, err := strconv.Atoi(text)
	if err != nil {
		return 0
	}
	return value
}
