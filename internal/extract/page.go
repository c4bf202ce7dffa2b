package extract

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Caps on the lists kept from a single property page
const (
	MaxImages    = 5
	MaxPrices    = 3
	MaxAmenities = 8
)

var (
	priceRegex = regexp.MustCompile(`\$[\d,]+`)

	imageExtensions = []string{"jpg", "jpeg", "png", "webp"}
	imageSubjects   = []string{"apartment", "exterior", "interior"}

	// text inside these elements is never rendered as page copy
	skippedTextParents = map[string]struct{}{
		"script":   {},
		"style":    {},
		"noscript": {},
		"template": {},
	}
)

// PageData is what a rendered property page yields
type PageData struct {
	Images    []string
	Prices    []string
	Amenities []string
}

// Page extracts images, prices and amenities from a rendered property page.
// pageURL resolves relative image sources and may be empty.
func Page(doc *goquery.Document, pageURL string) PageData {
	return PageData{
		Images:    Images(doc, pageURL, MaxImages),
		Prices:    Prices(doc, MaxPrices),
		Amenities: PageAmenities(doc, MaxAmenities),
	}
}

// Images collects up to limit photo URLs whose source names a raster
// extension and one of the apartment/exterior/interior subjects.
func Images(doc *goquery.Document, pageURL string, limit int) []string {
	base, _ := url.Parse(pageURL)
	images := make([]string, 0, limit)

	doc.Find("img[src]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		src := resolveURL(base, strings.TrimSpace(s.AttrOr("src", "")))
		if containsAny(src, imageExtensions) && containsAny(src, imageSubjects) {
			images = append(images, src)
		}
		return len(images) < limit
	})

	return images
}

// Prices scans text nodes for dollar amounts and keeps the first limit
// unique matches in document order. Unlike a plain textContent scan, text
// inside script, style, noscript and template elements is skipped, so
// prices embedded in inline JSON or CSS are not picked up.
func Prices(doc *goquery.Document, limit int) []string {
	prices := make([]string, 0, limit)
	seen := make(map[string]struct{})

	var walk func(n *html.Node) bool
	walk = func(n *html.Node) bool {
		if n.Type == html.ElementNode {
			if _, skip := skippedTextParents[n.Data]; skip {
				return true
			}
		}
		if n.Type == html.TextNode {
			for _, m := range priceRegex.FindAllString(n.Data, -1) {
				if _, dup := seen[m]; dup {
					continue
				}
				seen[m] = struct{}{}
				prices = append(prices, m)
				if len(prices) >= limit {
					return false
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if !walk(c) {
				return false
			}
		}
		return true
	}

	for _, n := range doc.Nodes {
		if !walk(n) {
			break
		}
	}
	return prices
}

// PageAmenities scans the page body text for amenity keywords. Unlike
// Amenities it returns an empty list when nothing matches.
func PageAmenities(doc *goquery.Document, limit int) []string {
	return scanAmenities(doc.Find("body").Text(), limit)
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func resolveURL(base *url.URL, ref string) string {
	if base == nil || ref == "" {
		return ref
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return base.ResolveReference(u).String()
}
