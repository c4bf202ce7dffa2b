package extract

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jmespath/go-jmespath"
)

// ListingSource names the aggregator that listing-site records come from
const ListingSource = "Zillow"

// MaxListings caps the cards taken from one search page
const MaxListings = 10

// RawListing is one card scraped from the listing aggregator
type RawListing struct {
	Address string `json:"address"`
	Price   string `json:"price"`
	Image   string `json:"image,omitempty"`
	Details string `json:"details"`
	Source  string `json:"source"`
}

// Selectors contains CSS selectors for a listing card and its fields
type Selectors struct {
	Card    string
	Address string
	Price   string
	Image   string
	Details string
}

// DefaultListingSelectors matches the aggregator's property card markup
var DefaultListingSelectors = Selectors{
	Card:    `[data-testid="property-card"]`,
	Address: `[data-testid="property-card-addr"]`,
	Price:   `[data-testid="property-card-price"]`,
	Image:   "img",
	Details: `[data-testid="property-card-details"]`,
}

// embeddedResultsQuery pulls search results out of the page's bootstrap JSON
const embeddedResultsQuery = `props.pageProps.searchPageState.cat1.searchResults.listResults[*].{address: address, price: price, image: imgSrc, beds: beds, baths: baths, status: statusText}`

// ListingCards extracts up to limit listing cards. Cards without an address
// or a price are skipped.
func ListingCards(doc *goquery.Document, sel Selectors, pageURL string, limit int) []RawListing {
	base, _ := url.Parse(pageURL)
	results := make([]RawListing, 0, limit)

	doc.Find(sel.Card).EachWithBreak(func(_ int, card *goquery.Selection) bool {
		addressEl := card.Find(sel.Address).First()
		priceEl := card.Find(sel.Price).First()
		if addressEl.Length() == 0 || priceEl.Length() == 0 {
			return true
		}

		listing := RawListing{
			Address: strings.TrimSpace(addressEl.Text()),
			Price:   strings.TrimSpace(priceEl.Text()),
			Details: strings.TrimSpace(card.Find(sel.Details).First().Text()),
			Source:  ListingSource,
		}
		if src, ok := card.Find(sel.Image).First().Attr("src"); ok {
			listing.Image = resolveURL(base, strings.TrimSpace(src))
		}

		results = append(results, listing)
		return len(results) < limit
	})

	return results
}

// EmbeddedListings reads search results from the page's __NEXT_DATA__
// payload, used when the card markup did not render.
func EmbeddedListings(doc *goquery.Document, limit int) ([]RawListing, error) {
	payload := strings.TrimSpace(doc.Find("script#__NEXT_DATA__").First().Text())
	if payload == "" {
		return nil, nil
	}

	var data interface{}
	if err := json.Unmarshal([]byte(payload), &data); err != nil {
		return nil, fmt.Errorf("error parsing embedded search data: %w", err)
	}

	result, err := jmespath.Search(embeddedResultsQuery, data)
	if err != nil {
		return nil, fmt.Errorf("error searching embedded search data: %w", err)
	}
	items, ok := result.([]interface{})
	if !ok {
		return nil, nil
	}

	listings := make([]RawListing, 0, limit)
	for _, item := range items {
		if len(listings) >= limit {
			break
		}
		fields, ok := item.(map[string]interface{})
		if !ok {
			continue
		}

		address := stringField(fields["address"])
		price := stringField(fields["price"])
		if _, numeric := fields["price"].(float64); numeric {
			price = "$" + price
		}
		if address == "" || price == "" {
			continue
		}

		listings = append(listings, RawListing{
			Address: address,
			Price:   price,
			Image:   stringField(fields["image"]),
			Details: embeddedDetails(fields),
			Source:  ListingSource,
		})
	}
	return listings, nil
}

func embeddedDetails(fields map[string]interface{}) string {
	var parts []string
	if beds := stringField(fields["beds"]); beds != "" {
		parts = append(parts, beds+" bedroom")
	}
	if baths := stringField(fields["baths"]); baths != "" {
		parts = append(parts, baths+" bath")
	}
	if status := stringField(fields["status"]); status != "" {
		parts = append(parts, status)
	}
	return strings.Join(parts, ", ")
}

func stringField(v interface{}) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%g", t)
	default:
		return ""
	}
}
