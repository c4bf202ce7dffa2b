package extract

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func card(addr, price, img, details string) string {
	var b strings.Builder
	b.WriteString(`<article data-testid="property-card">`)
	if addr != "" {
		b.WriteString(`<address data-testid="property-card-addr"> ` + addr + ` </address>`)
	}
	if price != "" {
		b.WriteString(`<span data-testid="property-card-price">` + price + `</span>`)
	}
	if img != "" {
		b.WriteString(`<img src="` + img + `">`)
	}
	if details != "" {
		b.WriteString(`<ul data-testid="property-card-details"><li>` + details + `</li></ul>`)
	}
	b.WriteString(`</article>`)
	return b.String()
}

func TestListingCards(t *testing.T) {
	html := "<html><body>" +
		card("15 Easton Avenue, New Brunswick, NJ 08901", "$1,850/mo", "/photos/1.jpg", "2 bds, 1 ba, laundry") +
		card("", "$900/mo", "", "") +
		card("7 Mine St, New Brunswick, NJ", "", "", "") +
		card("3 Hamilton Street, New Brunswick, NJ", "$2,400/mo", "", "") +
		"</body></html>"

	listings := ListingCards(newDoc(t, html), DefaultListingSelectors, "https://www.zillow.com/new-brunswick-nj/rentals/", 10)
	require.Len(t, listings, 2)

	assert.Equal(t, RawListing{
		Address: "15 Easton Avenue, New Brunswick, NJ 08901",
		Price:   "$1,850/mo",
		Image:   "https://www.zillow.com/photos/1.jpg",
		Details: "2 bds, 1 ba, laundry",
		Source:  "Zillow",
	}, listings[0])
	assert.Equal(t, "", listings[1].Image)
	assert.Equal(t, "", listings[1].Details)
}

func TestListingCardsLimit(t *testing.T) {
	var b strings.Builder
	b.WriteString("<html><body>")
	for i := 0; i < 15; i++ {
		b.WriteString(card(fmt.Sprintf("%d College Avenue, New Brunswick, NJ", i), "$1,000/mo", "", ""))
	}
	b.WriteString("</body></html>")

	listings := ListingCards(newDoc(t, b.String()), DefaultListingSelectors, "", 10)
	assert.Len(t, listings, 10)
	assert.Equal(t, "0 College Avenue, New Brunswick, NJ", listings[0].Address)
}

func TestEmbeddedListings(t *testing.T) {
	html := `<html><body><script id="__NEXT_DATA__" type="application/json">
{"props":{"pageProps":{"searchPageState":{"cat1":{"searchResults":{"listResults":[
	{"address":"20 Bartlett Street, New Brunswick, NJ","price":"$2,000/mo","imgSrc":"https://photos.example.com/a.jpg","beds":2,"baths":1,"statusText":"Apartment for rent"},
	{"address":"","price":"$1,000/mo"},
	{"address":"9 Senior St, New Brunswick, NJ","price":1650,"beds":1}
]}}}}}}
</script></body></html>`

	listings, err := EmbeddedListings(newDoc(t, html), 10)
	require.NoError(t, err)
	require.Len(t, listings, 2)

	assert.Equal(t, "20 Bartlett Street, New Brunswick, NJ", listings[0].Address)
	assert.Equal(t, "$2,000/mo", listings[0].Price)
	assert.Equal(t, "https://photos.example.com/a.jpg", listings[0].Image)
	assert.Equal(t, "2 bedroom, 1 bath, Apartment for rent", listings[0].Details)
	assert.Equal(t, "Zillow", listings[0].Source)

	assert.Equal(t, "$1650", listings[1].Price)
	assert.Equal(t, "1 bedroom", listings[1].Details)

	limited, err := EmbeddedListings(newDoc(t, html), 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestEmbeddedListingsMissingOrBroken(t *testing.T) {
	listings, err := EmbeddedListings(newDoc(t, "<html><body></body></html>"), 10)
	assert.NoError(t, err)
	assert.Empty(t, listings)

	_, err = EmbeddedListings(newDoc(t, `<html><body><script id="__NEXT_DATA__">{not json</script></body></html>`), 10)
	assert.Error(t, err)
}
