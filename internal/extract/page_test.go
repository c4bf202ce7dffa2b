package extract

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDoc(t *testing.T, body string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	require.NoError(t, err)
	return doc
}

const propertyPage = `<!DOCTYPE html>
<html>
<head>
	<title>Verve</title>
	<script>var tracking = "$999";</script>
</head>
<body>
	<img src="/images/apartment-1.jpg">
	<img src="/images/logo.png">
	<img src="https://cdn.example.com/exterior-front.webp">
	<img src="/images/interior-kitchen.jpeg">
	<img src="/images/apartment-2.svg">
	<img src="/images/interior-bath.png">
	<img src="/images/apartment-3.jpg">
	<img src="/images/apartment-4.jpg">
	<div class="pricing">
		<p>Studios from $1,450 per month</p>
		<p>2 BR from <b>$2,100</b> and $1,450 again</p>
		<p>Penthouse $3,300 / Garage $150</p>
	</div>
	<section>Amenities: Fitness center, rooftop deck, POOL, 24h gym, laundry, gym again</section>
</body>
</html>`

func TestPage(t *testing.T) {
	doc := newDoc(t, propertyPage)
	data := Page(doc, "https://vervenb.com/floorplans")

	assert.Equal(t, []string{
		"https://vervenb.com/images/apartment-1.jpg",
		"https://cdn.example.com/exterior-front.webp",
		"https://vervenb.com/images/interior-kitchen.jpeg",
		"https://vervenb.com/images/interior-bath.png",
		"https://vervenb.com/images/apartment-3.jpg",
	}, data.Images)

	assert.Equal(t, []string{"$1,450", "$2,100", "$3,300"}, data.Prices)
	assert.Equal(t, []string{"Gym", "Fitness", "Pool", "Laundry", "Rooftop"}, data.Amenities)
}

func TestPageCaps(t *testing.T) {
	var b strings.Builder
	b.WriteString("<html><body>")
	for i := 0; i < 20; i++ {
		b.WriteString(`<img src="/apartment-` + string(rune('a'+i)) + `.jpg"><p>$` + string(rune('1'+i%9)) + `00</p>`)
	}
	b.WriteString("gym fitness pool parking laundry wifi study rooftop")
	b.WriteString("</body></html>")

	data := Page(newDoc(t, b.String()), "")
	assert.Len(t, data.Images, MaxImages)
	assert.Len(t, data.Prices, MaxPrices)
	assert.Len(t, data.Amenities, MaxAmenities)
}

func TestPageEmpty(t *testing.T) {
	data := Page(newDoc(t, "<html><body><p>Coming soon</p></body></html>"), "https://example.com")
	assert.Empty(t, data.Images)
	assert.Empty(t, data.Prices)
	assert.Empty(t, data.Amenities)
}

func TestPricesSkipScripts(t *testing.T) {
	doc := newDoc(t, `<html><head><style>.a:after{content:"$5"}</style></head><body><script>"$7"</script><p>$8</p></body></html>`)
	assert.Equal(t, []string{"$8"}, Prices(doc, MaxPrices))
}
