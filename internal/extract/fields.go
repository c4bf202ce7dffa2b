package extract

import (
	"regexp"
	"strings"
)

// Bedroom and amenity labels used when nothing matches
const (
	FallbackBedrooms  = "1-4 BR"
	StudioBedrooms    = "Studio"
	FallbackAmenities = "Contact for details"
)

// AmenityKeywords is the ordered keyword table shared by all amenity scans
var AmenityKeywords = []string{"gym", "fitness", "pool", "parking", "laundry", "wifi", "study", "rooftop"}

var bedroomRegex = regexp.MustCompile(`(?i)(\d+)\s*br|\bstudio\b|(\d+)\s*bedroom`)

// Bedrooms derives a bedroom label from free text
func Bedrooms(text string) string {
	match := bedroomRegex.FindStringSubmatch(text)
	if match == nil {
		return FallbackBedrooms
	}
	if strings.Contains(strings.ToLower(match[0]), "studio") {
		return StudioBedrooms
	}

	num := match[1]
	if num == "" {
		num = match[2]
	}
	return num + " BR"
}

// Amenities returns the capitalized amenity keywords found in text, in
// keyword-table order, or a single placeholder when none match.
func Amenities(text string) []string {
	found := scanAmenities(text, len(AmenityKeywords))
	if len(found) == 0 {
		return []string{FallbackAmenities}
	}
	return found
}

// scanAmenities matches the keyword table against text case-insensitively
func scanAmenities(text string, limit int) []string {
	lower := strings.ToLower(text)
	found := make([]string, 0, limit)
	for _, keyword := range AmenityKeywords {
		if len(found) >= limit {
			break
		}
		if strings.Contains(lower, keyword) {
			found = append(found, capitalize(keyword))
		}
	}
	return found
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
