package api

import (
	"encoding/json"
	"net/http"

	"github.com/twpayne/go-geom/encoding/geojson"
	"sjsage522/housingworker/internal/scraper"
	"sjsage522/housingworker/logger"
)

// featureCollection maps records to point features at their coordinates
func featureCollection(records []scraper.PropertyRecord) *geojson.FeatureCollection {
	fc := &geojson.FeatureCollection{Features: make([]*geojson.Feature, 0, len(records))}
	for _, r := range records {
		fc.Features = append(fc.Features, &geojson.Feature{
			ID:       r.ID,
			Geometry: r.Coordinates.Point(),
			Properties: map[string]interface{}{
				"name":        r.Name,
				"address":     r.Address,
				"source":      r.Source,
				"prices":      r.Prices,
				"bedrooms":    r.Bedrooms,
				"walkingTime": r.WalkingTime,
			},
		})
	}
	return fc
}

func (s *Server) handlePropertiesGeoJSON(w http.ResponseWriter, r *http.Request) {
	data, err := json.Marshal(featureCollection(s.store.Current().Records))
	if err != nil {
		logger.ForServer().Error().Err(err).Msg("Failed to encode geojson")
		http.Error(w, `{"error":"failed to encode geojson"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/geo+json")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
