package model

import (
	"time"

	"github.com/venicegeo/geojson-go/geojson"
)

// ArtifactResult holds the fields common to every produced fractional
// cover artifact, scene-level or annual
type ArtifactResult struct {
	ID           string
	Kind         ArtifactKind
	WRSPath      int
	WRSRow       int
	Geometry     interface{}
	AcquiredDate time.Time
	Year         int
	Version      string
	StorageKey   string
}

// GeoJSONFeature implements the GeoJSONFeatureCreator interface
func (ar ArtifactResult) GeoJSONFeature() (*geojson.Feature, error) {
	f := geojson.NewFeature(ar.Geometry, ar.ID, map[string]interface{}{
		"kind":         string(ar.Kind),
		"wrsPath":      ar.WRSPath,
		"wrsRow":       ar.WRSRow,
		"acquiredDate": ar.AcquiredDate.Format(StandardTimeLayout),
		"year":         ar.Year,
		"version":      ar.Version,
		"storageKey":   ar.StorageKey,
	})
	f.Bbox = f.ForceBbox()
	return f, nil
}

// MultiArtifactResult is a collection of feature-creating results that can
// render itself as a single GeoJSON feature collection
type MultiArtifactResult struct {
	FeatureCreators []GeoJSONFeatureCreator
}

// GeoJSONFeatureCollection implements the GeoJSONFeatureCollectionCreator interface
func (mar MultiArtifactResult) GeoJSONFeatureCollection() (*geojson.FeatureCollection, error) {
	features := make([]*geojson.Feature, len(mar.FeatureCreators))
	for i, creator := range mar.FeatureCreators {
		feature, err := creator.GeoJSONFeature()
		if err != nil {
			return nil, err
		}
		features[i] = feature
	}

	collection := geojson.NewFeatureCollection(features)
	collection.Bbox = collection.ForceBbox()
	return collection, nil
}
