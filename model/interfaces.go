package model

import "github.com/venicegeo/geojson-go/geojson"

// ArtifactKind is an enum type for the kinds of artifact the pipeline produces
type ArtifactKind string

// SceneArtifact is a per-scene fractional cover raster
const SceneArtifact ArtifactKind = "scene"

// SummaryArtifact is an annual summary raster
const SummaryArtifact ArtifactKind = "summary"

// GeoJSONFeatureCreator is an interface for data that can convert itself to a GeoJSON feature
type GeoJSONFeatureCreator interface {
	GeoJSONFeature() (*geojson.Feature, error)
}

// GeoJSONFeatureCollectionCreator is an interface for data that can convert itself to a GeoJSON feature collection
type GeoJSONFeatureCollectionCreator interface {
	GeoJSONFeatureCollection() (*geojson.FeatureCollection, error)
}
