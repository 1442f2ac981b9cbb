package artifactindex

import (
	"database/sql"

	"github.com/digitalearthpacific/dep-fc/artifactindex/db"
	"github.com/digitalearthpacific/dep-fc/model"
	"github.com/digitalearthpacific/dep-fc/tiles"
)

func discoverArtifacts(tx *sql.Tx, tile tiles.Tile, year int, kind string) (model.GeoJSONFeatureCollectionCreator, error) {
	artifacts, err := db.SearchArtifacts(tx, tile, year, kind)
	if err != nil {
		return nil, err
	}

	multiResult := model.MultiArtifactResult{
		FeatureCreators: make([]model.GeoJSONFeatureCreator, len(artifacts)),
	}
	for i, artifact := range artifacts {
		multiResult.FeatureCreators[i] = artifactResult(artifact)
	}
	return multiResult, nil
}

func artifactResult(artifact db.Artifact) model.ArtifactResult {
	return model.ArtifactResult{
		ID:           artifact.ProductID,
		Kind:         model.ArtifactKind(artifact.Kind),
		WRSPath:      artifact.WRSPath,
		WRSRow:       artifact.WRSRow,
		AcquiredDate: artifact.AcquisitionDate,
		Year:         artifact.Year,
		Version:      artifact.Version,
		StorageKey:   artifact.StorageKey,
	}
}
