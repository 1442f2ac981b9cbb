package artifactindex

import (
	"time"

	"github.com/digitalearthpacific/dep-fc/artifactindex/db"
	"github.com/digitalearthpacific/dep-fc/tiles"
	"github.com/digitalearthpacific/dep-fc/util"
)

// Recorder writes produced artifacts into the index and answers the
// incremental-processing cutoff query
type Recorder struct {
	Context Context
}

// NewRecorder creates a recorder using the given DB
func NewRecorder(connectionProvider db.ConnectionProvider) (*Recorder, error) {
	database, err := connectionProvider(&util.BasicLogContext{})
	if err != nil {
		return nil, err
	}
	return &Recorder{Context: Context{DB: database}}, nil
}

// Record upserts one artifact row
func (rec *Recorder) Record(artifact db.Artifact) error {
	tx, err := rec.Context.DB.Begin()
	if err != nil {
		return err
	}
	if err = db.InsertArtifact(tx, artifact); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// LatestAcquisition returns the newest indexed scene acquisition for a tile
// at a version; sql.ErrNoRows when the tile has no indexed scenes
func (rec *Recorder) LatestAcquisition(tile tiles.Tile, version string) (time.Time, error) {
	tx, err := rec.Context.DB.Begin()
	if err != nil {
		return time.Time{}, err
	}
	defer tx.Commit()

	latest, err := db.LatestAcquisition(tx, tile, version)
	if err != nil {
		tx.Rollback()
		return time.Time{}, err
	}
	return latest, nil
}
