package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/digitalearthpacific/dep-fc/tiles"
)

//InsertArtifact records a produced artifact. Re-processing a scene at the
//same version updates the existing row rather than duplicating it.
func InsertArtifact(tx *sql.Tx, artifact Artifact) error {
	_, err := tx.Exec(`
		INSERT INTO public.fc_artifacts
			(product_id, kind, wrs_path, wrs_row, acquisition_date, year, version, storage_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (product_id, version) DO UPDATE
		SET storage_key = EXCLUDED.storage_key, created_at = now()`,
		artifact.ProductID, artifact.Kind, artifact.WRSPath, artifact.WRSRow,
		artifact.AcquisitionDate, artifact.Year, artifact.Version, artifact.StorageKey,
	)
	return err
}

//GetArtifactByID returns the most recently recorded artifact with the given
//product id, or sql.ErrNoRows.
func GetArtifactByID(tx *sql.Tx, productID string) (*Artifact, error) {
	rows, err := tx.Query(`
		SELECT product_id, kind, wrs_path, wrs_row, acquisition_date, year, version, storage_key, created_at
		FROM public.fc_artifacts
		WHERE product_id=$1
		ORDER BY created_at DESC
		LIMIT 1`,
		productID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	if !rows.Next() {
		return nil, sql.ErrNoRows
	}

	artifact := Artifact{}
	err = rows.Scan(&artifact.ProductID, &artifact.Kind, &artifact.WRSPath, &artifact.WRSRow,
		&artifact.AcquisitionDate, &artifact.Year, &artifact.Version, &artifact.StorageKey, &artifact.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &artifact, nil
}

//SearchArtifacts returns artifacts for a tile, optionally restricted to one
//year (year != 0) and one kind (kind != ""), in acquisition order.
func SearchArtifacts(tx *sql.Tx, tile tiles.Tile, year int, kind string) ([]Artifact, error) {
	query := `
		SELECT product_id, kind, wrs_path, wrs_row, acquisition_date, year, version, storage_key, created_at
		FROM public.fc_artifacts
		WHERE wrs_path=$1 AND wrs_row=$2`
	args := []interface{}{tile.Path, tile.Row}

	if year != 0 {
		args = append(args, year)
		query += fmt.Sprintf(" AND year=$%d", len(args))
	}
	if kind != "" {
		args = append(args, kind)
		query += fmt.Sprintf(" AND kind=$%d", len(args))
	}
	query += " ORDER BY acquisition_date"

	rows, err := tx.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	artifacts := []Artifact{}
	for rows.Next() {
		artifact := Artifact{}
		err = rows.Scan(&artifact.ProductID, &artifact.Kind, &artifact.WRSPath, &artifact.WRSRow,
			&artifact.AcquisitionDate, &artifact.Year, &artifact.Version, &artifact.StorageKey, &artifact.CreatedAt)
		if err != nil {
			return nil, err
		}
		artifacts = append(artifacts, artifact)
	}
	return artifacts, rows.Err()
}

//LatestAcquisition returns the acquisition date of the newest indexed scene
//artifact for a tile at a version, or sql.ErrNoRows when none exists.
func LatestAcquisition(tx *sql.Tx, tile tiles.Tile, version string) (time.Time, error) {
	var latest sql.NullTime
	err := tx.QueryRow(`
		SELECT max(acquisition_date)
		FROM public.fc_artifacts
		WHERE wrs_path=$1 AND wrs_row=$2 AND version=$3 AND kind='scene'`,
		tile.Path, tile.Row, version,
	).Scan(&latest)
	if err != nil {
		return time.Time{}, err
	}
	if !latest.Valid {
		return time.Time{}, sql.ErrNoRows
	}
	return latest.Time, nil
}
