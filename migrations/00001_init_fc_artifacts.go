package migration

import (
	"database/sql"

	"github.com/pressly/goose"
)

func init() {
	goose.AddMigration(Up00001, Down00001)
}

//Up00001 creates the produced-artifact index.
func Up00001(tx *sql.Tx) error {
	err := createArtifactsTable(tx)
	if err == nil {
		err = addIndexes(tx)
	}
	return err
}

//Down00001 undoes the db changes.
func Down00001(tx *sql.Tx) error {
	_, err := tx.Exec(`DROP TABLE IF EXISTS public.fc_artifacts`)
	return err
}

func createArtifactsTable(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS public.fc_artifacts (
			product_id       text        NOT NULL,
			kind             text        NOT NULL,
			wrs_path         integer     NOT NULL,
			wrs_row          integer     NOT NULL,
			acquisition_date timestamptz NOT NULL,
			year             integer     NOT NULL,
			version          text        NOT NULL,
			storage_key      text        NOT NULL,
			created_at       timestamptz NOT NULL DEFAULT now(),
			CONSTRAINT fc_artifacts_primary PRIMARY KEY (product_id, version)
		)`)
	return err
}

func addIndexes(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE INDEX IF NOT EXISTS idx_fc_artifacts_tile_year
		ON public.fc_artifacts (wrs_path, wrs_row, year);

		CREATE INDEX IF NOT EXISTS idx_fc_artifacts_acquisition
		ON public.fc_artifacts (wrs_path, wrs_row, acquisition_date);
		`)
	return err
}
