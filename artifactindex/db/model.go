package db

import (
	"database/sql"
	"time"

	"github.com/digitalearthpacific/dep-fc/util"
)

//ConnectionProvider is a function that can provide a database connection.
type ConnectionProvider func(util.LogContext) (*sql.DB, error)

//Artifact is one row of the produced-artifact index. The index trails the
//object store; S3 is the source of truth.
type Artifact struct {
	ProductID       string
	Kind            string // "scene" or "summary"
	WRSPath         int
	WRSRow          int
	AcquisitionDate time.Time
	Year            int
	Version         string
	StorageKey      string
	CreatedAt       time.Time
}
