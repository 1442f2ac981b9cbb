package artifactindex

import (
	"database/sql"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/digitalearthpacific/dep-fc/artifactindex/db"
	"github.com/digitalearthpacific/dep-fc/model"
	"github.com/digitalearthpacific/dep-fc/tiles"
	"github.com/digitalearthpacific/dep-fc/util"
)

// DiscoverHandler is a handler for /fc/discover
// @Title fcDiscoverHandler
// @Description lists produced fractional cover artifacts for a tile
// @Accept  plain
// @Param   tile  query   string  true         "The tile, as \"path,row\""
// @Param   year  query   string  false        "Restrict to one year"
// @Param   kind  query   string  false        "Restrict to \"scene\" or \"summary\" artifacts"
// @Success 200 {object}  geojson.FeatureCollection
// @Failure 400 {object}  string
// @Router /fc/discover [get]
type DiscoverHandler struct {
	Context Context
}

// NewDiscoverHandler creates a new handler using the given DB
func NewDiscoverHandler(connectionProvider db.ConnectionProvider) (*DiscoverHandler, error) {
	database, err := connectionProvider(&util.BasicLogContext{})
	if err != nil {
		return nil, err
	}
	return &DiscoverHandler{Context: Context{DB: database}}, nil
}

// ServeHTTP implements the http.Handler interface for the DiscoverHandler type
func (h DiscoverHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	tile, err := tiles.Parse(r.FormValue("tile"))
	if err != nil {
		message := fmt.Sprintf("The tile value of %v is invalid", r.FormValue("tile"))
		util.LogSimpleErr(&h.Context, message, err)
		util.HTTPError(r, w, &h.Context, message, http.StatusBadRequest)
		return
	}

	year := 0
	if r.FormValue("year") != "" {
		if year, err = strconv.Atoi(r.FormValue("year")); err != nil {
			message := fmt.Sprintf("The year value of %v is invalid", r.FormValue("year"))
			util.LogSimpleErr(&h.Context, message, err)
			util.HTTPError(r, w, &h.Context, message, http.StatusBadRequest)
			return
		}
	}

	kind := r.FormValue("kind")
	if kind != "" && kind != string(model.SceneArtifact) && kind != string(model.SummaryArtifact) {
		message := fmt.Sprintf("The kind value of %v is invalid", kind)
		util.LogAlert(&h.Context, message)
		util.HTTPError(r, w, &h.Context, message, http.StatusBadRequest)
		return
	}

	tx, err := h.Context.DB.Begin()
	if err != nil {
		message := fmt.Sprintf("Could not begin DB transaction: %v", err)
		util.LogSimpleErr(&h.Context, message, err)
		util.HTTPError(r, w, &h.Context, message, http.StatusInternalServerError)
		return
	}
	defer tx.Commit()

	multiResult, err := discoverArtifacts(tx, tile, year, kind)
	if err != nil {
		message := fmt.Sprintf("Error searching for artifacts: %v", err)
		util.LogSimpleErr(&h.Context, message, err)
		util.HTTPError(r, w, &h.Context, message, http.StatusInternalServerError)
		tx.Rollback()
		return
	}

	featureCollection, err := multiResult.GeoJSONFeatureCollection()
	if err != nil {
		message := fmt.Sprintf("Error converting to feature collection: %v", err)
		util.LogSimpleErr(&h.Context, message, err)
		util.HTTPError(r, w, &h.Context, message, http.StatusInternalServerError)
		return
	}
	w.Write([]byte(featureCollection.String()))
}

// MetadataHandler is a handler for /fc/{id}
// @Title fcMetadataHandler
// @Description returns one produced artifact by its product id
// @Accept  plain
// @Param   id   path   string  true        "The product ID of the requested artifact"
// @Success 200 {object}  geojson.Feature
// @Failure 404 {object}  string
// @Router /fc/{id} [get]
type MetadataHandler struct {
	Context Context
}

// NewMetadataHandler creates a new handler using the given DB
func NewMetadataHandler(connectionProvider db.ConnectionProvider) (*MetadataHandler, error) {
	database, err := connectionProvider(&util.BasicLogContext{})
	if err != nil {
		return nil, err
	}
	return &MetadataHandler{Context: Context{DB: database}}, nil
}

func (h MetadataHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	productID, ok := mux.Vars(r)["id"]
	if !ok {
		message := "No product ID found in URL"
		util.LogAlert(&h.Context, message)
		util.HTTPError(r, w, &h.Context, message, http.StatusNotFound)
		return
	}

	tx, err := h.Context.DB.Begin()
	if err != nil {
		message := fmt.Sprintf("Could not begin DB transaction: %v", err)
		util.LogSimpleErr(&h.Context, message, err)
		util.HTTPError(r, w, &h.Context, message, http.StatusInternalServerError)
		return
	}
	defer tx.Commit()

	artifact, err := db.GetArtifactByID(tx, productID)
	if err == sql.ErrNoRows {
		message := fmt.Sprintf("Artifact not found: %s", productID)
		util.LogInfo(&h.Context, message)
		util.HTTPError(r, w, &h.Context, message, http.StatusNotFound)
		tx.Rollback()
		return
	}
	if err != nil {
		message := fmt.Sprintf("Server error searching for artifact: %v", err)
		util.LogSimpleErr(&h.Context, message, err)
		util.HTTPError(r, w, &h.Context, message, http.StatusInternalServerError)
		tx.Rollback()
		return
	}

	feature, err := artifactResult(*artifact).GeoJSONFeature()
	if err != nil {
		message := fmt.Sprintf("Error converting artifact to geojson: %v", err)
		util.LogSimpleErr(&h.Context, message, err)
		util.HTTPError(r, w, &h.Context, message, http.StatusInternalServerError)
		tx.Rollback()
		return
	}
	w.Write([]byte(feature.String()))
}
