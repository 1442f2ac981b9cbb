// Copyright 2025, Digital Earth Pacific
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package processor

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	indexdb "github.com/digitalearthpacific/dep-fc/artifactindex/db"
	"github.com/digitalearthpacific/dep-fc/catalog"
	"github.com/digitalearthpacific/dep-fc/fc"
	"github.com/digitalearthpacific/dep-fc/raster"
	"github.com/digitalearthpacific/dep-fc/storage"
	"github.com/digitalearthpacific/dep-fc/tiles"
	"github.com/digitalearthpacific/dep-fc/unmix"
)

var testTile = tiles.Tile{Path: 77, Row: 19}

// Worked example: tile 77,19 has three usable scenes in 2024
var testSceneIDs = []string{
	"LC08_L2SP_077019_20240607_20240609_02_T1",
	"LC09_L2SP_077019_20240710_20240712_02_T1",
	"LC08_L2SP_077019_20240811_20240813_02_T1",
}

var testAcquisitions = map[string]string{
	testSceneIDs[0]: "2024-06-07T21:10:00Z",
	testSceneIDs[1]: "2024-07-10T21:10:00Z",
	testSceneIDs[2]: "2024-08-11T21:10:00Z",
}

// memStore is an in-memory Store that counts writes and injects failures
type memStore struct {
	rasters   map[string]*raster.Raster
	writes    int
	existsErr error
	writeErr  map[string]error
}

func newMemStore() *memStore {
	return &memStore{rasters: map[string]*raster.Raster{}, writeErr: map[string]error{}}
}

func (s *memStore) Exists(ctx context.Context, key string) (bool, error) {
	if s.existsErr != nil {
		return false, s.existsErr
	}
	_, ok := s.rasters[key]
	return ok, nil
}

func (s *memStore) WriteRaster(ctx context.Context, key string, r *raster.Raster) error {
	if err := s.writeErr[key]; err != nil {
		return err
	}
	s.rasters[key] = r
	s.writes++
	return nil
}

func (s *memStore) ReadRaster(ctx context.Context, key string, bandNames ...string) (*raster.Raster, error) {
	r, ok := s.rasters[key]
	if !ok {
		return nil, &storage.Error{Op: "read", Key: key, Err: errors.New("not found")}
	}
	return r, nil
}

func (s *memStore) List(ctx context.Context, prefix string) ([]string, error) {
	keys := []string{}
	for key := range s.rasters {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

type fakeIndex struct {
	recorded  []indexdb.Artifact
	recordErr error
	latest    time.Time
	latestErr error
}

func (i *fakeIndex) Record(artifact indexdb.Artifact) error {
	if i.recordErr != nil {
		return i.recordErr
	}
	i.recorded = append(i.recorded, artifact)
	return nil
}

func (i *fakeIndex) LatestAcquisition(tile tiles.Tile, version string) (time.Time, error) {
	if i.latestErr != nil {
		return time.Time{}, i.latestErr
	}
	return i.latest, nil
}

type stubLoader struct{}

func (stubLoader) LoadBands(ctx context.Context, scene catalog.Scene) (*fc.SceneBands, error) {
	bands := &fc.SceneBands{Grid: raster.Grid{Width: 2, Height: 2}}
	for band := 0; band < unmix.NumBands; band++ {
		bands.Refl[band] = []uint16{16364, 16364, 16364, 16364}
	}
	bands.QAPixel = make([]uint16, 4)
	return bands, nil
}

type stubUnmixer struct{}

func (stubUnmixer) Unmix(refl [unmix.NumBands]float64) (unmix.Fractions, error) {
	return unmix.Fractions{Bare: 0.2, PV: 0.6, NPV: 0.2, UE: 0.05}, nil
}

func stacItemJSON(id string) map[string]interface{} {
	assets := map[string]interface{}{}
	for _, asset := range fc.RequiredAssets {
		assets[asset] = map[string]interface{}{"href": "s3://usgs-landsat/" + id + "_" + asset + ".TIF"}
	}
	return map[string]interface{}{
		"id":         id,
		"geometry":   map[string]interface{}{"type": "Polygon", "coordinates": []interface{}{}},
		"properties": map[string]interface{}{"datetime": testAcquisitions[id]},
		"assets":     assets,
	}
}

// newStacServer serves one page containing the given scenes
func newStacServer(sceneIDs ...string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		features := []interface{}{}
		for _, id := range sceneIDs {
			features = append(features, stacItemJSON(id))
		}
		writer.Header().Set("Content-Type", "application/json")
		json.NewEncoder(writer).Encode(map[string]interface{}{
			"features": features,
			"links":    []interface{}{},
		})
	}))
}

func newTestProcessor(stacURL string, store storage.Store, index Index) *Processor {
	return &Processor{
		Catalog: &catalog.Context{BaseStacURL: stacURL},
		Invoker: &fc.Invoker{Loader: stubLoader{}, Unmixer: stubUnmixer{}},
		Store:   store,
		Index:   index,
		Paths:   storage.NewItemPath("0.1.0"),
	}
}

func TestProcessYear(t *testing.T) {
	server := newStacServer(testSceneIDs...)
	defer server.Close()
	store := newMemStore()
	index := &fakeIndex{}
	proc := newTestProcessor(server.URL, store, index)

	report, err := proc.ProcessYear(context.Background(), testTile, 2024)
	assert.Nil(t, err)
	assert.Equal(t, testSceneIDs, report.Processed)
	assert.Empty(t, report.Skipped)
	assert.Empty(t, report.Failed)
	assert.Equal(t, 3, store.writes)

	// One artifact per scene, at the expected key
	for _, id := range testSceneIDs {
		key := proc.Paths.SceneKey(testTile, 2024, id)
		r, err := store.ReadRaster(context.Background(), key)
		assert.Nil(t, err)
		assert.Equal(t, fc.OutputBands, r.BandNames)
	}

	// Every artifact is indexed with its acquisition
	assert.Len(t, index.recorded, 3)
	assert.Equal(t, "scene", index.recorded[0].Kind)
	assert.Equal(t, 77, index.recorded[0].WRSPath)
	assert.Equal(t, 2024, index.recorded[0].Year)
	assert.Equal(t, "0.1.0", index.recorded[0].Version)
}

func TestProcessYearIdempotent(t *testing.T) {
	server := newStacServer(testSceneIDs...)
	defer server.Close()
	store := newMemStore()
	proc := newTestProcessor(server.URL, store, nil)

	_, err := proc.ProcessYear(context.Background(), testTile, 2024)
	assert.Nil(t, err)
	assert.Equal(t, 3, store.writes)

	// A second run finds every artifact in place and writes nothing
	report, err := proc.ProcessYear(context.Background(), testTile, 2024)
	assert.Nil(t, err)
	assert.Empty(t, report.Processed)
	assert.Equal(t, testSceneIDs, report.Skipped)
	assert.Equal(t, 3, store.writes)
}

func TestProcessYearEmpty(t *testing.T) {
	server := newStacServer()
	defer server.Close()
	proc := newTestProcessor(server.URL, newMemStore(), nil)

	report, err := proc.ProcessYear(context.Background(), testTile, 2024)
	assert.Nil(t, err)
	assert.Empty(t, report.Processed)
	assert.Empty(t, report.Skipped)
	assert.Empty(t, report.Failed)
}

func TestProcessYearIsolatesSceneFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		broken := stacItemJSON(testSceneIDs[1])
		delete(broken["assets"].(map[string]interface{}), "qa_pixel")
		writer.Header().Set("Content-Type", "application/json")
		json.NewEncoder(writer).Encode(map[string]interface{}{
			"features": []interface{}{stacItemJSON(testSceneIDs[0]), broken, stacItemJSON(testSceneIDs[2])},
			"links":    []interface{}{},
		})
	}))
	defer server.Close()
	store := newMemStore()
	proc := newTestProcessor(server.URL, store, nil)

	report, err := proc.ProcessYear(context.Background(), testTile, 2024)
	assert.Nil(t, err)
	assert.Equal(t, []string{testSceneIDs[0], testSceneIDs[2]}, report.Processed)
	assert.Equal(t, []string{testSceneIDs[1]}, report.Failed)
	assert.Equal(t, 2, store.writes)
}

func TestProcessYearWriteFailure(t *testing.T) {
	server := newStacServer(testSceneIDs...)
	defer server.Close()
	store := newMemStore()
	proc := newTestProcessor(server.URL, store, nil)
	store.writeErr[proc.Paths.SceneKey(testTile, 2024, testSceneIDs[0])] =
		&storage.Error{Op: "put", Key: "k", Err: errors.New("access denied")}

	report, err := proc.ProcessYear(context.Background(), testTile, 2024)
	assert.Nil(t, err)
	assert.Equal(t, []string{testSceneIDs[0]}, report.Failed)
	assert.Equal(t, testSceneIDs[1:], report.Processed)
}

func TestProcessYearExistsFailure(t *testing.T) {
	server := newStacServer(testSceneIDs[0])
	defer server.Close()
	store := newMemStore()
	store.existsErr = &storage.Error{Op: "head", Key: "k", Err: errors.New("timeout")}
	proc := newTestProcessor(server.URL, store, nil)

	report, err := proc.ProcessYear(context.Background(), testTile, 2024)
	assert.Nil(t, err)
	assert.Equal(t, []string{testSceneIDs[0]}, report.Failed)
	assert.Equal(t, 0, store.writes)
}

func TestProcessYearIndexFailureDoesNotFailScene(t *testing.T) {
	server := newStacServer(testSceneIDs[0])
	defer server.Close()
	store := newMemStore()
	index := &fakeIndex{recordErr: errors.New("db down")}
	proc := newTestProcessor(server.URL, store, index)

	report, err := proc.ProcessYear(context.Background(), testTile, 2024)
	assert.Nil(t, err)
	assert.Equal(t, []string{testSceneIDs[0]}, report.Processed)
	assert.Empty(t, report.Failed)
	assert.Equal(t, 1, store.writes)
}

func TestProcessYearCancelled(t *testing.T) {
	server := newStacServer(testSceneIDs...)
	defer server.Close()
	store := newMemStore()
	proc := newTestProcessor(server.URL, store, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	report, err := proc.ProcessYear(ctx, testTile, 2024)
	assert.Nil(t, err)
	assert.Empty(t, report.Processed)
	assert.Equal(t, 0, store.writes)
}

func TestProcessRecentUsesIndexCutoff(t *testing.T) {
	server := newStacServer(testSceneIDs...)
	defer server.Close()
	store := newMemStore()
	index := &fakeIndex{latest: time.Date(2024, time.July, 10, 21, 10, 0, 0, time.UTC)}
	proc := newTestProcessor(server.URL, store, index)

	report, err := proc.ProcessRecent(context.Background(), testTile)
	assert.Nil(t, err)

	// Only the August scene is newer than the indexed cutoff
	assert.Equal(t, []string{testSceneIDs[2]}, report.Processed)
	assert.Equal(t, 1, store.writes)
}

func TestProcessRecentNothingNew(t *testing.T) {
	server := newStacServer(testSceneIDs...)
	defer server.Close()
	store := newMemStore()
	index := &fakeIndex{latest: time.Date(2024, time.August, 11, 21, 10, 0, 0, time.UTC)}
	proc := newTestProcessor(server.URL, store, index)

	report, err := proc.ProcessRecent(context.Background(), testTile)
	assert.Nil(t, err)
	assert.Empty(t, report.Processed)
	assert.Equal(t, 0, store.writes)
}

func TestProcessRecentStorageScanFallback(t *testing.T) {
	server := newStacServer(testSceneIDs...)
	defer server.Close()
	store := newMemStore()
	proc := newTestProcessor(server.URL, store, nil)

	// Two artifacts already in the store; only their keys carry the history
	for _, id := range testSceneIDs[:2] {
		key := proc.Paths.SceneKey(testTile, 2024, id)
		store.rasters[key] = raster.New(raster.Grid{Width: 1, Height: 1}, fc.OutputBands...)
	}

	report, err := proc.ProcessRecent(context.Background(), testTile)
	assert.Nil(t, err)

	// The cutoff from the key scan excludes June; July is at the cutoff's
	// date but its artifact exists, so only August is newly processed
	assert.Equal(t, []string{testSceneIDs[2]}, report.Processed)
	assert.NotContains(t, report.Processed, testSceneIDs[0])
	assert.Equal(t, 1, store.writes)
}

func TestProcessRecentFirstRunProcessesEverything(t *testing.T) {
	server := newStacServer(testSceneIDs...)
	defer server.Close()
	store := newMemStore()
	index := &fakeIndex{latestErr: sql.ErrNoRows}
	proc := newTestProcessor(server.URL, store, index)

	report, err := proc.ProcessRecent(context.Background(), testTile)
	assert.Nil(t, err)
	assert.Equal(t, testSceneIDs, report.Processed)
	assert.Equal(t, 3, store.writes)
}
