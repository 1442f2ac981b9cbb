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

// Package summary aggregates a year of per-scene fractional cover rasters
// into one annual artifact: the per-pixel temporal median of each fraction
// band plus a valid-observation count.
package summary

import (
	"context"
	"fmt"
	"time"

	indexdb "github.com/digitalearthpacific/dep-fc/artifactindex/db"
	"github.com/digitalearthpacific/dep-fc/fc"
	"github.com/digitalearthpacific/dep-fc/raster"
	"github.com/digitalearthpacific/dep-fc/storage"
	"github.com/digitalearthpacific/dep-fc/tiles"
	"github.com/digitalearthpacific/dep-fc/util"
)

// Bands of an annual summary raster
var SummaryBands = []string{"bs_median", "pv_median", "npv_median", "count"}

// medianSources maps summary bands to the scene band they aggregate
var medianSources = map[string]string{
	"bs_median":  "bs",
	"pv_median":  "pv",
	"npv_median": "npv",
}

// Index is the artifact index as the builder needs it; nil disables
// recording
type Index interface {
	Record(artifact indexdb.Artifact) error
}

// Result describes one built summary
type Result struct {
	Key    string
	Scenes int
}

// Builder computes annual summaries from persisted per-scene artifacts
type Builder struct {
	Store storage.Store
	Index Index
	Paths storage.ItemPath
	Log   util.LogContext

	// FallbackGrid is the grid of a summary built from zero scenes, where
	// no scene raster exists to take the grid from
	FallbackGrid raster.Grid
}

// BuildAnnual recomputes and overwrites the annual summary for a tile/year
// from all of its persisted per-scene rasters. Idempotent; safe to re-run
// after new scenes are added.
func (b *Builder) BuildAnnual(ctx context.Context, tile tiles.Tile, year int) (*Result, error) {
	keys, err := b.Store.List(ctx, b.Paths.ScenePrefix(tile, year))
	if err != nil {
		return nil, err
	}

	sceneRasters := make([]*raster.Raster, 0, len(keys))
	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		r, err := b.Store.ReadRaster(ctx, key, fc.OutputBands...)
		if err != nil {
			return nil, err
		}
		if len(sceneRasters) > 0 && !r.Grid.Equal(sceneRasters[0].Grid) {
			util.LogAlert(b.Log, fmt.Sprintf("Scene artifact %s is not co-registered with the rest of the year; excluding it", key))
			continue
		}
		sceneRasters = append(sceneRasters, r)
	}

	grid := b.FallbackGrid
	if len(sceneRasters) > 0 {
		grid = sceneRasters[0].Grid
	}

	annual, err := aggregate(grid, sceneRasters)
	if err != nil {
		return nil, err
	}

	key := b.Paths.SummaryKey(tile, year)
	if err = b.Store.WriteRaster(ctx, key, annual); err != nil {
		return nil, err
	}
	b.record(tile, year, key)

	util.LogInfo(b.Log, fmt.Sprintf("Wrote annual summary %s from %d scenes", key, len(sceneRasters)))
	return &Result{Key: key, Scenes: len(sceneRasters)}, nil
}

// aggregate computes the summary raster. With zero scenes every median
// pixel is nodata and every count is zero.
func aggregate(grid raster.Grid, sceneRasters []*raster.Raster) (*raster.Raster, error) {
	annual := raster.New(grid, SummaryBands...)

	count, _ := annual.Band("count")

	// Fraction bands of a scene raster are nodata together, so validity is
	// counted once, from the bare soil band
	validity := make([][]uint8, len(sceneRasters))
	for s, r := range sceneRasters {
		bs, err := r.Band("bs")
		if err != nil {
			return nil, err
		}
		validity[s] = bs
	}

	for i := 0; i < grid.Pixels(); i++ {
		n := 0
		for s := range sceneRasters {
			if raster.Valid(validity[s][i]) {
				n++
			}
		}
		count[i] = clampCount(n)
	}

	vals := make([]uint8, len(sceneRasters))
	for summaryBand, sceneBand := range medianSources {
		out, _ := annual.Band(summaryBand)

		sceneData := make([][]uint8, len(sceneRasters))
		for s, r := range sceneRasters {
			data, err := r.Band(sceneBand)
			if err != nil {
				return nil, err
			}
			sceneData[s] = data
		}

		for i := 0; i < grid.Pixels(); i++ {
			for s := range sceneData {
				vals[s] = sceneData[s][i]
			}
			if median, ok := raster.MedianValid(vals); ok {
				out[i] = median
			}
		}
	}

	return annual, nil
}

// clampCount keeps the count band clear of the nodata sentinel
func clampCount(n int) uint8 {
	if n >= int(raster.NoData) {
		return raster.NoData - 1
	}
	return uint8(n)
}

func (b *Builder) record(tile tiles.Tile, year int, key string) {
	if b.Index == nil {
		return
	}
	err := b.Index.Record(indexdb.Artifact{
		ProductID:       fmt.Sprintf("dep_%s_%s_summary_%s%s_%d", storage.Sensor, storage.DatasetID, tile.PathString(), tile.RowString(), year),
		Kind:            "summary",
		WRSPath:         tile.Path,
		WRSRow:          tile.Row,
		AcquisitionDate: time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
		Year:            year,
		Version:         b.Paths.Version,
		StorageKey:      key,
	})
	if err != nil {
		util.LogAlert(b.Log, fmt.Sprintf("Could not index summary %s: %v", key, err))
	}
}
