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

package main

import (
	"context"
	"fmt"

	cli "gopkg.in/urfave/cli.v1"

	"github.com/digitalearthpacific/dep-fc/artifactindex"
	"github.com/digitalearthpacific/dep-fc/raster"
	"github.com/digitalearthpacific/dep-fc/storage"
	"github.com/digitalearthpacific/dep-fc/summary"
	"github.com/digitalearthpacific/dep-fc/tiles"
	"github.com/digitalearthpacific/dep-fc/util"
)

func annualSummaryAction(c *cli.Context) error {
	tile, err := tiles.Parse(c.String("tile"))
	if err != nil {
		return cli.NewExitError(err.Error(), 2)
	}
	year := c.Int("year")
	if year == 0 {
		return cli.NewExitError("--year is required", 2)
	}

	store, err := newStore()
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	paths := storage.NewItemPath(outputVersion(c))
	builder := &summary.Builder{
		Store:        store,
		Index:        newSummaryIndex(),
		Paths:        paths,
		Log:          &util.BasicLogContext{},
		FallbackGrid: fallbackGrid(store, paths, tile),
	}

	result, err := builder.BuildAnnual(context.Background(), tile, year)
	if err != nil {
		return cli.NewExitError(fmt.Sprintf("Annual summary for tile %v year %d failed: %v", tile, year, err), 1)
	}

	util.LogInfo(&util.BasicLogContext{}, fmt.Sprintf("Annual summary complete: %s (%d scenes)", result.Key, result.Scenes))
	return nil
}

// fallbackGrid finds a grid for a zero-scene summary by borrowing one from
// any artifact the tile already has, in any year. A zero grid means the
// tile has never produced anything; the summary degenerates to an empty
// raster until a scene lands.
func fallbackGrid(store storage.Store, paths storage.ItemPath, tile tiles.Tile) raster.Grid {
	ctx := context.Background()
	keys, err := store.List(ctx, paths.TilePrefix(tile))
	if err != nil || len(keys) == 0 {
		return raster.Grid{}
	}
	r, err := store.ReadRaster(ctx, keys[0])
	if err != nil {
		return raster.Grid{}
	}
	return r.Grid
}

func newSummaryIndex() summary.Index {
	index, err := artifactindex.NewRecorder(getDbConnectionFunc)
	if err != nil {
		util.LogAlert(&util.BasicLogContext{}, fmt.Sprintf("Artifact index unavailable, continuing without it: %v", err))
		return nil
	}
	return index
}
