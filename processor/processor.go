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

// Package processor runs fractional cover over batches of scenes for one
// tile. Batches are single-threaded; scale-out happens by running one tile
// and year per workflow step.
package processor

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	indexdb "github.com/digitalearthpacific/dep-fc/artifactindex/db"
	"github.com/digitalearthpacific/dep-fc/catalog"
	"github.com/digitalearthpacific/dep-fc/fc"
	"github.com/digitalearthpacific/dep-fc/storage"
	"github.com/digitalearthpacific/dep-fc/tiles"
	"github.com/digitalearthpacific/dep-fc/util"
)

// Index is the produced-artifact index as the processor needs it. A nil
// Index disables recording; the object store remains the source of truth.
type Index interface {
	Record(artifact indexdb.Artifact) error
	LatestAcquisition(tile tiles.Tile, version string) (time.Time, error)
}

// BatchReport summarizes one batch run by scene ID
type BatchReport struct {
	Processed []string
	Skipped   []string
	Failed    []string
}

// Processor orchestrates scene discovery, fractional cover invocation and
// artifact persistence for one tile
type Processor struct {
	Catalog *catalog.Context
	Invoker *fc.Invoker
	Store   storage.Store
	Index   Index
	Paths   storage.ItemPath
}

// ProcessYear runs fractional cover over every scene of a tile's calendar
// year. Scenes whose artifact already exists at the current version are
// skipped; one scene's failure never aborts the rest of the batch.
func (p *Processor) ProcessYear(ctx context.Context, tile tiles.Tile, year int) (*BatchReport, error) {
	scenes, err := catalog.SearchYear(p.Catalog, tile, year)
	if errors.Is(err, catalog.ErrEmptyCollection) {
		util.LogInfo(p.Catalog, fmt.Sprintf("No scenes found for tile %v year %d", tile, year))
		return &BatchReport{}, nil
	}
	if err != nil {
		return nil, err
	}
	return p.processScenes(ctx, tile, scenes), nil
}

// ProcessRecent runs fractional cover over every scene of a tile acquired
// after its most recently produced output. Supports cron-style invocation
// without reprocessing history.
func (p *Processor) ProcessRecent(ctx context.Context, tile tiles.Tile) (*BatchReport, error) {
	cutoff, err := p.latestProcessed(ctx, tile)
	if err != nil {
		return nil, err
	}

	scenes, err := catalog.SearchSince(p.Catalog, tile, cutoff)
	if errors.Is(err, catalog.ErrEmptyCollection) {
		util.LogInfo(p.Catalog, fmt.Sprintf("No new scenes for tile %v since %v", tile, cutoff))
		return &BatchReport{}, nil
	}
	if err != nil {
		return nil, err
	}
	return p.processScenes(ctx, tile, scenes), nil
}

func (p *Processor) processScenes(ctx context.Context, tile tiles.Tile, scenes []catalog.Scene) *BatchReport {
	report := &BatchReport{}

	for _, scene := range scenes {
		if err := ctx.Err(); err != nil {
			util.LogAlert(p.Catalog, fmt.Sprintf("Batch for tile %v interrupted: %v", tile, err))
			break
		}

		key := p.Paths.SceneKey(tile, scene.AcquiredDate.Year(), scene.ID)

		exists, err := p.Store.Exists(ctx, key)
		if err != nil {
			util.LogSimpleErr(p.Catalog, fmt.Sprintf("Could not check artifact %s: ", key), err)
			report.Failed = append(report.Failed, scene.ID)
			continue
		}
		if exists {
			report.Skipped = append(report.Skipped, scene.ID)
			continue
		}

		output, err := p.Invoker.Invoke(ctx, scene)
		if err != nil {
			util.LogSimpleErr(p.Catalog, fmt.Sprintf("Scene %s failed: ", scene.ID), err)
			report.Failed = append(report.Failed, scene.ID)
			continue
		}

		if err = p.Store.WriteRaster(ctx, key, output); err != nil {
			util.LogSimpleErr(p.Catalog, fmt.Sprintf("Could not write artifact %s: ", key), err)
			report.Failed = append(report.Failed, scene.ID)
			continue
		}

		p.recordScene(tile, scene, key)
		report.Processed = append(report.Processed, scene.ID)

		util.LogAudit(p.Catalog, util.LogAuditInput{
			Actor: "processor", Action: "write", Actee: key,
			Message: fmt.Sprintf("Wrote fractional cover for scene %s", scene.ID), Severity: util.INFO,
		})
	}

	util.LogInfo(p.Catalog, fmt.Sprintf("Tile %v batch complete: %d processed, %d skipped, %d failed",
		tile, len(report.Processed), len(report.Skipped), len(report.Failed)))
	return report
}

// recordScene updates the artifact index. Index failures are logged but do
// not fail the scene: the artifact is already durable in the store.
func (p *Processor) recordScene(tile tiles.Tile, scene catalog.Scene, key string) {
	if p.Index == nil {
		return
	}
	err := p.Index.Record(indexdb.Artifact{
		ProductID:       scene.ID,
		Kind:            "scene",
		WRSPath:         tile.Path,
		WRSRow:          tile.Row,
		AcquisitionDate: scene.AcquiredDate,
		Year:            scene.AcquiredDate.Year(),
		Version:         p.Paths.Version,
		StorageKey:      key,
	})
	if err != nil {
		util.LogAlert(p.Catalog, fmt.Sprintf("Could not index artifact %s: %v", key, err))
	}
}

// latestProcessed finds the newest acquisition with a produced artifact,
// preferring the index and falling back to a storage key scan. A zero time
// means nothing has been processed for the tile yet.
func (p *Processor) latestProcessed(ctx context.Context, tile tiles.Tile) (time.Time, error) {
	if p.Index != nil {
		latest, err := p.Index.LatestAcquisition(tile, p.Paths.Version)
		switch {
		case err == nil:
			return latest, nil
		case errors.Is(err, sql.ErrNoRows):
			// fall through to the storage scan; the index may trail reality
		default:
			util.LogAlert(p.Catalog, fmt.Sprintf("Artifact index unavailable, scanning storage: %v", err))
		}
	}

	keys, err := p.Store.List(ctx, p.Paths.TilePrefix(tile))
	if err != nil {
		return time.Time{}, err
	}

	var latest time.Time
	for _, key := range keys {
		if acquired, ok := storage.AcquisitionFromSceneKey(key); ok && acquired.After(latest) {
			latest = acquired
		}
	}
	return latest, nil
}
