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
	"github.com/digitalearthpacific/dep-fc/catalog"
	"github.com/digitalearthpacific/dep-fc/fc"
	"github.com/digitalearthpacific/dep-fc/processor"
	"github.com/digitalearthpacific/dep-fc/storage"
	"github.com/digitalearthpacific/dep-fc/tiles"
	"github.com/digitalearthpacific/dep-fc/unmix"
	"github.com/digitalearthpacific/dep-fc/util"
)

func processYearAction(c *cli.Context) error {
	tile, err := tiles.Parse(c.String("tile"))
	if err != nil {
		return cli.NewExitError(err.Error(), 2)
	}
	year := c.Int("year")
	if year == 0 {
		return cli.NewExitError("--year is required", 2)
	}

	proc, err := newProcessor(c)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	report, err := proc.ProcessYear(context.Background(), tile, year)
	if err != nil {
		return cli.NewExitError(fmt.Sprintf("Processing tile %v year %d failed: %v", tile, year, err), 1)
	}
	if len(report.Failed) > 0 {
		return cli.NewExitError(fmt.Sprintf("%d of %d scenes failed for tile %v year %d",
			len(report.Failed), len(report.Failed)+len(report.Processed)+len(report.Skipped), tile, year), 1)
	}
	return nil
}

func processRecentAction(c *cli.Context) error {
	tile, err := tiles.Parse(c.String("tile"))
	if err != nil {
		return cli.NewExitError(err.Error(), 2)
	}

	proc, err := newProcessor(c)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	report, err := proc.ProcessRecent(context.Background(), tile)
	if err != nil {
		return cli.NewExitError(fmt.Sprintf("Processing recent scenes for tile %v failed: %v", tile, err), 1)
	}
	if len(report.Failed) > 0 {
		return cli.NewExitError(fmt.Sprintf("%d scenes failed for tile %v", len(report.Failed), tile), 1)
	}
	return nil
}

func newProcessor(c *cli.Context) (*processor.Processor, error) {
	unmixer, err := unmix.NewNativeUnmixer()
	if err != nil {
		return nil, err
	}

	store, err := newStore()
	if err != nil {
		return nil, err
	}

	return &processor.Processor{
		Catalog: catalog.NewContext(),
		Invoker: &fc.Invoker{Loader: fc.NewGDALLoader(), Unmixer: unmixer},
		Store:   store,
		Index:   newIndex(),
		Paths:   storage.NewItemPath(outputVersion(c)),
	}, nil
}

func newStore() (storage.Store, error) {
	codec := storage.NewGeoTIFFCodec()
	if dir := util.GetLocalStorageDir(); dir != "" {
		util.LogInfo(&util.BasicLogContext{}, "Writing artifacts to local directory: "+dir)
		return storage.NewFileStore(dir, codec), nil
	}
	return storage.NewS3Store(context.Background(), util.GetOutputBucket(), codec)
}

// newIndex connects the artifact index when a database is configured. The
// pipeline runs without one; S3 is the source of truth.
func newIndex() processor.Index {
	index, err := artifactindex.NewRecorder(getDbConnectionFunc)
	if err != nil {
		util.LogAlert(&util.BasicLogContext{}, fmt.Sprintf("Artifact index unavailable, continuing without it: %v", err))
		return nil
	}
	return index
}

func outputVersion(c *cli.Context) string {
	if version := c.String("version"); version != "" {
		return version
	}
	return util.GetOutputVersion()
}
