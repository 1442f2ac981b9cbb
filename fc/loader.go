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

package fc

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/airbusgeo/godal"

	"github.com/digitalearthpacific/dep-fc/catalog"
	"github.com/digitalearthpacific/dep-fc/raster"
	"github.com/digitalearthpacific/dep-fc/unmix"
)

// reflAssets maps unmix band order to catalog asset names
var reflAssets = [unmix.NumBands]string{
	unmix.BandGreen: "green",
	unmix.BandRed:   "red",
	unmix.BandNIR:   "nir08",
	unmix.BandSWIR1: "swir16",
	unmix.BandSWIR2: "swir22",
}

var registerGdalOnce sync.Once

// GDALLoader reads scene band assets through GDAL virtual filesystems
type GDALLoader struct{}

// NewGDALLoader creates a loader, registering GDAL drivers on first use
func NewGDALLoader() *GDALLoader {
	registerGdalOnce.Do(godal.RegisterAll)
	return &GDALLoader{}
}

// LoadBands implements the BandLoader interface
func (l *GDALLoader) LoadBands(ctx context.Context, scene catalog.Scene) (*SceneBands, error) {
	bands := &SceneBands{}

	for i := 0; i < unmix.NumBands; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		href, ok := scene.AssetHref(reflAssets[i])
		if !ok {
			return nil, fmt.Errorf("scene %s has no %q asset: %w", scene.ID, reflAssets[i], ErrDataUnavailable)
		}

		grid, data, err := readBand(href)
		if err != nil {
			return nil, fmt.Errorf("reading %q for scene %s: %v", reflAssets[i], scene.ID, err)
		}
		if i == 0 {
			bands.Grid = grid
		} else if !grid.Equal(bands.Grid) {
			return nil, fmt.Errorf("band %q of scene %s is not co-registered: %w", reflAssets[i], scene.ID, ErrDataUnavailable)
		}
		bands.Refl[i] = data
	}

	qaHref, ok := scene.AssetHref("qa_pixel")
	if !ok {
		return nil, fmt.Errorf("scene %s has no qa_pixel asset: %w", scene.ID, ErrDataUnavailable)
	}
	qaGrid, qaData, err := readBand(qaHref)
	if err != nil {
		return nil, fmt.Errorf("reading qa_pixel for scene %s: %v", scene.ID, err)
	}
	if !qaGrid.Equal(bands.Grid) {
		return nil, fmt.Errorf("qa_pixel of scene %s is not co-registered: %w", scene.ID, ErrDataUnavailable)
	}
	bands.QAPixel = qaData

	return bands, nil
}

func readBand(href string) (raster.Grid, []uint16, error) {
	ds, err := godal.Open(vsiPath(href))
	if err != nil {
		return raster.Grid{}, nil, err
	}
	defer ds.Close()

	structure := ds.Structure()
	grid := raster.Grid{Width: structure.SizeX, Height: structure.SizeY}
	if grid.GeoTransform, err = ds.GeoTransform(); err != nil {
		return raster.Grid{}, nil, err
	}
	if sr := ds.SpatialRef(); sr != nil {
		if grid.Projection, err = sr.WKT(); err != nil {
			return raster.Grid{}, nil, err
		}
	}

	data := make([]uint16, grid.Pixels())
	if err = ds.Bands()[0].Read(0, 0, data, grid.Width, grid.Height); err != nil {
		return raster.Grid{}, nil, err
	}
	return grid, data, nil
}

// vsiPath maps an asset href to a GDAL virtual filesystem path
func vsiPath(href string) string {
	switch {
	case strings.HasPrefix(href, "s3://"):
		return "/vsis3/" + strings.TrimPrefix(href, "s3://")
	case strings.HasPrefix(href, "http://"), strings.HasPrefix(href, "https://"):
		return "/vsicurl/" + href
	default:
		return href
	}
}
