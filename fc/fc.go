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

// Package fc turns one Landsat scene into a fractional cover raster by
// loading its reflectance bands and running the external unmixing library
// over every pixel.
package fc

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/digitalearthpacific/dep-fc/catalog"
	"github.com/digitalearthpacific/dep-fc/raster"
	"github.com/digitalearthpacific/dep-fc/unmix"
)

// ErrDataUnavailable indicates a scene is missing required input bands, or
// its bands are not co-registered. The scene is skipped, not failed.
var ErrDataUnavailable = errors.New("required input data unavailable")

// Output band names of a fractional cover raster: bare soil,
// photosynthetic vegetation, non-photosynthetic vegetation, unmixing error
var OutputBands = []string{"bs", "pv", "npv", "ue"}

// RequiredAssets are the catalog assets a scene must carry to be processed
var RequiredAssets = []string{"green", "red", "nir08", "swir16", "swir22", "qa_pixel"}

// Collection-2 Level-2 surface reflectance scaling
const (
	reflScale  = 0.0000275
	reflOffset = -0.2
	reflNoData = 0
)

// qa_pixel bits 3 (cloud) and 4 (cloud shadow)
const cloudBitMask = 0b00011000

// SceneBands holds the co-registered reflectance bands of one scene,
// clipped to the tile footprint. Refl is ordered per the unmix band
// constants; a value of 0 is nodata.
type SceneBands struct {
	Grid    raster.Grid
	Refl    [unmix.NumBands][]uint16
	QAPixel []uint16
}

// BandLoader loads the required bands for a scene
type BandLoader interface {
	LoadBands(ctx context.Context, scene catalog.Scene) (*SceneBands, error)
}

// Invoker produces a fractional cover raster for one scene. Persistence is
// the caller's responsibility.
type Invoker struct {
	Loader  BandLoader
	Unmixer unmix.Unmixer
}

// Invoke loads the scene's bands and unmixes every pixel. Pixels that are
// nodata, cloudy, or fail to unmix are nodata in the output; the scene as a
// whole fails only when input data cannot be loaded at all.
func (inv *Invoker) Invoke(ctx context.Context, scene catalog.Scene) (*raster.Raster, error) {
	for _, asset := range RequiredAssets {
		if _, ok := scene.AssetHref(asset); !ok {
			return nil, fmt.Errorf("scene %s has no %q asset: %w", scene.ID, asset, ErrDataUnavailable)
		}
	}

	bands, err := inv.Loader.LoadBands(ctx, scene)
	if err != nil {
		return nil, err
	}
	if err = checkCoRegistered(bands); err != nil {
		return nil, err
	}

	out := raster.New(bands.Grid, OutputBands...)
	bs, _ := out.Band("bs")
	pv, _ := out.Band("pv")
	npv, _ := out.Band("npv")
	ue, _ := out.Band("ue")

	for i := 0; i < bands.Grid.Pixels(); i++ {
		refl, ok := scaledReflectance(bands, i)
		if !ok {
			continue
		}

		fractions, err := inv.Unmixer.Unmix(refl)
		if err != nil {
			// Algorithm failure is isolated to the pixel
			continue
		}

		bs[i] = toPercent(fractions.Bare)
		pv[i] = toPercent(fractions.PV)
		npv[i] = toPercent(fractions.NPV)
		ue[i] = toPercent(fractions.UE)
	}

	return out, nil
}

func checkCoRegistered(bands *SceneBands) error {
	pixels := bands.Grid.Pixels()
	if pixels == 0 {
		return fmt.Errorf("scene grid is empty: %w", ErrDataUnavailable)
	}
	for band := 0; band < unmix.NumBands; band++ {
		if len(bands.Refl[band]) != pixels {
			return fmt.Errorf("band %d has %d pixels, grid has %d: %w", band, len(bands.Refl[band]), pixels, ErrDataUnavailable)
		}
	}
	if len(bands.QAPixel) != pixels {
		return fmt.Errorf("qa_pixel has %d pixels, grid has %d: %w", len(bands.QAPixel), pixels, ErrDataUnavailable)
	}
	return nil
}

// scaledReflectance converts the raw digital numbers of pixel i into
// surface reflectance in [0,1]. Returns false for nodata or cloudy pixels.
func scaledReflectance(bands *SceneBands, i int) ([unmix.NumBands]float64, bool) {
	var refl [unmix.NumBands]float64

	if bands.QAPixel[i]&cloudBitMask != 0 {
		return refl, false
	}
	for band := 0; band < unmix.NumBands; band++ {
		dn := bands.Refl[band][i]
		if dn == reflNoData {
			return refl, false
		}
		refl[band] = clamp01(float64(dn)*reflScale + reflOffset)
	}
	return refl, true
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// toPercent maps a fraction to an integer percentage, capped below the
// nodata sentinel
func toPercent(f float64) uint8 {
	p := math.Round(clampPercent(f) * 100)
	return uint8(p)
}

func clampPercent(f float64) float64 {
	// UE can legitimately exceed 1; cap at the representable range
	return math.Max(0, math.Min(2.54, f))
}
