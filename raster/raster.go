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

// Package raster holds the in-memory multi-band raster model shared by the
// fractional cover invoker, the annual summary builder and the artifact
// store. Bands are unsigned 8 bit with a nodata sentinel of 255, matching
// the published fractional cover product.
package raster

import (
	"fmt"
	"sort"
)

// NoData marks pixels lacking valid observations
const NoData uint8 = 255

// Grid describes the georeferenced pixel grid of a raster
type Grid struct {
	Width        int
	Height       int
	GeoTransform [6]float64
	Projection   string // WKT
}

// Equal reports whether two grids are pixel-for-pixel co-registered
func (g Grid) Equal(other Grid) bool {
	return g == other
}

// Pixels returns the number of pixels in the grid
func (g Grid) Pixels() int {
	return g.Width * g.Height
}

// Raster is a multi-band uint8 raster on a single grid
type Raster struct {
	Grid      Grid
	BandNames []string
	bands     map[string][]uint8
}

// New creates a raster with the named bands, every pixel set to NoData
func New(grid Grid, bandNames ...string) *Raster {
	bands := make(map[string][]uint8, len(bandNames))
	for _, name := range bandNames {
		data := make([]uint8, grid.Pixels())
		for i := range data {
			data[i] = NoData
		}
		bands[name] = data
	}
	return &Raster{
		Grid:      grid,
		BandNames: append([]string{}, bandNames...),
		bands:     bands,
	}
}

// Band returns the pixel data for the named band. The slice is the raster's
// own backing storage; writes through it are writes to the raster.
func (r *Raster) Band(name string) ([]uint8, error) {
	data, ok := r.bands[name]
	if !ok {
		return nil, fmt.Errorf("Raster has no band named %q (has %v)", name, r.BandNames)
	}
	return data, nil
}

// HasBand reports whether the named band exists
func (r *Raster) HasBand(name string) bool {
	_, ok := r.bands[name]
	return ok
}

// Valid reports whether a pixel value is a valid observation
func Valid(v uint8) bool {
	return v != NoData
}

// MedianValid returns the median of the valid values in vals, and whether
// any valid value was present. For an even count the lower median is
// returned, keeping the result within the observed integer domain and the
// aggregation deterministic.
func MedianValid(vals []uint8) (uint8, bool) {
	valid := make([]int, 0, len(vals))
	for _, v := range vals {
		if Valid(v) {
			valid = append(valid, int(v))
		}
	}
	if len(valid) == 0 {
		return NoData, false
	}
	sort.Ints(valid)
	return uint8(valid[(len(valid)-1)/2]), true
}
