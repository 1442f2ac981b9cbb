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

package storage

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"sync"

	"github.com/airbusgeo/godal"

	"github.com/digitalearthpacific/dep-fc/raster"
)

// Codec converts rasters to and from their on-store file format
type Codec interface {
	Encode(r *raster.Raster) ([]byte, error)
	Decode(data []byte, bandNames ...string) (*raster.Raster, error)
}

var registerGdalOnce sync.Once

// GeoTIFFCodec encodes rasters as tiled, deflate-compressed GeoTIFF
type GeoTIFFCodec struct{}

// NewGeoTIFFCodec creates the codec, registering GDAL drivers on first use
func NewGeoTIFFCodec() GeoTIFFCodec {
	registerGdalOnce.Do(godal.RegisterAll)
	return GeoTIFFCodec{}
}

// Encode implements the Codec interface. GDAL works against paths, so the
// raster goes through a scratch file.
func (GeoTIFFCodec) Encode(r *raster.Raster) ([]byte, error) {
	scratch, err := scratchPath()
	if err != nil {
		return nil, err
	}
	defer os.Remove(scratch)

	ds, err := godal.Create(godal.GTiff, scratch, len(r.BandNames), godal.Byte, r.Grid.Width, r.Grid.Height,
		godal.CreationOption("COMPRESS=DEFLATE", "TILED=YES"))
	if err != nil {
		return nil, err
	}

	if err = ds.SetGeoTransform(r.Grid.GeoTransform); err != nil {
		ds.Close()
		return nil, err
	}
	if r.Grid.Projection != "" {
		sr, srErr := godal.NewSpatialRefFromWKT(r.Grid.Projection)
		if srErr != nil {
			ds.Close()
			return nil, srErr
		}
		defer sr.Close()
		if err = ds.SetSpatialRef(sr); err != nil {
			ds.Close()
			return nil, err
		}
	}

	for i, name := range r.BandNames {
		data, bandErr := r.Band(name)
		if bandErr != nil {
			ds.Close()
			return nil, bandErr
		}
		band := ds.Bands()[i]
		if err = band.SetNoData(float64(raster.NoData)); err != nil {
			ds.Close()
			return nil, err
		}
		if err = band.Write(0, 0, data, r.Grid.Width, r.Grid.Height); err != nil {
			ds.Close()
			return nil, err
		}
	}

	if err = ds.Close(); err != nil {
		return nil, err
	}
	return ioutil.ReadFile(scratch)
}

// Decode implements the Codec interface
func (GeoTIFFCodec) Decode(data []byte, bandNames ...string) (*raster.Raster, error) {
	scratch, err := scratchPath()
	if err != nil {
		return nil, err
	}
	defer os.Remove(scratch)
	if err = ioutil.WriteFile(scratch, data, 0644); err != nil {
		return nil, err
	}

	ds, err := godal.Open(scratch)
	if err != nil {
		return nil, err
	}
	defer ds.Close()

	structure := ds.Structure()
	if len(bandNames) == 0 {
		for i := 0; i < structure.NBands; i++ {
			bandNames = append(bandNames, fmt.Sprintf("b%d", i+1))
		}
	}
	if len(bandNames) != structure.NBands {
		return nil, fmt.Errorf("artifact has %d bands, expected %d (%v)", structure.NBands, len(bandNames), bandNames)
	}

	grid := raster.Grid{Width: structure.SizeX, Height: structure.SizeY}
	if grid.GeoTransform, err = ds.GeoTransform(); err != nil {
		return nil, err
	}
	if sr := ds.SpatialRef(); sr != nil {
		if grid.Projection, err = sr.WKT(); err != nil {
			return nil, err
		}
	}

	out := raster.New(grid, bandNames...)
	for i, name := range bandNames {
		data, _ := out.Band(name)
		if err = ds.Bands()[i].Read(0, 0, data, grid.Width, grid.Height); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func scratchPath() (string, error) {
	f, err := ioutil.TempFile("", "dep-fc-*.tif")
	if err != nil {
		return "", err
	}
	path := f.Name()
	f.Close()
	return filepath.Clean(path), nil
}
