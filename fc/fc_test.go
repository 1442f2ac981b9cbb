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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/digitalearthpacific/dep-fc/catalog"
	"github.com/digitalearthpacific/dep-fc/raster"
	"github.com/digitalearthpacific/dep-fc/unmix"
)

type fakeLoader struct {
	bands *SceneBands
	err   error
}

func (l *fakeLoader) LoadBands(ctx context.Context, scene catalog.Scene) (*SceneBands, error) {
	return l.bands, l.err
}

// fakeUnmixer splits reflectance deterministically: bare tracks the green
// band, the rest is split between pv and npv
type fakeUnmixer struct {
	failGreenAbove float64
}

func (u *fakeUnmixer) Unmix(refl [unmix.NumBands]float64) (unmix.Fractions, error) {
	if u.failGreenAbove > 0 && refl[unmix.BandGreen] > u.failGreenAbove {
		return unmix.Fractions{}, unmix.ErrUnmixFailed
	}
	bare := refl[unmix.BandGreen]
	return unmix.Fractions{
		Bare: bare,
		PV:   (1 - bare) * 0.75,
		NPV:  (1 - bare) * 0.25,
		UE:   0.05,
	}, nil
}

func testScene() catalog.Scene {
	hrefs := map[string]string{}
	for _, asset := range RequiredAssets {
		hrefs[asset] = "s3://usgs-landsat/" + asset + ".TIF"
	}
	return catalog.Scene{ID: "LC08_L2SP_077019_20240607_20240609_02_T1", AssetHrefs: hrefs}
}

// dn returns the digital number whose scaled reflectance is r
func dn(r float64) uint16 {
	return uint16((r - reflOffset) / reflScale)
}

func testBands(pixels int) *SceneBands {
	bands := &SceneBands{Grid: raster.Grid{Width: pixels, Height: 1}}
	for band := 0; band < unmix.NumBands; band++ {
		bands.Refl[band] = make([]uint16, pixels)
		for i := range bands.Refl[band] {
			bands.Refl[band][i] = dn(0.25)
		}
	}
	bands.QAPixel = make([]uint16, pixels)
	return bands
}

func TestInvoke(t *testing.T) {
	invoker := &Invoker{
		Loader:  &fakeLoader{bands: testBands(4)},
		Unmixer: &fakeUnmixer{},
	}

	out, err := invoker.Invoke(context.Background(), testScene())
	assert.Nil(t, err)
	assert.Equal(t, OutputBands, out.BandNames)

	bs, _ := out.Band("bs")
	pv, _ := out.Band("pv")
	npv, _ := out.Band("npv")
	ue, _ := out.Band("ue")
	for i := 0; i < 4; i++ {
		assert.Equal(t, uint8(25), bs[i])
		assert.Equal(t, uint8(56), pv[i])
		assert.Equal(t, uint8(19), npv[i])
		assert.Equal(t, uint8(5), ue[i])
	}
}

func TestInvokeDeterministic(t *testing.T) {
	invoker := &Invoker{
		Loader:  &fakeLoader{bands: testBands(8)},
		Unmixer: &fakeUnmixer{},
	}

	first, err := invoker.Invoke(context.Background(), testScene())
	assert.Nil(t, err)
	second, err := invoker.Invoke(context.Background(), testScene())
	assert.Nil(t, err)

	for _, name := range OutputBands {
		a, _ := first.Band(name)
		b, _ := second.Band(name)
		assert.Equal(t, a, b)
	}
}

func TestInvokeMissingAsset(t *testing.T) {
	scene := testScene()
	delete(scene.AssetHrefs, "swir22")

	invoker := &Invoker{Loader: &fakeLoader{bands: testBands(1)}, Unmixer: &fakeUnmixer{}}
	_, err := invoker.Invoke(context.Background(), scene)
	assert.True(t, errors.Is(err, ErrDataUnavailable))
}

func TestInvokeLoaderError(t *testing.T) {
	loadErr := errors.New("read timed out")
	invoker := &Invoker{Loader: &fakeLoader{err: loadErr}, Unmixer: &fakeUnmixer{}}
	_, err := invoker.Invoke(context.Background(), testScene())
	assert.Equal(t, loadErr, err)
}

func TestInvokeMasksCloudAndNoData(t *testing.T) {
	bands := testBands(4)
	bands.QAPixel[1] = 0b00001000        // cloud
	bands.QAPixel[2] = 0b00010000        // cloud shadow
	bands.Refl[unmix.BandRed][3] = reflNoData

	invoker := &Invoker{Loader: &fakeLoader{bands: bands}, Unmixer: &fakeUnmixer{}}
	out, err := invoker.Invoke(context.Background(), testScene())
	assert.Nil(t, err)

	bs, _ := out.Band("bs")
	assert.Equal(t, uint8(25), bs[0])
	assert.Equal(t, raster.NoData, bs[1])
	assert.Equal(t, raster.NoData, bs[2])
	assert.Equal(t, raster.NoData, bs[3])
}

func TestInvokeIsolatesUnmixFailure(t *testing.T) {
	bands := testBands(3)
	for band := 0; band < unmix.NumBands; band++ {
		bands.Refl[band][1] = dn(0.9)
	}

	invoker := &Invoker{
		Loader:  &fakeLoader{bands: bands},
		Unmixer: &fakeUnmixer{failGreenAbove: 0.5},
	}
	out, err := invoker.Invoke(context.Background(), testScene())
	assert.Nil(t, err)

	bs, _ := out.Band("bs")
	assert.Equal(t, uint8(25), bs[0])
	assert.Equal(t, raster.NoData, bs[1]) // failed pixel only
	assert.Equal(t, uint8(25), bs[2])
}

func TestInvokeMisregisteredBands(t *testing.T) {
	bands := testBands(4)
	bands.QAPixel = bands.QAPixel[:3]

	invoker := &Invoker{Loader: &fakeLoader{bands: bands}, Unmixer: &fakeUnmixer{}}
	_, err := invoker.Invoke(context.Background(), testScene())
	assert.True(t, errors.Is(err, ErrDataUnavailable))
}

func TestToPercent(t *testing.T) {
	assert.Equal(t, uint8(0), toPercent(0))
	assert.Equal(t, uint8(25), toPercent(0.25))
	assert.Equal(t, uint8(100), toPercent(1.0))
	assert.Equal(t, uint8(120), toPercent(1.2))
	// Never collides with the nodata sentinel
	assert.Equal(t, uint8(254), toPercent(99.0))
	assert.Equal(t, uint8(0), toPercent(-0.1))
}

func TestScaledReflectanceClamps(t *testing.T) {
	bands := testBands(1)
	for band := 0; band < unmix.NumBands; band++ {
		bands.Refl[band][0] = 65535
	}
	refl, ok := scaledReflectance(bands, 0)
	assert.True(t, ok)
	for band := 0; band < unmix.NumBands; band++ {
		assert.Equal(t, 1.0, refl[band])
	}
}

func TestVsiPath(t *testing.T) {
	assert.Equal(t, "/vsis3/usgs-landsat/scene.TIF", vsiPath("s3://usgs-landsat/scene.TIF"))
	assert.Equal(t, "/vsicurl/https://landsatlook.usgs.gov/scene.TIF", vsiPath("https://landsatlook.usgs.gov/scene.TIF"))
	assert.Equal(t, "/tmp/scene.TIF", vsiPath("/tmp/scene.TIF"))
}
