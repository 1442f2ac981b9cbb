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

// Package unmix is the boundary to the external fractional cover spectral
// unmixing library. The numeric algorithm itself is an opaque, pre-built
// native library; this package only defines the calling contract and, when
// built with the fcnative tag, the cgo binding to it.
package unmix

import "errors"

// Band order expected by the native entry point
const (
	BandGreen = iota
	BandRed
	BandNIR
	BandSWIR1
	BandSWIR2
	NumBands
)

// ErrUnmixFailed indicates the unmixing solve failed for one pixel, e.g.
// a singular endmember matrix. Callers mark the pixel nodata and continue.
var ErrUnmixFailed = errors.New("unmixing failed for pixel")

// ErrNativeUnavailable indicates the binary was built without the native
// fractional cover library
var ErrNativeUnavailable = errors.New("native fractional cover library not linked; rebuild with -tags fcnative")

// Fractions is a per-pixel fractional cover estimate. Fractions are in
// [0,1]; UE is the unmixing error term.
type Fractions struct {
	Bare float64
	PV   float64
	NPV  float64
	UE   float64
}

// Unmixer decomposes one pixel's surface reflectance into fractional cover.
// Input is scaled reflectance in [0,1], ordered per the Band constants.
// Implementations must be deterministic: identical input yields identical
// output.
type Unmixer interface {
	Unmix(refl [NumBands]float64) (Fractions, error)
}
