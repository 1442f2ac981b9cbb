//go:build fcnative

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

package unmix

// The fcmodel library is built and installed by the companion setup script
// at container build time; it is not part of this repository.

// #cgo LDFLAGS: -lfcmodel
// #include <stdlib.h>
//
// /* int fc_unmix(const double refl[5], double fractions[4]);
//  * Returns 0 on success, nonzero when the solve fails for the pixel. */
// extern int fc_unmix(const double *refl, double *fractions);
import "C"

type nativeUnmixer struct{}

// NewNativeUnmixer returns an Unmixer backed by the compiled fractional
// cover library
func NewNativeUnmixer() (Unmixer, error) {
	return nativeUnmixer{}, nil
}

func (nativeUnmixer) Unmix(refl [NumBands]float64) (Fractions, error) {
	var in [NumBands]C.double
	var out [4]C.double
	for i, v := range refl {
		in[i] = C.double(v)
	}

	if rc := C.fc_unmix(&in[0], &out[0]); rc != 0 {
		return Fractions{}, ErrUnmixFailed
	}

	return Fractions{
		Bare: float64(out[0]),
		PV:   float64(out[1]),
		NPV:  float64(out[2]),
		UE:   float64(out[3]),
	}, nil
}
