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

// Package storage persists fractional cover rasters as multi-band GeoTIFF
// artifacts, addressed by key.
package storage

import (
	"context"
	"fmt"

	"github.com/digitalearthpacific/dep-fc/raster"
)

// Store is a write-once artifact store. Artifacts are never mutated;
// re-running a step overwrites its keys wholesale.
type Store interface {
	// Exists reports whether an artifact is already present at key
	Exists(ctx context.Context, key string) (bool, error)
	// WriteRaster persists a raster at key, overwriting any previous artifact
	WriteRaster(ctx context.Context, key string, r *raster.Raster) error
	// ReadRaster loads the raster at key. bandNames, when given, label the
	// file's bands in order.
	ReadRaster(ctx context.Context, key string, bandNames ...string) (*raster.Raster, error)
	// List returns all keys with the given prefix, in lexical order
	List(ctx context.Context, prefix string) ([]string, error)
}

// Error is a storage failure. Storage errors propagate and abort the
// current scene or year rather than being skipped.
type Error struct {
	Op  string
	Key string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("storage %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
