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

// Package tiles identifies WRS-2 ground footprints by path and row.
package tiles

import (
	"fmt"
	"strconv"
	"strings"
)

// WRS-2 descending grid bounds
const (
	maxPath = 233
	maxRow  = 248
)

// Tile is a WRS-2 path/row ground footprint
type Tile struct {
	Path int
	Row  int
}

// Parse parses a tile from its "path,row" CLI form, e.g. "77,19"
func Parse(s string) (Tile, error) {
	parts := strings.Split(strings.TrimSpace(s), ",")
	if len(parts) != 2 {
		return Tile{}, fmt.Errorf("Invalid tile id %q; expected \"path,row\"", s)
	}
	path, pathErr := strconv.Atoi(strings.TrimSpace(parts[0]))
	row, rowErr := strconv.Atoi(strings.TrimSpace(parts[1]))
	if pathErr != nil || rowErr != nil {
		return Tile{}, fmt.Errorf("Invalid tile id %q; path and row must be integers", s)
	}
	tile := Tile{Path: path, Row: row}
	if !tile.Valid() {
		return Tile{}, fmt.Errorf("Tile %v is outside the WRS-2 grid", tile)
	}
	return tile, nil
}

// Valid reports whether the tile lies on the WRS-2 descending grid
func (t Tile) Valid() bool {
	return t.Path >= 1 && t.Path <= maxPath && t.Row >= 1 && t.Row <= maxRow
}

func (t Tile) String() string {
	return fmt.Sprintf("%d,%d", t.Path, t.Row)
}

// PathString returns the zero-padded path, as used in catalog queries
func (t Tile) PathString() string {
	return fmt.Sprintf("%03d", t.Path)
}

// RowString returns the zero-padded row, as used in catalog queries
func (t Tile) RowString() string {
	return fmt.Sprintf("%03d", t.Row)
}
