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
	"strings"
	"time"

	"github.com/digitalearthpacific/dep-fc/tiles"
)

// Product naming constants shared by every artifact key
const (
	Sensor    = "ls"
	DatasetID = "fc"
)

// ItemPath derives storage keys for the fractional cover product. Keys are
// stable for a given (tile, scene-or-year, version): re-running a step
// writes the same keys.
type ItemPath struct {
	Version string
}

// NewItemPath creates an ItemPath for one output version
func NewItemPath(version string) ItemPath {
	return ItemPath{Version: version}
}

func (p ItemPath) root() string {
	return fmt.Sprintf("dep_%s_%s/%s", Sensor, DatasetID, strings.ReplaceAll(p.Version, ".", "-"))
}

// TilePrefix is the key prefix under which every artifact for a tile
// lives, across all years
func (p ItemPath) TilePrefix(tile tiles.Tile) string {
	return fmt.Sprintf("%s/%s/%s/", p.root(), tile.PathString(), tile.RowString())
}

// YearPrefix is the key prefix under which every artifact for a tile/year
// lives
func (p ItemPath) YearPrefix(tile tiles.Tile, year int) string {
	return fmt.Sprintf("%s/%s/%s/%d/", p.root(), tile.PathString(), tile.RowString(), year)
}

// ScenePrefix is the key prefix for per-scene artifacts of a tile/year. It
// does not match the year's summary artifact.
func (p ItemPath) ScenePrefix(tile tiles.Tile, year int) string {
	return fmt.Sprintf("%sdep_%s_%s_%s%s_", p.YearPrefix(tile, year), Sensor, DatasetID, tile.PathString(), tile.RowString())
}

// SceneKey is the key of the fractional cover artifact for one scene
func (p ItemPath) SceneKey(tile tiles.Tile, year int, sceneID string) string {
	return fmt.Sprintf("%s%s.tif", p.ScenePrefix(tile, year), sceneID)
}

// SummaryKey is the key of the annual summary artifact for a tile/year
func (p ItemPath) SummaryKey(tile tiles.Tile, year int) string {
	return fmt.Sprintf("%sdep_%s_%s_summary_%s%s_%d.tif", p.YearPrefix(tile, year), Sensor, DatasetID, tile.PathString(), tile.RowString(), year)
}

// AcquisitionFromSceneKey recovers a scene artifact's acquisition date from
// the Landsat product ID embedded in its key. Summary keys and foreign keys
// report false.
func AcquisitionFromSceneKey(key string) (time.Time, bool) {
	base := key
	if idx := strings.LastIndex(base, "/"); idx >= 0 {
		base = base[idx+1:]
	}
	base = strings.TrimSuffix(base, ".tif")

	// dep_ls_fc_{PPPRRR}_{LXSS}_{LLLL}_{PPPRRR}_{YYYYMMDD}_{yyyymmdd}_{CC}_{TX}
	parts := strings.Split(base, "_")
	if len(parts) < 8 || parts[0] != "dep" || parts[3] == "summary" {
		return time.Time{}, false
	}
	acquired, err := time.Parse("20060102", parts[7])
	if err != nil {
		return time.Time{}, false
	}
	return acquired, true
}
