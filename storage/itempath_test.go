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
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/digitalearthpacific/dep-fc/tiles"
)

var pathTile = tiles.Tile{Path: 77, Row: 19}

func TestSceneKey(t *testing.T) {
	paths := NewItemPath("0.1.0")
	key := paths.SceneKey(pathTile, 2024, "LC08_L2SP_077019_20240607_20240609_02_T1")
	assert.Equal(t,
		"dep_ls_fc/0-1-0/077/019/2024/dep_ls_fc_077019_LC08_L2SP_077019_20240607_20240609_02_T1.tif",
		key)

	// Keys are stable: same inputs, same key
	assert.Equal(t, key, paths.SceneKey(pathTile, 2024, "LC08_L2SP_077019_20240607_20240609_02_T1"))
}

func TestSummaryKey(t *testing.T) {
	paths := NewItemPath("0.1.0")
	assert.Equal(t,
		"dep_ls_fc/0-1-0/077/019/2024/dep_ls_fc_summary_077019_2024.tif",
		paths.SummaryKey(pathTile, 2024))
}

func TestPrefixes(t *testing.T) {
	paths := NewItemPath("0.1.0")
	sceneKey := paths.SceneKey(pathTile, 2024, "LC08_L2SP_077019_20240607_20240609_02_T1")
	summaryKey := paths.SummaryKey(pathTile, 2024)

	assert.True(t, strings.HasPrefix(sceneKey, paths.TilePrefix(pathTile)))
	assert.True(t, strings.HasPrefix(sceneKey, paths.YearPrefix(pathTile, 2024)))
	assert.True(t, strings.HasPrefix(sceneKey, paths.ScenePrefix(pathTile, 2024)))

	// The summary artifact lives under the year but not the scene prefix
	assert.True(t, strings.HasPrefix(summaryKey, paths.YearPrefix(pathTile, 2024)))
	assert.False(t, strings.HasPrefix(summaryKey, paths.ScenePrefix(pathTile, 2024)))
}

func TestVersionsDoNotCollide(t *testing.T) {
	sceneID := "LC08_L2SP_077019_20240607_20240609_02_T1"
	first := NewItemPath("0.1.0").SceneKey(pathTile, 2024, sceneID)
	second := NewItemPath("0.2.0").SceneKey(pathTile, 2024, sceneID)
	assert.NotEqual(t, first, second)
}

func TestAcquisitionFromSceneKey(t *testing.T) {
	paths := NewItemPath("0.1.0")
	key := paths.SceneKey(pathTile, 2024, "LC08_L2SP_077019_20240607_20240609_02_T1")

	acquired, ok := AcquisitionFromSceneKey(key)
	assert.True(t, ok)
	assert.Equal(t, time.Date(2024, time.June, 7, 0, 0, 0, 0, time.UTC), acquired)
}

func TestAcquisitionFromSceneKeyRejectsOthers(t *testing.T) {
	paths := NewItemPath("0.1.0")

	_, ok := AcquisitionFromSceneKey(paths.SummaryKey(pathTile, 2024))
	assert.False(t, ok)

	_, ok = AcquisitionFromSceneKey("some/other/key.tif")
	assert.False(t, ok)

	_, ok = AcquisitionFromSceneKey("")
	assert.False(t, ok)
}
