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

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	cli "gopkg.in/urfave/cli.v1"

	"github.com/digitalearthpacific/dep-fc/tiles"
)

// workflowTask is one step input for the external workflow engine
type workflowTask struct {
	TileID  string `json:"tile-id"`
	Year    int    `json:"year"`
	Version string `json:"version"`
}

// listTasksAction writes the cross product of tiles and years to stdout,
// one task per tile/year, for the workflow engine to fan out
func listTasksAction(c *cli.Context) error {
	tileArgs := c.StringSlice("tile")
	if len(tileArgs) == 0 {
		return cli.NewExitError("at least one --tile is required", 2)
	}

	taskTiles := make([]tiles.Tile, len(tileArgs))
	for i, arg := range tileArgs {
		tile, err := tiles.Parse(arg)
		if err != nil {
			return cli.NewExitError(err.Error(), 2)
		}
		taskTiles[i] = tile
	}

	years, err := parseYears(c.String("years"))
	if err != nil {
		return cli.NewExitError(err.Error(), 2)
	}

	version := outputVersion(c)
	tasks := []workflowTask{}
	for _, tile := range taskTiles {
		for _, year := range years {
			tasks = append(tasks, workflowTask{TileID: tile.String(), Year: year, Version: version})
		}
	}

	return json.NewEncoder(os.Stdout).Encode(tasks)
}

// parseYears accepts a single year or an inclusive "first-last" range
func parseYears(s string) ([]int, error) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	switch len(parts) {
	case 1:
		year, err := strconv.Atoi(parts[0])
		if err != nil {
			return nil, fmt.Errorf("%q is not a valid value for --years", s)
		}
		return []int{year}, nil
	case 2:
		first, firstErr := strconv.Atoi(parts[0])
		last, lastErr := strconv.Atoi(parts[1])
		if firstErr != nil || lastErr != nil || last < first {
			return nil, fmt.Errorf("%q is not a valid value for --years", s)
		}
		years := []int{}
		for year := first; year <= last; year++ {
			years = append(years, year)
		}
		return years, nil
	default:
		return nil, fmt.Errorf("%q is not a valid value for --years", s)
	}
}
