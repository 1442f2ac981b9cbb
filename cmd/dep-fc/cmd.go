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
	"fmt"

	cli "gopkg.in/urfave/cli.v1"
)

const appVersion = "0.1.0"

var tileFlag = cli.StringFlag{
	Name:  "tile",
	Usage: "The WRS-2 tile as \"path,row\", e.g. \"77,19\"",
}

var yearFlag = cli.IntFlag{
	Name:  "year",
	Usage: "The calendar year to process",
}

var versionFlag = cli.StringFlag{
	Name:  "version",
	Usage: "The output artifact version; defaults to FC_VERSION",
}

var commands = cli.Commands{
	cli.Command{
		Name:    "process-year",
		Aliases: []string{"y"},
		Usage:   "Create fractional cover for every scene of a tile/year",
		Flags:   []cli.Flag{tileFlag, yearFlag, versionFlag},
		Action:  processYearAction,
	},
	cli.Command{
		Name:    "process-recent",
		Aliases: []string{"r"},
		Usage:   "Create fractional cover for scenes newer than the latest output",
		Flags:   []cli.Flag{tileFlag, versionFlag},
		Action:  processRecentAction,
	},
	cli.Command{
		Name:    "annual-summary",
		Aliases: []string{"a"},
		Usage:   "Aggregate a tile/year's scene outputs into an annual summary",
		Flags:   []cli.Flag{tileFlag, yearFlag, versionFlag},
		Action:  annualSummaryAction,
	},
	cli.Command{
		Name:    "watch",
		Aliases: []string{"w"},
		Usage:   "Process recent scenes for a tile on an interval until interrupted",
		Flags: []cli.Flag{
			tileFlag,
			versionFlag,
			cli.StringFlag{Name: "interval", Usage: "Time between runs, e.g. \"6h\""},
		},
		Action: watchAction,
	},
	cli.Command{
		Name:  "list-tasks",
		Usage: "Emit the tile/year task list for the workflow engine as JSON",
		Flags: []cli.Flag{
			cli.StringSliceFlag{Name: "tile", Usage: "A tile to include; repeatable"},
			cli.StringFlag{Name: "years", Usage: "A year or inclusive range, e.g. \"2024\" or \"2020-2024\""},
			versionFlag,
		},
		Action: listTasksAction,
	},
	cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Launch the artifact discovery webserver",
		Action:  serveAction,
	},
	cli.Command{
		Name:    "migrate",
		Aliases: []string{"m"},
		Usage:   "Update database schema",
		Action:  migrateDatabaseAction,
	},
	cli.Command{
		Name:    "version",
		Aliases: []string{"v"},
		Usage:   "Print the version number of the dep-fc CLI",
		Action:  versionAction,
	},
}

func createCliApp() (app *cli.App) {
	app = cli.NewApp()
	app.Name = "dep-fc"
	app.Usage = "Run the Landsat fractional cover pipeline"
	app.Version = appVersion
	app.Commands = commands
	return
}

func versionAction(c *cli.Context) error {
	fmt.Println(appVersion)
	return nil
}
