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
	"os"
	"os/signal"
	"syscall"
	"time"

	cli "gopkg.in/urfave/cli.v1"

	"github.com/digitalearthpacific/dep-fc/processor"
	"github.com/digitalearthpacific/dep-fc/tiles"
	"github.com/digitalearthpacific/dep-fc/util"
)

const defaultWatchInterval = 6 * time.Hour

// watchAction runs recent-scene processing on an interval until interrupted.
func watchAction(c *cli.Context) error {
	tile, err := tiles.Parse(c.String("tile"))
	if err != nil {
		return cli.NewExitError(err.Error(), 2)
	}

	interval := defaultWatchInterval
	if c.IsSet("interval") {
		interval, err = time.ParseDuration(c.String("interval"))
		if err != nil {
			return cli.NewExitError("Invalid --interval: "+err.Error(), 2)
		}
	}

	proc, err := newProcessor(c)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	runner := processor.NewRunner(proc, tile)
	messageChan := make(chan string, 1)
	// Kick off one run immediately, then let the schedule take over.
	messageChan <- processor.BeginRunMessage

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-signalChan
		close(messageChan)
	}()

	util.LogInfo(&util.BasicLogContext{}, "Watching tile "+tile.String()+" every "+interval.String())
	runner.RunWhile(messageChan, interval)
	return nil
}
