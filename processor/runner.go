package processor

import (
	"context"
	"fmt"
	"time"

	"github.com/digitalearthpacific/dep-fc/tiles"
)

//Messages accepted by Runner.RunWhile.
const (
	BeginRunMessage = "begin"
	AbortRunMessage = "abort"
)

//Runner triggers recent-scene processing for one tile on an interval, or
//on demand via a message channel. Mainly useful when running as a
//long-lived service instead of a workflow step.
type Runner struct {
	processor  *Processor
	tile       tiles.Tile
	statusChan chan chan string
}

//NewRunner initializes a new runner for one tile.
func NewRunner(processor *Processor, tile tiles.Tile) *Runner {
	return &Runner{
		processor:  processor,
		tile:       tile,
		statusChan: make(chan chan string, 10)}
}

//RunWhile performs the ProcessRecent() task and waits for a channel.
//Note: this is blocking
//The function will exit when messageChan is closed and any in-progress run completes.
func (run *Runner) RunWhile(messageChan <-chan string, maxTimeBetweenRuns time.Duration) {
	previousStatus := "\tNone"
	var nextScheduledStartTime time.Time
	var scheduleTimer *time.Timer

	for {
		if scheduleTimer == nil {
			scheduleTimer = time.NewTimer(maxTimeBetweenRuns)
			nextScheduledStartTime = time.Now().Add(maxTimeBetweenRuns)
		}

		select {
		case <-scheduleTimer.C:
			scheduleTimer = nil
			previousStatus = run.runOnce()
		case msg, ok := <-messageChan:
			if !ok {
				return //The message channel has been closed.
			}
			switch msg {
			case BeginRunMessage:
				scheduleTimer = nil
				previousStatus = run.runOnce()
			default:
				//ignore this message. We only want ones for begin.
			}
		case respChan := <-run.statusChan:
			select {
			case respChan <- fmt.Sprintf("%v\nStatus: Sleeping until %v\nPrevious run:\n%v",
				time.Now().Format("Mon Jan _2 15:04:05 2006"),
				nextScheduledStartTime.Format("Mon Jan _2 15:04:05 2006"),
				previousStatus): //good
			default: //ignore
			}
		}
	}
}

//GetStatus is a thread safe way to get information about the processing operation.
func (run *Runner) GetStatus() string {
	responseChan := make(chan string, 1) //Must have a buffer. The run loop won't wait if it can't send.
	run.statusChan <- responseChan
	status := <-responseChan
	return status
}

func (run *Runner) runOnce() string {
	report, err := run.processor.ProcessRecent(context.Background(), run.tile)
	if err != nil {
		return fmt.Sprintf("\tRun failed: %v", err)
	}
	return fmt.Sprintf("\tProcessed: %d, Skipped: %d, Failed: %d",
		len(report.Processed), len(report.Skipped), len(report.Failed))
}
