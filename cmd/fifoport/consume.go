/*
 * Copyright 2025 TRENT-OS authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/TRENT-OS/lib-io/dataport"
)

type consumeCMD struct {
	ctx   *fifoportContext
	count int64
	idle  time.Duration
	poll  time.Duration
}

func newConsumeCMD(ctx *fifoportContext) *consumeCMD {
	return &consumeCMD{ctx: ctx}
}

func (c *consumeCMD) CMD() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "consume",
		Short: "attach as consumer and drain the dataport to stdout",
		Long: "Attach to an already created region as the consumer side and copy\n" +
			"the FIFO contents to stdout. Stops after --count bytes, or after the\n" +
			"FIFO has been empty for --idle (0 means drain forever).",
		RunE: c.run,
	}
	cmd.Flags().Int64Var(&c.count, "count", 0, "stop after this many bytes (0 = unlimited)")
	cmd.Flags().DurationVar(&c.idle, "idle", 0, "stop after the FIFO stays empty this long (0 = never)")
	cmd.Flags().DurationVar(&c.poll, "poll", time.Millisecond, "sleep between polls when the FIFO is empty")
	return cmd
}

func (c *consumeCMD) run(cmd *cobra.Command, args []string) error {
	region, err := dataport.OpenFileRegion(c.ctx.regionPath())
	if err != nil {
		return err
	}
	defer region.Close()

	port, err := dataport.Attach(region)
	if err != nil {
		return err
	}

	log := c.ctx.log
	log.Info("consuming", zap.String("region", region.Path()), zap.Int("capacity", port.Capacity()))

	var received int64
	start := time.Now()
	emptySince := time.Time{}
	for c.count == 0 || received < c.count {
		run := port.PeekContiguous()
		if run == nil {
			if c.idle > 0 {
				if emptySince.IsZero() {
					emptySince = time.Now()
				} else if time.Since(emptySince) >= c.idle {
					break
				}
			}
			time.Sleep(c.poll)
			continue
		}
		emptySince = time.Time{}
		if c.count > 0 && int64(len(run)) > c.count-received {
			run = run[:c.count-received]
		}
		if _, err := os.Stdout.Write(run); err != nil {
			return err
		}
		port.CommitRead(len(run))
		received += int64(len(run))
	}

	log.Info("done consuming",
		zap.Int64("bytes", received),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}
