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
	"runtime"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/TRENT-OS/lib-io/dataport"
)

type benchCMD struct {
	ctx      *fifoportContext
	capacity int
	total    int64
	chunk    int
}

func newBenchCMD(ctx *fifoportContext) *benchCMD {
	return &benchCMD{ctx: ctx}
}

func (c *benchCMD) CMD() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "measure FIFO throughput with an in-process producer and consumer",
		RunE:  c.run,
	}
	cmd.Flags().IntVar(&c.capacity, "capacity", 64*1024, "FIFO capacity in bytes")
	cmd.Flags().Int64Var(&c.total, "bytes", 256*1024*1024, "total bytes to pump through the FIFO")
	cmd.Flags().IntVar(&c.chunk, "chunk", 4096, "producer write size in bytes")
	return cmd
}

func (c *benchCMD) run(cmd *cobra.Command, args []string) error {
	if c.chunk <= 0 || c.total <= 0 {
		return errors.New("bench: --bytes and --chunk must be positive")
	}

	mem := make([]byte, dataport.HeaderSize+c.capacity)
	producer, err := dataport.Create(dataport.NewRegion(mem), uint64(c.capacity))
	if err != nil {
		return err
	}
	consumer, err := dataport.Attach(dataport.NewRegion(mem))
	if err != nil {
		return err
	}

	log := c.ctx.log
	log.Info("bench starting",
		zap.Int("capacity", c.capacity),
		zap.Int64("bytes", c.total),
		zap.Int("chunk", c.chunk),
	)

	done := make(chan error, 1)
	go func() {
		buf := make([]byte, c.chunk)
		var sent int64
		for sent < c.total {
			want := int64(len(buf))
			if want > c.total-sent {
				want = c.total - sent
			}
			n := producer.Write(buf[:want])
			if n == 0 {
				runtime.Gosched()
				continue
			}
			sent += int64(n)
		}
		done <- nil
	}()

	start := time.Now()
	var received int64
	for received < c.total {
		run := consumer.PeekContiguous()
		if run == nil {
			runtime.Gosched()
			continue
		}
		consumer.CommitRead(len(run))
		received += int64(len(run))
	}
	elapsed := time.Since(start)
	if err := <-done; err != nil {
		return err
	}

	mbps := float64(received) / (1 << 20) / elapsed.Seconds()
	log.Info("bench finished",
		zap.Int64("bytes", received),
		zap.Duration("elapsed", elapsed),
		zap.Float64("mib_per_sec", mbps),
	)
	return nil
}
