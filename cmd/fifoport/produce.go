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
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/TRENT-OS/lib-io/dataport"
)

type produceCMD struct {
	ctx     *fifoportContext
	pattern int
	poll    time.Duration
}

func newProduceCMD(ctx *fifoportContext) *produceCMD {
	return &produceCMD{ctx: ctx}
}

func (c *produceCMD) CMD() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "produce",
		Short: "attach as producer and stream stdin into the dataport",
		Long: "Attach to an already created region as the producer side and copy\n" +
			"stdin into the FIFO, polling when the consumer applies backpressure.\n" +
			"With --pattern N, N generated bytes are sent instead of stdin.",
		RunE: c.run,
	}
	cmd.Flags().IntVar(&c.pattern, "pattern", 0, "send this many generated bytes instead of stdin")
	cmd.Flags().DurationVar(&c.poll, "poll", time.Millisecond, "sleep between retries when the FIFO is full")
	return cmd
}

func (c *produceCMD) run(cmd *cobra.Command, args []string) error {
	region, err := dataport.OpenFileRegion(c.ctx.regionPath())
	if err != nil {
		return err
	}
	defer region.Close()

	port, err := dataport.Attach(region)
	if err != nil {
		return err
	}

	var src io.Reader = os.Stdin
	if c.pattern > 0 {
		src = patternReader(c.pattern)
	}

	log := c.ctx.log
	log.Info("producing", zap.String("region", region.Path()), zap.Int("capacity", port.Capacity()))

	var sent, stalls int64
	buf := make([]byte, 4096)
	start := time.Now()
	for {
		n, rerr := src.Read(buf)
		chunk := buf[:n]
		for len(chunk) > 0 {
			w := port.Write(chunk)
			if w == 0 {
				stalls++
				time.Sleep(c.poll)
				continue
			}
			chunk = chunk[w:]
			sent += int64(w)
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return rerr
		}
	}

	log.Info("done producing",
		zap.Int64("bytes", sent),
		zap.Int64("backpressure_stalls", stalls),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}

// patternReader yields n bytes of a repeating counter pattern, so the
// consumer side can verify ordering end to end.
func patternReader(n int) io.Reader {
	return &patternSource{remaining: n}
}

type patternSource struct {
	remaining int
	next      byte
}

func (p *patternSource) Read(buf []byte) (int, error) {
	if p.remaining == 0 {
		return 0, io.EOF
	}
	n := len(buf)
	if n > p.remaining {
		n = p.remaining
	}
	for i := 0; i < n; i++ {
		buf[i] = p.next
		p.next++
	}
	p.remaining -= n
	return n, nil
}
