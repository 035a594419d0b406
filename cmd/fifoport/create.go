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
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/TRENT-OS/lib-io/dataport"
)

type createCMD struct {
	ctx      *fifoportContext
	capacity uint64
}

func newCreateCMD(ctx *fifoportContext) *createCMD {
	return &createCMD{ctx: ctx}
}

func (c *createCMD) CMD() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "create and initialize a dataport region file",
		RunE:  c.run,
	}
	cmd.Flags().Uint64Var(&c.capacity, "capacity", 65536, "payload capacity in bytes")
	return cmd
}

func (c *createCMD) run(cmd *cobra.Command, args []string) error {
	path := c.ctx.regionPath()

	region, err := dataport.CreateFileRegion(path, c.capacity)
	if err != nil {
		return err
	}
	defer region.Close()

	if _, err := dataport.Create(region, c.capacity); err != nil {
		return err
	}

	c.ctx.log.Info("dataport region created",
		zap.String("path", path),
		zap.Uint64("capacity", c.capacity),
		zap.Int("region_bytes", dataport.HeaderSize+int(c.capacity)),
	)
	return nil
}
