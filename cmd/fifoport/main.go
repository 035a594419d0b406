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

// fifoport drives a shared-memory dataport FIFO from the command line:
// create a region file, pump bytes into it from one process and drain
// them from another, or benchmark the ring in-process.
package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/TRENT-OS/lib-io/dataport"
)

type fifoportContext struct {
	vp  *viper.Viper
	log *zap.Logger
}

func (c *fifoportContext) regionPath() string {
	path := c.vp.GetString("region")
	if strings.ContainsRune(path, os.PathSeparator) {
		return path
	}
	// A bare name resolves like a named segment would.
	return dataport.DefaultRegionPath(path)
}

func newRootCMD() *cobra.Command {
	ctx := &fifoportContext{vp: viper.New()}

	root := &cobra.Command{
		Use:           "fifoport",
		Short:         "drive a shared-memory dataport FIFO",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cfg := ctx.vp.GetString("config"); cfg != "" {
				ctx.vp.SetConfigFile(cfg)
				if err := ctx.vp.ReadInConfig(); err != nil {
					return err
				}
			}
			ctx.log = newLogger(ctx.vp)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if ctx.log != nil {
				_ = ctx.log.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.String("region", "fifoport", "region file path, or bare segment name")
	flags.String("config", "", "optional config file")
	flags.String("log-file", "", "log to this file with rotation instead of stderr")
	flags.Bool("debug", false, "enable debug logging")
	for _, name := range []string{"region", "config", "log-file", "debug"} {
		_ = ctx.vp.BindPFlag(name, flags.Lookup(name))
	}
	ctx.vp.SetEnvPrefix("FIFOPORT")
	ctx.vp.AutomaticEnv()

	root.AddCommand(
		newCreateCMD(ctx).CMD(),
		newProduceCMD(ctx).CMD(),
		newConsumeCMD(ctx).CMD(),
		newBenchCMD(ctx).CMD(),
	)
	return root
}

func newLogger(vp *viper.Viper) *zap.Logger {
	level := zapcore.InfoLevel
	if vp.GetBool("debug") {
		level = zapcore.DebugLevel
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var sink zapcore.WriteSyncer
	if path := vp.GetString("log-file"); path != "" {
		sink = zapcore.AddSync(&lumberjack.Logger{
			Filename:   path,
			MaxSize:    32, // MB
			MaxBackups: 3,
		})
	} else {
		sink = zapcore.AddSync(os.Stderr)
	}

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), sink, level)
	return zap.New(core)
}

func main() {
	if err := newRootCMD().Execute(); err != nil {
		os.Stderr.WriteString("fifoport: " + err.Error() + "\n")
		os.Exit(1)
	}
}
