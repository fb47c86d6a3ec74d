// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/GoogleCloudPlatform/kvfs/errno"
)

// panicLevelFlag is a pflag.Value so an unrecognized --panic-level is
// rejected at flag-parse time rather than deferred to RunE.
type panicLevelFlag struct {
	level errno.PanicLevel
}

func (f *panicLevelFlag) String() string {
	switch f.level {
	case errno.PanicHysterical:
		return "hysterical"
	case errno.PanicOnPerror:
		return "perror"
	default:
		return "continue"
	}
}

func (f *panicLevelFlag) Set(s string) error {
	switch s {
	case "hysterical":
		f.level = errno.PanicHysterical
	case "perror":
		f.level = errno.PanicOnPerror
	case "continue":
		f.level = errno.PanicNoPanic
	default:
		return fmt.Errorf("unknown panic level %q (want hysterical, perror, or continue)", s)
	}
	return nil
}

func (f *panicLevelFlag) Type() string { return "panicLevel" }

var _ pflag.Value = (*panicLevelFlag)(nil)

var (
	flagPanicLevel = panicLevelFlag{level: errno.PanicNoPanic}
	flagLogLevel   string
	flagLogFile    string
)

var rootCmd = &cobra.Command{
	Use:   "kvfsd",
	Short: "Boot the in-memory VFS kernel core and serve filesystem calls",
	Long: `kvfsd boots the rootfs, mounts a devfs under /dev, registers the
demonstration character-device drivers (rtc, ttyS0, urandom), and then
serves VFS operations from a line-oriented command loop on stdin, the
stand-in this repository uses for the syscall gate that process/syscall
machinery (explicitly out of scope for the VFS core) would otherwise
provide.`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().Var(&flagPanicLevel, "panic-level",
		"errno panic level: hysterical, perror, or continue")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info",
		"logrus level: trace, debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "",
		"optional lumberjack-rotated log file; stderr if empty")

	viper.BindPFlag("panic-level", rootCmd.PersistentFlags().Lookup("panic-level"))
	viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log-file", rootCmd.PersistentFlags().Lookup("log-file"))

	rootCmd.AddCommand(bootCmd)
}

// newLogger builds the logrus.Logger wired from flags: a level, and an
// optional lumberjack sink in place of stderr.
func newLogger() (*logrus.Logger, error) {
	log := logrus.New()

	level, err := logrus.ParseLevel(viper.GetString("log-level"))
	if err != nil {
		return nil, fmt.Errorf("parsing --log-level: %w", err)
	}
	log.SetLevel(level)

	if path := viper.GetString("log-file"); path != "" {
		log.SetOutput(&lumberjack.Logger{
			Filename:   path,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		})
	}

	return log, nil
}

func panicLevelFromFlag() (errno.PanicLevel, error) {
	switch viper.GetString("panic-level") {
	case "hysterical":
		return errno.PanicHysterical, nil
	case "perror":
		return errno.PanicOnPerror, nil
	case "continue":
		return errno.PanicNoPanic, nil
	default:
		return 0, fmt.Errorf("unknown --panic-level %q", viper.GetString("panic-level"))
	}
}
