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
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/GoogleCloudPlatform/kvfs/kernel"
)

var flagDevices bool

var rootCmd = &cobra.Command{
	Use:   "kvfsck",
	Short: "Boot a fresh kernel, walk it, and report cache invariant violations",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logrus.New()
		log.SetLevel(logrus.WarnLevel)

		k, err := kernel.Boot(log)
		if err != nil {
			return err
		}

		if viper.GetBool("devices") {
			if _, err := k.RegisterDemoDevices(); err != nil {
				return err
			}
		}

		w := newWalker(k.VFS)
		report, err := w.check(os.Stdout)
		if err != nil {
			return err
		}

		if len(report.violations) > 0 {
			fmt.Fprintf(os.Stderr, "%d invariant violation(s) found\n", len(report.violations))
			os.Exit(1)
		}
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagDevices, "devices", true,
		"register the demo character devices (rtc, ttyS0, urandom) before walking")
	viper.BindPFlag("devices", rootCmd.PersistentFlags().Lookup("devices"))
}
