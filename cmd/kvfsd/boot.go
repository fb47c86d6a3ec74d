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
	"os"

	"github.com/spf13/cobra"

	"github.com/GoogleCloudPlatform/kvfs/errno"
	"github.com/GoogleCloudPlatform/kvfs/kernel"
)

var bootCmd = &cobra.Command{
	Use:   "boot",
	Short: "Boot rootfs + devfs, register demo devices, and serve stdin",
	RunE: func(cmd *cobra.Command, args []string) error {
		level, err := panicLevelFromFlag()
		if err != nil {
			return err
		}
		errno.SetPanicLevel(level)

		log, err := newLogger()
		if err != nil {
			return err
		}

		k, err := kernel.Boot(log)
		if err != nil {
			return err
		}
		log.WithField("dev", kernel.RootDev).Info("rootfs mounted at /")
		log.WithField("dev", kernel.DevfsDev).Info("devfs mounted at /dev")

		if _, err := k.RegisterDemoDevices(); err != nil {
			return err
		}
		log.Info("registered rtc, ttyS0, urandom")

		sh := newShell(k.VFS)
		return sh.run(cmd.InOrStdin(), os.Stdout)
	},
}
