/*
Copyright © 2017 the InMAP authors.
This file is part of InMAP.

InMAP is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

InMAP is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with InMAP.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package main implements patchgrid, the out-of-band CLI for inspecting
// precomputed grid resources and running a GeoMapper seeding pass over a
// configured PatchSet.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// exitCoder is implemented by errors that carry the CLI's fixed exit code
// contract (spec §6).
type exitCoder interface {
	ExitCode() int
}

var rootCmd = &cobra.Command{
	Use:   "patchgrid",
	Short: "Inspect precomputed grid resources and seed patch sets from external data.",
}

func main() {
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if ec, ok := err.(exitCoder); ok {
			os.Exit(ec.ExitCode())
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(seedCmd)
}
