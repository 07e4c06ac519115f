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

package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/SchmidtDSE/josh-sub009/reader"
)

var (
	inspectFile     string
	inspectVariable string
	inspectTimestep string
	inspectX        string
	inspectY        string
)

// inspectCmd implements the load-and-report contract of spec §6 exactly:
// a fixed 0-8 exit code table and a one-line stdout report on success.
var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Load a precomputed grid resource and report one value.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInspect(os.Stdout)
	},
}

func init() {
	inspectCmd.Flags().StringVar(&inspectFile, "file", "", "precomputed grid resource path")
	inspectCmd.Flags().StringVar(&inspectVariable, "variable", "value", "variable name")
	inspectCmd.Flags().StringVar(&inspectTimestep, "timestep", "", "timestep index")
	inspectCmd.Flags().StringVar(&inspectX, "x", "", "grid x coordinate")
	inspectCmd.Flags().StringVar(&inspectY, "y", "", "grid y coordinate")
}

func runInspect(stdout *os.File) error {
	if reader.ClassifyFormat(inspectFile) != reader.FormatPrecomputedGrid {
		return newCliError(exitWrongExtension, "patchgrid: %s is not a .jshd resource", inspectFile)
	}
	if _, err := os.Stat(inspectFile); err != nil {
		if os.IsNotExist(err) {
			return newCliError(exitFileNotFound, "patchgrid: %s not found", inspectFile)
		}
		return newCliError(exitFileNotFound, "patchgrid: %v", err)
	}

	timestep, err := strconv.ParseInt(inspectTimestep, 10, 64)
	if err != nil {
		return newCliError(exitInvalidTimestep, "patchgrid: invalid timestep %q", inspectTimestep)
	}
	x, err := strconv.ParseInt(inspectX, 10, 64)
	if err != nil {
		return newCliError(exitInvalidX, "patchgrid: invalid x %q", inspectX)
	}
	y, err := strconv.ParseInt(inspectY, 10, 64)
	if err != nil {
		return newCliError(exitInvalidY, "patchgrid: invalid y %q", inspectY)
	}

	if inspectVariable != "value" {
		return newCliError(exitUnknownVariable, "patchgrid: unknown variable %q", inspectVariable)
	}

	layer, err := reader.LoadDataGridLayer(inspectFile)
	if err != nil {
		return newCliError(exitCorruptFile, "patchgrid: %v", err)
	}

	if x < layer.MinX || x > layer.MaxX || y < layer.MinY || y > layer.MaxY ||
		timestep < layer.MinTimestep || timestep > layer.MaxTimestep {
		return newCliError(exitOutOfBounds, "patchgrid: (%d, %d, %d) out of bounds", x, y, timestep)
	}

	v := layer.At(x, y, timestep)
	fmt.Fprintf(stdout, "Value at (%d, %d, %d): %v %s\n", x, y, timestep, v, layer.Units)
	return nil
}
