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
	"log"

	"github.com/BurntSushi/toml"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	patch "github.com/SchmidtDSE/josh-sub009"
	"github.com/SchmidtDSE/josh-sub009/reader"
)

var seedConfigFile string

// seedConfig is the TOML-decoded configuration for the seed subcommand,
// in the idiom of the teacher's own ConfigData (inmap/cmd/config.go):
// one flat struct, decoded in one call, validated by the caller.
type seedConfig struct {
	Source    string
	Variables []string
	Timesteps []int
	DimX      string
	DimY      string
	DimTime   string
	CrsCode   string
	Parallel  bool
	Workers   int

	Grid struct {
		Name         string
		BaseCrsCode  string
		TopLeftX     float64
		TopLeftY     float64
		BottomRightX float64
		BottomRightY float64
		CellSize     float64
		CellSizeUnit string
	}
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed a patch set's attributes from an external data source.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSeed()
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedConfigFile, "config", "./patchgrid.toml", "seed configuration file")
}

func runSeed() error {
	var cfg seedConfig
	if _, err := toml.DecodeFile(seedConfigFile, &cfg); err != nil {
		return fmt.Errorf("patchgrid seed: reading config: %w", err)
	}

	crs := reader.GridCrsDefinition{
		Name:        cfg.Grid.Name,
		BaseCrsCode: cfg.Grid.BaseCrsCode,
		Extents: reader.Extents{
			TopLeftX:     decimal.NewFromFloat(cfg.Grid.TopLeftX),
			TopLeftY:     decimal.NewFromFloat(cfg.Grid.TopLeftY),
			BottomRightX: decimal.NewFromFloat(cfg.Grid.BottomRightX),
			BottomRightY: decimal.NewFromFloat(cfg.Grid.BottomRightY),
		},
		CellSize:     decimal.NewFromFloat(cfg.Grid.CellSize),
		CellSizeUnit: cfg.Grid.CellSizeUnit,
	}

	patches, err := buildPatchSetFromGrid(crs)
	if err != nil {
		return err
	}

	mapper := &reader.GeoMapper{
		Set:       reader.PatchSet{Patches: patches, Crs: crs},
		Variables: cfg.Variables,
		Timesteps: cfg.Timesteps,
		Strategy:  reader.NewNearestNeighborStrategy(nil),
		NewReader: func() (reader.ExternalDataReader, error) {
			r, err := reader.Open(cfg.Source)
			if err != nil {
				return nil, err
			}
			if err := r.SetDimensions(cfg.DimX, cfg.DimY, cfg.DimTime); err != nil {
				return nil, err
			}
			r.SetCrsCode(cfg.CrsCode)
			return r, nil
		},
	}

	log.Printf("patchgrid seed: seeding %d patches from %s", len(patches), cfg.Source)

	var result reader.Result
	if cfg.Parallel {
		result, err = mapper.RunParallel(cfg.Workers, nil)
	} else {
		result, err = mapper.RunSequential(nil)
	}
	if err != nil {
		return fmt.Errorf("patchgrid seed: %w", err)
	}

	log.Printf("patchgrid seed: seeded %d variables", len(result))
	return nil
}

// buildPatchSetFromGrid lays out a uniform rectangular grid of live patches
// spanning crs's extents at its declared cell size, the way the config's
// VarGridConfig builds InMAP's fixed-resolution nest before refinement.
func buildPatchSetFromGrid(crs reader.GridCrsDefinition) ([]*patch.LivePatch, error) {
	cellSize := crs.CellSize
	if cellSize.IsZero() {
		return nil, fmt.Errorf("patchgrid seed: grid.CellSize must be nonzero")
	}

	width := crs.Extents.BottomRightX.Sub(crs.Extents.TopLeftX).Abs()
	height := crs.Extents.TopLeftY.Sub(crs.Extents.BottomRightY).Abs()
	nx := int(width.Div(cellSize).IntPart()) + 1
	ny := int(height.Div(cellSize).IntPart()) + 1

	seq := &patch.GeoKeySequence{}
	patches := make([]*patch.LivePatch, 0, nx*ny)
	for ix := 0; ix < nx; ix++ {
		for iy := 0; iy < ny; iy++ {
			x := crs.Extents.TopLeftX.Add(cellSize.Mul(decimal.NewFromInt(int64(ix))))
			y := crs.Extents.TopLeftY.Sub(cellSize.Mul(decimal.NewFromInt(int64(iy))))
			geom := patch.NewRectangle(x, y, cellSize)
			patches = append(patches, patch.NewLivePatch(seq.Next(), true, geom, true, "cell"))
		}
	}
	return patches, nil
}
