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

package reader

import (
	"encoding/csv"
	"math"
	"os"
	"strconv"

	patch "github.com/SchmidtDSE/josh-sub009"
)

// csvReader adapts a flat CSV table (one row per grid cell: x, y, then one
// column per variable) to ExternalDataReader, in the idiom the teacher uses
// for its own tabular emission-factor tables (emissions/aep/srgspec.go).
// CSV has no time axis.
type csvReader struct {
	path    string
	header  []string // column names after x, y
	coordX  []float64
	coordY  []float64
	rows    [][]float64 // rows[i][j] is the value of variable j at (coordX[i], coordY[i])
}

func openCSV(path string) (*csvReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, newErr("openCSV", KindReaderIo, path, "", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, newErr("openCSV", KindReaderIo, path, "", err)
	}
	if len(records) < 1 {
		return nil, newErr("openCSV", KindReaderIo, path, "", nil)
	}
	header := records[0]
	if len(header) < 3 {
		return nil, newErr("openCSV", KindReaderIo, path, "", nil)
	}

	r := &csvReader{path: path, header: header[2:]}
	for _, row := range records[1:] {
		x, err := strconv.ParseFloat(row[0], 64)
		if err != nil {
			return nil, newErr("openCSV", KindReaderIo, path, header[0], err)
		}
		y, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			return nil, newErr("openCSV", KindReaderIo, path, header[1], err)
		}
		vals := make([]float64, len(r.header))
		for j, cell := range row[2:] {
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, newErr("openCSV", KindReaderIo, path, r.header[j], err)
			}
			vals[j] = v
		}
		r.coordX = append(r.coordX, x)
		r.coordY = append(r.coordY, y)
		r.rows = append(r.rows, vals)
	}
	return r, nil
}

// SetDimensions is a no-op for CSV: coordinates come from the x/y columns,
// not a declared dimension variable.
func (r *csvReader) SetDimensions(xDim, yDim, timeDim string) error { return nil }

func (r *csvReader) SetCrsCode(code string) {}

func (r *csvReader) VariableNames() ([]string, error) {
	out := make([]string, len(r.header))
	copy(out, r.header)
	return out, nil
}

func (r *csvReader) TimeDimensionSize() (int, bool) { return 0, false }

func (r *csvReader) SpatialDimensions() (SpatialDimensions, error) {
	return SpatialDimensions{CoordsX: toDecimalSlice(r.coordX), CoordsY: toDecimalSlice(r.coordY)}, nil
}

// ReadValueAt performs a nearest-neighbor lookup over every (x, y) row in
// the table, since CSV rows are not assumed to be laid out on a regular
// grid the way NetCDF/GeoTIFF axes are.
func (r *csvReader) ReadValueAt(variable string, x, y float64, timestep int) (patch.Value, bool, error) {
	col := -1
	for j, name := range r.header {
		if name == variable {
			col = j
			break
		}
	}
	if col < 0 {
		return patch.Value{}, false, nil
	}

	best, bestDist := -1, math.Inf(1)
	for i := range r.rows {
		d := math.Hypot(r.coordX[i]-x, r.coordY[i]-y)
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		return patch.Value{}, false, nil
	}
	v := r.rows[best][col]
	if math.IsNaN(v) {
		return patch.Value{}, false, nil
	}
	return patch.NewValue(v, ""), true, nil
}

func (r *csvReader) Close() error { return nil }
