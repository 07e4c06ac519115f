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
	"math"
	"os"

	"github.com/ctessum/cdf"
	"github.com/shopspring/decimal"

	patch "github.com/SchmidtDSE/josh-sub009"
)

// netcdfReader adapts a ctessum/cdf file to ExternalDataReader, the way
// sr.Reader and VarGridConfig.LoadCTMData read InMAP's NetCDF meteorology
// and source-receptor files.
type netcdfReader struct {
	path   string
	f      *os.File
	cf     *cdf.File
	xDim   string
	yDim   string
	tDim   string
	crs    string
	coordX []float64
	coordY []float64
}

func openNetCDF(path string) (*netcdfReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, newErr("openNetCDF", KindReaderIo, path, "", err)
	}
	cf, err := cdf.Open(f)
	if err != nil {
		f.Close()
		return nil, newErr("openNetCDF", KindReaderIo, path, "", err)
	}
	return &netcdfReader{path: path, f: f, cf: cf}, nil
}

func (r *netcdfReader) SetDimensions(xDim, yDim, timeDim string) error {
	r.xDim, r.yDim, r.tDim = xDim, yDim, timeDim
	coordX, err := r.readCoordVar(xDim)
	if err != nil {
		return err
	}
	coordY, err := r.readCoordVar(yDim)
	if err != nil {
		return err
	}
	r.coordX, r.coordY = coordX, coordY
	return nil
}

func (r *netcdfReader) readCoordVar(name string) ([]float64, error) {
	n := r.cf.Header.Lengths(name)
	if len(n) == 0 {
		return nil, newErr("readCoordVar", KindReaderIo, r.path, name, nil)
	}
	buf := make([]float32, n[0])
	if _, err := r.cf.Reader(name, nil, nil).Read(buf); err != nil {
		return nil, newErr("readCoordVar", KindReaderIo, r.path, name, err)
	}
	out := make([]float64, len(buf))
	for i, v := range buf {
		out[i] = float64(v)
	}
	return out, nil
}

func (r *netcdfReader) SetCrsCode(code string) { r.crs = code }

func (r *netcdfReader) VariableNames() ([]string, error) {
	all := r.cf.Header.Variables()
	out := make([]string, 0, len(all))
	for _, v := range all {
		if v == r.xDim || v == r.yDim || v == r.tDim {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

func (r *netcdfReader) TimeDimensionSize() (int, bool) {
	if r.tDim == "" {
		return 0, false
	}
	n := r.cf.Header.Lengths(r.tDim)
	if len(n) == 0 {
		return 0, false
	}
	return n[0], true
}

func (r *netcdfReader) SpatialDimensions() (SpatialDimensions, error) {
	return SpatialDimensions{
		NameX: r.xDim, NameY: r.yDim, NameT: r.tDim,
		Crs:     r.crs,
		CoordsX: toDecimalSlice(r.coordX),
		CoordsY: toDecimalSlice(r.coordY),
	}, nil
}

func toDecimalSlice(in []float64) []decimal.Decimal {
	out := make([]decimal.Decimal, len(in))
	for i, v := range in {
		out[i] = decimal.NewFromFloat(v)
	}
	return out
}

func (r *netcdfReader) ReadValueAt(variable string, x, y float64, timestep int) (patch.Value, bool, error) {
	ix := nearestIndex(r.coordX, x)
	iy := nearestIndex(r.coordY, y)
	if ix < 0 || iy < 0 {
		return patch.Value{}, false, nil
	}

	dims := r.cf.Header.Lengths(variable)
	var begin, end []int
	switch len(dims) {
	case 2: // (y, x)
		begin = []int{iy, ix}
		end = []int{iy + 1, ix + 1}
	case 3: // (time, y, x)
		if timestep < 0 || timestep >= dims[0] {
			return patch.Value{}, false, nil
		}
		begin = []int{timestep, iy, ix}
		end = []int{timestep + 1, iy + 1, ix + 1}
	default:
		return patch.Value{}, false, newErr("ReadValueAt", KindReaderIo, r.path, variable, nil)
	}

	buf := make([]float32, 1)
	if _, err := r.cf.Reader(variable, begin, end).Read(buf); err != nil {
		return patch.Value{}, false, newErr("ReadValueAt", KindReaderIo, r.path, variable, err)
	}
	v := float64(buf[0])
	if math.IsNaN(v) {
		return patch.Value{}, false, nil
	}

	units := ""
	if u, ok := attrString(r.cf, variable, "units"); ok {
		units = u
	}
	return patch.NewValue(v, units), true, nil
}

func attrString(f *cdf.File, variable, attr string) (string, bool) {
	v := f.Header.GetAttribute(variable, attr)
	s, ok := v.(string)
	return s, ok
}

// nearestIndex returns the index of the coordinate in coords nearest to v,
// or -1 if coords is empty.
func nearestIndex(coords []float64, v float64) int {
	if len(coords) == 0 {
		return -1
	}
	best, bestDist := 0, math.Abs(coords[0]-v)
	for i := 1; i < len(coords); i++ {
		if d := math.Abs(coords[i] - v); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

func (r *netcdfReader) Close() error {
	return r.f.Close()
}
