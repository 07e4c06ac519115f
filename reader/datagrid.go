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
	"encoding/binary"
	"io"
	"os"

	"github.com/ctessum/sparse"
)

// maxUnitsLen bounds the units string length field, per spec §6.
const maxUnitsLen = 200

// DataGridLayer is the decoded in-memory form of a precomputed grid
// resource: a dense (x, y, timestep) cube of float64 values plus the bounds
// and units recorded in the resource's header. The on-disk encoding is
// treated as a black-box format owned outside this repository; this type
// and LoadDataGridLayer only need to agree on the header layout to decode
// it, the way the teacher's CTMData only needs to agree with its NetCDF
// writer on attribute names.
type DataGridLayer struct {
	MinX, MaxX               int64
	MinY, MaxY                int64
	MinTimestep, MaxTimestep int64
	Units                     string
	data                      *sparse.DenseArray // shape [x, y, t]
}

// At returns the value at grid coordinates (x, y, t), in absolute grid
// units (not relative to MinX/MinY/MinTimestep).
func (d *DataGridLayer) At(x, y, t int64) float64 {
	return d.data.Get(int(x-d.MinX), int(y-d.MinY), int(t-d.MinTimestep))
}

// set mutates the backing array; it is called only by Set, which tests use
// to build fixtures for the round-trip through EncodeDataGridLayer (spec §4
// Non-goals: no production encoder lives here).
func (d *DataGridLayer) set(x, y, t int64, v float64) {
	d.data.Set(v, int(x-d.MinX), int(y-d.MinY), int(t-d.MinTimestep))
}

// NewDataGridLayer allocates a zero-filled layer over the given inclusive
// bounds, for use by tests that build and round-trip a grid.
func NewDataGridLayer(minX, maxX, minY, maxY, minT, maxT int64, units string) *DataGridLayer {
	return &DataGridLayer{
		MinX: minX, MaxX: maxX, MinY: minY, MaxY: maxY,
		MinTimestep: minT, MaxTimestep: maxT, Units: units,
		data: sparse.ZerosDense(int(maxX-minX+1), int(maxY-minY+1), int(maxT-minT+1)),
	}
}

// Set is the test-only mutator exposed for building round-trip fixtures.
func (d *DataGridLayer) Set(x, y, t int64, v float64) { d.set(x, y, t, v) }

// LoadDataGridLayer decodes a precomputed grid resource per the fixed
// header layout in spec §6: big-endian, version=1, six int64 bounds, a
// bounded units string, then a row-major f64 cube (x outer, y, then
// timestep).
func LoadDataGridLayer(path string) (*DataGridLayer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, newErr("LoadDataGridLayer", KindReaderIo, path, "", err)
	}
	defer f.Close()

	var version int32
	if err := binary.Read(f, binary.BigEndian, &version); err != nil {
		return nil, newErr("LoadDataGridLayer", KindReaderIo, path, "", err)
	}
	if version != 1 {
		return nil, newErr("LoadDataGridLayer", KindReaderIo, path, "", nil)
	}

	var minX, maxX, minY, maxY, minT, maxT int64
	for _, field := range []*int64{&minX, &maxX, &minY, &maxY, &minT, &maxT} {
		if err := binary.Read(f, binary.BigEndian, field); err != nil {
			return nil, newErr("LoadDataGridLayer", KindReaderIo, path, "", err)
		}
	}

	var unitsLen int32
	if err := binary.Read(f, binary.BigEndian, &unitsLen); err != nil {
		return nil, newErr("LoadDataGridLayer", KindReaderIo, path, "", err)
	}
	if unitsLen < 0 || unitsLen > maxUnitsLen {
		return nil, newErr("LoadDataGridLayer", KindReaderIo, path, "", nil)
	}
	unitsBuf := make([]byte, unitsLen)
	if _, err := io.ReadFull(f, unitsBuf); err != nil {
		return nil, newErr("LoadDataGridLayer", KindReaderIo, path, "", err)
	}

	layer := NewDataGridLayer(minX, maxX, minY, maxY, minT, maxT, string(unitsBuf))
	n := len(layer.data.Elements)
	for i := 0; i < n; i++ {
		var v float64
		if err := binary.Read(f, binary.BigEndian, &v); err != nil {
			return nil, newErr("LoadDataGridLayer", KindReaderIo, path, "", err)
		}
		layer.data.Elements[i] = v
	}
	return layer, nil
}

// EncodeDataGridLayer writes layer in the spec §6 wire format. Production
// resources are produced by an external encoder; this exists only so
// tests can exercise the round-trip described in S7.
func EncodeDataGridLayer(path string, layer *DataGridLayer) error {
	f, err := os.Create(path)
	if err != nil {
		return newErr("EncodeDataGridLayer", KindReaderIo, path, "", err)
	}
	defer f.Close()

	if err := binary.Write(f, binary.BigEndian, int32(1)); err != nil {
		return newErr("EncodeDataGridLayer", KindReaderIo, path, "", err)
	}
	for _, field := range []int64{layer.MinX, layer.MaxX, layer.MinY, layer.MaxY, layer.MinTimestep, layer.MaxTimestep} {
		if err := binary.Write(f, binary.BigEndian, field); err != nil {
			return newErr("EncodeDataGridLayer", KindReaderIo, path, "", err)
		}
	}
	if err := binary.Write(f, binary.BigEndian, int32(len(layer.Units))); err != nil {
		return newErr("EncodeDataGridLayer", KindReaderIo, path, "", err)
	}
	if _, err := f.WriteString(layer.Units); err != nil {
		return newErr("EncodeDataGridLayer", KindReaderIo, path, "", err)
	}
	for _, v := range layer.data.Elements {
		if err := binary.Write(f, binary.BigEndian, v); err != nil {
			return newErr("EncodeDataGridLayer", KindReaderIo, path, "", err)
		}
	}
	return nil
}
