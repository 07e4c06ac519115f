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
	"image"
	"math"
	"os"

	"golang.org/x/image/tiff"

	patch "github.com/SchmidtDSE/josh-sub009"
)

// geotiffReader adapts a single-band GeoTIFF raster to ExternalDataReader.
// TIFF has no native time axis, so TimeDimensionSize always reports false
// and ReadValueAt ignores its timestep argument.
type geotiffReader struct {
	path   string
	img    image.Image
	bounds image.Rectangle
	crs    string
	coordX []float64
	coordY []float64
	noData float64
}

func openGeoTIFF(path string) (*geotiffReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, newErr("openGeoTIFF", KindReaderIo, path, "", err)
	}
	defer f.Close()
	img, err := tiff.Decode(f)
	if err != nil {
		return nil, newErr("openGeoTIFF", KindReaderIo, path, "", err)
	}
	return &geotiffReader{path: path, img: img, bounds: img.Bounds(), noData: math.MinInt32}, nil
}

// SetDimensions ignores the dimension names: it derives the pixel
// coordinate vectors from the raster's own bounds. Until it has been
// called, ReadValueAt finds no coordinates and returns an empty result.
func (r *geotiffReader) SetDimensions(xDim, yDim, timeDim string) error {
	w, h := r.bounds.Dx(), r.bounds.Dy()
	r.coordX = make([]float64, w)
	for i := range r.coordX {
		r.coordX[i] = float64(r.bounds.Min.X + i)
	}
	r.coordY = make([]float64, h)
	for i := range r.coordY {
		r.coordY[i] = float64(r.bounds.Min.Y + i)
	}
	return nil
}

func (r *geotiffReader) SetCrsCode(code string) { r.crs = code }

func (r *geotiffReader) VariableNames() ([]string, error) {
	return []string{"band1"}, nil
}

func (r *geotiffReader) TimeDimensionSize() (int, bool) { return 0, false }

func (r *geotiffReader) SpatialDimensions() (SpatialDimensions, error) {
	return SpatialDimensions{
		Crs:     r.crs,
		CoordsX: toDecimalSlice(r.coordX),
		CoordsY: toDecimalSlice(r.coordY),
	}, nil
}

func (r *geotiffReader) ReadValueAt(variable string, x, y float64, timestep int) (patch.Value, bool, error) {
	ix := nearestIndex(r.coordX, x)
	iy := nearestIndex(r.coordY, y)
	if ix < 0 || iy < 0 {
		return patch.Value{}, false, nil
	}
	gray, ok := r.img.(*image.Gray16)
	var v float64
	if ok {
		v = float64(gray.Gray16At(r.bounds.Min.X+ix, r.bounds.Min.Y+iy).Y)
	} else {
		gr, g, b, _ := r.img.At(r.bounds.Min.X+ix, r.bounds.Min.Y+iy).RGBA()
		_ = g
		_ = b
		v = float64(gr)
	}
	if v == r.noData || math.IsNaN(v) {
		return patch.Value{}, false, nil
	}
	return patch.NewValue(v, ""), true, nil
}

func (r *geotiffReader) Close() error { return nil }
