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
	"path/filepath"
	"strings"
)

// Format identifies which decoder a source path routes to.
type Format int

const (
	FormatUnknown Format = iota
	FormatNetCDF
	FormatGeoTIFF
	FormatCSV
	FormatPrecomputedGrid
)

func (f Format) String() string {
	switch f {
	case FormatNetCDF:
		return "NetCDF"
	case FormatGeoTIFF:
		return "GeoTIFF"
	case FormatCSV:
		return "CSV"
	case FormatPrecomputedGrid:
		return "PrecomputedGrid"
	default:
		return "Unknown"
	}
}

// ClassifyFormat maps a path's extension onto the closed format set fixed
// by spec §4.F. Extensions outside the set are FormatUnknown.
func ClassifyFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".nc", ".ncf", ".netcdf", ".nc4":
		return FormatNetCDF
	case ".tif", ".tiff":
		return FormatGeoTIFF
	case ".csv":
		return FormatCSV
	case ".jshd":
		return FormatPrecomputedGrid
	default:
		return FormatUnknown
	}
}

// Open classifies path and constructs the matching ExternalDataReader. It
// fails with KindUnsupportedFormat for any extension outside the closed set,
// and for .jshd, whose resources load through LoadDataGridLayer instead.
func Open(path string) (ExternalDataReader, error) {
	switch ClassifyFormat(path) {
	case FormatNetCDF:
		return openNetCDF(path)
	case FormatGeoTIFF:
		return openGeoTIFF(path)
	case FormatCSV:
		return openCSV(path)
	case FormatPrecomputedGrid:
		return nil, newErr("Open", KindUnsupportedFormat, path, "",
			nil) // precomputed grids are loaded via LoadDataGridLayer, not ExternalDataReader
	default:
		return nil, newErr("Open", KindUnsupportedFormat, path, "", nil)
	}
}
