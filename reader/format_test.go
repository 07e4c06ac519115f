package reader

import "testing"

func TestClassifyFormat(t *testing.T) {
	cases := map[string]Format{
		"data.nc":      FormatNetCDF,
		"data.ncf":     FormatNetCDF,
		"data.netcdf":  FormatNetCDF,
		"data.nc4":     FormatNetCDF,
		"raster.tif":   FormatGeoTIFF,
		"raster.tiff":  FormatGeoTIFF,
		"table.csv":    FormatCSV,
		"grid.jshd":    FormatPrecomputedGrid,
		"unknown.xyz":  FormatUnknown,
		"no_extension": FormatUnknown,
	}
	for path, want := range cases {
		if got := ClassifyFormat(path); got != want {
			t.Errorf("ClassifyFormat(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestOpenUnsupportedFormat(t *testing.T) {
	_, err := Open("file.xyz")
	if err == nil {
		t.Fatal("expected error for unsupported extension")
	}
	e, ok := err.(*Error)
	if !ok || e.Kind != KindUnsupportedFormat {
		t.Fatalf("expected KindUnsupportedFormat, got %v", err)
	}
}
