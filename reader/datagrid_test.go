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
	"testing"
)

// S7: a 3x3x3 grid with one nonzero cell round-trips through encode/decode
// with units preserved and every other position still zero.
func TestDataGridLayerRoundTrip(t *testing.T) {
	layer := NewDataGridLayer(0, 2, 0, 2, 0, 2, "ug/m3")
	layer.Set(0, 1, 2, 5)

	path := filepath.Join(t.TempDir(), "grid.jshd")
	if err := EncodeDataGridLayer(path, layer); err != nil {
		t.Fatalf("EncodeDataGridLayer: %v", err)
	}

	loaded, err := LoadDataGridLayer(path)
	if err != nil {
		t.Fatalf("LoadDataGridLayer: %v", err)
	}
	if loaded.Units != "ug/m3" {
		t.Fatalf("units = %q, want ug/m3", loaded.Units)
	}
	if got := loaded.At(0, 1, 2); got != 5 {
		t.Fatalf("At(0,1,2) = %v, want 5", got)
	}
	for x := int64(0); x <= 2; x++ {
		for y := int64(0); y <= 2; y++ {
			for tt := int64(0); tt <= 2; tt++ {
				if x == 0 && y == 1 && tt == 2 {
					continue
				}
				if got := loaded.At(x, y, tt); got != 0 {
					t.Fatalf("At(%d,%d,%d) = %v, want 0", x, y, tt, got)
				}
			}
		}
	}
}

func TestLoadDataGridLayerFileNotFound(t *testing.T) {
	_, err := LoadDataGridLayer("/nonexistent/grid.jshd")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}
