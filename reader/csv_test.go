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
	"os"
	"path/filepath"
	"testing"
)

func writeTestCSV(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestCSVReaderNearestNeighbor(t *testing.T) {
	path := writeTestCSV(t, "x,y,temp\n0,0,10\n10,10,20\n")
	r, err := openCSV(path)
	if err != nil {
		t.Fatalf("openCSV: %v", err)
	}
	defer r.Close()

	v, ok, err := r.ReadValueAt("temp", 1, 1, 0)
	if err != nil || !ok {
		t.Fatalf("ReadValueAt: ok=%v err=%v", ok, err)
	}
	if v.Number != 10 {
		t.Fatalf("expected nearest neighbor value 10, got %v", v.Number)
	}
}

func TestCSVReaderInvalidCoordinate(t *testing.T) {
	path := writeTestCSV(t, "x,y,temp\nabc,0,10\n")
	_, err := openCSV(path)
	if err == nil {
		t.Fatal("expected error for non-numeric coordinate")
	}
	e, ok := err.(*Error)
	if !ok || e.Kind != KindReaderIo {
		t.Fatalf("expected KindReaderIo, got %v", err)
	}
}

func TestCSVReaderUnknownVariable(t *testing.T) {
	path := writeTestCSV(t, "x,y,temp\n0,0,10\n")
	r, err := openCSV(path)
	if err != nil {
		t.Fatalf("openCSV: %v", err)
	}
	defer r.Close()

	_, ok, err := r.ReadValueAt("pressure", 0, 0, 0)
	if err != nil {
		t.Fatalf("ReadValueAt: %v", err)
	}
	if ok {
		t.Fatal("expected ok=false for unknown variable")
	}
}
