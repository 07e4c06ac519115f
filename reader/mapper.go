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
	"sync"

	"github.com/shopspring/decimal"

	patch "github.com/SchmidtDSE/josh-sub009"
)

// Extents describes a grid's bounding box in grid-space coordinates.
type Extents struct {
	TopLeftX, TopLeftY         decimal.Decimal
	BottomRightX, BottomRightY decimal.Decimal
}

// GridCrsDefinition describes the grid a PatchSet was built over, for
// GeoMapper's benefit when transforming patch centers into a reader's
// native CRS (spec §6).
type GridCrsDefinition struct {
	Name         string
	BaseCrsCode  string
	Extents      Extents
	CellSize     decimal.Decimal
	CellSizeUnit string
}

// PatchSet is the ordered collection of patches GeoMapper seeds, plus the
// grid definition their centers are expressed in.
type PatchSet struct {
	Patches []*patch.LivePatch
	Crs     GridCrsDefinition
}

// ReaderFactory constructs a fresh ExternalDataReader instance. GeoMapper
// calls it once for sequential runs and once per worker for parallel runs,
// since readers are not safe for concurrent use (spec §4.F, §9).
type ReaderFactory func() (ExternalDataReader, error)

// Result is the output shape spec §4.F specifies: variable -> timestep ->
// patch key -> value.
type Result map[string]map[int]map[patch.GeoKey]patch.Value

func (r Result) set(variable string, t int, key patch.GeoKey, v patch.Value) {
	byTimestep, ok := r[variable]
	if !ok {
		byTimestep = make(map[int]map[patch.GeoKey]patch.Value)
		r[variable] = byTimestep
	}
	byKey, ok := byTimestep[t]
	if !ok {
		byKey = make(map[patch.GeoKey]patch.Value)
		byTimestep[t] = byKey
	}
	byKey[key] = v
}

// GeoMapper seeds patch attributes from an external reader using a
// nearest-neighbor strategy, over a fixed set of variables and timesteps.
type GeoMapper struct {
	Set       PatchSet
	Variables []string
	Timesteps []int
	Strategy  *NearestNeighborStrategy
	NewReader ReaderFactory
}

// RunSequential seeds every patch using a single reader instance, in patch
// order.
func (m *GeoMapper) RunSequential(cancel CancelFunc) (Result, error) {
	r, err := m.NewReader()
	if err != nil {
		return nil, err
	}
	defer r.Close()

	out := make(Result)
	for _, p := range m.Set.Patches {
		if err := checkCancel(cancel, "RunSequential", ""); err != nil {
			return nil, err
		}
		if err := m.seedPatch(r, p, out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// RunParallel seeds patches using workers goroutines, each opening its own
// thread-local reader via NewReader for the duration of its patch batch
// and closing it on exit, per spec §4.F / §9.
func (m *GeoMapper) RunParallel(workers int, cancel CancelFunc) (Result, error) {
	if workers < 1 {
		workers = 1
	}

	batches := make([][]*patch.LivePatch, workers)
	for i, p := range m.Set.Patches {
		w := i % workers
		batches[w] = append(batches[w], p)
	}

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		firstErr error
	)
	out := make(Result)

	for w := 0; w < workers; w++ {
		batch := batches[w]
		if len(batch) == 0 {
			continue
		}
		wg.Add(1)
		go func(batch []*patch.LivePatch) {
			defer wg.Done()
			r, err := m.NewReader()
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				return
			}
			defer r.Close()

			local := make(Result)
			for _, p := range batch {
				if err := checkCancel(cancel, "RunParallel", ""); err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = err
					}
					mu.Unlock()
					return
				}
				if err := m.seedPatch(r, p, local); err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = err
					}
					mu.Unlock()
					return
				}
			}

			mu.Lock()
			mergeResult(out, local)
			mu.Unlock()
		}(batch)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return out, nil
}

func mergeResult(dst, src Result) {
	for variable, byTimestep := range src {
		for t, byKey := range byTimestep {
			for key, v := range byKey {
				dst.set(variable, t, key, v)
			}
		}
	}
}

func (m *GeoMapper) seedPatch(r ExternalDataReader, p *patch.LivePatch, out Result) error {
	key, hasKey := p.Key()
	if !hasKey {
		return nil
	}
	geom, hasGeom := p.Geom()
	if !hasGeom {
		return nil
	}
	gx, _ := geom.CenterX().Float64()
	gy, _ := geom.CenterY().Float64()

	timesteps := m.Timesteps
	if len(timesteps) == 0 {
		timesteps = []int{0}
	}

	for _, variable := range m.Variables {
		for _, t := range timesteps {
			v, ok, err := m.Strategy.Seed(r, variable, gx, gy, m.Set.Crs.BaseCrsCode, t)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
			out.set(variable, t, key, v)
			p.SetAttribute(variable, v)
		}
	}
	return nil
}
