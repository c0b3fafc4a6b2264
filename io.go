/*
Copyright © 2019 the Barotropic authors.
This file is part of Barotropic.

Barotropic is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

Barotropic is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with Barotropic.  If not, see <http://www.gnu.org/licenses/>.
*/


package barotropic

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ctessum/cdf"
)

// IOManager reads and writes fields as NetCDF files with dimensions
// lat and lon.
type IOManager struct {
	mesh   Mesh
	fields []*Field
}

// NewIOManager returns an IOManager for fields on m.
func NewIOManager(m Mesh) *IOManager {
	return &IOManager{mesh: m}
}

// Register adds fields to the set that is read and written.
func (iom *IOManager) Register(fields ...*Field) {
	iom.fields = append(iom.fields, fields...)
}

// Create writes level l of every registered field to a new file at
// path. Single-level fields ignore l. attrs holds global attributes;
// values must be of a type the NetCDF library accepts, such as string,
// []int32 or []float64.
func (iom *IOManager) Create(path string, l TimeLevel, attrs map[string]interface{}) error {
	nlon, nlat := iom.mesh.NumGrid(Lon, FullGrid), iom.mesh.NumGrid(Lat, FullGrid)
	h := cdf.NewHeader([]string{"lat", "lon"}, []int{nlat, nlon})

	h.AddVariable("lon", []string{"lon"}, []float64{0})
	h.AddAttribute("lon", "units", "degrees_east")
	h.AddAttribute("lon", "long_name", "longitude")
	h.AddVariable("lat", []string{"lat"}, []float64{0})
	h.AddAttribute("lat", "units", "degrees_north")
	h.AddAttribute("lat", "long_name", "latitude")
	for _, f := range iom.fields {
		h.AddVariable(f.Name, []string{"lat", "lon"}, []float64{0})
		h.AddAttribute(f.Name, "units", f.Units)
		h.AddAttribute(f.Name, "long_name", f.LongName)
	}
	h.AddAttribute("", "data_version", DataVersion)
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if k == "data_version" {
			continue
		}
		h.AddAttribute("", k, attrs[k])
	}
	h.Define()
	for _, err := range h.Check() {
		return fmt.Errorf("barotropic: creating NetCDF file %s: %v", path, err)
	}

	ff, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("barotropic: creating NetCDF file: %v", err)
	}
	defer ff.Close()
	f, err := cdf.Create(ff, h)
	if err != nil {
		return fmt.Errorf("barotropic: creating NetCDF file %s: %v", path, err)
	}

	lon := make([]float64, nlon)
	for i := range lon {
		lon[i] = iom.mesh.Lon(FullGrid, i) * 180 / math.Pi
	}
	lat := make([]float64, nlat)
	for j := range lat {
		lat[j] = iom.mesh.Lat(FullGrid, j) * 180 / math.Pi
	}
	if err := writeVar(f, "lon", lon); err != nil {
		return err
	}
	if err := writeVar(f, "lat", lat); err != nil {
		return err
	}
	for _, fld := range iom.fields {
		interior := fld.Array(l).Subset([]int{1, 1}, []int{nlat + 1, nlon + 1})
		if err := writeVar(f, fld.Name, interior.Elements); err != nil {
			return err
		}
	}
	return ff.Close()
}

// writeVar writes the whole of variable name. The strider reports
// io.EOF once the variable is full.
func writeVar(f *cdf.File, name string, data []float64) error {
	w := f.Writer(name, nil, nil)
	if _, err := w.Write(data); err != nil && err != io.EOF {
		return fmt.Errorf("barotropic: writing variable %s to NetCDF file: %v", name, err)
	}
	return nil
}

// Read reads every registered field from the file at path into
// level l. The halos are not filled.
func (iom *IOManager) Read(path string, l TimeLevel) error {
	ff, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("barotropic: opening NetCDF file: %v", err)
	}
	defer ff.Close()
	f, err := cdf.Open(ff)
	if err != nil {
		return fmt.Errorf("barotropic: opening NetCDF file %s: %v", path, err)
	}
	if v, ok := f.Header.GetAttribute("", "data_version").(string); ok && v != DataVersion {
		return fmt.Errorf("barotropic: reading %s: data version %s is incompatible "+
			"with the required version %s", path, v, DataVersion)
	}
	nlon, nlat := iom.mesh.NumGrid(Lon, FullGrid), iom.mesh.NumGrid(Lat, FullGrid)
	for _, fld := range iom.fields {
		dims := f.Header.Lengths(fld.Name)
		if dims == nil {
			return fmt.Errorf("barotropic: reading %s: variable %s not found", path, fld.Name)
		}
		if len(dims) != 2 || dims[0] != nlat || dims[1] != nlon {
			return fmt.Errorf("barotropic: reading %s: variable %s has shape %v but the mesh is [%d %d]",
				path, fld.Name, dims, nlat, nlon)
		}
		a := fld.Array(l)
		if shape := a.GetShape(); shape[0] != nlat+2 || shape[1] != nlon+2 {
			return fmt.Errorf("barotropic: reading %s: field %s has storage shape %v but the mesh is [%d %d]",
				path, fld.Name, shape, nlat, nlon)
		}
		r := f.Reader(fld.Name, nil, nil)
		buf := r.Zero(-1)
		if _, err := r.Read(buf); err != nil && err != io.EOF {
			return fmt.Errorf("barotropic: reading variable %s from %s: %v", fld.Name, path, err)
		}
		data, ok := buf.([]float64)
		if !ok {
			return fmt.Errorf("barotropic: reading %s: variable %s is %T, not double", path, fld.Name, buf)
		}
		for j := 0; j < nlat; j++ {
			for i := 0; i < nlon; i++ {
				a.Set(data[j*nlon+i], j+1, i+1)
			}
		}
	}
	return nil
}

// Output writes the model state to a sequence of NetCDF files, one per
// output time.
type Output struct {
	// Template is the file name template. "[STEP]" is replaced with
	// the zero-padded step number and "[TIME]" with the model time.
	Template string

	// Interval is the number of steps between outputs.
	Interval int

	// Attributes are added as global attributes to every file.
	Attributes map[string]interface{}

	// Files holds the names of the files written so far.
	Files []string
}

// NewOutput checks its arguments and returns an Output.
func NewOutput(template string, interval int, attrs map[string]interface{}) (*Output, error) {
	if interval < 1 {
		return nil, fmt.Errorf("barotropic: output interval must be >= 1 but is %d", interval)
	}
	if !strings.Contains(template, "[STEP]") && !strings.Contains(template, "[TIME]") {
		return nil, fmt.Errorf("barotropic: output file template %q must contain [STEP] or [TIME]", template)
	}
	dir := filepath.Dir(template)
	if st, err := os.Stat(dir); err != nil || !st.IsDir() {
		return nil, fmt.Errorf("barotropic: output directory %s does not exist", dir)
	}
	return &Output{Template: template, Interval: interval, Attributes: attrs}, nil
}

// Due returns whether output is scheduled after the given step.
func (o *Output) Due(step int) bool { return step%o.Interval == 0 }

// FileName returns the file name for the given step and model time.
func (o *Output) FileName(step int, t time.Time) string {
	s := strings.Replace(o.Template, "[STEP]", fmt.Sprintf("%05d", step), -1)
	return strings.Replace(s, "[TIME]", t.UTC().Format("20060102T150405"), -1)
}

// Write writes level l of the prognostic fields and the surface
// geopotential of m.
func (o *Output) Write(m *Model, l TimeLevel) error {
	tm := m.TimeManager()
	attrs := map[string]interface{}{
		"title":           "barotropic shallow-water model output",
		"time":            tm.Time().UTC().Format(time.RFC3339),
		"step":            []int32{int32(tm.Step())},
		"elapsed_seconds": []float64{tm.Elapsed().Seconds()},
	}
	for k, v := range o.Attributes {
		attrs[k] = v
	}
	iom := NewIOManager(m.Mesh())
	iom.Register(m.ZonalWind(), m.MeridionalWind(), m.GeopotentialDepth(), m.SurfaceGeopotential())
	path := o.FileName(tm.Step(), tm.Time())
	if err := iom.Create(path, l, attrs); err != nil {
		return err
	}
	o.Files = append(o.Files, path)
	m.Log.WithField("file", path).Info("barotropic: wrote output")
	return nil
}
