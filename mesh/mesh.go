package mesh

import (
	"encoding/binary"
	"errors"
	"io"
	"math"

	json "github.com/goccy/go-json"
)

// Mesh is an indexed triangle mesh suitable for uploading to a renderer.
type Mesh struct {
	Vertices []float32 `json:"vertices"` // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float32 `json:"normals"`  // [nx0,ny0,nz0, ...]
	Indices  []uint32  `json:"indices"`  // [i0,i1,i2, ...] triangles
	Name     string    `json:"name,omitempty"`
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// Bounds returns the axis aligned box containing all vertices. ok is false for an empty mesh.
func (m *Mesh) Bounds() (lo, hi [3]float32, ok bool) {
	if m.IsEmpty() {
		return lo, hi, false
	}
	copy(lo[:], m.Vertices[:3])
	copy(hi[:], m.Vertices[:3])
	for i := 3; i+2 < len(m.Vertices); i += 3 {
		for k := 0; k < 3; k++ {
			v := m.Vertices[i+k]
			lo[k] = min(lo[k], v)
			hi[k] = max(hi[k], v)
		}
	}
	return lo, hi, true
}

// validate checks indices and normals are consistent with the vertices.
func (m *Mesh) validate() error {
	if len(m.Vertices)%3 != 0 {
		return errors.New("vertex buffer length not multiple of 3")
	} else if len(m.Normals) != len(m.Vertices) {
		return errors.New("normal and vertex buffer length mismatch")
	} else if len(m.Indices)%3 != 0 {
		return errors.New("index buffer length not multiple of 3")
	}
	nv := uint32(m.VertexCount())
	for _, idx := range m.Indices {
		if idx >= nv {
			return errors.New("index out of vertex buffer range")
		}
	}
	return nil
}

// WriteJSON writes the mesh as a JSON object with vertices, normals and indices arrays.
func (m *Mesh) WriteJSON(w io.Writer) error {
	if err := m.validate(); err != nil {
		return err
	}
	return json.NewEncoder(w).Encode(m)
}

// ReadJSON decodes a mesh written by [Mesh.WriteJSON].
func ReadJSON(r io.Reader) (*Mesh, error) {
	var m Mesh
	err := json.NewDecoder(r).Decode(&m)
	if err != nil {
		return nil, err
	}
	if err = m.validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// WriteBinarySTL writes the mesh in binary STL format. It returns the number of bytes written.
// The normal of each facet is that of its first vertex.
func (m *Mesh) WriteBinarySTL(w io.Writer) (int, error) {
	if err := m.validate(); err != nil {
		return 0, err
	}
	const (
		headerSize  = 80
		triangleLen = 12 * 4
		facetLen    = triangleLen + 2 // Includes trailing uint16 attribute count.
	)
	var header [headerSize + 4]byte
	copy(header[:], "lightwalk binary STL")
	ntri := m.TriangleCount()
	binary.LittleEndian.PutUint32(header[headerSize:], uint32(ntri))
	n, err := w.Write(header[:])
	if err != nil {
		return n, err
	}
	var facet [facetLen]byte
	put := func(off int, v float32) {
		binary.LittleEndian.PutUint32(facet[off:], math.Float32bits(v))
	}
	for t := 0; t < ntri; t++ {
		i0 := int(m.Indices[3*t])
		for k := 0; k < 3; k++ {
			put(4*k, m.Normals[3*i0+k])
		}
		for j := 0; j < 3; j++ {
			vi := int(m.Indices[3*t+j])
			for k := 0; k < 3; k++ {
				put(12+12*j+4*k, m.Vertices[3*vi+k])
			}
		}
		ngot, err := w.Write(facet[:])
		n += ngot
		if err != nil {
			return n, err
		}
	}
	return n, nil
}
