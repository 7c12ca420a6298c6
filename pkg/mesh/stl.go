package mesh

import (
	"encoding/binary"
	"io"
)

// stlHeaderSize is the fixed header length of binary STL.
const stlHeaderSize = 80

type stlFacet struct {
	Normal    [3]float32
	Vertices  [3][3]float32
	Attribute uint16
}

// EncodeSTL writes tris as binary STL. The name is stored in the header,
// truncated to fit.
func EncodeSTL(w io.Writer, name string, tris []Triangle) error {
	var header [stlHeaderSize]byte
	copy(header[:], name)
	if _, err := w.Write(header[:]); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(tris))); err != nil {
		return err
	}

	facets := make([]stlFacet, len(tris))
	for i, t := range tris {
		f := &facets[i]
		f.Normal = vec32(t.Normal)
		for j, v := range t.Vertices {
			f.Vertices[j] = vec32(v)
		}
	}
	return binary.Write(w, binary.LittleEndian, facets)
}

// DecodeSTLCount reads the facet count from a binary STL header.
func DecodeSTLCount(r io.Reader) (uint32, error) {
	if _, err := io.CopyN(io.Discard, r, stlHeaderSize); err != nil {
		return 0, err
	}
	var n uint32
	err := binary.Read(r, binary.LittleEndian, &n)
	return n, err
}

func vec32(v [3]float64) [3]float32 {
	return [3]float32{float32(v[0]), float32(v[1]), float32(v[2])}
}
