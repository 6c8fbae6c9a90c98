package formats

import (
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/Faultbox/cadconv/pkg/mesh"
)

const defaultMeshName = "mesh"

// SaveGLB writes the mesh as a single-node binary glTF scene.
func SaveGLB(m *mesh.Mesh, path string) error {
	doc, err := Document(m)
	if err != nil {
		return err
	}
	if err := gltf.SaveBinary(doc, path); err != nil {
		return fmt.Errorf("writing GLB %s: %w", path, err)
	}
	return nil
}

// Document builds a glTF document holding one indexed triangle primitive.
func Document(m *mesh.Mesh) (*gltf.Document, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	name := m.Name
	if name == "" {
		name = defaultMeshName
	}

	indices := make([]uint32, 0, len(m.Faces)*3)
	for _, f := range m.Faces {
		indices = append(indices, f[0], f[1], f[2])
	}

	doc := gltf.NewDocument()
	positions := modeler.WritePosition(doc, m.Vertices)
	indexAccessor := modeler.WriteIndices(doc, indices)

	doc.Meshes = []*gltf.Mesh{{
		Name: name,
		Primitives: []*gltf.Primitive{{
			Indices:    gltf.Index(indexAccessor),
			Attributes: gltf.PrimitiveAttributes{gltf.POSITION: positions},
		}},
	}}
	doc.Nodes = []*gltf.Node{{Name: name, Mesh: gltf.Index(0)}}
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)
	return doc, nil
}

// LoadGLB reads every triangle primitive of a glTF/GLB file into one mesh.
// Node transforms are not applied.
func LoadGLB(path string) (*mesh.Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading GLB %s: %w", path, err)
	}

	m := &mesh.Mesh{}
	for mi, gm := range doc.Meshes {
		if m.Name == "" {
			m.Name = gm.Name
		}
		for pi, p := range gm.Primitives {
			if p.Mode != gltf.PrimitiveTriangles {
				continue
			}
			if err := appendPrimitive(doc, p, m); err != nil {
				return nil, fmt.Errorf("mesh %d primitive %d: %w", mi, pi, err)
			}
		}
	}

	if m.IsEmpty() {
		return nil, mesh.ErrEmptyMesh
	}
	return m, nil
}

func appendPrimitive(doc *gltf.Document, p *gltf.Primitive, m *mesh.Mesh) error {
	posIdx, ok := p.Attributes[gltf.POSITION]
	if !ok {
		return nil
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return fmt.Errorf("reading positions: %w", err)
	}

	base := uint32(len(m.Vertices))
	m.Vertices = append(m.Vertices, positions...)

	var indices []uint32
	if p.Indices != nil {
		indices, err = modeler.ReadIndices(doc, doc.Accessors[*p.Indices], nil)
		if err != nil {
			return fmt.Errorf("reading indices: %w", err)
		}
	} else {
		indices = make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}

	for i := 0; i+2 < len(indices); i += 3 {
		m.Faces = append(m.Faces, [3]uint32{base + indices[i], base + indices[i+1], base + indices[i+2]})
	}
	return nil
}
