package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
)

func unitQuadMesh() *MeshData {
	return &MeshData{
		Positions: []core.Vec3{
			core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(1, 1, 0), core.NewVec3(0, 1, 0),
		},
		Indices: []int{0, 1, 2, 0, 2, 3},
	}
}

func TestMeshData_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(m *MeshData)
		wantErr bool
	}{
		{"valid", func(m *MeshData) {}, false},
		{"partial triangle", func(m *MeshData) { m.Indices = append(m.Indices, 0) }, true},
		{"index out of range", func(m *MeshData) { m.Indices[4] = 4 }, true},
		{"negative index", func(m *MeshData) { m.Indices[0] = -1 }, true},
		{"normal count mismatch", func(m *MeshData) { m.Normals = []core.Vec3{core.NewVec3(0, 0, 1)} }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := unitQuadMesh()
			tt.mutate(m)
			err := m.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMeshData_ComputeVertexNormals(t *testing.T) {
	m := unitQuadMesh()
	m.ComputeVertexNormals()

	if len(m.Normals) != len(m.Positions) {
		t.Fatalf("Expected %d normals, got %d", len(m.Positions), len(m.Normals))
	}
	for i, n := range m.Normals {
		if n.Subtract(core.NewVec3(0, 0, 1)).Length() > 1e-12 {
			t.Errorf("normal %d: expected (0,0,1), got %v", i, n)
		}
	}
}

func TestNewMesh(t *testing.T) {
	mesh, err := NewMesh(unitQuadMesh(), false, testMaterial)
	if err != nil {
		t.Fatalf("NewMesh: %v", err)
	}

	hit, ok := mesh.Hit(core.NewRay(core.NewVec3(0.7, 0.2, 1), core.NewVec3(0, 0, -1)), 0.001, math.Inf(1))
	if !ok {
		t.Fatal("Expected hit on quad mesh")
	}
	if math.Abs(hit.T-1) > 1e-9 {
		t.Errorf("Expected t=1, got %f", hit.T)
	}

	bad := unitQuadMesh()
	bad.Indices = bad.Indices[:5]
	if _, err := NewMesh(bad, false, testMaterial); err == nil {
		t.Error("Expected error for invalid mesh")
	}
}

func TestNewQuad(t *testing.T) {
	quad := NewBVH(NewQuad(core.NewVec3(-1, 2, -1), core.NewVec3(2, 0, 0), core.NewVec3(0, 0, 2), testMaterial))

	tests := []struct {
		x, z      float64
		expectHit bool
	}{
		{0.1, -0.3, true},
		{-0.9, 0.9, true},
		{0.9, -0.9, true},
		{1.1, 0, false},
		{0, -1.1, false},
	}
	for _, tt := range tests {
		_, ok := quad.Hit(core.NewRay(core.NewVec3(tt.x, 0, tt.z), core.NewVec3(0, 1, 0)), 0.001, math.Inf(1))
		if ok != tt.expectHit {
			t.Errorf("(%f, %f): expected hit=%v, got %v", tt.x, tt.z, tt.expectHit, ok)
		}
	}
}

func TestUVSphere(t *testing.T) {
	data := UVSphere(2, 16, 32)
	if err := data.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if data.TriangleCount() != 16*32*2 {
		t.Errorf("Expected %d triangles, got %d", 16*32*2, data.TriangleCount())
	}
	for i, p := range data.Positions {
		if math.Abs(p.Length()-2) > 1e-9 {
			t.Fatalf("vertex %d at distance %f, expected 2", i, p.Length())
		}
	}

	mesh, err := NewMesh(data, true, testMaterial)
	if err != nil {
		t.Fatalf("NewMesh: %v", err)
	}
	hit, ok := mesh.Hit(core.NewRay(core.NewVec3(0.1, 0.1, 10), core.NewVec3(0, 0, -1)), 0.001, math.Inf(1))
	if !ok {
		t.Fatal("Expected hit on tessellated sphere")
	}
	// Tessellation sits slightly inside the true sphere
	if hit.T < 8 || hit.T > 8.1 {
		t.Errorf("Expected t near 8, got %f", hit.T)
	}
	if hit.Normal.Z < 0.9 {
		t.Errorf("Expected normal close to +z, got %v", hit.Normal)
	}
}
