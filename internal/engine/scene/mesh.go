package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/voxelterrain/internal/engine/atlas"
	"github.com/Faultbox/voxelterrain/internal/engine/terrain"
)

// Vertex is a textured terrain vertex.
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	TexCoord mgl32.Vec2
}

// TextureGroup is a run of indices sampling the same texture role.
// With an atlas loaded every group samples the atlas.
type TextureGroup struct {
	Role       atlas.Role
	StartIndex int32
	IndexCount int32
}

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// Mesh is the culled terrain surface, ready for upload or export.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
	Groups   []TextureGroup
	Bounds   Bounds
	Faces    int
}

// faceSpec describes one cube face around the voxel centre.
// Corner order matches the UV order (u0,v0) (u1,v0) (u1,v1) (u0,v1).
type faceSpec struct {
	face    terrain.FaceMask
	normal  mgl32.Vec3
	corners [4]mgl32.Vec3
	mirror  bool
}

// Half the edge of a unit cube.
const hc = 0.5

var faceSpecs = []faceSpec{
	{
		face:    terrain.FaceFront,
		normal:  mgl32.Vec3{0, 0, 1},
		corners: [4]mgl32.Vec3{{-hc, -hc, hc}, {hc, -hc, hc}, {hc, hc, hc}, {-hc, hc, hc}},
	},
	{
		face:    terrain.FaceBack,
		normal:  mgl32.Vec3{0, 0, -1},
		corners: [4]mgl32.Vec3{{-hc, -hc, -hc}, {-hc, hc, -hc}, {hc, hc, -hc}, {hc, -hc, -hc}},
		mirror:  true,
	},
	{
		face:    terrain.FaceLeft,
		normal:  mgl32.Vec3{-1, 0, 0},
		corners: [4]mgl32.Vec3{{-hc, -hc, -hc}, {-hc, -hc, hc}, {-hc, hc, hc}, {-hc, hc, -hc}},
		mirror:  true,
	},
	{
		face:    terrain.FaceRight,
		normal:  mgl32.Vec3{1, 0, 0},
		corners: [4]mgl32.Vec3{{hc, -hc, -hc}, {hc, hc, -hc}, {hc, hc, hc}, {hc, -hc, hc}},
	},
	{
		face:    terrain.FaceTop,
		normal:  mgl32.Vec3{0, 1, 0},
		corners: [4]mgl32.Vec3{{-hc, hc, -hc}, {-hc, hc, hc}, {hc, hc, hc}, {hc, hc, -hc}},
	},
	{
		face:    terrain.FaceBottom,
		normal:  mgl32.Vec3{0, -1, 0},
		corners: [4]mgl32.Vec3{{-hc, -hc, -hc}, {hc, -hc, -hc}, {hc, -hc, hc}, {-hc, -hc, hc}},
	},
}

// texturing returns the tile and texture role a block uses for a face.
func texturing(b atlas.Block, face terrain.FaceMask) (atlas.Tile, atlas.Role) {
	switch face {
	case terrain.FaceTop:
		return b.Top, b.TopRole
	case terrain.FaceBottom:
		return b.Bottom, b.BottomRole
	}
	return b.Side, b.SideRole
}

// BuildMesh emits one quad per visible voxel face. Voxel (x, z, y) occupies
// the cube [x,x+1]x[y,y+1]x[z,z+1] scaled by cubeSize.
func BuildMesh(cache *terrain.VisibilityCache, a *atlas.Atlas, blocks atlas.BlockSet, cubeSize float32) *Mesh {
	if cubeSize <= 0 {
		cubeSize = 1
	}

	mesh := &Mesh{
		Bounds: Bounds{
			Min: mgl32.Vec3{1e10, 1e10, 1e10},
			Max: mgl32.Vec3{-1e10, -1e10, -1e10},
		},
	}
	byRole := make(map[atlas.Role][]uint32)
	hf := cache.Field()

	cache.Each(func(v terrain.Voxel) {
		block := blocks.ForColumn(v.Y, hf.HeightAt(v.X, v.Z))
		centre := mgl32.Vec3{float32(v.X) + hc, float32(v.Y) + hc, float32(v.Z) + hc}

		for _, spec := range faceSpecs {
			if !v.Faces.Has(spec.face) {
				continue
			}
			tile, role := texturing(block, spec.face)
			uv := a.UV(tile)
			if spec.mirror {
				uv = uv.Mirrored()
			}
			texCoords := [4]mgl32.Vec2{{uv.U0, uv.V0}, {uv.U1, uv.V0}, {uv.U1, uv.V1}, {uv.U0, uv.V1}}

			base := uint32(len(mesh.Vertices))
			for i, c := range spec.corners {
				pos := centre.Add(c).Mul(cubeSize)
				updateBounds(&mesh.Bounds, pos)
				mesh.Vertices = append(mesh.Vertices, Vertex{
					Position: pos,
					Normal:   spec.normal,
					TexCoord: texCoords[i],
				})
			}
			byRole[role] = append(byRole[role], base, base+1, base+2, base, base+2, base+3)
			mesh.Faces++
		}
	})

	for _, role := range []atlas.Role{atlas.RoleTop, atlas.RoleSide, atlas.RoleDirt} {
		idx := byRole[role]
		if len(idx) == 0 {
			continue
		}
		mesh.Groups = append(mesh.Groups, TextureGroup{
			Role:       role,
			StartIndex: int32(len(mesh.Indices)),
			IndexCount: int32(len(idx)),
		})
		mesh.Indices = append(mesh.Indices, idx...)
	}

	if mesh.Faces == 0 {
		mesh.Bounds = Bounds{}
	}
	return mesh
}

func updateBounds(b *Bounds, p mgl32.Vec3) {
	for i := range 3 {
		b.Min[i] = min(b.Min[i], p[i])
		b.Max[i] = max(b.Max[i], p[i])
	}
}

// GroupIndices returns the index slice of a texture group.
func (m *Mesh) GroupIndices(g TextureGroup) []uint32 {
	return m.Indices[g.StartIndex : g.StartIndex+g.IndexCount]
}

// Positions returns vertex positions as plain arrays.
func (m *Mesh) Positions() [][3]float32 {
	out := make([][3]float32, len(m.Vertices))
	for i, v := range m.Vertices {
		out[i] = v.Position
	}
	return out
}

// Normals returns vertex normals as plain arrays.
func (m *Mesh) Normals() [][3]float32 {
	out := make([][3]float32, len(m.Vertices))
	for i, v := range m.Vertices {
		out[i] = v.Normal
	}
	return out
}

// TexCoords returns texture coordinates as plain arrays. V is flipped back to
// a top-left origin when flipV is set, as glTF expects.
func (m *Mesh) TexCoords(flipV bool) [][2]float32 {
	out := make([][2]float32, len(m.Vertices))
	for i, v := range m.Vertices {
		out[i] = v.TexCoord
		if flipV {
			out[i][1] = 1 - out[i][1]
		}
	}
	return out
}
