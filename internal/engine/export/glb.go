// Package export writes terrain meshes as binary glTF.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/Faultbox/voxelterrain/internal/engine/atlas"
	"github.com/Faultbox/voxelterrain/internal/engine/scene"
)

// ErrEmptyMesh is returned when there is nothing to export.
var ErrEmptyMesh = errors.New("mesh has no faces")

// Options controls what goes into the exported file.
type Options struct {
	Name      string
	Generator string

	// Atlas is embedded and shared by every primitive when set.
	Atlas image.Image

	// RoleImages texture each primitive by role when no atlas is set.
	// Roles without an image get a flat colour.
	RoleImages map[atlas.Role]image.Image
}

// roleColors are the flat colours used when a role has no texture.
var roleColors = map[atlas.Role][4]float32{
	atlas.RoleTop:  {0.42, 0.75, 0.19, 1},
	atlas.RoleSide: {0.47, 0.28, 0.09, 1},
	atlas.RoleDirt: {0.47, 0.28, 0.09, 1},
}

// Build assembles a glTF document with one primitive per texture group.
// All primitives share the vertex accessors.
func Build(mesh *scene.Mesh, opts Options) (*gltf.Document, error) {
	if mesh == nil || mesh.Faces == 0 {
		return nil, ErrEmptyMesh
	}
	if opts.Name == "" {
		opts.Name = "Terrain"
	}
	if opts.Generator == "" {
		opts.Generator = "voxeltool"
	}

	doc := gltf.NewDocument()
	doc.Asset.Generator = opts.Generator

	posAccessor := modeler.WritePosition(doc, mesh.Positions())
	normalAccessor := modeler.WriteNormal(doc, mesh.Normals())
	uvAccessor := modeler.WriteTextureCoord(doc, mesh.TexCoords(true))

	var shared *uint32
	if opts.Atlas != nil {
		mat, err := addTexturedMaterial(doc, "atlas", opts.Atlas)
		if err != nil {
			return nil, err
		}
		shared = gltf.Index(mat)
	}

	prims := make([]*gltf.Primitive, 0, len(mesh.Groups))
	for _, g := range mesh.Groups {
		indicesAccessor := modeler.WriteIndices(doc, mesh.GroupIndices(g))

		material := shared
		if material == nil {
			mat, err := addRoleMaterial(doc, g.Role, opts.RoleImages[g.Role])
			if err != nil {
				return nil, err
			}
			material = gltf.Index(mat)
		}

		prims = append(prims, &gltf.Primitive{
			Attributes: map[string]uint32{
				gltf.POSITION:   uint32(posAccessor),
				gltf.NORMAL:     uint32(normalAccessor),
				gltf.TEXCOORD_0: uint32(uvAccessor),
			},
			Indices:  gltf.Index(uint32(indicesAccessor)),
			Material: material,
		})
	}

	doc.Meshes = []*gltf.Mesh{{Name: opts.Name, Primitives: prims}}
	doc.Nodes = []*gltf.Node{{Name: opts.Name, Mesh: gltf.Index(0)}}
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, uint32(0))

	return doc, nil
}

// addRoleMaterial adds a material for one texture role, textured when img is
// set and flat-coloured otherwise.
func addRoleMaterial(doc *gltf.Document, role atlas.Role, img image.Image) (uint32, error) {
	if img != nil {
		return addTexturedMaterial(doc, role.String(), img)
	}

	color := roleColors[role]
	doc.Materials = append(doc.Materials, &gltf.Material{
		Name: role.String(),
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &color,
			MetallicFactor:  gltf.Float(0),
			RoughnessFactor: gltf.Float(1),
		},
		AlphaMode: gltf.AlphaOpaque,
	})
	return uint32(len(doc.Materials) - 1), nil
}

// addTexturedMaterial embeds img as PNG and adds a material sampling it with
// nearest filtering, which keeps pixel-art tiles crisp.
func addTexturedMaterial(doc *gltf.Document, name string, img image.Image) (uint32, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return 0, fmt.Errorf("encoding %s texture: %w", name, err)
	}

	imgIdx, err := modeler.WriteImage(doc, name+".png", "image/png", &buf)
	if err != nil {
		return 0, fmt.Errorf("embedding %s texture: %w", name, err)
	}

	if len(doc.Samplers) == 0 {
		doc.Samplers = append(doc.Samplers, &gltf.Sampler{
			MagFilter: gltf.MagNearest,
			MinFilter: gltf.MinNearest,
		})
	}
	doc.Textures = append(doc.Textures, &gltf.Texture{
		Sampler: gltf.Index(0),
		Source:  gltf.Index(uint32(imgIdx)),
	})

	doc.Materials = append(doc.Materials, &gltf.Material{
		Name: name,
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorTexture: &gltf.TextureInfo{Index: uint32(len(doc.Textures) - 1)},
			MetallicFactor:   gltf.Float(0),
			RoughnessFactor:  gltf.Float(1),
		},
		AlphaMode: gltf.AlphaOpaque,
	})
	return uint32(len(doc.Materials) - 1), nil
}

// WriteGLB encodes the mesh as binary glTF to w.
func WriteGLB(w io.Writer, mesh *scene.Mesh, opts Options) error {
	doc, err := Build(mesh, opts)
	if err != nil {
		return err
	}

	enc := gltf.NewEncoder(w)
	enc.AsBinary = true
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding glb: %w", err)
	}
	return nil
}

// SaveGLB writes the mesh to path, creating parent directories.
func SaveGLB(path string, mesh *scene.Mesh, opts Options) error {
	doc, err := Build(mesh, opts)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	if err := gltf.SaveBinary(doc, path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}

// OptionsForScene picks the textures for exporting a scene's mesh: the loaded
// atlas when there is one, otherwise the generated per-role textures.
func OptionsForScene(s *scene.Scene) Options {
	if a := s.Atlas(); a.Loaded() {
		return Options{Atlas: a.Image}
	}

	images := make(map[atlas.Role]image.Image)
	for role, img := range atlas.FallbackImages(atlas.FallbackTextureSize) {
		images[role] = img
	}
	return Options{RoleImages: images}
}
