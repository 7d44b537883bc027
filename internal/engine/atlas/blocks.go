package atlas

// Block names the atlas tiles used for each face of a block type. The roles
// select the standalone texture to sample when no atlas is loaded.
type Block struct {
	Name   string
	Top    Tile
	Side   Tile
	Bottom Tile

	TopRole    Role
	SideRole   Role
	BottomRole Role
}

// Default tile positions, used when an atlas has no explicit mapping and the
// classifier is disabled or unsure.
var (
	DefaultTopTile  = Tile{Col: 0, Row: 0}
	DefaultSideTile = Tile{Col: 1, Row: 0}
	DefaultDirtTile = Tile{Col: 2, Row: 0}
)

// BlockSet holds the block types the terrain is built from.
type BlockSet struct {
	Grass Block // Topmost voxel of each column
	Dirt  Block // Everything beneath
}

// NewBlockSet builds grass and dirt blocks from the three role tiles.
func NewBlockSet(top, side, dirt Tile) BlockSet {
	return BlockSet{
		Grass: Block{
			Name: "grass", Top: top, Side: side, Bottom: dirt,
			TopRole: RoleTop, SideRole: RoleSide, BottomRole: RoleDirt,
		},
		Dirt: Block{
			Name: "dirt", Top: dirt, Side: dirt, Bottom: dirt,
			TopRole: RoleDirt, SideRole: RoleDirt, BottomRole: RoleDirt,
		},
	}
}

// DefaultBlocks returns the block set for the default tile layout.
func DefaultBlocks() BlockSet {
	return NewBlockSet(DefaultTopTile, DefaultSideTile, DefaultDirtTile)
}

// FromClassification builds a block set from classifier output.
func FromClassification(c Classification) BlockSet {
	return NewBlockSet(c.Top, c.Side, c.Dirt)
}

// ForColumn returns the block at level y of a column with height h.
func (s BlockSet) ForColumn(y, h int) Block {
	if y == h-1 {
		return s.Grass
	}
	return s.Dirt
}
