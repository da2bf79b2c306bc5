package skin

import "image"

// Recognized canvas sizes. Legacy skins predate the overlay layer and carry
// only the top half of the modern layout.
var (
	LegacySize = image.Pt(64, 32)
	ModernSize = image.Pt(64, 64)
)

// Layer selects one of the two texture layers of a modern skin.
type Layer int

const (
	Layer1 Layer = 1 // base body texture
	Layer2 Layer = 2 // overlay (hat, jacket, sleeves, pants)
)

// Model is the arm geometry variant of a skin.
type Model string

const (
	ModelRegular Model = "regular" // steve, 4px wide arms
	ModelSlim    Model = "slim"    // alex, 3px wide arms
)

// Valid reports whether m names a known model.
func (m Model) Valid() bool {
	return m == ModelRegular || m == ModelSlim
}

// Body part group names shared by both layers.
const (
	PartHead     = "head"
	PartBody     = "body"
	PartRightArm = "right_arm"
	PartLeftArm  = "left_arm"
	PartRightLeg = "right_leg"
	PartLeftLeg  = "left_leg"
)

// Box is one named rectangle of the skin UV layout.
type Box struct {
	Name string
	Rect image.Rectangle
}

// Regions maps a body part group to its boxes within one layer. Every group
// has two boxes: the top-face strip and the wrapped side faces below it.
type Regions map[string][]Box

// RegionTable is the full two-layer region layout of a 64x64 skin.
type RegionTable struct {
	layers map[Layer]Regions
}

// Layer returns the region set of the given layer.
func (t RegionTable) Layer(l Layer) Regions {
	return t.layers[l]
}

// pairedParts are the groups exchanged or cleared by the layer operations.
// The head group is carried by both layers but is never swapped or removed.
var pairedParts = []string{PartBody, PartRightArm, PartLeftArm, PartRightLeg, PartLeftLeg}

// armParts are the groups whose width differs between the regular and slim
// models.
var armParts = []string{PartRightArm, PartLeftArm}

// regularTable builds the canonical regular-model layout.
func regularTable() RegionTable {
	return RegionTable{layers: map[Layer]Regions{
		Layer1: {
			PartHead: {
				{Name: "head1_layer1", Rect: image.Rect(8, 0, 24, 8)},
				{Name: "head2_layer1", Rect: image.Rect(0, 8, 32, 16)},
			},
			PartBody: {
				{Name: "body1_layer1", Rect: image.Rect(20, 16, 36, 20)},
				{Name: "body2_layer1", Rect: image.Rect(16, 20, 40, 32)},
			},
			PartRightArm: {
				{Name: "right_arm1_layer1", Rect: image.Rect(44, 16, 52, 20)},
				{Name: "right_arm2_layer1", Rect: image.Rect(40, 20, 56, 32)},
			},
			PartLeftArm: {
				{Name: "left_arm1_layer1", Rect: image.Rect(36, 48, 44, 52)},
				{Name: "left_arm2_layer1", Rect: image.Rect(32, 52, 48, 64)},
			},
			PartRightLeg: {
				{Name: "right_leg1_layer1", Rect: image.Rect(4, 16, 12, 20)},
				{Name: "right_leg2_layer1", Rect: image.Rect(0, 20, 16, 32)},
			},
			PartLeftLeg: {
				{Name: "left_leg1_layer1", Rect: image.Rect(20, 48, 28, 52)},
				{Name: "left_leg2_layer1", Rect: image.Rect(16, 52, 32, 64)},
			},
		},
		Layer2: {
			PartHead: {
				{Name: "head1_layer2", Rect: image.Rect(40, 0, 56, 8)},
				{Name: "head2_layer2", Rect: image.Rect(32, 8, 64, 16)},
			},
			PartBody: {
				{Name: "body1_layer2", Rect: image.Rect(20, 32, 36, 36)},
				{Name: "body2_layer2", Rect: image.Rect(16, 36, 40, 48)},
			},
			PartRightArm: {
				{Name: "right_arm1_layer2", Rect: image.Rect(44, 32, 52, 36)},
				{Name: "right_arm2_layer2", Rect: image.Rect(40, 36, 56, 48)},
			},
			PartLeftArm: {
				{Name: "left_arm1_layer2", Rect: image.Rect(52, 48, 60, 52)},
				{Name: "left_arm2_layer2", Rect: image.Rect(48, 52, 64, 64)},
			},
			PartRightLeg: {
				{Name: "right_leg1_layer2", Rect: image.Rect(4, 32, 12, 36)},
				{Name: "right_leg2_layer2", Rect: image.Rect(0, 36, 16, 48)},
			},
			PartLeftLeg: {
				{Name: "left_leg1_layer2", Rect: image.Rect(4, 48, 12, 52)},
				{Name: "left_leg2_layer2", Rect: image.Rect(0, 52, 16, 64)},
			},
		},
	}}
}

// slimTable derives the alex layout: each arm box loses its two rightmost
// columns, everything else matches the regular layout.
func slimTable() RegionTable {
	t := regularTable()
	for _, regions := range t.layers {
		for _, part := range armParts {
			boxes := regions[part]
			narrowed := make([]Box, len(boxes))
			for i, b := range boxes {
				r := b.Rect
				r.Max.X -= 2
				narrowed[i] = Box{Name: b.Name, Rect: r}
			}
			regions[part] = narrowed
		}
	}
	return t
}

// TableFor returns the region layout of the given model. Unknown models fall
// back to the regular layout.
func TableFor(m Model) RegionTable {
	if m == ModelSlim {
		return slimTable()
	}
	return regularTable()
}
