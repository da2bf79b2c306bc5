package skin

import (
	"fmt"
	"image"
	"image/draw"
)

// Transformer applies pixel-region operations to decoded skin images. Every
// operation is pure: the input image is never mutated and a fresh NRGBA
// canvas is returned.
type Transformer struct {
	table RegionTable
	model Model
}

// NewTransformer builds a transformer for the given model's region layout.
func NewTransformer(model Model) *Transformer {
	if !model.Valid() {
		model = ModelRegular
	}
	return &Transformer{table: TableFor(model), model: model}
}

// Upscale converts a legacy 64x32 skin to the modern 64x64 layout. The
// legacy band is copied pixel-identically into the top half, the left arm
// and leg are synthesized from the right limbs by straight pixel copy, and
// the overlay regions introduced by the modern format stay transparent.
// Modern input is rejected, never passed through.
func (t *Transformer) Upscale(src image.Image) (*image.NRGBA, error) {
	if err := checkSize(src, LegacySize); err != nil {
		return nil, err
	}
	in := clone(src)
	dst := image.NewNRGBA(image.Rectangle{Max: ModernSize})

	draw.Draw(dst, image.Rectangle{Max: LegacySize}, in, image.Point{}, draw.Src)

	mirror := [][2]string{
		{PartRightArm, PartLeftArm},
		{PartRightLeg, PartLeftLeg},
	}
	layer1 := t.table.Layer(Layer1)
	for _, m := range mirror {
		from := layer1[m[0]]
		to := layer1[m[1]]
		for i := range from {
			copyRect(dst, in, from[i].Rect, to[i].Rect)
		}
	}
	return dst, nil
}

// SwapLayers exchanges the base and overlay regions of a 64x64 skin. The
// body and limb boxes swap contents pairwise between the layers, the head
// boxes pass through unchanged, and pixels outside every named region come
// out transparent. That last point is what makes applying the operation
// twice useful: valid regions round-trip exactly while leftover junk in the
// unused UV corners is dropped on the first pass.
func (t *Transformer) SwapLayers(src image.Image) (*image.NRGBA, error) {
	if err := checkSize(src, ModernSize); err != nil {
		return nil, err
	}
	in := clone(src)
	dst := image.NewNRGBA(image.Rectangle{Max: ModernSize})

	layer1 := t.table.Layer(Layer1)
	layer2 := t.table.Layer(Layer2)

	for _, b := range layer1[PartHead] {
		copyRect(dst, in, b.Rect, b.Rect)
	}
	for _, b := range layer2[PartHead] {
		copyRect(dst, in, b.Rect, b.Rect)
	}

	for _, part := range pairedParts {
		base := layer1[part]
		overlay := layer2[part]
		for i := range base {
			copyRect(dst, in, base[i].Rect, overlay[i].Rect)
			copyRect(dst, in, overlay[i].Rect, base[i].Rect)
		}
	}
	return dst, nil
}

// SwapLayersTwice applies SwapLayers two times. Region pairing lives in one
// place; the second pass only matters for the invalid UV corners cleared by
// the first.
func (t *Transformer) SwapLayersTwice(src image.Image) (*image.NRGBA, error) {
	once, err := t.SwapLayers(src)
	if err != nil {
		return nil, err
	}
	return t.SwapLayers(once)
}

// RemoveLayer clears every body and limb box of the selected layer to fully
// transparent black. All other pixels are carried over unchanged.
func (t *Transformer) RemoveLayer(src image.Image, layer Layer) (*image.NRGBA, error) {
	if layer != Layer1 && layer != Layer2 {
		return nil, &InvalidLayerError{Layer: int(layer)}
	}
	if err := checkSize(src, ModernSize); err != nil {
		return nil, err
	}
	dst := clone(src)
	regions := t.table.Layer(layer)
	for _, part := range pairedParts {
		for _, b := range regions[part] {
			clearRect(dst, b.Rect)
		}
	}
	return dst, nil
}

// ConvertModel rewrites the arm geometry of a 64x64 skin to the target
// model. An empty target toggles away from the detected model. Skins that
// already match the target are returned as a plain copy.
func (t *Transformer) ConvertModel(src image.Image, target Model) (*image.NRGBA, error) {
	if err := checkSize(src, ModernSize); err != nil {
		return nil, err
	}
	if target != "" && !target.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidModel, target)
	}
	current := DetectModel(src)
	if target == "" {
		if current == ModelRegular {
			target = ModelSlim
		} else {
			target = ModelRegular
		}
	}
	if current == target {
		return clone(src), nil
	}
	if target == ModelSlim {
		return regularToSlim(src), nil
	}
	return slimToRegular(src), nil
}

// Arm column edits, relative to each arm box. Rewriting a 4px arm to 3px
// drops one top-face column and two wrapped side-face columns; the reverse
// duplicates columns so the wrap stays aligned.
var (
	slimDropCols = map[string][2][2]int{
		PartRightArm: {{2, 6}, {6, 13}},
		PartLeftArm:  {{1, 5}, {5, 14}},
	}
	wideDupCols = [2][2]int{{1, 4}, {5, 12}}
)

func regularToSlim(src image.Image) *image.NRGBA {
	in := clone(src)
	dst := clone(src)
	regular := TableFor(ModelRegular)
	slim := TableFor(ModelSlim)
	for _, layer := range []Layer{Layer1, Layer2} {
		for _, arm := range armParts {
			wide := regular.Layer(layer)[arm]
			narrow := slim.Layer(layer)[arm]
			drop := slimDropCols[arm]
			for i := range wide {
				clearRect(dst, wide[i].Rect)
				writeColumns(dst, in, wide[i].Rect, narrow[i].Rect, drop[i], nil)
			}
		}
	}
	return dst
}

func slimToRegular(src image.Image) *image.NRGBA {
	in := clone(src)
	dst := clone(src)
	regular := TableFor(ModelRegular)
	slim := TableFor(ModelSlim)
	for _, layer := range []Layer{Layer1, Layer2} {
		for _, arm := range armParts {
			narrow := slim.Layer(layer)[arm]
			wide := regular.Layer(layer)[arm]
			for i := range narrow {
				dup := wideDupCols[i]
				writeColumns(dst, in, narrow[i].Rect, wide[i].Rect, [2]int{-1, -1}, &dup)
			}
		}
	}
	return dst
}

// writeColumns copies the columns of src within from into dst starting at
// to.Min, left to right. Columns whose relative index is in skip are left
// out; columns whose relative index is in dup are written twice.
func writeColumns(dst *image.NRGBA, src *image.NRGBA, from, to image.Rectangle, skip [2]int, dup *[2]int) {
	x := to.Min.X
	for j := 0; j < from.Dx(); j++ {
		if j == skip[0] || j == skip[1] {
			continue
		}
		col := image.Rect(x, to.Min.Y, x+1, to.Max.Y)
		draw.Draw(dst, col, src, image.Pt(from.Min.X+j, from.Min.Y), draw.Src)
		x++
		if dup != nil && (j == dup[0] || j == dup[1]) {
			col = image.Rect(x, to.Min.Y, x+1, to.Max.Y)
			draw.Draw(dst, col, src, image.Pt(from.Min.X+j, from.Min.Y), draw.Src)
			x++
		}
	}
}

func checkSize(src image.Image, want image.Point) error {
	b := src.Bounds()
	if b.Dx() != want.X || b.Dy() != want.Y {
		return &SizeMismatchError{Want: want, Got: image.Pt(b.Dx(), b.Dy())}
	}
	return nil
}

// clone normalizes any image into an NRGBA canvas anchored at the origin.
func clone(src image.Image) *image.NRGBA {
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}

func copyRect(dst *image.NRGBA, src image.Image, from, to image.Rectangle) {
	draw.Draw(dst, to, src, from.Min, draw.Src)
}

func clearRect(dst *image.NRGBA, r image.Rectangle) {
	draw.Draw(dst, r, image.Transparent, image.Point{}, draw.Src)
}
