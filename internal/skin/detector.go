package skin

import "image"

// DetectModel classifies a skin as regular or slim by probing the outer two
// columns of every arm box: slim skins leave them fully transparent.
func DetectModel(src image.Image) Model {
	off := src.Bounds().Min
	regular := TableFor(ModelRegular)
	for _, layer := range []Layer{Layer1, Layer2} {
		for _, arm := range armParts {
			for _, b := range regular.Layer(layer)[arm] {
				r := b.Rect
				for x := r.Max.X - 2; x < r.Max.X; x++ {
					for y := r.Min.Y; y < r.Max.Y; y++ {
						if _, _, _, a := src.At(off.X+x, off.Y+y).RGBA(); a > 0 {
							return ModelRegular
						}
					}
				}
			}
		}
	}
	return ModelSlim
}

// Detector answers content questions about skin regions.
type Detector struct {
	table RegionTable
}

func NewDetector(model Model) *Detector {
	return &Detector{table: TableFor(model)}
}

// HasPixels reports whether any selected region contains a pixel with
// non-zero alpha. A nil parts slice selects every body part group; a zero
// layer selects both layers. Boxes outside the image bounds are skipped, so
// the probe is safe on legacy 64x32 skins.
func (d *Detector) HasPixels(src image.Image, parts []string, layer Layer) bool {
	return d.probe(src, parts, layer, func(a uint32) bool { return a > 0 })
}

// HasTransparency reports whether any selected region contains a fully
// transparent pixel. Selection rules match HasPixels.
func (d *Detector) HasTransparency(src image.Image, parts []string, layer Layer) bool {
	return d.probe(src, parts, layer, func(a uint32) bool { return a == 0 })
}

func (d *Detector) probe(src image.Image, parts []string, layer Layer, match func(alpha uint32) bool) bool {
	if parts == nil {
		parts = []string{PartHead, PartBody, PartRightArm, PartLeftArm, PartRightLeg, PartLeftLeg}
	}
	layers := []Layer{Layer1, Layer2}
	if layer == Layer1 || layer == Layer2 {
		layers = []Layer{layer}
	}

	b := src.Bounds()
	size := image.Rect(0, 0, b.Dx(), b.Dy())
	for _, l := range layers {
		regions := d.table.Layer(l)
		for _, part := range parts {
			for _, box := range regions[part] {
				r := box.Rect
				if !r.In(size) {
					continue
				}
				for y := r.Min.Y; y < r.Max.Y; y++ {
					for x := r.Min.X; x < r.Max.X; x++ {
						if _, _, _, a := src.At(b.Min.X+x, b.Min.Y+y).RGBA(); match(a) {
							return true
						}
					}
				}
			}
		}
	}
	return false
}
