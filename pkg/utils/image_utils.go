package utils

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/draw"
	_ "image/jpeg"
	"image/png"
	"io"
	"path/filepath"
	"strings"
)

// DecodeSkin reads PNG or JPEG bytes and normalizes the result into an
// NRGBA image anchored at the origin, the format the transformer works on.
func DecodeSkin(r io.Reader) (*image.NRGBA, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst, nil
}

// DecodeSkinBytes is DecodeSkin over an in-memory buffer.
func DecodeSkinBytes(data []byte) (*image.NRGBA, error) {
	return DecodeSkin(bytes.NewReader(data))
}

// EncodePNG serializes an image as PNG. Output is always PNG regardless of
// the input format: skins need the alpha channel.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeBase64Skin decodes an inline base64 payload into raw image bytes.
// A data-URL prefix ("data:image/png;base64,") is tolerated and stripped.
func DecodeBase64Skin(payload string) ([]byte, error) {
	payload = strings.TrimSpace(payload)
	if strings.HasPrefix(payload, "data:") {
		if i := strings.IndexByte(payload, ','); i >= 0 {
			payload = payload[i+1:]
		}
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		// Some exporters omit padding.
		return base64.RawStdEncoding.DecodeString(payload)
	}
	return data, nil
}

// IsSkinFile reports whether the file name carries a supported image
// extension.
func IsSkinFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png", ".jpg", ".jpeg":
		return true
	}
	return false
}

// ContentTypeFor maps a file name to its image MIME type.
func ContentTypeFor(name string) string {
	if strings.ToLower(filepath.Ext(name)) == ".png" {
		return "image/png"
	}
	return "image/jpeg"
}
