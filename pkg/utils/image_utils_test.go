package utils

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNGOffset(t *testing.T) []byte {
	t.Helper()
	// A canvas whose bounds do not start at the origin.
	img := image.NewNRGBA(image.Rect(3, 5, 67, 37))
	img.SetNRGBA(3, 5, color.NRGBA{R: 200, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDecodeSkinNormalizesToOrigin(t *testing.T) {
	img, err := DecodeSkinBytes(encodePNGOffset(t))
	require.NoError(t, err)

	assert.Equal(t, image.Rect(0, 0, 64, 32), img.Bounds())
	assert.Equal(t, color.NRGBA{R: 200, A: 255}, img.NRGBAAt(0, 0))
}

func TestDecodeSkinAcceptsJPEG(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 64, 64))
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, src, nil))

	img, err := DecodeSkinBytes(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, image.Pt(64, 64), img.Bounds().Size())
}

func TestDecodeSkinRejectsGarbage(t *testing.T) {
	_, err := DecodeSkinBytes([]byte("not an image at all"))
	assert.Error(t, err)
}

func TestEncodePNGRoundTrip(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	src.SetNRGBA(2, 3, color.NRGBA{R: 10, G: 20, B: 30, A: 128})

	data, err := EncodePNG(src)
	require.NoError(t, err)

	img, err := DecodeSkinBytes(data)
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 10, G: 20, B: 30, A: 128}, img.NRGBAAt(2, 3))
}

func TestDecodeBase64Skin(t *testing.T) {
	raw := []byte("png bytes stand-in")
	std := base64.StdEncoding.EncodeToString(raw)

	data, err := DecodeBase64Skin(std)
	require.NoError(t, err)
	assert.Equal(t, raw, data)

	data, err = DecodeBase64Skin("data:image/png;base64," + std)
	require.NoError(t, err)
	assert.Equal(t, raw, data)

	// Length not divisible by 3 forces the unpadded fallback.
	unpadded := []byte("unpadded payload")
	data, err = DecodeBase64Skin("  " + base64.RawStdEncoding.EncodeToString(unpadded) + "\n")
	require.NoError(t, err)
	assert.Equal(t, unpadded, data)

	_, err = DecodeBase64Skin("%%% not base64 %%%")
	assert.Error(t, err)
}

func TestIsSkinFile(t *testing.T) {
	assert.True(t, IsSkinFile("steve.png"))
	assert.True(t, IsSkinFile("ALEX.JPG"))
	assert.True(t, IsSkinFile("dir/skin.jpeg"))
	assert.False(t, IsSkinFile("notes.txt"))
	assert.False(t, IsSkinFile("skin.png.bak"))
	assert.False(t, IsSkinFile("skin"))
}

func TestContentTypeFor(t *testing.T) {
	assert.Equal(t, "image/png", ContentTypeFor("steve.png"))
	assert.Equal(t, "image/jpeg", ContentTypeFor("alex.jpg"))
	assert.Equal(t, "image/jpeg", ContentTypeFor("alex.jpeg"))
}
