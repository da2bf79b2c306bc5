package skin

import (
	"errors"
	"fmt"
	"image"
)

// ErrInvalidSkinData marks bytes that could not be decoded into a skin
// image. The transformer itself never returns it; the calling layer wraps
// decode failures with it so batch code can tell them apart.
var ErrInvalidSkinData = errors.New("invalid skin data")

// ErrInvalidModel marks a model selector outside {regular, slim}.
var ErrInvalidModel = errors.New("invalid skin model")

// SizeMismatchError reports a skin whose dimensions do not fit the
// requested operation.
type SizeMismatchError struct {
	Want image.Point
	Got  image.Point
}

func (e *SizeMismatchError) Error() string {
	return fmt.Sprintf("invalid skin dimensions %dx%d, expected %dx%d",
		e.Got.X, e.Got.Y, e.Want.X, e.Want.Y)
}

// InvalidLayerError reports a layer selector outside {1, 2}.
type InvalidLayerError struct {
	Layer int
}

func (e *InvalidLayerError) Error() string {
	return fmt.Sprintf("invalid layer index: %d", e.Layer)
}
