package images

import (
	"image"

	"github.com/nfnt/resize"
	"github.com/pkg/errors"
	"gocv.io/x/gocv"
	"gorgonia.org/tensor"
)

// MatFromImage converts a Go-native image into a 3-channel 8-bit RGB Mat.
func MatFromImage(img image.Image) (gocv.Mat, error) {
	m, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return gocv.NewMat(), errors.Wrap(err, "converting image to Mat")
	}
	return m, nil
}

// MatToImage converts a Mat back into a Go-native image.
func MatToImage(m gocv.Mat) (image.Image, error) {
	img, err := m.ToImage()
	if err != nil {
		return nil, errors.Wrap(err, "converting Mat to image")
	}
	return img, nil
}

// ImageToTensor resizes a Go-native image to width x height and packs it into
// a CHW float32 tensor with values scaled to [0, 1]. This is the hand-off
// point between an augmented sample and a model input: augmented Mats go
// through MatToImage first, images from Go-native decoders come in directly.
//
// Arguments:
//   - img: The image to convert.
//   - width: Model input width.
//   - height: Model input height.
//
// Returns:
//   - A (3, height, width) *tensor.Dense in RGB channel order.
//   - error if the target size is not positive.
func ImageToTensor(img image.Image, width, height int) (*tensor.Dense, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.Errorf("ImageToTensor: invalid target size %dx%d", width, height)
	}

	scaled := resize.Resize(uint(width), uint(height), img, resize.Bilinear)

	channelSize := width * height
	data := make([]float32, 3*channelSize)
	red := data[0:channelSize]
	green := data[channelSize : channelSize*2]
	blue := data[channelSize*2 : channelSize*3]

	i := 0
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := scaled.At(x, y).RGBA()
			red[i] = float32(r>>8) / 255.0
			green[i] = float32(g>>8) / 255.0
			blue[i] = float32(b>>8) / 255.0
			i++
		}
	}

	return tensor.New(tensor.WithShape(3, height, width), tensor.WithBacking(data)), nil
}
