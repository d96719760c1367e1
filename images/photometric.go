package images

import (
	"gocv.io/x/gocv"
)

// ColorSpace identifies the conversions the photometric stages move between.
type ColorSpace int

const (
	// RGBToHSV converts a 3-channel RGB image to HSV.
	RGBToHSV ColorSpace = iota
	// HSVToRGB converts a 3-channel HSV image back to RGB.
	HSVToRGB
)

// ChannelPerm is a permutation of the three color channels. The identity
// permutation is deliberately not listed; swapping is only meaningful when at
// least two channels move.
type ChannelPerm [3]int

// ChannelPerms are the five non-identity orderings of three channels.
var ChannelPerms = []ChannelPerm{
	{0, 2, 1},
	{1, 0, 2},
	{1, 2, 0},
	{2, 0, 1},
	{2, 1, 0},
}

// EnsureThreeChannels converts a 1-channel image to RGB by replicating the
// gray channel and a 4-channel image to RGB by dropping alpha. A 3-channel
// image is returned as a clone.
func EnsureThreeChannels(m gocv.Mat) (gocv.Mat, error) {
	switch m.Channels() {
	case 3:
		return m.Clone(), nil
	case 1:
		dst := gocv.NewMat()
		// The gray-to-color code replicates the channel, so RGB and BGR
		// targets are the same operation.
		gocv.CvtColor(m, &dst, gocv.ColorGrayToBGR)
		return dst, nil
	case 4:
		dst := gocv.NewMat()
		// Alpha drop is channel-order agnostic as well.
		gocv.CvtColor(m, &dst, gocv.ColorBGRAToBGR)
		return dst, nil
	default:
		return gocv.NewMat(), requireChannels(m, 3, "EnsureThreeChannels")
	}
}

// ConvertColor moves a 3-channel 8-bit image between RGB and HSV. The 8-bit
// precondition matches the recipe this pipeline reproduces: hue lives on the
// 0-180 scale of OpenCV's 8-bit HSV, and the float adjustments in between
// conversions keep that scale.
func ConvertColor(m gocv.Mat, space ColorSpace) (gocv.Mat, error) {
	if err := requireChannels(m, 3, "ConvertColor"); err != nil {
		return gocv.NewMat(), err
	}
	if err := requireDepth(m, gocv.MatTypeCV8U, "ConvertColor"); err != nil {
		return gocv.NewMat(), err
	}
	code := gocv.ColorRGBToHSV
	if space == HSVToRGB {
		code = gocv.ColorHSVToRGB
	}
	dst := gocv.NewMat()
	gocv.CvtColor(m, &dst, code)
	return dst, nil
}

// ToFloat32 converts the pixel depth to float32, keeping the channel count.
func ToFloat32(m gocv.Mat) gocv.Mat {
	dst := gocv.NewMat()
	m.ConvertTo(&dst, gocv.MatTypeCV32F)
	return dst
}

// ToUint8 converts the pixel depth to 8-bit unsigned, keeping the channel
// count. Out-of-range values saturate, which is what clips the photometric
// adjustments back into [0, 255].
func ToUint8(m gocv.Mat) gocv.Mat {
	dst := gocv.NewMat()
	m.ConvertTo(&dst, gocv.MatTypeCV8U)
	return dst
}

// AdjustBrightness adds delta to every pixel value. Requires float32 pixels so
// intermediate values may leave [0, 255] until the closing uint8 conversion.
// Uses the scale/shift form of ConvertTo; a plain AddFloat would only shift
// channel 0 of a multi-channel Mat.
func AdjustBrightness(m gocv.Mat, delta float32) (gocv.Mat, error) {
	if err := requireDepth(m, gocv.MatTypeCV32F, "AdjustBrightness"); err != nil {
		return gocv.NewMat(), err
	}
	dst := gocv.NewMat()
	m.ConvertToWithParams(&dst, gocv.MatTypeCV32F, 1, delta)
	return dst, nil
}

// AdjustContrast scales pixel values around the 127.5 gray midpoint:
// out = 127.5 + factor*(in - 127.5). Requires float32 pixels.
func AdjustContrast(m gocv.Mat, factor float32) (gocv.Mat, error) {
	if err := requireDepth(m, gocv.MatTypeCV32F, "AdjustContrast"); err != nil {
		return gocv.NewMat(), err
	}
	dst := gocv.NewMat()
	m.ConvertToWithParams(&dst, gocv.MatTypeCV32F, factor, 127.5*(1-factor))
	return dst, nil
}

// AdjustSaturation multiplies the saturation channel of a float32 HSV image
// by factor.
func AdjustSaturation(m gocv.Mat, factor float32) (gocv.Mat, error) {
	return adjustHSVChannel(m, "AdjustSaturation", func(ch *gocv.Mat) {
		ch.MultiplyFloat(factor)
	}, 1)
}

// AdjustHue adds delta to the hue channel of a float32 HSV image. Hue is on
// the 0-180 scale of OpenCV's 8-bit HSV representation.
func AdjustHue(m gocv.Mat, delta float32) (gocv.Mat, error) {
	return adjustHSVChannel(m, "AdjustHue", func(ch *gocv.Mat) {
		ch.AddFloat(delta)
	}, 0)
}

func adjustHSVChannel(m gocv.Mat, op string, adjust func(*gocv.Mat), channel int) (gocv.Mat, error) {
	if err := requireChannels(m, 3, op); err != nil {
		return gocv.NewMat(), err
	}
	if err := requireDepth(m, gocv.MatTypeCV32F, op); err != nil {
		return gocv.NewMat(), err
	}
	chans := gocv.Split(m)
	defer closeAll(chans)
	adjust(&chans[channel])
	dst := gocv.NewMat()
	gocv.Merge(chans, &dst)
	return dst, nil
}

// SwapChannels reorders the three color channels according to perm.
func SwapChannels(m gocv.Mat, perm ChannelPerm) (gocv.Mat, error) {
	if err := requireChannels(m, 3, "SwapChannels"); err != nil {
		return gocv.NewMat(), err
	}
	chans := gocv.Split(m)
	defer closeAll(chans)
	ordered := []gocv.Mat{chans[perm[0]], chans[perm[1]], chans[perm[2]]}
	dst := gocv.NewMat()
	gocv.Merge(ordered, &dst)
	return dst, nil
}

func closeAll(mats []gocv.Mat) {
	for i := range mats {
		mats[i].Close()
	}
}
