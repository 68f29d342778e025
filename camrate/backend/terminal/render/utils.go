package render

import "github.com/valerio/go-camrate/camrate/video"

// PixelToShade converts a pixel value to a shade level (0 darkest, 3 lightest)
func PixelToShade(pixel uint32) int {
	switch video.Color(pixel) {
	case video.BlackColor:
		return 0
	case video.DarkGreyColor:
		return 1
	case video.LightGreyColor:
		return 2
	case video.WhiteColor:
		return 3
	default:
		// bucket the green channel for anything off-palette
		return int((pixel>>8)&0xFF) / 64
	}
}

// GetHalfBlockChar returns the half-block character that shows two
// vertically stacked pixels in one terminal cell
func GetHalfBlockChar(topShade, bottomShade int) rune {
	if topShade == bottomShade {
		return '█'
	} else if topShade == 3 && bottomShade != 3 {
		return '▄'
	}
	return '▀'
}

// SampleStep returns how many source pixels map to one terminal column so a
// buffer of width w fits in maxCols.
func SampleStep(w, maxCols int) int {
	if maxCols <= 0 || w <= maxCols {
		return 1
	}
	return (w + maxCols - 1) / maxCols
}
