package video

// Pattern selects the scene a software camera draws.
type Pattern int

const (
	Checkerboard Pattern = iota
	Gradient
	Stripes
	Diagonal

	PatternCount = 4
)

const (
	checkerboardTileSize = 8
	stripeWidth          = 4
	diagonalTileSize     = 8

	stripeAnimationSpeed   = 2
	diagonalAnimationSpeed = 4
	checkerAnimationSpeed  = 1
)

var patternNames = [PatternCount]string{"checkerboard", "gradient", "stripes", "diagonal"}

func (p Pattern) String() string {
	if p < 0 || p >= PatternCount {
		return "unknown"
	}
	return patternNames[p]
}

// ParsePattern returns the pattern with the given name.
func ParsePattern(name string) (Pattern, bool) {
	for i, n := range patternNames {
		if n == name {
			return Pattern(i), true
		}
	}
	return Checkerboard, false
}

// Draw renders the pattern into fb. frame animates the pattern, so two draws
// with different frame numbers produce visibly different images.
func (p Pattern) Draw(fb *FrameBuffer, frame uint64) {
	w, h := fb.Width(), fb.Height()
	offset := uint(frame)

	for y := uint(0); y < h; y++ {
		for x := uint(0); x < w; x++ {
			var color Color
			switch p {
			case Gradient:
				level := ((x + offset) * 4 / maxUint(w, 1)) % 4
				color = Shades[level]
			case Stripes:
				if ((x+offset*stripeAnimationSpeed)/stripeWidth)%2 == 0 {
					color = WhiteColor
				} else {
					color = BlackColor
				}
			case Diagonal:
				color = Shades[((x+y+offset*diagonalAnimationSpeed)/diagonalTileSize)%4]
			default:
				if (((x+offset*checkerAnimationSpeed)/checkerboardTileSize)+(y/checkerboardTileSize))%2 == 0 {
					color = WhiteColor
				} else {
					color = BlackColor
				}
			}
			fb.SetPixel(x, y, color)
		}
	}

	fb.Present()
}

func maxUint(a, b uint) uint {
	if a > b {
		return a
	}
	return b
}
