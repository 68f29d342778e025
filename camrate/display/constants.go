package display

// RGBA pixel format constants
const (
	// RGBABytesPerPixel is the number of bytes per pixel in RGBA format
	RGBABytesPerPixel = 4
	// ARGBRShift is the bit shift for the red component of a packed pixel
	ARGBRShift = 16
	// ARGBGShift is the bit shift for the green component of a packed pixel
	ARGBGShift = 8
	// ARGBAShift is the bit shift for the alpha component of a packed pixel
	ARGBAShift = 24
	// ColorMask is the mask for extracting color components
	ColorMask = 0xFF
)

// Terminal layout constants
const (
	// PreviewMaxWidth caps the preview width in terminal cells
	PreviewMaxWidth = 80
	// TablePadding separates the preview from the camera table
	TablePadding = 2
	// LogPaneHeight is the number of log lines shown under the table
	LogPaneHeight = 8
	// MinTermWidth and MinTermHeight are the smallest usable terminal size
	MinTermWidth  = 60
	MinTermHeight = 20
)

// Rate control constants
const (
	// RateStep is how much one rate up/down keypress changes the target rate
	RateStep = 10
	// ProgressLogInterval is how often headless runs log progress, in ticks
	ProgressLogInterval = 60
)
