package debug

import (
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/valerio/go-camrate/camrate/display"
	"github.com/valerio/go-camrate/camrate/video"
)

// TakeSnapshot saves frame into the working directory, named after the camera.
func TakeSnapshot(frame *video.FrameBuffer, cameraName string) {
	if frame == nil {
		slog.Warn("No frame data available for snapshot")
		return
	}

	baseName := fmt.Sprintf("camrate_snapshot_%s", cameraName)
	if _, err := SaveFramePNGToDir(frame, baseName, ""); err != nil {
		slog.Error("Failed to save snapshot", "error", err)
	}
}

// FrameToImage converts a framebuffer to an RGBA image.
func FrameToImage(frame *video.FrameBuffer) *image.RGBA {
	width, height := int(frame.Width()), int(frame.Height())
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	for i, pixel := range frame.ToSlice() {
		idx := i * display.RGBABytesPerPixel
		img.Pix[idx] = byte((pixel >> display.ARGBRShift) & display.ColorMask)
		img.Pix[idx+1] = byte((pixel >> display.ARGBGShift) & display.ColorMask)
		img.Pix[idx+2] = byte(pixel & display.ColorMask)
		img.Pix[idx+3] = byte((pixel >> display.ARGBAShift) & display.ColorMask)
	}

	return img
}

// SaveFramePNGToDir saves a framebuffer as PNG with timestamp to a specific
// directory (the working directory when empty). It returns the file path.
func SaveFramePNGToDir(frame *video.FrameBuffer, baseName, directory string) (string, error) {
	img := FrameToImage(frame)

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.png", baseName, timestamp)

	// Determine output directory
	var outputDir string
	if directory != "" {
		outputDir = directory
	} else {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get current directory: %w", err)
		}
		outputDir = cwd
	}

	filePath := filepath.Join(outputDir, filename)
	file, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create file %s: %w", filePath, err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return "", fmt.Errorf("failed to encode PNG: %w", err)
	}

	slog.Info("Snapshot saved", "path", filePath, "size", fmt.Sprintf("%dx%d", frame.Width(), frame.Height()), "format", "PNG")
	return filePath, nil
}
