package media

import "math"

// Geometry is the exact output frame size of a rendered clip.
type Geometry struct {
	Width  int
	Height int
}

var resolutionHeights = map[string]int{
	"1080p": 1080,
	"720p":  720,
	"480p":  480,
}

var aspectRatios = map[string][2]int{
	"9:16": {9, 16},
	"1:1":  {1, 1},
	"4:5":  {4, 5},
}

// ComputeGeometry maps a resolution label and an aspect-ratio label to the
// output frame size. Unknown resolutions fall back to 720 and unknown
// ratios to 16:9. An odd computed width is bumped by one pixel; encoders
// require even dimensions.
func ComputeGeometry(resolution, aspectRatio string) Geometry {
	height, ok := resolutionHeights[resolution]
	if !ok {
		height = 720
	}
	ratio, ok := aspectRatios[aspectRatio]
	if !ok {
		ratio = [2]int{16, 9}
	}
	width := int(math.Round(float64(height) * float64(ratio[0]) / float64(ratio[1])))
	if width%2 != 0 {
		width++
	}
	return Geometry{Width: width, Height: height}
}
