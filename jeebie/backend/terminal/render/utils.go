package render

import (
	"github.com/valerio/go-jeebie-av/jeebie/video"
)

// PixelToShade converts a pixel value to a shade level, 0 black to 3 white.
// Pixels outside the DMG palette are bucketed by their red channel.
func PixelToShade(pixel uint32) int {
	switch video.GBColor(pixel) {
	case video.BlackColor:
		return 0
	case video.DarkGreyColor:
		return 1
	case video.LightGreyColor:
		return 2
	case video.WhiteColor:
		return 3
	}
	return int(pixel>>24) * 4 / 256
}

// GetHalfBlockChar returns the half-block character for two stacked pixels.
func GetHalfBlockChar(topShade, bottomShade int) rune {
	switch {
	case topShade == bottomShade:
		return '█'
	case topShade == 3:
		// Top white, bottom not
		return '▄'
	default:
		return '▀'
	}
}

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// Sparkline renders values oldest to newest, given newest first, scaled so
// that max fills a full cell.
func Sparkline(newestFirst []float64, max float64) string {
	if max <= 0 {
		max = 1
	}
	out := make([]rune, len(newestFirst))
	for i, v := range newestFirst {
		level := int(v / max * float64(len(sparkRunes)-1))
		if level < 0 {
			level = 0
		}
		if level >= len(sparkRunes) {
			level = len(sparkRunes) - 1
		}
		out[len(newestFirst)-1-i] = sparkRunes[level]
	}
	return string(out)
}
