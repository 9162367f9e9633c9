package preview

import (
	"image"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/yacobolo/gradgen/internal/gradient"
)

// halfBlock draws the upper pixel in the foreground and the lower pixel in
// the background, giving two pixel rows per terminal row.
const halfBlock = "▀"

// Swatch renders result as cols x rows terminal cells of truecolor half
// blocks. Transparent pixels are drawn as blanks.
func Swatch(result gradient.Result, params gradient.Params, cols, rows int) (string, error) {
	dc, err := Render(result, params, cols, rows*2)
	if err != nil {
		return "", err
	}
	defer func() { _ = dc.Close() }()

	img := dc.Image()
	var b strings.Builder
	for row := 0; row < rows; row++ {
		if row > 0 {
			b.WriteByte('\n')
		}
		for col := 0; col < cols; col++ {
			top := pixelHex(img, col, row*2)
			bottom := pixelHex(img, col, row*2+1)
			b.WriteString(lipgloss.NewStyle().
				Foreground(lipgloss.Color(top)).
				Background(lipgloss.Color(bottom)).
				Render(halfBlock))
		}
	}
	return b.String(), nil
}

// Sample returns the hex colors of a single pixel row through the middle of
// the rendered gradient.
func Sample(result gradient.Result, params gradient.Params, width, height int) ([]string, error) {
	dc, err := Render(result, params, width, height)
	if err != nil {
		return nil, err
	}
	defer func() { _ = dc.Close() }()

	img := dc.Image()
	out := make([]string, width)
	for x := range out {
		out[x] = pixelHex(img, x, height/2)
	}
	return out, nil
}

func pixelHex(img image.Image, x, y int) string {
	bounds := img.Bounds()
	c, ok := colorful.MakeColor(img.At(bounds.Min.X+x, bounds.Min.Y+y))
	if !ok {
		return ""
	}
	return c.Clamped().Hex()
}
