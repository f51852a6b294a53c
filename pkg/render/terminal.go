package render

import (
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
)

// halfBlock draws the top pixel as foreground and the bottom as background.
const halfBlock = "▀"

// TerminalFrameSize returns the image size that fills a terminal of the
// given cell size. Each cell shows two stacked pixels.
func TerminalFrameSize(cols, rows int) (width, height int) {
	return cols, rows * 2
}

// Draw paints the image onto scr inside area, two rows per cell.
func (img *Image) Draw(scr uv.Screen, area uv.Rectangle) {
	for row := area.Min.Y; row < area.Max.Y; row++ {
		top, bot := row*2, row*2+1
		if top >= img.Height {
			break
		}
		for col := area.Min.X; col < area.Max.X && col < img.Width; col++ {
			var fg, bg color.Color = img.Pixel(col, top), nil
			if bot < img.Height {
				bg = img.Pixel(col, bot)
			}
			scr.SetCell(col, row, &uv.Cell{
				Content: halfBlock,
				Width:   1,
				Style:   uv.Style{Fg: fg, Bg: bg},
			})
		}
	}
}
