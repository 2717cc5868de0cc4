package gbcd

import (
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/gbcd/internal/colormap"
)

// Image renders the pole figure as a size×size RGBA image with y pointing
// up. Values are scaled by Max before colouring and masked cells are
// transparent. The grid is resampled with Catmull-Rom when size differs
// from Points; size 0 keeps the native resolution.
func (pf *PoleFigure) Image(size int) *image.RGBA {
	n := pf.Points
	src := image.NewRGBA(image.Rect(0, 0, n, n))

	scale := 0.0
	if m := pf.Max(); m > 0 {
		scale = 1 / m
	}
	for k := 0; k < n; k++ {
		row := n - 1 - k
		for l := 0; l < n; l++ {
			i := k*n + l
			if !pf.Mask[i] {
				src.SetRGBA(l, row, color.RGBA{})
				continue
			}
			src.SetRGBA(l, row, colormap.Lookup(pf.Values[i]*scale))
		}
	}

	if size <= 0 || size == n {
		return src
	}
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}
