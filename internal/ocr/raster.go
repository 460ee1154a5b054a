package ocr

import (
	"image"
	"image/color"
	"sort"

	"golang.org/x/image/draw"
)

// minRasterWidth below which the raster is upscaled before OCR;
// tesseract degrades quickly on low-resolution renders.
const minRasterWidth = 1200

type rasterVariant struct {
	name string
	img  image.Image
}

// rasterVariants produces the ordered preprocessing candidates for one
// rendered page: aggressive denoise+threshold, high contrast,
// binarized, sharpened, and the raw grayscale.
func rasterVariants(src image.Image) []rasterVariant {
	gray := toGray(upscale(src))
	return []rasterVariant{
		{name: "denoised", img: threshold(median3(gray), 150)},
		{name: "contrast", img: stretchContrast(gray)},
		{name: "binary", img: threshold(gray, 140)},
		{name: "sharp", img: sharpen(gray)},
		{name: "gray", img: gray},
	}
}

func upscale(src image.Image) image.Image {
	b := src.Bounds()
	if b.Dx() >= minRasterWidth {
		return src
	}
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*2, b.Dy()*2))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}

func toGray(src image.Image) *image.Gray {
	if g, ok := src.(*image.Gray); ok {
		return g
	}
	b := src.Bounds()
	dst := image.NewGray(b)
	draw.Draw(dst, b, src, b.Min, draw.Src)
	return dst
}

func threshold(src *image.Gray, cut uint8) *image.Gray {
	b := src.Bounds()
	dst := image.NewGray(b)
	for i, v := range src.Pix {
		if v >= cut {
			dst.Pix[i] = 0xff
		}
	}
	return dst
}

// stretchContrast linearly maps the observed intensity range to 0..255.
func stretchContrast(src *image.Gray) *image.Gray {
	lo, hi := uint8(0xff), uint8(0)
	for _, v := range src.Pix {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if hi <= lo {
		return src
	}
	span := int(hi) - int(lo)
	dst := image.NewGray(src.Bounds())
	for i, v := range src.Pix {
		dst.Pix[i] = uint8((int(v) - int(lo)) * 255 / span)
	}
	return dst
}

// median3 applies a 3x3 median filter, knocking out salt-and-pepper
// scan noise before thresholding.
func median3(src *image.Gray) *image.Gray {
	b := src.Bounds()
	dst := image.NewGray(b)
	var window [9]int
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			n := 0
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					px, py := x+dx, y+dy
					if px < b.Min.X || px >= b.Max.X || py < b.Min.Y || py >= b.Max.Y {
						continue
					}
					window[n] = int(src.GrayAt(px, py).Y)
					n++
				}
			}
			sort.Ints(window[:n])
			dst.SetGray(x, y, color.Gray{Y: uint8(window[n/2])})
		}
	}
	return dst
}

// sharpen applies the standard 3x3 sharpening kernel.
func sharpen(src *image.Gray) *image.Gray {
	b := src.Bounds()
	dst := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			center := int(src.GrayAt(x, y).Y)
			sum := 5 * center
			sum -= int(grayAtClamped(src, x-1, y))
			sum -= int(grayAtClamped(src, x+1, y))
			sum -= int(grayAtClamped(src, x, y-1))
			sum -= int(grayAtClamped(src, x, y+1))
			if sum < 0 {
				sum = 0
			} else if sum > 255 {
				sum = 255
			}
			dst.SetGray(x, y, color.Gray{Y: uint8(sum)})
		}
	}
	return dst
}

func grayAtClamped(src *image.Gray, x, y int) uint8 {
	b := src.Bounds()
	if x < b.Min.X {
		x = b.Min.X
	} else if x >= b.Max.X {
		x = b.Max.X - 1
	}
	if y < b.Min.Y {
		y = b.Min.Y
	} else if y >= b.Max.Y {
		y = b.Max.Y - 1
	}
	return src.GrayAt(x, y).Y
}
