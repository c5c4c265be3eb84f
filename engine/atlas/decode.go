package atlas

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/Carmen-Shannon/oxy-spine/common"
	_ "github.com/ftrvxmtrx/tga"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// decodePage reads a page image and converts it to tightly packed RGBA8 carrying the page's alpha mode and
// sampler settings. When the page declares a size that differs from the image, the image is scaled to the
// declared size so region UVs stay correct.
//
// Parameters:
//   - path: the image file
//   - page: the page header
//
// Returns:
//   - common.TextureStagingData: the pixels ready for upload
//   - error: a read or decode error
func decodePage(path string, page Page) (common.TextureStagingData, error) {
	f, err := os.Open(path)
	if err != nil {
		return common.TextureStagingData{}, fmt.Errorf("page %q: %w", page.Name, err)
	}
	defer f.Close()

	src, format, err := image.Decode(f)
	if err != nil {
		return common.TextureStagingData{}, fmt.Errorf("page %q: failed to decode image: %w", page.Name, err)
	}

	sb := src.Bounds()
	w, h := sb.Dx(), sb.Dy()
	if page.Width > 0 && page.Height > 0 {
		w, h = page.Width, page.Height
	}
	if w == 0 || h == 0 {
		return common.TextureStagingData{}, fmt.Errorf("page %q: empty %s image", page.Name, format)
	}

	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	if w == sb.Dx() && h == sb.Dy() {
		draw.Draw(dst, dst.Bounds(), src, sb.Min, draw.Src)
	} else {
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, sb, draw.Src, nil)
	}

	return common.TextureStagingData{
		Pixels:             dst.Pix,
		Width:              uint32(w),
		Height:             uint32(h),
		PremultipliedAlpha: page.PremultipliedAlpha,
		Sampler:            page.Sampler(),
	}, nil
}
