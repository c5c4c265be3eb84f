package atlas

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Carmen-Shannon/oxy-spine/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// Page is one texture page listed in a .atlas file.
type Page struct {
	// Name is the page image file name, relative to the .atlas file. Attachments reference pages by it.
	Name string
	// Width and Height are the declared page size. Zero when the file has no size line.
	Width, Height int
	// Format is the declared pixel format, informational only. Pages are always uploaded as RGBA8.
	Format string
	// MinFilter and MagFilter are the declared texture filters, e.g. Linear or Nearest.
	MinFilter, MagFilter string
	// RepeatX and RepeatY report the declared wrap mode. Undeclared axes clamp to the edge.
	RepeatX, RepeatY bool
	// PremultipliedAlpha reports whether the page pixels are premultiplied. Such pages are drawn with the
	// premultiplied blend equation.
	PremultipliedAlpha bool
}

// ParsePages reads the page list of a libGDX/Spine texture atlas. Page header fields are parsed; region
// entries are skipped.
//
// Parameters:
//   - r: the atlas text
//
// Returns:
//   - []Page: the pages in file order
//   - error: a read error, or a malformed page header
func ParsePages(r io.Reader) ([]Page, error) {
	var (
		pages  []Page
		page   *Page
		header bool
		lineNo int
	)

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			page = nil
			header = false
			continue
		}

		if page == nil {
			pages = append(pages, Page{Name: line})
			page = &pages[len(pages)-1]
			header = true
			continue
		}
		if !header {
			continue
		}

		key, value, ok := strings.Cut(line, ":")
		if !ok {
			// first region name ends the page header
			header = false
			continue
		}
		if err := page.setField(strings.TrimSpace(key), strings.TrimSpace(value)); err != nil {
			return nil, fmt.Errorf("atlas line %d: %w", lineNo, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read atlas: %w", err)
	}
	return pages, nil
}

func (p *Page) setField(key, value string) error {
	switch key {
	case "size":
		w, h, err := parsePair(value)
		if err != nil {
			return fmt.Errorf("page %q size: %w", p.Name, err)
		}
		p.Width, p.Height = w, h
	case "format":
		p.Format = value
	case "filter":
		minF, magF, _ := strings.Cut(value, ",")
		p.MinFilter = strings.TrimSpace(minF)
		p.MagFilter = strings.TrimSpace(magF)
	case "repeat":
		switch value {
		case "x":
			p.RepeatX = true
		case "y":
			p.RepeatY = true
		case "xy":
			p.RepeatX, p.RepeatY = true, true
		}
	case "pma":
		p.PremultipliedAlpha = value == "true"
	}
	return nil
}

// Sampler translates the declared filter and wrap settings into sampler settings. Pages are uploaded without
// mipmaps, so the MipMap filter variants reduce to their in-level filter. Undeclared filters are linear.
//
// Returns:
//   - common.SamplerStagingData: the sampler the page is bound with
func (p Page) Sampler() common.SamplerStagingData {
	s := common.SamplerStagingData{
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MinFilter:     filterMode(p.MinFilter),
		MagFilter:     filterMode(p.MagFilter),
		MipmapFilter:  wgpu.MipmapFilterModeNearest,
		LodMaxClamp:   32,
		MaxAnisotropy: 1,
	}
	if p.RepeatX {
		s.AddressModeU = wgpu.AddressModeRepeat
	}
	if p.RepeatY {
		s.AddressModeV = wgpu.AddressModeRepeat
	}
	return s
}

func filterMode(name string) wgpu.FilterMode {
	switch name {
	case "Nearest", "MipMapNearestNearest", "MipMapNearestLinear":
		return wgpu.FilterModeNearest
	default:
		return wgpu.FilterModeLinear
	}
}

func parsePair(value string) (int, int, error) {
	a, b, ok := strings.Cut(value, ",")
	if !ok {
		return 0, 0, fmt.Errorf("expected two values, got %q", value)
	}
	x, err := strconv.Atoi(strings.TrimSpace(a))
	if err != nil {
		return 0, 0, err
	}
	y, err := strconv.Atoi(strings.TrimSpace(b))
	if err != nil {
		return 0, 0, err
	}
	return x, y, nil
}
