package atlas

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-spine/common"
	"github.com/Carmen-Shannon/oxy-spine/engine/renderer"
	"github.com/cogentcore/webgpu/wgpu"
	"golang.org/x/image/bmp"
)

type fakeTexture struct {
	key      string
	data     common.TextureStagingData
	released bool
}

func (t *fakeTexture) Key() string              { return t.key }
func (t *fakeTexture) Width() uint32            { return t.data.Width }
func (t *fakeTexture) Height() uint32           { return t.data.Height }
func (t *fakeTexture) PremultipliedAlpha() bool { return t.data.PremultipliedAlpha }
func (t *fakeTexture) Release()                 { t.released = true }

type fakeUploader struct {
	created []*fakeTexture
	fail    string
}

func (u *fakeUploader) CreateTexture(key string, data common.TextureStagingData) (renderer.Texture, error) {
	if key == u.fail {
		return nil, errors.New("device lost")
	}
	t := &fakeTexture{key: key, data: data}
	u.created = append(u.created, t)
	return t, nil
}

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func writeFile(t *testing.T, path string, encode func(f *os.File) error) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := encode(f); err != nil {
		t.Fatal(err)
	}
}

// writeAtlas creates an .atlas with a PNG page and a BMP page in a temp dir.
func writeAtlas(t *testing.T, extra string) string {
	t.Helper()
	dir := t.TempDir()
	red := color.NRGBA{R: 255, A: 128}
	blue := color.NRGBA{B: 255, A: 255}
	writeFile(t, filepath.Join(dir, "a.png"), func(f *os.File) error { return png.Encode(f, solid(8, 4, red)) })
	writeFile(t, filepath.Join(dir, "b.bmp"), func(f *os.File) error { return bmp.Encode(f, solid(4, 4, blue)) })

	text := "a.png\nsize: 8,4\nfilter: Linear,Linear\nhead\n  xy: 0, 0\n\nb.bmp\nsize: 8,8\n" + extra
	path := filepath.Join(dir, "hero.atlas")
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadUploadsEveryPage(t *testing.T) {
	up := &fakeUploader{}
	var progress []string
	a, err := NewAtlas(writeAtlas(t, ""), up, WithWorkers(2), WithProgress(func(page string, done, total int) {
		progress = append(progress, page)
		if total != 2 {
			t.Errorf("total = %d, want 2", total)
		}
	}))
	if err != nil {
		t.Fatalf("NewAtlas: %v", err)
	}
	if err := a.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if a.Loaded() != 2 || len(progress) != 2 {
		t.Fatalf("loaded %d pages with %d progress calls", a.Loaded(), len(progress))
	}

	tex, ok := a.Texture("a.png")
	if !ok {
		t.Fatal("a.png not loaded")
	}
	data := tex.(*fakeTexture).data
	if data.Width != 8 || data.Height != 4 || len(data.Pixels) != 8*4*4 {
		t.Fatalf("a.png staged as %dx%d with %d bytes", data.Width, data.Height, len(data.Pixels))
	}
	if p := data.Pixels[:4]; p[0] != 255 || p[1] != 0 || p[2] != 0 || p[3] != 128 {
		t.Errorf("a.png first pixel = %v, want straight-alpha red", p)
	}

	// b.bmp is 4x4 on disk but declared 8x8.
	b, _ := a.Texture("b.bmp")
	if b.Width() != 8 || b.Height() != 8 {
		t.Errorf("b.bmp uploaded as %dx%d, want the declared 8x8", b.Width(), b.Height())
	}

	if err := a.Load(); err != nil || len(up.created) != 2 {
		t.Fatalf("second Load re-uploaded pages: err=%v created=%d", err, len(up.created))
	}
}

func TestLoadCarriesPageAlphaModeAndSampler(t *testing.T) {
	up := &fakeUploader{}
	a, err := NewAtlas(writeAtlas(t, "filter: Nearest,Nearest\nrepeat: x\npma: true\n"), up)
	if err != nil {
		t.Fatalf("NewAtlas: %v", err)
	}
	if err := a.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	linear, _ := a.Texture("a.png")
	if linear.PremultipliedAlpha() {
		t.Error("a.png does not declare pma")
	}
	ls := linear.(*fakeTexture).data.Sampler
	if ls.MinFilter != wgpu.FilterModeLinear || ls.AddressModeU != wgpu.AddressModeClampToEdge {
		t.Errorf("a.png sampler = %+v, want linear clamped", ls)
	}

	nearest, _ := a.Texture("b.bmp")
	if !nearest.PremultipliedAlpha() {
		t.Error("b.bmp declares pma: true")
	}
	ns := nearest.(*fakeTexture).data.Sampler
	if ns.MinFilter != wgpu.FilterModeNearest || ns.MagFilter != wgpu.FilterModeNearest {
		t.Errorf("b.bmp filters = %v/%v, want nearest", ns.MinFilter, ns.MagFilter)
	}
	if ns.AddressModeU != wgpu.AddressModeRepeat || ns.AddressModeV != wgpu.AddressModeClampToEdge {
		t.Errorf("b.bmp wrap = %v/%v, want repeat x only", ns.AddressModeU, ns.AddressModeV)
	}
}

func TestLoadKeepsGoodPagesOnFailure(t *testing.T) {
	up := &fakeUploader{fail: "b.bmp"}
	a, err := NewAtlas(writeAtlas(t, "\nmissing.png\nsize: 2,2\n"), up)
	if err != nil {
		t.Fatalf("NewAtlas: %v", err)
	}

	err = a.Load()
	if err == nil {
		t.Fatal("expected an error")
	}
	for _, name := range []string{"b.bmp", "missing.png"} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("error %q does not mention %s", err, name)
		}
	}
	if _, ok := a.Texture("a.png"); !ok {
		t.Error("a.png should still be loaded")
	}
	if _, ok := a.Texture("missing.png"); ok {
		t.Error("missing.png should not be loaded")
	}
	if len(a.Pages()) != 3 {
		t.Errorf("got %d pages, want 3", len(a.Pages()))
	}
}

func TestUnloadReleasesTextures(t *testing.T) {
	up := &fakeUploader{}
	a, err := NewAtlas(writeAtlas(t, ""), up)
	if err != nil {
		t.Fatalf("NewAtlas: %v", err)
	}
	if err := a.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	a.Unload()
	for _, tex := range up.created {
		if !tex.released {
			t.Errorf("%s not released", tex.key)
		}
	}
	if a.Loaded() != 0 {
		t.Fatalf("%d pages still loaded", a.Loaded())
	}

	if err := a.Load(); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if a.Loaded() != 2 {
		t.Fatalf("reload loaded %d pages", a.Loaded())
	}
}

func TestNewAtlasMissingFile(t *testing.T) {
	_, err := NewAtlas(filepath.Join(t.TempDir(), "nope.atlas"), &fakeUploader{})
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("err = %v, want os.ErrNotExist", err)
	}
}
