package atlas

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-spine/common"
	"github.com/Carmen-Shannon/oxy-spine/engine/renderer"
)

// TextureUploader creates GPU textures from decoded pages. renderer.Renderer satisfies it.
type TextureUploader interface {
	CreateTexture(key string, data common.TextureStagingData) (renderer.Texture, error)
}

// ProgressFunc is called on the loading goroutine after each page has been uploaded or has failed.
type ProgressFunc func(page string, done, total int)

// atlas is the implementation of the Atlas interface.
type atlas struct {
	mu *sync.RWMutex

	path     string
	dir      string
	pages    []Page
	textures map[string]renderer.Texture

	uploader TextureUploader
	workers  int
	progress ProgressFunc
}

// Atlas owns the page textures of one texture atlas. Pages are decoded in parallel and uploaded once;
// attachments look them up by page name.
type Atlas interface {
	// Path returns the .atlas file the pages were read from.
	Path() string

	// Pages returns the pages listed in the atlas.
	//
	// Returns:
	//   - []Page: the pages in file order
	Pages() []Page

	// Load decodes every page image not yet loaded and uploads it. Pages that fail are skipped and reported
	// in the returned error; the others stay loaded.
	//
	// Returns:
	//   - error: every page failure, joined
	Load() error

	// Texture returns the uploaded texture of a page.
	//
	// Parameters:
	//   - name: the page name
	//
	// Returns:
	//   - renderer.Texture: the texture
	//   - bool: false if the page is unknown or not loaded
	Texture(name string) (renderer.Texture, bool)

	// Loaded returns the number of uploaded pages.
	Loaded() int

	// Unload releases every page texture. Load may be called again afterwards.
	Unload()
}

var _ Atlas = &atlas{}

// NewAtlas reads the page list of an atlas file. Page images are not decoded until Load.
//
// Parameters:
//   - path: the .atlas file
//   - uploader: creates the page textures, normally a renderer.Renderer
//   - options: functional options
//
// Returns:
//   - Atlas: the atlas
//   - error: an error if the file could not be read or parsed
func NewAtlas(path string, uploader TextureUploader, options ...AtlasBuilderOption) (Atlas, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open atlas: %w", err)
	}
	defer f.Close()

	pages, err := ParsePages(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	a := &atlas{
		mu:       &sync.RWMutex{},
		path:     path,
		dir:      filepath.Dir(path),
		pages:    pages,
		textures: make(map[string]renderer.Texture, len(pages)),
		uploader: uploader,
		workers:  runtime.NumCPU(),
	}
	for _, opt := range options {
		opt(a)
	}
	return a, nil
}

func (a *atlas) Path() string {
	return a.path
}

func (a *atlas) Pages() []Page {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]Page, len(a.pages))
	copy(out, a.pages)
	return out
}

type decodeResult struct {
	data common.TextureStagingData
	err  error
}

func (a *atlas) Load() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	var pending []Page
	for _, p := range a.pages {
		if _, ok := a.textures[p.Name]; !ok {
			pending = append(pending, p)
		}
	}
	if len(pending) == 0 {
		return nil
	}

	results := a.decodeAll(pending)

	var errs []error
	for i, p := range pending {
		res := results[i]
		if res.err == nil {
			tex, err := a.uploader.CreateTexture(p.Name, res.data)
			if err != nil {
				res.err = fmt.Errorf("page %q: %w", p.Name, err)
			} else {
				a.textures[p.Name] = tex
			}
		}
		if res.err != nil {
			log.Printf("[Atlas] %s: %v", a.path, res.err)
			errs = append(errs, res.err)
		}
		if a.progress != nil {
			a.progress(p.Name, i+1, len(pending))
		}
	}
	return errors.Join(errs...)
}

// decodeAll decodes pages on a worker pool. Caller must hold the lock.
func (a *atlas) decodeAll(pages []Page) []decodeResult {
	results := make([]decodeResult, len(pages))
	pool := worker.NewDynamicWorkerPool(min(a.workers, len(pages)), len(pages), time.Second)
	defer pool.Stop()

	var wg sync.WaitGroup
	for i, p := range pages {
		wg.Add(1)
		id := i
		page := p
		pool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()
				data, err := decodePage(filepath.Join(a.dir, page.Name), page)
				results[id] = decodeResult{data: data, err: err}
				return nil, err
			},
		})
	}
	wg.Wait()
	return results
}

func (a *atlas) Texture(name string) (renderer.Texture, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	t, ok := a.textures[name]
	return t, ok
}

func (a *atlas) Loaded() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.textures)
}

func (a *atlas) Unload() {
	a.mu.Lock()
	defer a.mu.Unlock()
	for name, t := range a.textures {
		t.Release()
		delete(a.textures, name)
	}
}
