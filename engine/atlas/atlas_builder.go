package atlas

// AtlasBuilderOption is a functional option for configuring an Atlas.
// Use the With* functions to create options.
type AtlasBuilderOption func(a *atlas)

// WithWorkers sets how many pages are decoded at once. Defaults to runtime.NumCPU().
//
// Parameters:
//   - n: the worker count, values below 1 are treated as 1
//
// Returns:
//   - AtlasBuilderOption: option function to apply
func WithWorkers(n int) AtlasBuilderOption {
	return func(a *atlas) {
		a.workers = max(n, 1)
	}
}

// WithImageDir resolves page images against dir instead of the .atlas file's directory.
//
// Parameters:
//   - dir: the image directory
//
// Returns:
//   - AtlasBuilderOption: option function to apply
func WithImageDir(dir string) AtlasBuilderOption {
	return func(a *atlas) {
		a.dir = dir
	}
}

// WithProgress sets a callback invoked after each page is processed by Load.
//
// Parameters:
//   - fn: the callback
//
// Returns:
//   - AtlasBuilderOption: option function to apply
func WithProgress(fn ProgressFunc) AtlasBuilderOption {
	return func(a *atlas) {
		a.progress = fn
	}
}
