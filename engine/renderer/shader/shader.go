package shader

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/cogentcore/webgpu/wgpu"
)

// ShaderType identifies which pipeline stage a shader feeds.
type ShaderType int

const (
	// ShaderTypeVertex is the vertex shader type, used for vertex processing in render pipelines.
	ShaderTypeVertex ShaderType = iota

	// ShaderTypeFragment is the fragment shader type, used for fragment processing in pair with a vertex shader.
	ShaderTypeFragment
)

// SpineSource is the WGSL source for skeletal attachments. It declares vs_main and fs_main,
// the scene uniform at group 0 and the atlas page texture and sampler at group 1.
//
//go:embed assets/spine.wgsl
var SpineSource string

// Vertex buffer slots used by SpineSource. The order matches the renderer's SetVertexBuffers.
const (
	PositionBufferSlot = 0
	TintBufferSlot     = 1
	UVBufferSlot       = 2
)

// shader is the implementation of the Shader interface.
type shader struct {
	key           string
	source        string
	shaderType    ShaderType
	entryPoint    string
	vertexLayouts []wgpu.VertexBufferLayout
	module        *wgpu.ShaderModuleDescriptor
}

// Shader defines the interface for a WGSL shader stage: its source, entry point, and for vertex shaders
// the vertex buffer layouts the pipeline must declare.
type Shader interface {
	// Key retrieves the unique identifier for this shader, used for caching and lookups.
	//
	// Returns:
	//   - string: the shader's unique key
	Key() string

	// Source retrieves the WGSL shader source code.
	//
	// Returns:
	//   - string: the WGSL source code of the shader
	Source() string

	// EntryPoint returns the entry point name for this shader.
	//
	// Returns:
	//   - string: the entry point name (e.g. "vs_main")
	EntryPoint() string

	// VertexLayouts retrieves the vertex buffer layouts, one per bound vertex buffer, in slot order.
	// Fragment shaders return nil.
	//
	// Returns:
	//   - []wgpu.VertexBufferLayout: the vertex buffer layouts
	VertexLayouts() []wgpu.VertexBufferLayout

	// Module returns the wgpu.ShaderModuleDescriptor for this shader.
	//
	// Returns:
	//   - *wgpu.ShaderModuleDescriptor: the shader module descriptor containing the WGSL code and label
	Module() *wgpu.ShaderModuleDescriptor

	// ShaderType returns the type of the shader.
	//
	// Returns:
	//   - ShaderType: ShaderTypeVertex or ShaderTypeFragment
	ShaderType() ShaderType
}

var _ Shader = &shader{}

// NewShader creates a new Shader from WGSL source.
//
// Parameters:
//   - key: a unique identifier for the shader, used for caching and lookups
//   - shaderType: the pipeline stage this shader feeds
//   - source: the WGSL source code
//   - options: functional options applied after defaults
//
// Returns:
//   - Shader: the configured shader
func NewShader(key string, shaderType ShaderType, source string, options ...ShaderBuilderOption) Shader {
	s := &shader{
		key:        key,
		shaderType: shaderType,
		source:     source,
	}
	switch shaderType {
	case ShaderTypeVertex:
		s.entryPoint = "vs_main"
	case ShaderTypeFragment:
		s.entryPoint = "fs_main"
	}
	for _, opt := range options {
		opt(s)
	}
	s.module = &wgpu.ShaderModuleDescriptor{
		Label: s.key,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: s.source,
		},
	}
	return s
}

// LoadShader reads WGSL source from disk and creates a Shader from it.
//
// Parameters:
//   - key: a unique identifier for the shader
//   - shaderType: the pipeline stage this shader feeds
//   - path: the file path to read WGSL source from
//   - options: functional options applied after defaults
//
// Returns:
//   - Shader: the configured shader
//   - error: an error if the file cannot be read
func LoadShader(key string, shaderType ShaderType, path string, options ...ShaderBuilderOption) (Shader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("shader: failed to read source file %q: %w", path, err)
	}
	return NewShader(key, shaderType, string(data), options...), nil
}

// NewSpineShaders returns the vertex and fragment stages of SpineSource.
//
// Returns:
//   - Shader: the vertex stage
//   - Shader: the fragment stage
func NewSpineShaders() (Shader, Shader) {
	vs := NewShader("spine_vert", ShaderTypeVertex, SpineSource, WithVertexLayouts(SpineVertexLayouts()))
	fs := NewShader("spine_frag", ShaderTypeFragment, SpineSource)
	return vs, fs
}

// SpineVertexLayouts describes the three separate vertex streams of an attachment:
// float32x2 position, unorm8x4 tint (bytes R, G, B, A) and float32x2 UV.
//
// Returns:
//   - []wgpu.VertexBufferLayout: layouts for PositionBufferSlot, TintBufferSlot and UVBufferSlot
func SpineVertexLayouts() []wgpu.VertexBufferLayout {
	layouts := make([]wgpu.VertexBufferLayout, 3)
	layouts[PositionBufferSlot] = wgpu.VertexBufferLayout{
		ArrayStride: 8,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
		},
	}
	layouts[TintBufferSlot] = wgpu.VertexBufferLayout{
		ArrayStride: 4,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatUnorm8x4, Offset: 0, ShaderLocation: 1},
		},
	}
	layouts[UVBufferSlot] = wgpu.VertexBufferLayout{
		ArrayStride: 8,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 2},
		},
	}
	return layouts
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) EntryPoint() string {
	return s.entryPoint
}

func (s *shader) VertexLayouts() []wgpu.VertexBufferLayout {
	return s.vertexLayouts
}

func (s *shader) Module() *wgpu.ShaderModuleDescriptor {
	return s.module
}

func (s *shader) ShaderType() ShaderType {
	return s.shaderType
}
