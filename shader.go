package facet

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/gogpu/naga"
)

//go:embed shaders/shape.wgsl
var shapeShaderSource string

// ErrEmptyShader is returned when a shader source is empty or whitespace.
// An empty source is always a hard error; shapes are never drawn with a
// missing shader.
var ErrEmptyShader = errors.New("facet: shader source is empty")

// ShaderSource returns the built-in WGSL shape shader. It declares the
// vs_main and fs_main entry points and matches the interleaved vertex
// layout (position at location 0, color at location 1).
func ShaderSource() string { return shapeShaderSource }

// LoadShader reads WGSL shader source from a file. It returns an explicit
// error when the file cannot be read or contains no source; callers must
// not fall back to drawing without a shader.
func LoadShader(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("facet: read shader %s: %w", path, err)
	}
	source := string(data)
	if strings.TrimSpace(source) == "" {
		return "", fmt.Errorf("%w: %s", ErrEmptyShader, path)
	}
	return source, nil
}

// ValidateShader compiles WGSL source with naga and reports compilation
// errors without touching a device. Pipeline construction validates its
// source through this before creating the shader module.
func ValidateShader(source string) error {
	if strings.TrimSpace(source) == "" {
		return ErrEmptyShader
	}
	if _, err := naga.Compile(source); err != nil {
		return fmt.Errorf("facet: compile shader: %w", err)
	}
	return nil
}
