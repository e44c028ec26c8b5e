// Package opengl owns the GL context, program building and the offscreen
// render target for the volume renderer.
package opengl

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// BuildError reports a shader compile or link failure. Generated source is
// well-formed by construction, so a BuildError indicates a synthesizer
// defect rather than a user-facing condition; callers treat it as fatal.
type BuildError struct {
	Stage string // "compile-vertex", "compile-fragment" or "link"
	Log   string
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("shader %s failed: %s", e.Stage, strings.TrimSpace(e.Log))
}

func compileShader(source string, shaderType uint32, stage string) (uint32, error) {
	shader := gl.CreateShader(shaderType)

	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		infoLog := make([]byte, logLength+1)
		gl.GetShaderInfoLog(shader, logLength, nil, &infoLog[0])
		gl.DeleteShader(shader)
		return 0, &BuildError{Stage: stage, Log: string(infoLog)}
	}
	return shader, nil
}

func linkProgram(vertShader, fragShader uint32) (uint32, error) {
	program := gl.CreateProgram()
	gl.AttachShader(program, vertShader)
	gl.AttachShader(program, fragShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		infoLog := make([]byte, logLength+1)
		gl.GetProgramInfoLog(program, logLength, nil, &infoLog[0])
		gl.DeleteProgram(program)
		return 0, &BuildError{Stage: "link", Log: string(infoLog)}
	}
	return program, nil
}

func buildProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	vs, err := compileShader(vertexSrc, gl.VERTEX_SHADER, "compile-vertex")
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(vs)

	fs, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER, "compile-fragment")
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(fs)

	return linkProgram(vs, fs)
}
