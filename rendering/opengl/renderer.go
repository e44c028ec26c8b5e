package opengl

import (
	"fmt"
	"runtime"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"orbitalviz/synth"
)

// blit shaders draw the offscreen volume texture to the window.
const blitVertexShader = `#version 410 core

const vec2 positions[4] = vec2[](
	vec2(-1.0, -1.0),
	vec2( 1.0, -1.0),
	vec2(-1.0,  1.0),
	vec2( 1.0,  1.0)
);

out vec2 v_uv;

void main() {
	vec2 pos = positions[gl_VertexID];
	v_uv = pos * 0.5 + 0.5;
	gl_Position = vec4(pos, 0.0, 1.0);
}
`

const blitFragmentShader = `#version 410 core

uniform sampler2D u_tex;

in vec2 v_uv;
out vec4 outColor;

void main() {
	outColor = vec4(texture(u_tex, v_uv).rgb, 1.0);
}
`

// Renderer owns the window, the GL context and the fixed fullscreen-quad
// machinery. Volume programs and render targets are built through it but
// owned by the session.
type Renderer struct {
	window *glfw.Window

	quadVAO     uint32
	blitProgram uint32
	blitTexLoc  int32
}

// NewRenderer initializes GLFW and OpenGL and opens the window. The caller
// must stay on the calling OS thread for the renderer's lifetime.
func NewRenderer(width, height int, title string) (*Renderer, error) {
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize GLFW: %w", err)
	}

	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	window, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to create window: %w", err)
	}
	window.MakeContextCurrent()
	glfw.SwapInterval(1)

	if err := gl.Init(); err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	r := &Renderer{window: window}

	// Core profile requires a bound VAO even for bufferless draws.
	gl.GenVertexArrays(1, &r.quadVAO)
	gl.BindVertexArray(r.quadVAO)

	blit, err := buildProgram(blitVertexShader, blitFragmentShader)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("blit program: %w", err)
	}
	r.blitProgram = blit
	r.blitTexLoc = gl.GetUniformLocation(blit, gl.Str("u_tex\x00"))

	gl.ClearColor(0, 0, 0, 1)
	return r, nil
}

// Window exposes the GLFW window for input callbacks and the swap loop.
func (r *Renderer) Window() *glfw.Window { return r.window }

// FramebufferSize returns the current framebuffer dimensions in pixels.
func (r *Renderer) FramebufferSize() (int, int) {
	return r.window.GetFramebufferSize()
}

// Build compiles a synthesized source pair into a volume program.
func (r *Renderer) Build(src synth.Source) (*VolumeProgram, error) {
	return BuildVolumeProgram(src)
}

// CreateTarget allocates a render target.
func (r *Renderer) CreateTarget(width, height int, filtering bool) *RenderTarget {
	return NewRenderTarget(width, height, filtering)
}

// DrawVolume runs the ray-marching program into the target. The program's
// uniforms must already be set by the caller.
func (r *Renderer) DrawVolume(p *VolumeProgram, t *RenderTarget) {
	t.Bind()
	gl.Clear(gl.COLOR_BUFFER_BIT)
	p.Use()
	gl.BindVertexArray(r.quadVAO)
	gl.DrawArrays(gl.TRIANGLE_STRIP, 0, 4)
}

// Blit scales the target texture onto the window framebuffer.
func (r *Renderer) Blit(t *RenderTarget) {
	w, h := r.FramebufferSize()
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(0, 0, int32(w), int32(h))
	gl.Clear(gl.COLOR_BUFFER_BIT)

	gl.UseProgram(r.blitProgram)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, t.tex)
	gl.Uniform1i(r.blitTexLoc, 0)
	gl.BindVertexArray(r.quadVAO)
	gl.DrawArrays(gl.TRIANGLE_STRIP, 0, 4)
}

// Terminate tears down the window and GLFW. Session-owned resources must
// be destroyed first.
func (r *Renderer) Terminate() {
	gl.DeleteProgram(r.blitProgram)
	gl.DeleteVertexArrays(1, &r.quadVAO)
	r.window.Destroy()
	glfw.Terminate()
}
