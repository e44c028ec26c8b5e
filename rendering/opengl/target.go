package opengl

import "github.com/go-gl/gl/v4.1-core/gl"

// RenderTarget is the offscreen framebuffer the volume pass renders into.
// It is sized from the window dimensions and the resolution multiplier and
// is replaced wholesale when either changes; its lifetime is independent of
// program rebuilds.
type RenderTarget struct {
	fbo       uint32
	tex       uint32
	width     int
	height    int
	filtering bool
}

// NewRenderTarget allocates a color texture and framebuffer at the given
// resolution. filtering selects linear vs nearest magnification.
func NewRenderTarget(width, height int, filtering bool) *RenderTarget {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	t := &RenderTarget{width: width, height: height, filtering: filtering}

	filter := int32(gl.NEAREST)
	if filtering {
		filter = gl.LINEAR
	}
	gl.GenTextures(1, &t.tex)
	gl.BindTexture(gl.TEXTURE_2D, t.tex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, filter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, filter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGB8,
		int32(t.width), int32(t.height), 0, gl.RGB, gl.UNSIGNED_BYTE, nil)

	gl.GenFramebuffers(1, &t.fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.fbo)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, t.tex, 0)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	return t
}

// Matches reports whether the target already has the requested shape.
func (t *RenderTarget) Matches(width, height int, filtering bool) bool {
	return t.width == width && t.height == height && t.filtering == filtering
}

// Bind makes the target the draw framebuffer and sets the viewport.
func (t *RenderTarget) Bind() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.fbo)
	gl.Viewport(0, 0, int32(t.width), int32(t.height))
}

// Destroy releases the framebuffer and its texture.
func (t *RenderTarget) Destroy() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.DeleteFramebuffers(1, &t.fbo)
	gl.DeleteTextures(1, &t.tex)
}
