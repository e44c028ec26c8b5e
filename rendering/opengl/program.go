package opengl

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"orbitalviz/synth"
)

// VolumeProgram is one compiled ray-marching program together with its
// uniform locations. Exactly one instance is live at a time; the session
// replaces it build-new-then-destroy-old.
type VolumeProgram struct {
	id uint32

	timeLoc      int32
	phaseLoc     int32
	colorLoc     int32
	transformLoc int32
	rayLengthLoc int32
	// Per-wave amplitude weights; -1 for waves eliminated from the text.
	amplitudeLoc [synth.MaxWaves]int32
}

// BuildVolumeProgram compiles and links a synthesized source pair and
// extracts the runtime-varying input locations.
func BuildVolumeProgram(src synth.Source) (*VolumeProgram, error) {
	id, err := buildProgram(src.Vertex, src.Fragment)
	if err != nil {
		return nil, err
	}

	p := &VolumeProgram{
		id:           id,
		timeLoc:      gl.GetUniformLocation(id, gl.Str("u_time\x00")),
		phaseLoc:     gl.GetUniformLocation(id, gl.Str("u_phase\x00")),
		colorLoc:     gl.GetUniformLocation(id, gl.Str("u_color\x00")),
		transformLoc: gl.GetUniformLocation(id, gl.Str("u_transform\x00")),
		rayLengthLoc: gl.GetUniformLocation(id, gl.Str("u_rayLength\x00")),
	}
	names := [synth.MaxWaves]string{"u_amplitude_0\x00", "u_amplitude_1\x00"}
	for i := range p.amplitudeLoc {
		p.amplitudeLoc[i] = gl.GetUniformLocation(id, gl.Str(names[i]))
	}
	return p, nil
}

// Use binds the program; uniform setters require it bound.
func (p *VolumeProgram) Use() { gl.UseProgram(p.id) }

func (p *VolumeProgram) SetTime(t float32)  { gl.Uniform1f(p.timeLoc, t) }
func (p *VolumeProgram) SetPhase(v float32) { gl.Uniform1f(p.phaseLoc, v) }

func (p *VolumeProgram) SetColor(r, g, b float32) { gl.Uniform3f(p.colorLoc, r, g, b) }

func (p *VolumeProgram) SetRayLength(l float32) { gl.Uniform1f(p.rayLengthLoc, l) }

func (p *VolumeProgram) SetTransform(m mgl32.Mat4) {
	gl.UniformMatrix4fv(p.transformLoc, 1, false, &m[0])
}

// SetAmplitude writes one wave's amplitude weight. Writes to eliminated
// waves hit location -1, which GL ignores.
func (p *VolumeProgram) SetAmplitude(wave int, v float32) {
	gl.Uniform1f(p.amplitudeLoc[wave], v)
}

// Destroy releases the GL program object.
func (p *VolumeProgram) Destroy() { gl.DeleteProgram(p.id) }
