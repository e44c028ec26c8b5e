package synth

// vertexSource draws a fullscreen quad from gl_VertexID; no vertex buffer
// is needed. The ray itself is reconstructed per fragment from u_transform.
const vertexSource = `#version 410 core

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

// fragmentPrelude declares the runtime-varying inputs and numeric guards.
// It precedes the generated orbitalDensity function.
const fragmentPrelude = `uniform float u_time;
uniform float u_phase;
uniform float u_rayLength;
uniform vec3 u_color;
uniform mat4 u_transform;

in vec2 v_uv;
out vec4 outColor;

float rand(vec2 co) {
	return fract(sin(dot(co.xy, vec2(12.9898, 78.233)))*43758.5453);
}

// GLSL atan(y, x) is undefined at x == 0; route the steep quadrants
// through the swapped form so the result is always defined.
float atan2(float y, float x) {
	if (abs(x) > abs(y))
		return atan(y, x);
	return 1.5707963 - atan(x, y);
}
`

// fragmentMain is the ray-marching loop. It follows the generated
// orbitalDensity function in the assembled source.
const fragmentMain = `
void main() {
	vec3 eye = (u_transform * vec4(0.0, 0.0, 0.0, 1.0)).xyz;
	vec3 dir = normalize(mat3(u_transform) * vec3(v_uv*2.0 - 1.0, -1.0));

	vec3 intensity = vec3(0.0);
	float dl = u_rayLength / float(SAMPLE_COUNT);
	for (int i = 0; i < SAMPLE_COUNT; ++i) {
		float dist = u_rayLength * float(SAMPLE_COUNT - i - 1) / float(SAMPLE_COUNT);
		float c_re, c_im;
		float P = orbitalDensity(eye + dir*dist, c_re, c_im);
		if (P < CUTOFF)
			P = 0.0;
#if COMPLEX_COLOR == 1
		float complex_phase = atan2(c_im, c_re);
		vec3 emission = P * normalize(vec3(
			0.5 - 0.5*cos(complex_phase),
			0.2,
			0.5 + 0.5*sin(complex_phase)));
#else
		vec3 emission = P * u_color;
#endif
		intensity = intensity + (emission - intensity*(P*ABSORPTION_MUL))*dl;
		intensity = max(vec3(0.0), intensity);
	}
	intensity += vec3(1.0) * rand(v_uv * u_time) * 0.015;
	outColor = vec4(intensity, 1.0);
}
`
