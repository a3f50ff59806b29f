package renderer

const strokeVertexShader = `
#version 410 core

layout (location = 0) in vec3 aPos;
layout (location = 1) in vec3 aNormal;
layout (location = 2) in vec2 aUV;

uniform mat4 uViewProj;

out vec3 vNormal;
out vec2 vUV;

void main() {
	vNormal = aNormal;
	vUV = aUV;
	gl_Position = uViewProj * vec4(aPos, 1.0);
}
`

const strokeFragmentShader = `
#version 410 core

in vec3 vNormal;
in vec2 vUV;

uniform vec4 uColor;
uniform vec3 uLightDir;
uniform float uLit;

out vec4 FragColor;

void main() {
	if (uLit < 0.5) {
		FragColor = uColor;
		return;
	}
	float diffuse = max(dot(normalize(vNormal), -uLightDir), 0.0);
	// Darken toward the long edges of the stroke
	float edge = 1.0 - 0.35 * pow(abs(vUV.x - 0.5) * 2.0, 4.0);
	vec3 rgb = uColor.rgb * (0.35 + 0.65 * diffuse) * edge;
	FragColor = vec4(rgb, uColor.a);
}
`
