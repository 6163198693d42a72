// Package opengl draws a scene.Scene with a single GL 4.1 core program.
// Every distinct mesh is uploaded once and drawn with one instanced call
// per frame, however many nodes place it.
package opengl

import (
	"fmt"
	"strings"
	"unsafe"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"cube-field/core"
	"cube-field/scene"
)

// GPUMesh holds the OpenGL buffer objects for an uploaded mesh.
type GPUMesh struct {
	VAO         uint32
	VBO         uint32
	EBO         uint32
	InstanceVBO uint32
	InstanceCap int
	IndexCount  int32
	VertexCount int32
	HasIndices  bool
}

// Renderer is the OpenGL rendering backend.
type Renderer struct {
	program   uint32
	loc       uniforms
	gpuMeshes map[*scene.Mesh]*GPUMesh
	scratch   []float32

	// Culling toggles frustum culling of nodes against the camera.
	Culling bool
}

type uniforms struct {
	viewProj, albedo, unlit, flat, pointSize int32

	hemiEnabled, hemiSky, hemiGround, hemiIntensity int32

	dirEnabled, dirDirection, dirColor, dirIntensity int32

	fogEnabled, fogColor, fogNear, fogFar int32
}

// vertex shader: per-instance model matrix at locations 3-6
const vertSrc = `
#version 410 core
layout(location = 0) in vec3 inPosition;
layout(location = 1) in vec3 inNormal;
layout(location = 2) in vec4 inColor;
layout(location = 3) in mat4 inModel;

uniform mat4  viewProj;
uniform float pointSize;

out vec3  fragWorldPos;
out vec3  fragNormal;
out vec4  fragColor;
out float fragDepth;

void main() {
    vec4 world   = inModel * vec4(inPosition, 1.0);
    gl_Position  = viewProj * world;
    gl_PointSize = pointSize;
    fragWorldPos = world.xyz;
    fragNormal   = mat3(inModel) * inNormal;
    fragColor    = inColor;
    fragDepth    = gl_Position.w;
}
` + "\x00"

// fragment shader: hemisphere + directional lighting with linear fog
const fragSrc = `
#version 410 core
in vec3  fragWorldPos;
in vec3  fragNormal;
in vec4  fragColor;
in float fragDepth;

uniform vec4 albedo;
uniform bool unlit;
uniform bool flatShading;

uniform bool  hemiEnabled;
uniform vec3  hemiSky;
uniform vec3  hemiGround;
uniform float hemiIntensity;

uniform bool  dirEnabled;
uniform vec3  dirDirection;
uniform vec3  dirColor;
uniform float dirIntensity;

uniform bool  fogEnabled;
uniform vec3  fogColor;
uniform float fogNear;
uniform float fogFar;

out vec4 outColor;

void main() {
    vec4 base = albedo * fragColor;
    vec3 color = base.rgb;

    if (!unlit) {
        vec3 n;
        if (flatShading) {
            n = normalize(cross(dFdx(fragWorldPos), dFdy(fragWorldPos)));
        } else {
            n = normalize(fragNormal);
            if (!gl_FrontFacing) {
                n = -n;
            }
        }
        vec3 light = vec3(0.0);
        if (hemiEnabled) {
            light += mix(hemiGround, hemiSky, 0.5 * n.y + 0.5) * hemiIntensity;
        }
        if (dirEnabled) {
            light += dirColor * dirIntensity * max(dot(n, -dirDirection), 0.0);
        }
        color *= light;
    }

    if (fogEnabled) {
        float f = clamp((fragDepth - fogNear) / (fogFar - fogNear), 0.0, 1.0);
        color = mix(color, fogColor, f);
    }
    outColor = vec4(color, base.a);
}
` + "\x00"

// NewRenderer initialises OpenGL.
// Must be called after the GLFW window context is made current.
func NewRenderer() (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	prog, err := newProgram(vertSrc, fragSrc)
	if err != nil {
		return nil, fmt.Errorf("shader compile: %w", err)
	}

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.PROGRAM_POINT_SIZE)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.CullFace(gl.BACK)

	at := func(name string) int32 {
		return gl.GetUniformLocation(prog, gl.Str(name+"\x00"))
	}
	r := &Renderer{
		program: prog,
		loc: uniforms{
			viewProj:      at("viewProj"),
			albedo:        at("albedo"),
			unlit:         at("unlit"),
			flat:          at("flatShading"),
			pointSize:     at("pointSize"),
			hemiEnabled:   at("hemiEnabled"),
			hemiSky:       at("hemiSky"),
			hemiGround:    at("hemiGround"),
			hemiIntensity: at("hemiIntensity"),
			dirEnabled:    at("dirEnabled"),
			dirDirection:  at("dirDirection"),
			dirColor:      at("dirColor"),
			dirIntensity:  at("dirIntensity"),
			fogEnabled:    at("fogEnabled"),
			fogColor:      at("fogColor"),
			fogNear:       at("fogNear"),
			fogFar:        at("fogFar"),
		},
		gpuMeshes: make(map[*scene.Mesh]*GPUMesh),
		Culling:   true,
	}
	return r, nil
}

// Version reports the driver's GL version and renderer strings.
func (r *Renderer) Version() string {
	return gl.GoStr(gl.GetString(gl.VERSION)) + " / " + gl.GoStr(gl.GetString(gl.RENDERER))
}

// SetViewport resizes the OpenGL viewport.
func (r *Renderer) SetViewport(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

// BeginFrame clears the framebuffer with the given colour.
func (r *Renderer) BeginFrame(background core.Color) {
	gl.ClearColor(background.R, background.G, background.B, background.A)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// RenderScene draws every visible node of s from its camera and returns the
// draw list it submitted.
func (r *Renderer) RenderScene(s *scene.Scene) scene.DrawList {
	cam := s.Camera
	viewProj := cam.GetViewProjectionMatrix()

	var frustum *scene.Frustum
	if r.Culling {
		f := scene.FrustumFromVP(viewProj)
		frustum = &f
	}
	list := scene.BuildDrawList(s, frustum, cam.Position)

	gl.UseProgram(r.program)
	gl.UniformMatrix4fv(r.loc.viewProj, 1, false, (*float32)(unsafe.Pointer(&viewProj[0][0])))
	r.applyLights(s)

	for _, batch := range list.Batches {
		r.drawBatch(batch)
	}
	gl.Disable(gl.BLEND)
	gl.DepthMask(true)
	return list
}

func (r *Renderer) applyLights(s *scene.Scene) {
	setBool(r.loc.hemiEnabled, false)
	setBool(r.loc.dirEnabled, false)
	if l := s.Light(scene.LightHemisphere); l != nil {
		setBool(r.loc.hemiEnabled, true)
		gl.Uniform3f(r.loc.hemiSky, l.Color.R, l.Color.G, l.Color.B)
		gl.Uniform3f(r.loc.hemiGround, l.GroundColor.R, l.GroundColor.G, l.GroundColor.B)
		gl.Uniform1f(r.loc.hemiIntensity, l.Intensity)
	}
	if l := s.Light(scene.LightDirectional); l != nil {
		setBool(r.loc.dirEnabled, true)
		gl.Uniform3f(r.loc.dirDirection, l.Direction.X, l.Direction.Y, l.Direction.Z)
		gl.Uniform3f(r.loc.dirColor, l.Color.R, l.Color.G, l.Color.B)
		gl.Uniform1f(r.loc.dirIntensity, l.Intensity)
	}

	fog := s.Fog
	setBool(r.loc.fogEnabled, fog.Enabled && fog.Far > fog.Near)
	gl.Uniform3f(r.loc.fogColor, fog.Color.R, fog.Color.G, fog.Color.B)
	gl.Uniform1f(r.loc.fogNear, fog.Near)
	gl.Uniform1f(r.loc.fogFar, fog.Far)
}

// drawBatch renders every placement of one mesh in a single instanced call.
func (r *Renderer) drawBatch(batch scene.Batch) {
	n := len(batch.Models)
	if n == 0 {
		return
	}
	gpu := r.ensureUploaded(batch.Mesh)
	if gpu == nil {
		return
	}

	if cap(r.scratch) < n*16 {
		r.scratch = make([]float32, n*16)
	}
	buf := r.scratch[:n*16]
	for i, m := range batch.Models {
		copy(buf[i*16:i*16+16], (*[16]float32)(unsafe.Pointer(&m[0][0]))[:])
	}
	r.uploadInstanceVBO(gpu, buf, n)

	mat := batch.Mesh.Material
	if mat == nil {
		mat = scene.DefaultMaterial()
	}
	r.applyMaterial(mat)

	primitive := uint32(gl.TRIANGLES)
	if batch.Mesh.DrawMode == scene.DrawPoints {
		primitive = gl.POINTS
	}

	gl.BindVertexArray(gpu.VAO)
	if gpu.HasIndices {
		gl.DrawElementsInstanced(primitive, gpu.IndexCount, gl.UNSIGNED_INT, nil, int32(n))
	} else {
		gl.DrawArraysInstanced(primitive, 0, gpu.VertexCount, int32(n))
	}
	gl.BindVertexArray(0)
}

// applyMaterial sets material uniforms and the blend, depth-write and
// culling state the material needs.
func (r *Renderer) applyMaterial(mat *scene.Material) {
	gl.Uniform4f(r.loc.albedo, mat.Albedo.R, mat.Albedo.G, mat.Albedo.B, mat.Albedo.A*mat.Opacity)
	setBool(r.loc.unlit, mat.Unlit)
	setBool(r.loc.flat, mat.FlatShading)
	size := mat.PointSize
	if size <= 0 {
		size = 1
	}
	gl.Uniform1f(r.loc.pointSize, size)

	if mat.Translucent() {
		gl.Enable(gl.BLEND)
		gl.DepthMask(false)
	} else {
		gl.Disable(gl.BLEND)
		gl.DepthMask(true)
	}
	// Translucent boxes show their far faces through the near ones.
	if mat.DoubleSided || mat.Translucent() {
		gl.Disable(gl.CULL_FACE)
	} else {
		gl.Enable(gl.CULL_FACE)
	}
}

func setBool(loc int32, v bool) {
	if v {
		gl.Uniform1i(loc, 1)
	} else {
		gl.Uniform1i(loc, 0)
	}
}

// uploadInstanceVBO uploads buf to the per-mesh instance VBO, creating it
// and wiring the model matrix columns into locations 3-6 on first call.
func (r *Renderer) uploadInstanceVBO(gpu *GPUMesh, buf []float32, count int) {
	const stride = int32(16 * 4)

	if gpu.InstanceVBO == 0 {
		gl.GenBuffers(1, &gpu.InstanceVBO)
		gl.BindVertexArray(gpu.VAO)
		gl.BindBuffer(gl.ARRAY_BUFFER, gpu.InstanceVBO)
		for i := uint32(0); i < 4; i++ {
			gl.EnableVertexAttribArray(3 + i)
			gl.VertexAttribPointer(3+i, 4, gl.FLOAT, false, stride, gl.PtrOffset(int(i)*16))
			gl.VertexAttribDivisor(3+i, 1)
		}
		gl.BindVertexArray(0)
	}

	byteSize := len(buf) * 4
	gl.BindBuffer(gl.ARRAY_BUFFER, gpu.InstanceVBO)
	if count > gpu.InstanceCap {
		gl.BufferData(gl.ARRAY_BUFFER, byteSize, gl.Ptr(buf), gl.DYNAMIC_DRAW)
		gpu.InstanceCap = count
	} else {
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, byteSize, gl.Ptr(buf))
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

// ReleaseMesh frees GPU buffers for the given mesh.
func (r *Renderer) ReleaseMesh(mesh *scene.Mesh) {
	if gpu, ok := r.gpuMeshes[mesh]; ok {
		gl.DeleteVertexArrays(1, &gpu.VAO)
		gl.DeleteBuffers(1, &gpu.VBO)
		if gpu.HasIndices {
			gl.DeleteBuffers(1, &gpu.EBO)
		}
		if gpu.InstanceVBO != 0 {
			gl.DeleteBuffers(1, &gpu.InstanceVBO)
		}
		delete(r.gpuMeshes, mesh)
		mesh.GPUData = nil
	}
}

// MeshCount is the number of meshes resident on the GPU.
func (r *Renderer) MeshCount() int {
	return len(r.gpuMeshes)
}

// Destroy releases all GPU resources.
func (r *Renderer) Destroy() {
	for mesh := range r.gpuMeshes {
		r.ReleaseMesh(mesh)
	}
	gl.DeleteProgram(r.program)
}

// ensureUploaded uploads vertex/index data if not already done.
func (r *Renderer) ensureUploaded(mesh *scene.Mesh) *GPUMesh {
	if gpu, ok := r.gpuMeshes[mesh]; ok {
		return gpu
	}
	if len(mesh.Vertices) == 0 {
		return nil
	}

	stride := int32(unsafe.Sizeof(core.Vertex{}))

	gpu := &GPUMesh{
		IndexCount:  int32(len(mesh.Indices)),
		VertexCount: int32(len(mesh.Vertices)),
		HasIndices:  len(mesh.Indices) > 0,
	}

	gl.GenVertexArrays(1, &gpu.VAO)
	gl.GenBuffers(1, &gpu.VBO)
	gl.BindVertexArray(gpu.VAO)

	gl.BindBuffer(gl.ARRAY_BUFFER, gpu.VBO)
	gl.BufferData(gl.ARRAY_BUFFER,
		len(mesh.Vertices)*int(stride),
		gl.Ptr(mesh.Vertices),
		gl.STATIC_DRAW)

	var v core.Vertex
	posOff := int(unsafe.Offsetof(v.Position))
	normOff := int(unsafe.Offsetof(v.Normal))
	colorOff := int(unsafe.Offsetof(v.Color))

	// location 0: Position (vec3)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, gl.PtrOffset(posOff))

	// location 1: Normal (vec3)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, gl.PtrOffset(normOff))

	// location 2: Color (vec4 RGBA float32)
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointer(2, 4, gl.FLOAT, false, stride, gl.PtrOffset(colorOff))

	if gpu.HasIndices {
		gl.GenBuffers(1, &gpu.EBO)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, gpu.EBO)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER,
			len(mesh.Indices)*4,
			gl.Ptr(mesh.Indices),
			gl.STATIC_DRAW)
	}

	gl.BindVertexArray(0)

	r.gpuMeshes[mesh] = gpu
	mesh.GPUData = gpu
	return gpu
}

// ── shader helpers ────────────────────────────────────────────────────────────

func newProgram(vertSrc, fragSrc string) (uint32, error) {
	vert, err := compileShader(vertSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, fmt.Errorf("vertex: %w", err)
	}
	frag, err := compileShader(fragSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, fmt.Errorf("fragment: %w", err)
	}

	prog := gl.CreateProgram()
	gl.AttachShader(prog, vert)
	gl.AttachShader(prog, frag)
	gl.LinkProgram(prog)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(prog, logLen, nil, gl.Str(log))
		return 0, fmt.Errorf("link failed: %v", log)
	}

	gl.DeleteShader(vert)
	gl.DeleteShader(frag)
	return prog, nil
}

func compileShader(src string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csrc, free := gl.Strs(src)
	gl.ShaderSource(shader, 1, csrc, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(log))
		return 0, fmt.Errorf("compile failed: %v", log)
	}
	return shader, nil
}
