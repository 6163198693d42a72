package main

import (
	"fmt"
	"log/slog"

	"github.com/chewxy/math32"

	"cube-field/core"
	"cube-field/field"
	"cube-field/io"
	"cube-field/opengl"
	"cube-field/platform"
	"cube-field/scene"
)

// orbitKeySpeed is the arrow-key orbit rate in radians per second.
const orbitKeySpeed = 1.5

// session owns everything the render loop touches. It is built once by
// newSession and passed to each stage of the frame.
type session struct {
	cfg      io.SceneConfig
	window   *platform.Window
	renderer *opengl.Renderer
	scene    *scene.Scene
	camera   *scene.Camera
	controls *scene.OrbitControls
	stats    *core.FrameStats
	overlay  *overlay

	fieldNode     *scene.Node
	particlesNode *scene.Node

	paused    bool
	keys      map[int]bool
	dragging  bool
	lastMouse [2]float64
}

func newSession(cfg io.SceneConfig, f *field.Field, rng field.Source) (*session, error) {
	wc := platform.DefaultWindowConfig()
	wc.Width, wc.Height = cfg.Window.Width, cfg.Window.Height
	wc.Title = cfg.Window.Title
	wc.VSync = cfg.Window.VSync

	window, err := platform.NewWindow(wc)
	if err != nil {
		return nil, err
	}
	renderer, err := opengl.NewRenderer()
	if err != nil {
		window.Destroy()
		return nil, err
	}
	slog.Info("renderer ready", "gl", renderer.Version())

	s := &session{
		cfg:      cfg,
		window:   window,
		renderer: renderer,
		scene:    scene.NewScene(),
		stats:    core.NewFrameStats(),
		overlay:  &overlay{},
		keys:     make(map[int]bool),
	}
	if err := s.setup(f, rng); err != nil {
		s.destroy()
		return nil, err
	}

	width, height := window.GetFramebufferSize()
	s.resize(width, height)
	window.SetResizeCallback(s.resize)
	window.SetScrollCallback(func(_, yoff float64) {
		s.controls.Zoom(float32(yoff))
	})
	return s, nil
}

// setup populates the scene once: camera, controls, lights, fog, the
// generated field and the particle backdrop.
func (s *session) setup(f *field.Field, rng field.Source) error {
	cfg := s.cfg
	s.scene.Background = cfg.Background.Color()

	cc := cfg.Camera
	s.camera = scene.NewCamera(io.Radians(cc.FOV), float32(cfg.Window.Width)/float32(cfg.Window.Height), cc.Near, cc.Far)
	s.camera.SetPosition(io.ArrayToVec3(cc.Position))
	s.camera.LookAt(io.ArrayToVec3(cc.Target), s.camera.Up)
	s.scene.SetCamera(s.camera)

	s.controls = scene.NewOrbitControls(s.camera)
	s.controls.MinDistance = cc.MinDistance
	s.controls.MaxDistance = cc.MaxDistance
	s.controls.MinPolarAngle = io.Radians(cc.MinPolarAngle)
	s.controls.MaxPolarAngle = io.Radians(cc.MaxPolarAngle)
	s.controls.EnableDamping = cc.Damping
	s.controls.Update(s.camera)

	lc := cfg.Lights
	s.scene.AddLight(scene.NewHemisphereLight(lc.Sky.Color(), lc.Ground.Color(), lc.HemisphereIntensity))
	s.scene.AddLight(scene.NewDirectionalLight(io.ArrayToVec3(lc.DirectionalPosition), lc.Directional.Color(), lc.DirectionalIntensity))

	s.scene.Fog = scene.Fog{
		Enabled: cfg.Fog.Enabled,
		Color:   cfg.Fog.Color.Color(),
		Near:    cfg.Fog.Near,
		Far:     cfg.Fog.Far,
	}

	node, err := s.scene.AddField(f)
	if err != nil {
		return fmt.Errorf("add field: %w", err)
	}
	node.Spin = io.ArrayToVec3(cfg.Field.Spin)
	s.fieldNode = node

	if pc := cfg.Particles; pc.Count > 0 {
		points, err := field.GenerateParticles(pc.Count, pc.Extent, rng)
		if err != nil {
			return fmt.Errorf("generate particles: %w", err)
		}
		s.particlesNode = s.scene.AddParticles(points, pc.Color.Color(), pc.Size)
	}

	slog.Info("scene ready", "nodes", s.scene.Root.Count(), "lights", len(s.scene.Lights), "fog", s.scene.Fog.Enabled)
	return nil
}

func (s *session) resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	s.renderer.SetViewport(width, height)
	s.camera.UpdateAspectRatio(float32(width), float32(height))
}

// pressed reports a key going down since the previous frame.
func (s *session) pressed(key int) bool {
	down := s.window.IsKeyPressed(key)
	was := s.keys[key]
	s.keys[key] = down
	return down && !was
}

func (s *session) handleInput(dt float32) {
	w := s.window
	if w.IsKeyPressed(platform.KeyEscape) {
		w.Close()
	}

	if w.IsMouseButtonPressed(platform.MouseButtonLeft) {
		x, y := w.GetCursorPos()
		if s.dragging {
			_, height := w.GetFramebufferSize()
			if height > 0 {
				scale := 2 * math32.Pi / float32(height)
				s.controls.Rotate(float32(x-s.lastMouse[0])*scale, float32(y-s.lastMouse[1])*scale)
			}
		}
		s.lastMouse = [2]float64{x, y}
		s.dragging = true
	} else {
		s.dragging = false
	}

	step := orbitKeySpeed * dt
	if w.IsKeyPressed(platform.KeyLeft) {
		s.controls.Rotate(-step, 0)
	}
	if w.IsKeyPressed(platform.KeyRight) {
		s.controls.Rotate(step, 0)
	}
	if w.IsKeyPressed(platform.KeyUp) {
		s.controls.Rotate(0, -step)
	}
	if w.IsKeyPressed(platform.KeyDown) {
		s.controls.Rotate(0, step)
	}

	if s.pressed(platform.KeySpace) {
		s.paused = !s.paused
		slog.Info("spin", "paused", s.paused)
	}
	if s.pressed(platform.KeyF) {
		s.scene.Fog.Enabled = !s.scene.Fog.Enabled
		slog.Info("fog", "enabled", s.scene.Fog.Enabled)
	}
	if s.pressed(platform.KeyP) && s.particlesNode != nil {
		s.particlesNode.Visible = !s.particlesNode.Visible
		slog.Info("particles", "visible", s.particlesNode.Visible)
	}
	if s.pressed(platform.KeyC) {
		s.renderer.Culling = !s.renderer.Culling
		slog.Info("culling", "enabled", s.renderer.Culling)
	}
	if s.pressed(platform.KeyR) {
		s.camera.SetPosition(io.ArrayToVec3(s.cfg.Camera.Position))
		s.controls.Sync(s.camera)
	}
}

// frame is the per-frame callback: input, controls, animation, draw, stats.
func (s *session) frame(dt float32) {
	s.handleInput(dt)
	s.controls.Update(s.camera)
	if !s.paused {
		s.scene.Update(dt)
	}

	s.renderer.BeginFrame(s.scene.Background)
	list := s.renderer.RenderScene(s.scene)
	s.window.SwapBuffers()

	if _, published := s.stats.Tick(s.window.Time()); published {
		summary := s.stats.Summary()
		s.overlay.update(summary, list, s.renderer, s.paused)
		s.window.SetTitle(s.cfg.Window.Title + " | " + s.overlay.title())
		slog.Debug("frame stats", "fps", summary.FPS, "avg_ms", summary.AvgFrameMs,
			"drawn", list.Instances, "culled", list.Culled)
	}
}

func (s *session) run() {
	last := s.window.Time()
	for !s.window.ShouldClose() {
		s.window.PollEvents()
		now := s.window.Time()
		dt := float32(now - last)
		last = now
		// Clamp hitches so the spin does not jump after a stall.
		if dt > 0.1 {
			dt = 0.1
		}
		s.frame(dt)
	}
	slog.Info("exiting", "last", s.overlay.title())
}

func (s *session) destroy() {
	if s.renderer != nil {
		s.renderer.Destroy()
	}
	if s.window != nil {
		s.window.Destroy()
	}
}
