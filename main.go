package main

import (
	"flag"
	"fmt"
	"runtime"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"
	"go.uber.org/zap"

	"orbitalviz/config"
	"orbitalviz/rendering/opengl"
	"orbitalviz/synth"
)

// glBackend adapts the renderer's concrete types to the session's
// collaborator interfaces.
type glBackend struct {
	r *opengl.Renderer
}

func (b *glBackend) Build(src synth.Source) (Program, error) {
	return b.r.Build(src)
}

func (b *glBackend) CreateTarget(width, height int, filtering bool) Target {
	return b.r.CreateTarget(width, height, filtering)
}

func main() {
	runtime.LockOSThread()

	var (
		configPath = flag.String("config", "settings.json", "Settings file")
		width      = flag.Int("width", 0, "Window width (overrides settings)")
		height     = flag.Int("height", 0, "Window height (overrides settings)")
		addr       = flag.String("addr", "", "Control server address (overrides settings, enables server)")
	)
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Warn("settings load failed, using defaults", zap.Error(err))
	}
	if *width > 0 {
		cfg.Window.Width = *width
	}
	if *height > 0 {
		cfg.Window.Height = *height
	}
	if *addr != "" {
		cfg.Server.Enabled = true
		cfg.Server.Addr = *addr
	}

	renderer, err := opengl.NewRenderer(cfg.Window.Width, cfg.Window.Height, cfg.Window.Title)
	if err != nil {
		logger.Fatal("renderer init failed", zap.Error(err))
	}
	defer renderer.Terminate()

	session, err := NewSession(cfg, &glBackend{r: renderer}, logger)
	if err != nil {
		logger.Fatal("initial program build failed", zap.Error(err))
	}
	defer session.Close()

	edits := make(chan Edit, 64)

	var server *ControlServer
	if cfg.Server.Enabled {
		server = NewControlServer(cfg.Server.Addr, edits, logger)
		server.Start()
		defer server.Close()
	}

	stopWatch, err := config.Watch(*configPath,
		func(s config.Settings) {
			for _, e := range settingsEdits(s) {
				edits <- e
			}
		},
		func(err error) { logger.Warn("settings reload failed", zap.Error(err)) })
	if err != nil {
		logger.Warn("settings watch unavailable", zap.Error(err))
	} else {
		defer stopWatch()
	}

	in := newInput(session, edits, logger)
	in.install(renderer.Window())

	last := time.Now()
	for !renderer.Window().ShouldClose() {
		glfw.PollEvents()

		// Every structural edit rebuilds inline; the drawn frame always
		// reflects the latest parameters known here.
		applied := false
	drain:
		for {
			select {
			case e := <-edits:
				if err := session.Apply(e); err != nil {
					logger.Fatal("rebuild failed", zap.Error(err))
				}
				applied = true
			default:
				break drain
			}
		}
		if applied && server != nil {
			server.Broadcast(session.Snapshot())
		}

		now := time.Now()
		session.Advance(now.Sub(last).Seconds())
		last = now

		fbWidth, fbHeight := renderer.FramebufferSize()
		session.EnsureTarget(fbWidth, fbHeight)

		session.ApplyUniforms(in.transform(session.Distance()))
		program := session.Program().(*opengl.VolumeProgram)
		target := session.Target().(*opengl.RenderTarget)
		renderer.DrawVolume(program, target)
		renderer.Blit(target)
		renderer.Window().SwapBuffers()
	}
}

// settingsEdits flattens a settings snapshot into parameter edits; the
// session drops the ones whose value did not change.
func settingsEdits(s config.Settings) []Edit {
	b := 0.0
	if s.Render.Filtering {
		b = 1
	}
	cc := 0.0
	if s.Render.ComplexColor {
		cc = 1
	}
	edits := []Edit{
		{Param: "samples", Value: float64(s.Render.SampleCount)},
		{Param: "resolution", Value: s.Render.Resolution},
		{Param: "filtering", Value: b},
		{Param: "r", Value: s.Render.R},
		{Param: "g", Value: s.Render.G},
		{Param: "b", Value: s.Render.B},
		{Param: "complexColor", Value: cc},
		{Param: "absorption", Value: s.Render.Absorption},
		{Param: "cutoff", Value: s.Render.Cutoff},
		{Param: "distance", Value: s.Render.Distance},
	}
	for i, w := range s.Waves {
		if i >= synth.MaxWaves {
			break
		}
		prefix := fmt.Sprintf("wave%d.", i)
		edits = append(edits,
			Edit{Param: prefix + "amplitude", Value: w.Amplitude},
			Edit{Param: prefix + "phase", Value: w.Phase},
			Edit{Param: prefix + "n", Value: float64(w.N)},
			Edit{Param: prefix + "l", Value: float64(w.L)},
			Edit{Param: prefix + "m", Value: float64(w.M)},
			Edit{Param: prefix + "translation", Value: w.Translation},
			Edit{Param: prefix + "group", Value: float64(w.Group)},
		)
	}
	return edits
}
