//go:build sdl2

package sdl2

import (
	"fmt"
	"log/slog"
	"unsafe"

	"github.com/valerio/go-jeebie-av/jeebie/backend"
	"github.com/valerio/go-jeebie-av/jeebie/debug"
	"github.com/valerio/go-jeebie-av/jeebie/input/action"
	"github.com/valerio/go-jeebie-av/jeebie/input/event"
	"github.com/valerio/go-jeebie-av/jeebie/video"
	"github.com/veandco/go-sdl2/sdl"
)

const defaultScale = 4

// Backend implements the Backend interface using SDL2 bindings
// Note: building this requires SDL2 development libraries installed.
// Default builds skip this and use a stubbed renderer, see build tags (sdl2)
type Backend struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
	running  bool
	config   backend.BackendConfig
	events   []backend.InputEvent
	pixels   []byte

	currentFrame *video.FrameBuffer
	dirty        bool
}

// New creates a new SDL2 backend
func New() *Backend {
	return &Backend{
		pixels: make([]byte, video.FramebufferSize*video.BytesPerPixel),
	}
}

// Init initializes the SDL2 backend
func (s *Backend) Init(config backend.BackendConfig) error {
	s.config = config

	scale := config.Scale
	if scale <= 0 {
		scale = defaultScale
	}

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return fmt.Errorf("failed to initialize SDL2: %w", err)
	}

	window, err := sdl.CreateWindow(
		config.Title,
		sdl.WINDOWPOS_CENTERED,
		sdl.WINDOWPOS_CENTERED,
		int32(video.FramebufferWidth*scale),
		int32(video.FramebufferHeight*scale),
		sdl.WINDOW_SHOWN|sdl.WINDOW_RESIZABLE,
	)
	if err != nil {
		sdl.Quit()
		return fmt.Errorf("failed to create window: %w", err)
	}
	s.window = window

	// no vsync, the host loop owns the tick rate
	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		window.Destroy()
		sdl.Quit()
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	s.renderer = renderer

	texture, err := renderer.CreateTexture(
		sdl.PIXELFORMAT_RGBA8888,
		sdl.TEXTUREACCESS_STREAMING,
		video.FramebufferWidth,
		video.FramebufferHeight,
	)
	if err != nil {
		renderer.Destroy()
		window.Destroy()
		sdl.Quit()
		return fmt.Errorf("failed to create texture: %w", err)
	}
	s.texture = texture
	s.running = true

	slog.Info("SDL2 backend initialized")
	return nil
}

// Present keeps the frame for the next Update.
func (s *Backend) Present(frame *video.FrameBuffer) {
	s.currentFrame = frame
	s.dirty = true
}

// Update processes window events and draws the latest frame
func (s *Backend) Update() ([]backend.InputEvent, error) {
	for ev := sdl.PollEvent(); ev != nil; ev = sdl.PollEvent() {
		s.handleEvent(ev)
	}

	events := s.events
	s.events = nil

	if !s.running {
		return events, nil
	}

	if s.dirty && s.currentFrame != nil {
		s.renderFrame(s.currentFrame)
		s.dirty = false
	}
	if status := s.config.Callbacks.StatusText(); status != "" {
		s.window.SetTitle(s.config.Title + " | " + status)
	}

	return events, nil
}

func (s *Backend) HandleAction(act action.Action) {
	if act == action.EmulatorSnapshot {
		debug.TakeSnapshot(s.currentFrame, "")
	}
}

// Cleanup cleans up SDL2 resources
func (s *Backend) Cleanup() error {
	slog.Info("Cleaning up SDL2 backend")

	if s.texture != nil {
		s.texture.Destroy()
	}
	if s.renderer != nil {
		s.renderer.Destroy()
	}
	if s.window != nil {
		s.window.Destroy()
	}
	sdl.Quit()

	return nil
}

func (s *Backend) handleEvent(ev sdl.Event) {
	switch e := ev.(type) {
	case *sdl.QuitEvent:
		s.running = false
		s.events = append(s.events, backend.InputEvent{Action: action.EmulatorQuit, Type: event.Press})

	case *sdl.KeyboardEvent:
		act, ok := keyMapping[e.Keysym.Sym]
		if !ok {
			return
		}
		switch {
		case e.Type == sdl.KEYDOWN && e.Repeat != 0:
			if action.IsGameInput(act) {
				s.events = append(s.events, backend.InputEvent{Action: act, Type: event.Hold})
			}
		case e.Type == sdl.KEYDOWN:
			s.events = append(s.events, backend.InputEvent{Action: act, Type: event.Press})
		case e.Type == sdl.KEYUP && action.IsGameInput(act):
			s.events = append(s.events, backend.InputEvent{Action: act, Type: event.Release})
		}
	}
}

// keyMapping maps SDL2 keys to actions
var keyMapping = map[sdl.Keycode]action.Action{
	// Engine controls
	sdl.K_SPACE:  action.EmulatorPauseToggle,
	sdl.K_TAB:    action.EmulatorTurboToggle,
	sdl.K_m:      action.EmulatorAudioToggle,
	sdl.K_F5:     action.EmulatorReset,
	sdl.K_F9:     action.EmulatorSnapshot,
	sdl.K_F12:    action.EmulatorTestPatternCycle,
	sdl.K_ESCAPE: action.EmulatorQuit,

	// Game Boy controls
	sdl.K_RETURN: action.GBButtonStart,
	sdl.K_z:      action.GBButtonA,
	sdl.K_x:      action.GBButtonB,
	sdl.K_RSHIFT: action.GBButtonSelect,
	sdl.K_UP:     action.GBDPadUp,
	sdl.K_DOWN:   action.GBDPadDown,
	sdl.K_LEFT:   action.GBDPadLeft,
	sdl.K_RIGHT:  action.GBDPadRight,
}

func (s *Backend) renderFrame(frame *video.FrameBuffer) {
	// RGBA8888 is a packed format, on little-endian hosts the bytes of each
	// pixel are stored ABGR
	for i, pixel := range frame.ToSlice() {
		idx := i * video.BytesPerPixel
		s.pixels[idx] = byte(pixel & video.ChannelMask)
		s.pixels[idx+1] = byte(pixel >> video.BlueShift)
		s.pixels[idx+2] = byte(pixel >> video.GreenShift)
		s.pixels[idx+3] = byte(pixel >> video.RedShift)
	}

	s.texture.Update(nil, unsafe.Pointer(&s.pixels[0]), video.FramebufferWidth*video.BytesPerPixel)

	s.renderer.SetDrawColor(0, 0, 0, 0xFF)
	s.renderer.Clear()
	s.renderer.Copy(s.texture, nil, nil)
	s.renderer.Present()
}
