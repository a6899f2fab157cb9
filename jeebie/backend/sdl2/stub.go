//go:build !sdl2

package sdl2

import (
	"fmt"

	"github.com/valerio/go-jeebie-av/jeebie/backend"
	"github.com/valerio/go-jeebie-av/jeebie/input/action"
	"github.com/valerio/go-jeebie-av/jeebie/video"
)

// Backend stub for when SDL2 is not available
type Backend struct{}

// New creates a stub SDL2 backend that returns an error
func New() *Backend {
	return &Backend{}
}

// Init returns an error indicating SDL2 is not available
func (s *Backend) Init(config backend.BackendConfig) error {
	return fmt.Errorf("SDL2 backend not available - build with -tags sdl2 to enable")
}

func (s *Backend) Present(frame *video.FrameBuffer) {}

// Update returns an error
func (s *Backend) Update() ([]backend.InputEvent, error) {
	return nil, fmt.Errorf("SDL2 backend not available")
}

func (s *Backend) HandleAction(act action.Action) {}

// Cleanup does nothing
func (s *Backend) Cleanup() error {
	return nil
}
