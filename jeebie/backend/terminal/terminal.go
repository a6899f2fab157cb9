package terminal

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/valerio/go-jeebie-av/jeebie/backend"
	"github.com/valerio/go-jeebie-av/jeebie/backend/terminal/render"
	"github.com/valerio/go-jeebie-av/jeebie/debug"
	"github.com/valerio/go-jeebie-av/jeebie/input"
	"github.com/valerio/go-jeebie-av/jeebie/input/action"
	"github.com/valerio/go-jeebie-av/jeebie/input/event"
	"github.com/valerio/go-jeebie-av/jeebie/video"
)

const (
	width  = video.FramebufferWidth
	height = video.FramebufferHeight

	pacingHeight  = 6
	minTermWidth  = 80
	minTermHeight = 24
)

// Key expiry timeout - slightly longer than typical key repeat interval.
// Terminals report no key releases, so a game key counts as held until
// its repeats stop.
const keyTimeout = 100 * time.Millisecond

// Backend implements the Backend interface using tcell for terminal rendering
type Backend struct {
	screen     tcell.Screen
	running    bool
	logBuffer  *render.LogBuffer
	logLevel   slog.Level
	config     backend.BackendConfig
	eventQueue []backend.InputEvent
	signals    chan os.Signal
	now        func() time.Time

	keyStates  map[action.Action]time.Time // Last time each key was pressed
	activeKeys map[action.Action]bool      // Keys active in previous frame

	currentFrame *video.FrameBuffer
}

// New creates a new terminal backend
func New() *Backend {
	return &Backend{
		logLevel: slog.LevelInfo,
		now:      time.Now,
	}
}

// NewWithScreen creates a backend drawing on screen, e.g. a simulation
// screen in tests.
func NewWithScreen(screen tcell.Screen) *Backend {
	b := New()
	b.screen = screen
	return b
}

// Init initializes the terminal backend
func (t *Backend) Init(config backend.BackendConfig) error {
	t.config = config
	t.logLevel = config.LogLevel
	t.keyStates = make(map[action.Action]time.Time)
	t.activeKeys = make(map[action.Action]bool)

	if t.screen == nil {
		screen, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("failed to initialize terminal: %w", err)
		}
		t.screen = screen
	}
	if err := t.screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}
	t.running = true

	// Logs go to the panel, the terminal itself is taken by the UI
	t.logBuffer = render.NewLogBuffer(100)
	handler := render.NewLogBufferHandler(t.logBuffer, slog.LevelDebug)
	slog.SetDefault(slog.New(handler))

	slog.Info("Terminal backend initialized")

	t.screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	t.screen.Clear()

	// Set up signal handling for graceful shutdown
	t.signals = make(chan os.Signal, 1)
	signal.Notify(t.signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP, syscall.SIGQUIT)

	return nil
}

// Present keeps the frame for the next Update.
func (t *Backend) Present(frame *video.FrameBuffer) {
	t.currentFrame = frame
}

// Update processes events and draws the latest frame
func (t *Backend) Update() ([]backend.InputEvent, error) {
	var events []backend.InputEvent
	now := t.now()

	select {
	case <-t.signals:
		t.running = false
		t.eventQueue = append(t.eventQueue, backend.InputEvent{Action: action.EmulatorQuit, Type: event.Press})
	default:
	}

	// Poll for input events synchronously
	for t.screen.HasPendingEvent() {
		ev := t.screen.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventKey:
			t.processKeyEvent(ev, now)
		case *tcell.EventResize:
			t.screen.Sync()
		}
	}

	// Track which keys are currently active this frame
	currentlyActive := make(map[action.Action]bool)

	// Check all tracked keys and generate appropriate events
	for act, lastPressed := range t.keyStates {
		if now.Sub(lastPressed) < keyTimeout {
			currentlyActive[act] = true

			if !t.activeKeys[act] {
				slog.Debug("Key press", "action", action.GetInfo(act).Description)
				events = append(events, backend.InputEvent{Action: act, Type: event.Press})
			} else {
				events = append(events, backend.InputEvent{Action: act, Type: event.Hold})
			}
		} else {
			delete(t.keyStates, act)
		}
	}

	// Check for released keys (were active last frame but not this frame)
	for act := range t.activeKeys {
		if !currentlyActive[act] {
			slog.Debug("Key release", "action", action.GetInfo(act).Description)
			events = append(events, backend.InputEvent{Action: act, Type: event.Release})
		}
	}
	t.activeKeys = currentlyActive

	// Add non-game input events (pause, turbo, etc)
	events = append(events, t.eventQueue...)
	t.eventQueue = nil

	if !t.running {
		return events, nil
	}

	t.render()
	t.screen.Show()

	return events, nil
}

// Cleanup cleans up terminal resources
func (t *Backend) Cleanup() error {
	if t.signals != nil {
		signal.Stop(t.signals)
	}
	if t.screen != nil {
		slog.Info("Cleaning up terminal backend")
		t.screen.Fini()
	}
	return nil
}

// HandleAction processes backend-specific actions
func (t *Backend) HandleAction(act action.Action) {
	switch act {
	case action.EmulatorSnapshot:
		debug.TakeSnapshot(t.currentFrame, "")
	case action.DebugLogLevelIncrease:
		t.changeLogLevel(1)
	case action.DebugLogLevelDecrease:
		t.changeLogLevel(-1)
	}
}

// tcellKeyNameMap converts tcell keys to key names used in default mappings
var tcellKeyNameMap = map[tcell.Key]string{
	tcell.KeyEnter:  "Enter",
	tcell.KeyUp:     "Up",
	tcell.KeyDown:   "Down",
	tcell.KeyLeft:   "Left",
	tcell.KeyRight:  "Right",
	tcell.KeyEscape: "Escape",
	tcell.KeyTab:    "Tab",
	tcell.KeyF5:     "F5",
	tcell.KeyF9:     "F9",
	tcell.KeyF12:    "F12",
}

// tcellRuneNameMap converts runes to key names used in default mappings
var tcellRuneNameMap = map[rune]string{
	'z': "z",
	'x': "x",
	'w': "w",
	's': "s",
	'a': "a",
	'd': "d",
	'p': "p",
	't': "t",
	'm': "m",
	'q': "q",
	' ': "Space",
	'+': "+",
	'=': "=",
	'-': "-",
	'_': "_",
}

// buildKeyMapping creates the key mapping from default mappings
func buildKeyMapping() map[tcell.Key]action.Action {
	mapping := make(map[tcell.Key]action.Action)

	for key, keyName := range tcellKeyNameMap {
		if act, ok := input.GetDefaultMapping(keyName); ok {
			mapping[key] = act
		}
	}

	mapping[tcell.KeyCtrlC] = action.EmulatorQuit

	return mapping
}

// buildRuneMapping creates the rune mapping from default mappings
func buildRuneMapping() map[rune]action.Action {
	mapping := make(map[rune]action.Action)

	for r, keyName := range tcellRuneNameMap {
		if act, ok := input.GetDefaultMapping(keyName); ok {
			mapping[r] = act
		}
	}

	return mapping
}

var (
	keyMapping  = buildKeyMapping()
	runeMapping = buildRuneMapping()
)

func (t *Backend) processKeyEvent(ev *tcell.EventKey, now time.Time) {
	act, ok := keyMapping[ev.Key()]
	if !ok && ev.Key() == tcell.KeyRune {
		act, ok = runeMapping[ev.Rune()]
	}
	if !ok {
		return
	}

	if act == action.EmulatorQuit {
		t.running = false
	}

	if action.IsGameInput(act) {
		// Clear all d-pad directions to simulate exclusive directions
		if act == action.GBDPadUp || act == action.GBDPadDown ||
			act == action.GBDPadLeft || act == action.GBDPadRight {
			delete(t.keyStates, action.GBDPadUp)
			delete(t.keyStates, action.GBDPadDown)
			delete(t.keyStates, action.GBDPadLeft)
			delete(t.keyStates, action.GBDPadRight)
		}
		t.keyStates[act] = now
		return
	}

	t.eventQueue = append(t.eventQueue, backend.InputEvent{Action: act, Type: event.Press})
}

func (t *Backend) changeLogLevel(direction int) {
	oldLevel := t.logLevel
	switch direction {
	case -1:
		switch t.logLevel {
		case slog.LevelDebug:
			t.logLevel = slog.LevelInfo
		case slog.LevelInfo:
			t.logLevel = slog.LevelWarn
		case slog.LevelWarn:
			t.logLevel = slog.LevelError
		}
	case 1:
		switch t.logLevel {
		case slog.LevelError:
			t.logLevel = slog.LevelWarn
		case slog.LevelWarn:
			t.logLevel = slog.LevelInfo
		case slog.LevelInfo:
			t.logLevel = slog.LevelDebug
		}
	}
	if oldLevel != t.logLevel {
		slog.Info("Log filter changed", "from", oldLevel, "to", t.logLevel)
	}
}

func (t *Backend) render() {
	termWidth, termHeight := t.screen.Size()
	if termWidth < minTermWidth || termHeight < minTermHeight {
		t.screen.Clear()
		style := tcell.StyleDefault.Foreground(tcell.ColorRed)
		msg := fmt.Sprintf("Terminal too small! Need at least %dx%d", minTermWidth, minTermHeight)
		t.drawText(0, termHeight/2, termWidth, msg, style)
		return
	}

	t.screen.Clear()

	dividerX := width + 2
	rightPanelX := dividerX + 1
	rightPanelWidth := termWidth - rightPanelX
	if rightPanelWidth < 0 {
		rightPanelWidth = 0
	}

	t.drawBorders(termWidth, termHeight, dividerX)
	if t.currentFrame != nil {
		t.drawGameBoy(t.currentFrame)
	}
	t.drawPacing(rightPanelX+1, 1, rightPanelWidth-1)
	t.drawLogs(rightPanelX+1, pacingHeight+2, rightPanelWidth-1, termHeight)
}

func (t *Backend) drawBorders(termWidth, termHeight, dividerX int) {
	borderStyle := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	titleStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow)

	for y := 0; y < termHeight; y++ {
		if dividerX < termWidth {
			t.screen.SetContent(dividerX, y, '│', nil, borderStyle)
		}
	}

	pacingEndY := pacingHeight + 1
	if pacingEndY < termHeight {
		for x := dividerX + 1; x < termWidth; x++ {
			t.screen.SetContent(x, pacingEndY, '─', nil, borderStyle)
		}
		t.screen.SetContent(dividerX, pacingEndY, '├', nil, borderStyle)
	}

	title := t.config.Title
	if title == "" {
		title = "Game Boy"
	}
	t.drawText(1, 0, dividerX-1, " "+title+" ", titleStyle)
	t.drawText(dividerX+2, 0, termWidth-dividerX-2, " Pacing ", titleStyle)

	levelStr := "INFO"
	switch t.logLevel {
	case slog.LevelDebug:
		levelStr = "DEBUG"
	case slog.LevelWarn:
		levelStr = "WARN"
	case slog.LevelError:
		levelStr = "ERROR"
	}
	t.drawText(dividerX+2, pacingEndY, termWidth-dividerX-2, fmt.Sprintf(" Logs [%s] (-/+ filter) ", levelStr), titleStyle)

	helpText := " SPACE=pause T=turbo M=audio F5=reset F9=snapshot Q=quit | Z/X=A/B ENTER=start arrows=d-pad "
	t.drawText(0, termHeight-1, termWidth, helpText, borderStyle)
}

func (t *Backend) drawGameBoy(frame *video.FrameBuffer) {
	frameData := frame.ToSlice()
	for y := 0; y < height; y += 2 {
		for x := 0; x < width; x++ {
			topPixel := frameData[y*width+x]
			bottomPixel := uint32(video.WhiteColor)
			if y+1 < height {
				bottomPixel = frameData[(y+1)*width+x]
			}

			topShade := render.PixelToShade(topPixel)
			bottomShade := render.PixelToShade(bottomPixel)

			char, fg, bg := getHalfBlockChar(topShade, bottomShade)

			style := tcell.StyleDefault.Foreground(fg).Background(bg)
			t.screen.SetContent(x, y/2+1, char, nil, style)
		}
	}
}

func getHalfBlockChar(topShade, bottomShade int) (rune, tcell.Color, tcell.Color) {
	shadeColors := []tcell.Color{
		tcell.ColorBlack,
		tcell.ColorGray,
		tcell.ColorSilver,
		tcell.ColorWhite,
	}

	topColor := shadeColors[topShade]
	bottomColor := shadeColors[bottomShade]
	char := render.GetHalfBlockChar(topShade, bottomShade)

	switch {
	case topShade == bottomShade:
		return char, topColor, tcell.ColorDefault
	case topShade == 3:
		return char, bottomColor, topColor
	default:
		return char, topColor, bottomColor
	}
}

// drawPacing shows the status line and a sparkline of recent tick rates.
func (t *Backend) drawPacing(startX, startY, panelWidth int) {
	if panelWidth <= 0 {
		return
	}
	style := tcell.StyleDefault.Foreground(tcell.ColorGreen)

	status := t.config.Callbacks.StatusText()
	for i, part := range strings.Split(status, " | ") {
		if i >= pacingHeight-1 {
			break
		}
		t.drawText(startX, startY+i, panelWidth, part, style)
	}

	if t.config.Callbacks.RateHistory == nil {
		return
	}
	rates := t.config.Callbacks.RateHistory(panelWidth)
	line := render.Sparkline(rates, 2*60)
	t.drawText(startX, startY+pacingHeight-1, panelWidth, line, style)
}

func (t *Backend) drawLogs(startX, startY, panelWidth, termHeight int) {
	if panelWidth <= 0 || startY >= termHeight {
		return
	}

	availableHeight := termHeight - startY - 1
	if availableHeight <= 0 {
		return
	}

	allLogs := t.logBuffer.GetRecent(availableHeight * 2)
	logs := make([]render.LogEntry, 0, availableHeight)
	for _, entry := range allLogs {
		if entry.Level >= t.logLevel {
			logs = append(logs, entry)
			if len(logs) >= availableHeight {
				break
			}
		}
	}

	debugStyle := tcell.StyleDefault.Foreground(tcell.ColorGray)
	infoStyle := tcell.StyleDefault.Foreground(tcell.ColorBlue)
	warnStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow)
	errStyle := tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)

	for i, logEntry := range logs {
		style := infoStyle
		switch logEntry.Level {
		case slog.LevelDebug:
			style = debugStyle
		case slog.LevelWarn:
			style = warnStyle
		case slog.LevelError:
			style = errStyle
		}

		logText := render.FormatLogEntry(logEntry)
		if len(logText) > panelWidth && panelWidth > 3 {
			logText = logText[:panelWidth-3] + "..."
		}
		t.drawText(startX, startY+i, panelWidth, logText, style)
	}
}

// drawText writes s at (x, y), clipped to maxWidth cells.
func (t *Backend) drawText(x, y, maxWidth int, s string, style tcell.Style) {
	i := 0
	for _, ch := range s {
		if i >= maxWidth {
			return
		}
		t.screen.SetContent(x+i, y, ch, nil, style)
		i++
	}
}
