package terminal

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/valerio/go-camrate/camrate/backend"
	"github.com/valerio/go-camrate/camrate/backend/terminal/render"
	"github.com/valerio/go-camrate/camrate/debug"
	"github.com/valerio/go-camrate/camrate/display"
	"github.com/valerio/go-camrate/camrate/input"
	"github.com/valerio/go-camrate/camrate/input/action"
	"github.com/valerio/go-camrate/camrate/input/event"
	"github.com/valerio/go-camrate/camrate/video"
)

// Backend implements the Backend interface using tcell for terminal rendering
type Backend struct {
	screen    tcell.Screen
	running   bool
	logBuffer *render.LogBuffer
	logLevel  *slog.LevelVar
	config    backend.BackendConfig

	mu         sync.Mutex
	eventQueue []backend.InputEvent // Collect events to return
	signals    chan os.Signal

	// Stored for snapshot generation
	currentFrame *backend.Frame
}

// New creates a new terminal backend
func New() *Backend {
	return &Backend{}
}

// NewWithScreen creates a terminal backend drawing to screen, used with
// tcell's simulation screen in tests.
func NewWithScreen(screen tcell.Screen) *Backend {
	return &Backend{screen: screen}
}

// Init initializes the terminal backend
func (t *Backend) Init(config backend.BackendConfig) error {
	t.config = config
	t.eventQueue = make([]backend.InputEvent, 0)

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

	// Capture logs into the log pane instead of stderr
	t.logBuffer = render.NewLogBuffer(100)
	t.logLevel = new(slog.LevelVar)
	t.logLevel.Set(config.LogLevel)
	slog.SetDefault(slog.New(render.NewLogBufferHandler(t.logBuffer, t.logLevel)))

	slog.Info("Terminal backend initialized", "title", config.Title)

	t.screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	t.screen.Clear()

	// Set up signal handling for graceful shutdown
	t.signals = make(chan os.Signal, 1)
	signal.Notify(t.signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	go t.handleSignals(t.signals)

	return nil
}

// Update renders a frame and returns the input collected since the last call
func (t *Backend) Update(frame *backend.Frame) ([]backend.InputEvent, error) {
	for t.screen.HasPendingEvent() {
		switch ev := t.screen.PollEvent().(type) {
		case *tcell.EventKey:
			t.processKeyEvent(ev)
		case *tcell.EventResize:
			t.screen.Sync()
		}
	}

	t.mu.Lock()
	events := t.eventQueue
	t.eventQueue = nil
	t.mu.Unlock()

	for _, evt := range events {
		slog.Debug("UI event", "action", action.GetInfo(evt.Action).Description, "type", evt.Type)
	}

	if !t.running {
		return events, nil
	}

	t.currentFrame = frame
	t.render(frame)
	t.screen.Show()

	return events, nil
}

// Cleanup cleans up terminal resources
func (t *Backend) Cleanup() error {
	if t.signals != nil {
		signal.Stop(t.signals)
		close(t.signals)
		t.signals = nil
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
	case action.EngineSnapshot:
		if t.currentFrame == nil {
			slog.Warn("No frame data available for snapshot")
			return
		}
		name := "camera"
		if cam, ok := t.currentFrame.SelectedCamera(); ok {
			name = cam.Name
		}
		debug.TakeSnapshot(t.currentFrame.Preview, name)
	case action.DebugLogLevelIncrease:
		t.changeLogLevel(1)
	case action.DebugLogLevelDecrease:
		t.changeLogLevel(-1)
	}
}

// LogLevel returns the level the log pane currently shows.
func (t *Backend) LogLevel() slog.Level {
	return t.logLevel.Level()
}

func (t *Backend) handleSignals(signals <-chan os.Signal) {
	if _, ok := <-signals; !ok {
		return
	}
	t.queue(backend.InputEvent{Action: action.EngineQuit, Type: event.Press})
}

func (t *Backend) queue(evt backend.InputEvent) {
	t.mu.Lock()
	t.eventQueue = append(t.eventQueue, evt)
	t.mu.Unlock()
}

func (t *Backend) processKeyEvent(ev *tcell.EventKey) {
	act, ok := keyMapping[ev.Key()]
	if !ok && ev.Key() == tcell.KeyRune {
		act, ok = runeMapping[ev.Rune()]
	}
	if !ok {
		return
	}

	if act == action.EngineQuit {
		t.running = false
	}
	t.queue(backend.InputEvent{Action: act, Type: event.Press})
}

// tcellKeyNameMap converts tcell keys to key names used in default mappings
var tcellKeyNameMap = map[tcell.Key]string{
	tcell.KeyUp:     "Up",
	tcell.KeyDown:   "Down",
	tcell.KeyRight:  "Right",
	tcell.KeyTab:    "Tab",
	tcell.KeyEscape: "Escape",
	tcell.KeyF9:     "F9",
}

// buildKeyMapping creates the key mapping from default mappings
func buildKeyMapping() map[tcell.Key]action.Action {
	mapping := make(map[tcell.Key]action.Action)

	for key, keyName := range tcellKeyNameMap {
		if act, ok := input.GetDefaultMapping(keyName); ok {
			mapping[key] = act
		}
	}

	mapping[tcell.KeyCtrlC] = action.EngineQuit

	return mapping
}

// buildRuneMapping creates the rune mapping from single-character default mappings
func buildRuneMapping() map[rune]action.Action {
	mapping := make(map[rune]action.Action)

	for keyName, act := range input.DefaultKeyMap {
		runes := []rune(keyName)
		if len(runes) == 1 {
			mapping[runes[0]] = act
		}
	}
	mapping[' '] = action.EnginePauseToggle

	return mapping
}

// keyMapping maps tcell keys to actions
var keyMapping = buildKeyMapping()

// runeMapping maps runes to actions
var runeMapping = buildRuneMapping()

func (t *Backend) changeLogLevel(direction int) {
	oldLevel := t.logLevel.Level()
	newLevel := oldLevel
	switch direction {
	case -1:
		switch oldLevel {
		case slog.LevelDebug:
			newLevel = slog.LevelInfo
		case slog.LevelInfo:
			newLevel = slog.LevelWarn
		case slog.LevelWarn:
			newLevel = slog.LevelError
		}
	case 1:
		switch oldLevel {
		case slog.LevelError:
			newLevel = slog.LevelWarn
		case slog.LevelWarn:
			newLevel = slog.LevelInfo
		case slog.LevelInfo:
			newLevel = slog.LevelDebug
		}
	}
	if oldLevel != newLevel {
		t.logLevel.Set(newLevel)
		slog.Warn("Log filter changed", "from", oldLevel, "to", newLevel)
	}
}

func (t *Backend) render(frame *backend.Frame) {
	termWidth, termHeight := t.screen.Size()
	t.screen.Clear()

	if termWidth < display.MinTermWidth || termHeight < display.MinTermHeight {
		style := tcell.StyleDefault.Foreground(tcell.ColorRed)
		msg := fmt.Sprintf("Terminal too small! Need at least %dx%d", display.MinTermWidth, display.MinTermHeight)
		t.drawText(0, termHeight/2, termWidth, msg, style)
		return
	}

	previewRows := termHeight - display.LogPaneHeight - 3
	previewCols := termWidth / 2
	if previewCols > display.PreviewMaxWidth {
		previewCols = display.PreviewMaxWidth
	}

	usedCols := t.drawPreview(frame, 0, 1, previewCols, previewRows)
	tableX := usedCols + display.TablePadding

	t.drawTitle(frame, termWidth)
	t.drawTable(frame, tableX, 1, termWidth-tableX)
	t.drawLogs(0, termHeight-display.LogPaneHeight-1, termWidth, display.LogPaneHeight)
	t.drawHelp(termWidth, termHeight)
}

func (t *Backend) drawTitle(frame *backend.Frame, termWidth int) {
	titleStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow)

	state := "running"
	if frame.Paused {
		state = "paused"
	}
	title := fmt.Sprintf(" %s | tick %d | t=%.2fs | %s ", t.config.Title, frame.Tick, frame.Time, state)
	t.drawText(0, 0, termWidth, title, titleStyle)
}

// drawPreview draws the selected camera's target with half-block characters
// and returns the number of columns used.
func (t *Backend) drawPreview(frame *backend.Frame, x0, y0, maxCols, maxRows int) int {
	fb := frame.Preview
	if fb == nil || maxCols <= 0 || maxRows <= 0 {
		return 0
	}

	w, h := int(fb.Width()), int(fb.Height())
	step := render.SampleStep(w, maxCols)
	if rowStep := render.SampleStep(h, maxRows*2); rowStep > step {
		step = rowStep
	}

	cols := 0
	for y := 0; y < h; y += 2 * step {
		row := y0 + y/(2*step)
		if row >= y0+maxRows {
			break
		}
		for x, col := 0, 0; x < w; x, col = x+step, col+1 {
			top := fb.GetPixel(uint(x), uint(y))
			bottom := uint32(video.WhiteColor)
			if y+step < h {
				bottom = fb.GetPixel(uint(x), uint(y+step))
			}

			char, fg, bg := getHalfBlockChar(render.PixelToShade(top), render.PixelToShade(bottom))
			t.screen.SetContent(x0+col, row, char, nil, tcell.StyleDefault.Foreground(fg).Background(bg))
			if col+1 > cols {
				cols = col + 1
			}
		}
	}
	return cols
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

	if topShade == bottomShade {
		return char, topColor, tcell.ColorDefault
	} else if topShade == 3 {
		return char, bottomColor, topColor
	}
	return char, topColor, bottomColor
}

func (t *Backend) drawTable(frame *backend.Frame, x, y, width int) {
	headerStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	rowStyle := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	selectedStyle := tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorSilver)

	t.drawText(x, y, width, fmt.Sprintf("%-12s %6s %-10s %-5s %8s %7s", "camera", "rate", "mode", "gate", "renders", "fps"), headerStyle)

	for i, cam := range frame.Cameras {
		rate := fmt.Sprintf("%d", cam.TargetRate)
		if cam.TargetRate <= 0 {
			rate = "max"
		}
		mode := "continuous"
		if cam.RequestMode {
			mode = "request"
		}
		gate := "off"
		if cam.GateActive {
			gate = "on"
		}

		line := fmt.Sprintf("%-12s %6s %-10s %-5s %8d %7.1f", cam.Name, rate, mode, gate, cam.Renders, cam.FPS)
		style := rowStyle
		if i == frame.Selected {
			style = selectedStyle
		}
		t.drawText(x, y+1+i, width, line, style)
	}
}

func (t *Backend) drawLogs(x, y, width, height int) {
	borderStyle := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	for i := 0; i < width; i++ {
		t.screen.SetContent(x+i, y, '─', nil, borderStyle)
	}
	t.drawText(x+2, y, width-2, fmt.Sprintf(" Logs [%s] (-/+ filter) ", t.logLevel.Level()), tcell.StyleDefault.Foreground(tcell.ColorYellow))

	debugStyle := tcell.StyleDefault.Foreground(tcell.ColorGray)
	infoStyle := tcell.StyleDefault.Foreground(tcell.ColorBlue)
	warnStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow)
	errStyle := tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)

	for i, entry := range t.logBuffer.GetRecent(height) {
		style := infoStyle
		switch {
		case entry.Level >= slog.LevelError:
			style = errStyle
		case entry.Level >= slog.LevelWarn:
			style = warnStyle
		case entry.Level < slog.LevelInfo:
			style = debugStyle
		}
		t.drawText(x, y+1+i, width, render.FormatLogEntry(entry), style)
	}
}

func (t *Backend) drawHelp(termWidth, termHeight int) {
	helpText := " ↑/↓ rate  0 unthrottle  TAB camera  G gate  C scene  SPACE pause  N step  F9 snapshot  Q quit "
	t.drawText(0, termHeight-1, termWidth, helpText, tcell.StyleDefault.Foreground(tcell.ColorWhite))
}

func (t *Backend) drawText(x, y, width int, text string, style tcell.Style) {
	col := 0
	for _, ch := range text {
		if col >= width {
			break
		}
		t.screen.SetContent(x+col, y, ch, nil, style)
		col++
	}
}

var _ backend.Backend = (*Backend)(nil)
