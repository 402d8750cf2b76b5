// Package app wires the editor, the terminal playground, commands and
// plugins together and runs the main loop.
package app

import (
	"errors"
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"

	"github.com/bethropolis/folio/internal/commands"
	"github.com/bethropolis/folio/internal/config"
	"github.com/bethropolis/folio/internal/core"
	"github.com/bethropolis/folio/internal/event"
	"github.com/bethropolis/folio/internal/input"
	"github.com/bethropolis/folio/internal/logger"
	"github.com/bethropolis/folio/internal/modehandler"
	"github.com/bethropolis/folio/internal/plugin"
	"github.com/bethropolis/folio/internal/policy"
	"github.com/bethropolis/folio/internal/statusbar"
	"github.com/bethropolis/folio/internal/theme"
	"github.com/bethropolis/folio/internal/tui"
)

// taskQueueSize bounds the functions plugins may schedule ahead of the UI.
const taskQueueSize = 64

// Options configure an App.
type Options struct {
	Config   *config.Config
	FilePath string
	// Screen replaces the terminal, e.g. with a simulation screen.
	Screen tcell.Screen
	// ThemesDir holds user themes; empty uses the default location.
	ThemesDir string
	// Headless skips the terminal entirely (scripted mode).
	Headless bool
}

// App encapsulates the core components and main loop of the editor.
type App struct {
	cfg           *config.Config
	tuiManager    *tui.TUI
	editor        *core.Editor
	statusBar     *statusbar.StatusBar
	eventManager  *event.Manager
	pluginManager *plugin.Manager
	modeHandler   *modehandler.ModeHandler
	themeManager  *theme.Manager
	editorAPI     *appEditorAPI

	quit          chan struct{}
	redrawRequest chan struct{}
	tasks         chan func()
	tcellEvents   chan tcell.Event
	unsubscribe   []func()
}

// NewApp creates and initializes a new application instance.
func NewApp(opts Options) (*App, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.NewDefaultConfig()
	}

	eventManager := event.NewManager()
	caps := policy.Default(cfg.Policy)
	editor := core.NewEditor(caps, eventManager, core.Options{
		MaxIterations:   cfg.Editor.MaxIterations,
		MaxSteps:        cfg.Editor.MaxSteps,
		SystemClipboard: cfg.Editor.SystemClipboard,
	})

	themesDir := opts.ThemesDir
	if themesDir == "" && !opts.Headless {
		themesDir = theme.DefaultDir(config.AppName)
	}
	themeManager := theme.NewManager(themesDir)
	if cfg.Editor.Theme != "" {
		if err := themeManager.SetTheme(cfg.Editor.Theme); err != nil {
			logger.Warnf("App: %v, keeping %s", err, themeManager.Current().Name)
		}
	}

	quitChan := make(chan struct{})
	statusBar := statusbar.New(config.MessageTimeout)
	a := &App{
		cfg:           cfg,
		editor:        editor,
		statusBar:     statusBar,
		eventManager:  eventManager,
		pluginManager: plugin.NewManager(),
		themeManager:  themeManager,
		quit:          quitChan,
		redrawRequest: make(chan struct{}, 1),
		tasks:         make(chan func(), taskQueueSize),
		tcellEvents:   make(chan tcell.Event),
	}
	a.modeHandler = modehandler.New(modehandler.Config{
		Editor:         editor,
		InputProcessor: input.NewInputProcessor(),
		EventManager:   eventManager,
		StatusBar:      statusBar,
		QuitSignal:     quitChan,
	})
	a.editorAPI = newEditorAPI(a)

	if !opts.Headless {
		var err error
		if opts.Screen != nil {
			a.tuiManager, err = tui.NewWithScreen(opts.Screen, themeManager.Current())
		} else {
			a.tuiManager, err = tui.New(themeManager.Current())
		}
		if err != nil {
			return nil, fmt.Errorf("TUI initialization failed: %w", err)
		}
	}

	a.subscribeEvents()
	commands.RegisterAppCommands(a.modeHandler, a.editorAPI)
	if err := registerPlugins(a.pluginManager); err != nil {
		logger.Warnf("App: %v", err)
	}
	if err := a.pluginManager.InitializePlugins(a.editorAPI); err != nil {
		logger.Warnf("App: %v", err)
	}

	if opts.FilePath != "" {
		if err := a.open(opts.FilePath); err != nil {
			a.Close()
			return nil, err
		}
	}
	return a, nil
}

// open loads path. A missing file starts an empty document saved there.
func (a *App) open(path string) error {
	err := a.editor.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		logger.Infof("App: %s does not exist, starting a new document", path)
		a.editor.SetFilePath(path)
		return nil
	}
	return err
}

// Close shuts plugins down and releases the terminal.
func (a *App) Close() {
	a.pluginManager.ShutdownPlugins()
	for _, unsub := range a.unsubscribe {
		unsub()
	}
	a.unsubscribe = nil
	if a.tuiManager != nil {
		a.tuiManager.Close()
	}
}

// Run starts the application's main event and drawing loops. It returns
// once a quit is requested.
func (a *App) Run() error {
	if a.tuiManager == nil {
		return errors.New("run: no terminal")
	}
	defer a.Close()

	go a.eventLoop()

	a.eventManager.Dispatch(event.TypeAppReady, event.AppReadyData{})
	a.statusBar.SetTemporaryMessage("folio - Ctrl+S Save | : Command | ESC Quit")
	a.drawEditor()

	for {
		select {
		case <-a.quit:
			a.eventManager.Dispatch(event.TypeAppQuit, event.AppQuitData{})
			if a.editor.IsModified() {
				logger.Warnf("Exited with unsaved changes.")
			}
			logger.Infof("Exiting application.")
			return nil
		case ev := <-a.tcellEvents:
			if a.handleEvent(ev) {
				a.drawEditor()
			}
		case fn := <-a.tasks:
			fn()
			a.drawEditor()
		case <-a.redrawRequest:
			a.drawEditor()
		}
	}
}

// eventLoop forwards terminal events to the main loop, which owns the
// document.
func (a *App) eventLoop() {
	for {
		ev := a.tuiManager.PollEvent()
		if ev == nil {
			return
		}
		select {
		case a.tcellEvents <- ev:
		case <-a.quit:
			return
		}
	}
}

// handleEvent applies one terminal event and reports whether to redraw.
func (a *App) handleEvent(ev tcell.Event) bool {
	switch eventData := ev.(type) {
	case *tcell.EventResize:
		a.tuiManager.GetScreen().Sync()
		return true
	case *tcell.EventKey:
		return a.modeHandler.HandleKeyEvent(eventData)
	}
	return false
}

// schedule queues fn for the main loop. It gives up once the app quits.
func (a *App) schedule(fn func()) {
	select {
	case a.tasks <- fn:
	case <-a.quit:
	}
}

// runPendingTasks runs queued functions without blocking.
func (a *App) runPendingTasks() {
	for {
		select {
		case fn := <-a.tasks:
			fn()
		default:
			return
		}
	}
}

// requestRedraw sends a redraw signal non-blockingly.
func (a *App) requestRedraw() {
	select {
	case a.redrawRequest <- struct{}{}:
	default:
	}
}

// Editor returns the editor.
func (a *App) Editor() *core.Editor {
	return a.editor
}
