// Package main is the entry point for the quill editor.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/quillpad/quill/internal/app"
	"github.com/quillpad/quill/internal/config"
	"github.com/quillpad/quill/internal/config/watcher"
	"github.com/quillpad/quill/internal/engine/buffer"
	"github.com/quillpad/quill/internal/renderer"
	"github.com/quillpad/quill/internal/renderer/backend"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		configPath  = flag.String("config", defaultConfigPath(), "path to config file")
		logLevel    = flag.String("log-level", "", "override log level (debug|info|warn|error)")
		showVersion = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("quill %s (%s)\n", version, commit)
		return 0
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
		cfg.Normalize()
	}

	log := newLogger(cfg)
	session := app.NewSession(cfg, log)

	if path := flag.Arg(0); path != "" {
		if err := session.OpenFile(path); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				return 1
			}
			// New file: keep the path so Ctrl-S creates it.
			session.NewDocument()
			if err := session.SaveAs(path); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				return 1
			}
		}
	}

	term, err := backend.NewTerminal()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: creating screen: %v\n", err)
		return 1
	}
	if err := term.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: initializing screen: %v\n", err)
		return 1
	}
	defer term.Fini()

	cfgWatch := startConfigWatcher(*configPath, log)
	if cfgWatch != nil {
		defer cfgWatch.Close()
	}

	ed := &editor{
		session:    session,
		term:       term,
		view:       renderer.NewView(term, cfg.Editor.TabWidth),
		log:        log,
		configPath: *configPath,
		cfgWatch:   cfgWatch,
	}
	return ed.loop()
}

// newLogger builds the logger from config. With no log file configured the
// logger is disabled: the terminal UI owns the screen.
func newLogger(cfg *config.Config) *app.Logger {
	level := app.ParseLogLevel(cfg.Logging.Level)
	if cfg.Logging.File == "" {
		log := app.NewLogger(level, nil)
		log.Disable()
		return log
	}
	f, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log := app.NewLogger(level, nil)
		log.Disable()
		return log
	}
	return app.NewLogger(level, f)
}

// startConfigWatcher watches the config file for live reload.
// Failure to watch is not fatal.
func startConfigWatcher(path string, log *app.Logger) *watcher.Watcher {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	w, err := watcher.New()
	if err != nil {
		log.Warn("config watcher unavailable: %v", err)
		return nil
	}
	if err := w.Watch(path); err != nil {
		log.Warn("cannot watch %s: %v", path, err)
		_ = w.Close()
		return nil
	}
	return w
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return dir + "/quill/quill.toml"
}

// editor drives the synchronous input loop: one event in, one frame out.
type editor struct {
	session    *app.Session
	term       *backend.Terminal
	view       *renderer.View
	log        *app.Logger
	configPath string
	cfgWatch   *watcher.Watcher

	// Bracketed paste: runes arriving between paste markers are buffered
	// and inserted as one unit.
	pasting  bool
	pasteBuf strings.Builder

	quit bool
}

func (e *editor) loop() int {
	// The engine owns no timer: a ticker posts interrupts so the loop can
	// poll the idle clock and the config watcher between keystrokes.
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		ticker := time.NewTicker(250 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				_ = e.term.PostEvent(tcell.NewEventInterrupt(nil))
			}
		}
	}()

	for !e.quit {
		e.draw()

		switch ev := e.term.PollEvent().(type) {
		case *tcell.EventKey:
			e.handleKey(ev)
		case *tcell.EventPaste:
			e.handlePaste(ev)
		case *tcell.EventResize:
			// Redrawn at the top of the loop.
		case *tcell.EventInterrupt:
			e.session.Tick(time.Now())
			e.pollConfig()
		case nil:
			return 0
		}
	}
	return 0
}

// pollConfig applies a reloaded config file if the watcher saw a change.
func (e *editor) pollConfig() {
	if e.cfgWatch == nil {
		return
	}
	select {
	case _, ok := <-e.cfgWatch.Events():
		if !ok {
			return
		}
		cfg, err := config.Load(e.configPath)
		if err != nil {
			e.log.Warn("config reload failed: %v", err)
			return
		}
		e.session.ApplyConfig(cfg)
	default:
	}
}

func (e *editor) draw() {
	buf := e.session.Buffer()
	p := buf.CursorPoint()

	name := e.session.Path()
	if name == "" {
		name = "[untitled]"
	}
	dirty := ""
	if e.session.Dirty() {
		dirty = " [+]"
	}
	undo := ""
	if buf.CanUndo() {
		undo = " u"
	}
	if buf.CanRedo() {
		undo += " r"
	}
	status := fmt.Sprintf(" %s%s  %d:%d%s", name, dirty, p.Line+1, p.Column+1, undo)

	e.view.Draw(buf, status)
}

// handlePaste toggles bracketed-paste buffering. On the end marker the
// buffered text is inserted in one shot.
func (e *editor) handlePaste(ev *tcell.EventPaste) {
	if ev.Start() {
		e.pasting = true
		e.pasteBuf.Reset()
		return
	}
	e.pasting = false
	if text := e.pasteBuf.String(); text != "" {
		e.session.Insert(text, time.Now())
	}
	e.pasteBuf.Reset()
}

func (e *editor) handleKey(ev *tcell.EventKey) {
	now := time.Now()
	buf := e.session.Buffer()
	shift := ev.Modifiers()&tcell.ModShift != 0
	word := ev.Modifiers()&(tcell.ModCtrl|tcell.ModAlt) != 0

	switch ev.Key() {
	case tcell.KeyCtrlQ:
		e.quit = true
	case tcell.KeyCtrlS:
		if err := e.session.Save(); err != nil {
			e.log.Error("save failed: %v", err)
		}
	case tcell.KeyCtrlZ:
		e.session.Undo(now)
	case tcell.KeyCtrlY:
		e.session.Redo(now)
	case tcell.KeyCtrlA:
		buf.SelectAll()
	case tcell.KeyCtrlC:
		e.session.Copy()
	case tcell.KeyCtrlX:
		e.session.Cut(now)
	case tcell.KeyCtrlV:
		e.session.Paste(now)

	case tcell.KeyRune:
		if e.pasting {
			e.pasteBuf.WriteRune(ev.Rune())
			return
		}
		e.session.Insert(string(ev.Rune()), now)
	case tcell.KeyEnter:
		if e.pasting {
			e.pasteBuf.WriteByte('\n')
			return
		}
		e.session.Insert("\n", now)
	case tcell.KeyTab:
		if e.pasting {
			e.pasteBuf.WriteByte('\t')
			return
		}
		e.session.Insert("\t", now)
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		e.session.Backspace(word, now)
	case tcell.KeyDelete:
		e.session.Delete(word, now)

	case tcell.KeyLeft:
		e.move(shift, func() {
			if word {
				buf.MoveToWordStart()
			} else {
				buf.MoveCursor(-1)
			}
		})
	case tcell.KeyRight:
		e.move(shift, func() {
			if word {
				buf.MoveToWordEnd()
			} else {
				buf.MoveCursor(1)
			}
		})
	case tcell.KeyUp:
		e.move(shift, func() { e.moveLine(-1) })
	case tcell.KeyDown:
		e.move(shift, func() { e.moveLine(1) })
	case tcell.KeyHome:
		e.move(shift, func() {
			p := buf.CursorPoint()
			buf.SetCursor(buf.PointToOffset(buffer.Point{Line: p.Line}))
		})
	case tcell.KeyEnd:
		e.move(shift, func() {
			p := buf.CursorPoint()
			buf.SetCursor(buf.PointToOffset(buffer.Point{Line: p.Line, Column: buf.Len()}))
		})
	}
}

// move runs a cursor motion, maintaining the selection when extend is on
// and clearing it otherwise.
func (e *editor) move(extend bool, motion func()) {
	buf := e.session.Buffer()
	if extend {
		if !buf.IsSelecting() {
			buf.StartSelection()
		}
		motion()
		buf.UpdateSelection()
		return
	}
	buf.ClearSelection()
	motion()
}

// moveLine moves the cursor vertically, clamping the column to the target
// line's length.
func (e *editor) moveLine(delta int) {
	buf := e.session.Buffer()
	p := buf.CursorPoint()
	buf.SetCursor(buf.PointToOffset(buffer.Point{Line: p.Line + delta, Column: p.Column}))
}
