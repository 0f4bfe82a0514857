// Command bytebeat runs the interactive terminal bytebeat console: a
// live-editable integer expression compiled against a sample counter and
// played back in real time, with a scrolling scope and a small built-in
// song library.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/kajmany/bytebeat/internal/audio"
	"github.com/kajmany/bytebeat/internal/eventbus"
	"github.com/kajmany/bytebeat/internal/scope"
	"github.com/kajmany/bytebeat/internal/ui"
)

// Exit codes mirror the teacher's own convention of one code per failure
// class instead of a single generic non-zero status.
const (
	exitOK = iota
	exitBadFlags
	exitTerminalInit
	exitAudioInit
	exitWatchInit
	exitRuntime
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		logFile   string
		verbose   bool
		watchFile string
		interact  bool
	)

	root := &cobra.Command{
		Use:     "bytebeat",
		Short:   "interactive bytebeat synthesizer console",
		Version: "0.1.0",
		RunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&logFile, "log-file", "l", "", "write logs to this file instead of stderr")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug-level logging")
	root.PersistentFlags().StringVarP(&watchFile, "watch-file", "w", "", "reload the expression whenever this file changes")
	root.PersistentFlags().BoolVarP(&interact, "interactive", "i", true, "run the interactive console (default true)")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitBadFlags
	}

	log, closeLog, err := newLogger(logFile, verbose)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitBadFlags
	}
	defer closeLog()

	return runConsole(log, watchFile)
}

func newLogger(logFile string, verbose bool) (*slog.Logger, func(), error) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	var w *os.File = os.Stderr
	closeFn := func() {}
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		w = f
		closeFn = func() { f.Close() }
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if logFile == "" && a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	})
	return slog.New(handler), closeFn, nil
}

func runConsole(log *slog.Logger, watchFile string) int {
	screen, err := tcell.NewScreen()
	if err != nil {
		log.Error("terminal init failed", "err", err)
		return exitTerminalInit
	}
	if err := screen.Init(); err != nil {
		log.Error("terminal init failed", "err", err)
		return exitTerminalInit
	}
	defer screen.Fini()

	// 64000 samples is ~8s of history at the 8kHz evaluation rate.
	ring := scope.NewRing(64000)
	audioEvents := make(chan audio.Event, 16)
	backend, err := audio.New(log, ring, audioEvents)
	if err != nil {
		log.Error("audio init failed", "err", err)
		return exitAudioInit
	}

	var watcher *fsnotify.Watcher
	if watchFile != "" {
		watcher, err = fsnotify.NewWatcher()
		if err != nil {
			log.Error("file watch init failed", "err", err)
			return exitWatchInit
		}
		defer watcher.Close()
		if err := watcher.Add(watchFile); err != nil {
			log.Error("watching file failed", "err", err, "file", watchFile)
			return exitWatchInit
		}
	}

	hub := eventbus.New(log, screen, audioEvents, watcher)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	go backend.Run(ctx)
	go hub.Run(ctx)

	app := ui.New(backend.Commands(), ring)
	app.Draw(screen)

	for app.Running() {
		select {
		case <-ctx.Done():
			return exitOK
		case ev := <-hub.Out():
			applyEvent(app, ev, watchFile, log)
			app.Draw(screen)
		}
	}
	return exitOK
}

func applyEvent(app *ui.App, ev eventbus.Event, watchFile string, log *slog.Logger) {
	switch ev.Kind {
	case eventbus.KindTerm:
		if keyEv, ok := ev.Term.(*tcell.EventKey); ok {
			app.HandleKey(keyEv)
		}
	case eventbus.KindAudio:
		app.OnAudioEvent(ev.Audio)
	case eventbus.KindTick:
		// Scope redraw is driven by the Draw call after every event; the
		// tick's only job is to guarantee one happens even when nothing
		// else is.
	case eventbus.KindFileWatch:
		if ev.FileWatch.Op&fsnotify.Write == 0 {
			return
		}
		src, err := os.ReadFile(watchFile)
		if err != nil {
			log.Warn("reloading watched file failed", "err", err)
			return
		}
		app.Reload(string(src))
	}
}
