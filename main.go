// Package main provides the entry point for the display monitor application.
package main

import (
	"flag"
	"os"
	"time"

	fyneapp "fyne.io/fyne/v2/app"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"display-monitor/internal/app"
	"display-monitor/internal/config"
	"display-monitor/internal/version"
	"display-monitor/ui/mainwindow"
	"display-monitor/ui/prefs"
)

func main() {
	displayPath := flag.String("config", config.DefaultDisplayPath, "display layout file")
	monitorPath := flag.String("monitor-config", config.DefaultMonitorPath, "monitor parameter file")
	debug := flag.Bool("debug", false, "enable debug logging")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		os.Stdout.WriteString(version.String() + "\n")
		return
	}

	level := zerolog.InfoLevel
	if *debug {
		level = zerolog.DebugLevel
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(level).
		With().Timestamp().Logger()

	log.Info().Str("version", version.Version).Msg("starting display monitor")

	state := app.NewState()

	params, err := config.LoadMonitorParams(*monitorPath)
	if err != nil {
		log.Warn().Err(err).Str("path", *monitorPath).Msg("using default monitor parameters")
	}
	state.Params = params

	if err := state.LoadConfig(*displayPath); err != nil {
		log.Warn().Err(err).Str("path", *displayPath).Msg("starting with empty layout")
	}

	fyneApp := fyneapp.NewWithID("display-monitor")
	fyneApp.Settings().SetTheme(&app.MonitorTheme{})

	appPrefs := prefs.Load()
	win := mainwindow.New(fyneApp, state, appPrefs)

	setupConfigWatch(state)

	win.Show()
	fyneApp.Run()
}

// setupConfigWatch reloads the layout when the file changes on disk, so
// edits made outside the application show up without a restart.
func setupConfigWatch(state *app.State) {
	watcher := app.NewConfigWatcher(state.ConfigPath, 2*time.Second)
	watcher.OnChanged(func() {
		log.Info().Str("path", watcher.Path()).Msg("layout changed on disk, reloading")
		if err := state.LoadConfig(watcher.Path()); err != nil {
			log.Warn().Err(err).Msg("reload failed")
		}
	})
	state.On(app.EventConfigSaved, func(interface{}) {
		watcher.ResetBaseline()
	})
	watcher.Start()
}
