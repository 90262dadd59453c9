package main

import (
	"fmt"
	"os"

	"spindle/internal/config"
	"spindle/internal/errmsg"
	"spindle/internal/library"
	"spindle/internal/logging"
	"spindle/internal/playback"
	"spindle/internal/shell"
	"spindle/internal/sink"
	"spindle/internal/state"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return errmsg.Error(errmsg.OpConfigLoad, err)
	}

	logCfg := cfg.GetLogConfig()
	log := logging.New(logging.ConfigFromEnv(logCfg.Level, logCfg.Format))

	states, err := state.Open(cfg.StatePath, log)
	if err != nil {
		return errmsg.Error(errmsg.OpStateOpen, err)
	}
	defer states.Close()

	store := library.NewStore(states.DB())

	scanCfg := cfg.GetScanConfig()
	scanner := library.NewScanner(store, log, scanCfg.Workers)

	if len(cfg.LibrarySources) == 0 {
		log.Warn("no library sources configured, add library_sources to config.toml")
	} else {
		// Refresh before restoring playback so the saved queue resolves
		// against current library contents. Incremental, so cheap when
		// nothing changed on disk.
		if _, err := scanner.Refresh(cfg.LibrarySources); err != nil {
			log.Warn("startup library scan failed", "error", err)
		}
		if *scanCfg.Watch {
			w, err := library.NewWatcher(scanner, cfg.LibrarySources, log)
			if err != nil {
				log.Warn("library watching unavailable", "error", err)
			} else {
				defer w.Close()
			}
		}
	}

	snk, err := sink.New(cfg.Backend(), log)
	if err != nil {
		return errmsg.Error(errmsg.OpInitialize, err)
	}
	defer snk.Close()

	svc := playback.New(snk, store, states, states, log)
	defer svc.Close()

	return shell.New(svc, store, scanner, states, cfg.LibrarySources).Run()
}
