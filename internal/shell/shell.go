// Package shell is the interactive front end: a readline loop that drives
// the playback controller and the library from typed commands.
package shell

import (
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"

	"spindle/internal/library"
	"spindle/internal/playback"
	"spindle/internal/state"
)

// Shell owns the command loop. Listings remember their tracks so commands
// can address them by number (`play 3` plays the third track of the last
// listing).
type Shell struct {
	svc     playback.Service
	store   *library.Store
	scanner *library.Scanner
	states  *state.Manager
	sources []string

	out io.Writer

	listed       []library.Track // last track listing shown to the user
	listedAlbums []library.Album // last albums listing
}

func New(svc playback.Service, store *library.Store, scanner *library.Scanner, states *state.Manager, sources []string) *Shell {
	return &Shell{
		svc:     svc,
		store:   store,
		scanner: scanner,
		states:  states,
		sources: sources,
	}
}

// Run blocks on the command loop until quit or EOF.
func (s *Shell) Run() error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "spindle> ",
		HistoryFile:     "",
		AutoComplete:    completer(),
		InterruptPrompt: "^C",
		EOFPrompt:       "bye",
	})
	if err != nil {
		return fmt.Errorf("init readline: %w", err)
	}
	defer rl.Close()
	s.out = rl.Stdout()

	sub := s.svc.Subscribe()
	go s.watchPlayback(sub)

	for {
		line, err := rl.Readline()
		switch {
		case err == readline.ErrInterrupt:
			if len(line) == 0 {
				return nil
			}
			continue
		case err == io.EOF:
			return nil
		case err != nil:
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if quit := s.dispatch(line); quit {
			return nil
		}
	}
}

// watchPlayback announces track changes and failures between prompts. The
// readline writer repaints the prompt after asynchronous output.
func (s *Shell) watchPlayback(sub *playback.Subscription) {
	var lastID string
	var lastActive bool
	var lastError string
	for {
		select {
		case <-sub.Done:
			return
		case st := <-sub.States:
			id := ""
			if st.Current != nil {
				id = st.Current.ID
			}

			switch {
			case st.State == playback.StatePlaying && id != lastID:
				fmt.Fprintf(s.out, "▶ %s\n", trackLine(*st.Current))
				lastID = id
			case st.State == playback.StateStopped && lastActive:
				fmt.Fprintln(s.out, "■ playback stopped")
				lastID = ""
			}
			if st.LastError != "" && st.LastError != lastError {
				fmt.Fprintf(s.out, "! %s\n", st.LastError)
			}
			lastError = st.LastError
			lastActive = st.State.IsActive()
		}
	}
}

func completer() readline.AutoCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem("play"),
		readline.PcItem("pause"),
		readline.PcItem("toggle"),
		readline.PcItem("stop"),
		readline.PcItem("next"),
		readline.PcItem("prev"),
		readline.PcItem("seek"),
		readline.PcItem("now"),
		readline.PcItem("queue"),
		readline.PcItem("add"),
		readline.PcItem("addnext"),
		readline.PcItem("remove"),
		readline.PcItem("move"),
		readline.PcItem("clear"),
		readline.PcItem("shuffle", readline.PcItem("on"), readline.PcItem("off")),
		readline.PcItem("repeat", readline.PcItem("off"), readline.PcItem("all"), readline.PcItem("one")),
		readline.PcItem("tracks"),
		readline.PcItem("artists"),
		readline.PcItem("albums"),
		readline.PcItem("album"),
		readline.PcItem("search"),
		readline.PcItem("scan"),
		readline.PcItem("fav"),
		readline.PcItem("favs"),
		readline.PcItem("recents"),
		readline.PcItem("stats"),
		readline.PcItem("help"),
		readline.PcItem("quit"),
	)
}
