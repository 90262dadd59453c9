package shell

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/samber/lo"

	"spindle/internal/library"
	"spindle/internal/playback"
)

// listTracks renders tracks as a numbered table and remembers them as the
// listing that play/add/fav numbers refer to.
func (s *Shell) listTracks(tracks []library.Track) {
	s.listed = tracks
	if len(tracks) == 0 {
		fmt.Fprintln(s.out, "library is empty, try scan")
		return
	}

	w := table.NewWriter()
	w.SetOutputMirror(s.out)
	w.SetStyle(table.StyleLight)
	w.AppendHeader(table.Row{"#", "Title", "Artist", "Album", "Length"})
	w.SetColumnConfigs([]table.ColumnConfig{
		{Number: 5, Align: text.AlignRight},
	})
	for i, t := range tracks {
		w.AppendRow(table.Row{i + 1, t.Title, t.Artist, t.Album, formatDuration(trackDuration(t))})
	}
	w.Render()
}

func (s *Shell) renderAlbums(albums []library.Album) {
	if len(albums) == 0 {
		fmt.Fprintln(s.out, "no albums")
		return
	}

	w := table.NewWriter()
	w.SetOutputMirror(s.out)
	w.SetStyle(table.StyleLight)
	w.AppendHeader(table.Row{"#", "Album", "Artist", "Tracks", "Length"})
	w.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})
	for i, a := range albums {
		w.AppendRow(table.Row{i + 1, a.Album, a.Artist, a.TrackCount, formatDuration(time.Duration(a.DurationMs) * time.Millisecond)})
	}
	w.Render()
}

// printQueue shows the play order with a marker on the current track.
func (s *Shell) printQueue() {
	st := s.svc.State()
	tracks := s.svc.QueueTracks()
	if len(tracks) == 0 {
		fmt.Fprintln(s.out, "queue is empty")
		return
	}

	w := table.NewWriter()
	w.SetOutputMirror(s.out)
	w.SetStyle(table.StyleLight)
	w.AppendHeader(table.Row{"", "#", "Title", "Artist", "Length"})
	for i, t := range tracks {
		marker := ""
		if i == st.Cursor {
			marker = "▶"
		}
		w.AppendRow(table.Row{marker, i + 1, t.Title, t.Artist, formatDuration(trackDuration(t))})
	}
	w.Render()
	fmt.Fprintf(s.out, "repeat %s, shuffle %s\n",
		strings.ToLower(st.Repeat.String()), onOff(st.Shuffle))
}

// printStatus shows the transport line for the current track.
func (s *Shell) printStatus() {
	st := s.svc.State()
	if st.Current == nil {
		fmt.Fprintln(s.out, "nothing queued")
		return
	}

	var symbol string
	switch st.State {
	case playback.StatePlaying:
		symbol = "▶"
	case playback.StatePaused:
		symbol = "⏸"
	case playback.StateLoading:
		symbol = "…"
	default:
		symbol = "■"
	}

	fmt.Fprintf(s.out, "%s %s\n", symbol, trackLine(*st.Current))
	fmt.Fprintf(s.out, "  %s / %s  ·  track %d of %d  ·  repeat %s  ·  shuffle %s\n",
		formatDuration(st.Position),
		formatDuration(trackDuration(*st.Current)),
		st.Cursor+1, st.QueueLen,
		strings.ToLower(st.Repeat.String()), onOff(st.Shuffle))
	if st.LastError != "" {
		fmt.Fprintf(s.out, "  ! %s\n", st.LastError)
	}
}

// listByIDs resolves stored track ids and renders them, keeping the
// stored order and skipping ids whose files left the library.
func (s *Shell) listByIDs(ids []string, emptyMsg string) {
	if len(ids) == 0 {
		fmt.Fprintln(s.out, emptyMsg)
		return
	}
	found, err := s.store.TracksByIDs(ids)
	if err != nil {
		fmt.Fprintln(s.out, err)
		return
	}
	tracks := lo.FilterMap(ids, func(id string, _ int) (library.Track, bool) {
		t, ok := found[id]
		return t, ok
	})
	s.listTracks(tracks)
}

func trackLine(t library.Track) string {
	if t.Artist == "" {
		return t.Title
	}
	return t.Artist + " – " + t.Title
}

func trackDuration(t library.Track) time.Duration {
	return time.Duration(t.DurationMs) * time.Millisecond
}

// formatDuration renders m:ss, growing to h:mm:ss past an hour.
func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Round(time.Second).Seconds())
	h, m, sec := total/3600, total/60%60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, sec)
	}
	return fmt.Sprintf("%d:%02d", m, sec)
}

// formatTotal renders a library-scale duration like "2 days 4 hours".
func formatTotal(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	switch {
	case days > 0:
		return strconv.Itoa(days) + " days " + strconv.Itoa(hours) + " hours"
	case hours > 0:
		return strconv.Itoa(hours) + " hours " + strconv.Itoa(minutes) + " minutes"
	default:
		return strconv.Itoa(minutes) + " minutes"
	}
}
