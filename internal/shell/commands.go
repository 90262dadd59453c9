package shell

import (
	"fmt"
	"strings"

	"spindle/internal/errmsg"
	"spindle/internal/playback"
)

// dispatch runs one command line and reports whether the shell should exit.
func (s *Shell) dispatch(line string) bool {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "play", "p":
		s.cmdPlay(args)
	case "pause":
		s.fail(errmsg.OpPlaybackPause, s.svc.Pause())
	case "toggle", "t":
		s.fail(errmsg.OpPlaybackStart, s.svc.Toggle())
	case "stop":
		s.svc.Clear()
	case "next", "n":
		s.fail(errmsg.OpSkipNext, s.svc.Next())
	case "prev":
		s.fail(errmsg.OpSkipPrevious, s.svc.Previous())
	case "seek":
		s.cmdSeek(args)
	case "now":
		s.printStatus()
	case "queue", "q":
		s.printQueue()
	case "add":
		s.cmdAdd(args, -1)
	case "addnext":
		s.cmdAdd(args, 1)
	case "remove", "rm":
		s.cmdRemove(args)
	case "move", "mv":
		s.cmdMove(args)
	case "clear":
		s.svc.Clear()
	case "shuffle":
		s.cmdShuffle(args)
	case "repeat":
		s.cmdRepeat(args)
	case "tracks", "ls":
		s.cmdTracks()
	case "artists":
		s.cmdArtists()
	case "albums":
		s.cmdAlbums(args)
	case "album":
		s.cmdAlbum(args)
	case "search", "/":
		s.cmdSearch(args)
	case "scan":
		s.cmdScan()
	case "fav":
		s.cmdFav(args)
	case "favs":
		s.cmdFavs()
	case "recents":
		s.cmdRecents()
	case "stats":
		s.cmdStats()
	case "help", "?":
		s.printHelp()
	case "quit", "exit":
		return true
	default:
		fmt.Fprintf(s.out, "unknown command %q, try help\n", cmd)
	}
	return false
}

// fail prints an operation failure; nil errors print nothing.
func (s *Shell) fail(op errmsg.Op, err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(s.out, errmsg.Format(op, err))
}

// cmdPlay resumes playback, or with a listing number replaces the queue
// with the last listing and starts there.
func (s *Shell) cmdPlay(args []string) {
	if len(args) == 0 {
		s.fail(errmsg.OpPlaybackStart, s.svc.Play())
		return
	}
	idx, err := parseIndex(args[0], len(s.listed))
	if err != nil {
		fmt.Fprintln(s.out, err)
		return
	}
	s.fail(errmsg.OpQueueReplace, s.svc.ReplaceQueue(s.listed, idx))
}

func (s *Shell) cmdSeek(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(s.out, "usage: seek <m:ss | seconds | +s | -s>")
		return
	}
	target, err := parseSeekTarget(args[0], s.svc.State().Position)
	if err != nil {
		fmt.Fprintln(s.out, err)
		return
	}
	applied, err := s.svc.Seek(target)
	if err != nil {
		s.fail(errmsg.OpPlaybackSeek, err)
		return
	}
	fmt.Fprintf(s.out, "at %s\n", formatDuration(applied))
}

// cmdAdd enqueues a track from the last listing: at the queue end, or
// offset positions after the current track when offset is positive.
func (s *Shell) cmdAdd(args []string, offset int) {
	if len(args) != 1 {
		fmt.Fprintln(s.out, "usage: add <listing number>")
		return
	}
	idx, err := parseIndex(args[0], len(s.listed))
	if err != nil {
		fmt.Fprintln(s.out, err)
		return
	}
	track := s.listed[idx]
	if offset > 0 {
		s.fail(errmsg.OpQueueInsert, s.svc.EnqueueAt(track, offset))
		return
	}
	s.fail(errmsg.OpQueueAdd, s.svc.Enqueue(track))
}

func (s *Shell) cmdRemove(args []string) {
	queued := s.svc.QueueTracks()
	if len(args) != 1 {
		fmt.Fprintln(s.out, "usage: remove <queue number>")
		return
	}
	idx, err := parseIndex(args[0], len(queued))
	if err != nil {
		fmt.Fprintln(s.out, err)
		return
	}
	s.fail(errmsg.OpQueueRemove, s.svc.Remove(queued[idx].ID))
}

func (s *Shell) cmdMove(args []string) {
	if len(args) != 2 {
		fmt.Fprintln(s.out, "usage: move <from> <to>")
		return
	}
	n := s.svc.QueueLen()
	from, err := parseIndex(args[0], n)
	if err != nil {
		fmt.Fprintln(s.out, err)
		return
	}
	to, err := parseIndex(args[1], n)
	if err != nil {
		fmt.Fprintln(s.out, err)
		return
	}
	s.fail(errmsg.OpQueueMove, s.svc.Move(from, to))
}

func (s *Shell) cmdShuffle(args []string) {
	switch {
	case len(args) == 0:
		enabled := s.svc.ToggleShuffle()
		fmt.Fprintf(s.out, "shuffle %s\n", onOff(enabled))
	case args[0] == "on":
		s.svc.SetShuffle(true)
	case args[0] == "off":
		s.svc.SetShuffle(false)
	default:
		fmt.Fprintln(s.out, "usage: shuffle [on|off]")
	}
}

func (s *Shell) cmdRepeat(args []string) {
	if len(args) == 0 {
		mode := s.svc.CycleRepeatMode()
		fmt.Fprintf(s.out, "repeat %s\n", strings.ToLower(mode.String()))
		return
	}
	mode, ok := playback.ParseRepeatMode(args[0])
	if !ok {
		fmt.Fprintln(s.out, "usage: repeat [off|all|one]")
		return
	}
	s.svc.SetRepeatMode(mode)
}

func onOff(enabled bool) string {
	if enabled {
		return "on"
	}
	return "off"
}

func (s *Shell) printHelp() {
	fmt.Fprint(s.out, `playback
  play [n]        resume, or play entry n of the last listing
  pause / toggle  pause or flip playback
  next / prev     move through the queue
  seek <pos>      m:ss, plain seconds, or +s/-s relative
  stop            clear the queue and stop
  now             current track and transport state

queue
  queue           show the queue in play order
  add <n>         append listing entry n to the queue
  addnext <n>     queue listing entry n right after the current track
  remove <n>      drop queue entry n
  move <a> <b>    reorder the queue
  shuffle [on|off], repeat [off|all|one]

library
  tracks          list every track
  artists / albums [artist...] / album <n>
  search <words>  find tracks
  scan            rescan the source folders
  fav [n]         toggle favorite (current track without n)
  favs / recents  saved favorites, recent history
  stats           library totals
`)
}
