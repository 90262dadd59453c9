package shell

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"spindle/internal/errmsg"
)

func (s *Shell) cmdTracks() {
	tracks, err := s.store.Tracks()
	if err != nil {
		s.fail(errmsg.OpLibraryLoad, err)
		return
	}
	s.listTracks(tracks)
}

func (s *Shell) cmdArtists() {
	artists, err := s.store.Artists()
	if err != nil {
		s.fail(errmsg.OpLibraryLoad, err)
		return
	}
	for _, artist := range artists {
		fmt.Fprintln(s.out, artist)
	}
	fmt.Fprintf(s.out, "%d artists\n", len(artists))
}

func (s *Shell) cmdAlbums(args []string) {
	albums, err := s.store.Albums(strings.Join(args, " "))
	if err != nil {
		s.fail(errmsg.OpLibraryLoad, err)
		return
	}
	s.listedAlbums = albums
	s.renderAlbums(albums)
}

// cmdAlbum lists the tracks of entry n from the last albums listing.
func (s *Shell) cmdAlbum(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(s.out, "usage: album <albums listing number>")
		return
	}
	idx, err := parseIndex(args[0], len(s.listedAlbums))
	if err != nil {
		fmt.Fprintln(s.out, err)
		return
	}
	album := s.listedAlbums[idx]
	tracks, err := s.store.AlbumTracks(album.Artist, album.Album)
	if err != nil {
		s.fail(errmsg.OpLibraryLoad, err)
		return
	}
	s.listTracks(tracks)
}

func (s *Shell) cmdSearch(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(s.out, "usage: search <words>")
		return
	}
	tracks, err := s.store.SearchTracks(strings.Join(args, " "), 50)
	if err != nil {
		s.fail(errmsg.OpLibraryLoad, err)
		return
	}
	if len(tracks) == 0 {
		fmt.Fprintln(s.out, "no matches")
		return
	}
	s.listTracks(tracks)
}

func (s *Shell) cmdScan() {
	if len(s.sources) == 0 {
		fmt.Fprintln(s.out, "no library sources configured")
		return
	}
	fmt.Fprintf(s.out, "scanning %s\n", strings.Join(s.sources, ", "))
	stats, err := s.scanner.Refresh(s.sources)
	if err != nil {
		s.fail(errmsg.OpLibraryScan, err)
		return
	}
	fmt.Fprintf(s.out, "%d files seen: %d added, %d updated, %d removed in %s\n",
		stats.Scanned, stats.Added, stats.Updated, stats.Removed, stats.Elapsed.Round(time.Millisecond))
}

// cmdFav toggles the favorite flag: on the current track, or on a listing
// entry when given a number.
func (s *Shell) cmdFav(args []string) {
	var id, name string
	if len(args) == 0 {
		cur := s.svc.CurrentTrack()
		if cur == nil {
			fmt.Fprintln(s.out, "nothing is playing")
			return
		}
		id, name = cur.ID, cur.Title
	} else {
		idx, err := parseIndex(args[0], len(s.listed))
		if err != nil {
			fmt.Fprintln(s.out, err)
			return
		}
		id, name = s.listed[idx].ID, s.listed[idx].Title
	}

	on, err := s.states.ToggleFavorite(id)
	if err != nil {
		s.fail(errmsg.OpFavoriteToggle, err)
		return
	}
	if on {
		fmt.Fprintf(s.out, "♥ %s\n", name)
	} else {
		fmt.Fprintf(s.out, "unfavorited %s\n", name)
	}
}

func (s *Shell) cmdFavs() {
	ids, err := s.states.Favorites()
	if err != nil {
		s.fail(errmsg.OpFavoriteToggle, err)
		return
	}
	s.listByIDs(ids, "no favorites yet")
}

func (s *Shell) cmdRecents() {
	ids, err := s.states.RecentlyPlayed(20)
	if err != nil {
		s.fail(errmsg.OpRecentRecord, err)
		return
	}
	s.listByIDs(ids, "nothing played yet")
}

func (s *Shell) cmdStats() {
	count, err := s.store.TrackCount()
	if err != nil {
		s.fail(errmsg.OpLibraryLoad, err)
		return
	}
	total, err := s.store.TotalDurationMs()
	if err != nil {
		s.fail(errmsg.OpLibraryLoad, err)
		return
	}
	artists, err := s.store.Artists()
	if err != nil {
		s.fail(errmsg.OpLibraryLoad, err)
		return
	}
	favs, err := s.states.Favorites()
	if err != nil {
		s.fail(errmsg.OpFavoriteToggle, err)
		return
	}

	fmt.Fprintf(s.out, "%s tracks by %s artists, %s of music, %d favorites\n",
		humanize.Comma(int64(count)),
		humanize.Comma(int64(len(artists))),
		formatTotal(time.Duration(total)*time.Millisecond),
		len(favs))
	fmt.Fprintf(s.out, "state database: %s\n", s.states.Path())
}
