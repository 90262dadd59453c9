package library

// Album summarizes one album in the library, aggregated from its tracks.
type Album struct {
	Artist     string
	Album      string
	TrackCount int
	DurationMs int64
	AddedAt    int64 // unix time the first track appeared
}
