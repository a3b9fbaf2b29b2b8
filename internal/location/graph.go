package location

import "time"

// PreloadLinked starts preparing the video of every linked video location
// that is neither prepared nor already preparing. It returns the number of
// prepare requests issued, so repeated calls issue none.
func (l *Location) PreloadLinked() int {
	n := 0
	for _, e := range l.edges {
		t := e.Target
		if t == nil || !t.Kind.IsVideo() || t.player == nil {
			continue
		}
		if t.player.IsPrepared() || t.player.IsPreparing() {
			continue
		}
		t.player.Prepare()
		n++
	}
	return n
}

// UnloadLinked releases the videos the player did not jump to.
//
// Linked video targets other than next are stopped. l's own video is paused
// and rewound when next links back to l, so a return trip skips the decoder
// restart; otherwise it is stopped.
func (l *Location) UnloadLinked(next *Location) {
	for _, e := range l.edges {
		t := e.Target
		if t == nil || t == next || !t.Kind.IsVideo() || t.player == nil {
			continue
		}
		t.player.Stop()
	}

	if !l.Kind.IsVideo() || l.player == nil {
		return
	}
	if next != nil && next.HasEdgeTo(l) {
		l.player.Pause()
		l.player.Seek(time.Duration(0))
		return
	}
	l.player.Stop()
}
