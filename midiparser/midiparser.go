package midiparser

import (
	"io"
	"math"
	"os"
	"sort"

	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi/v2/smf"
)

// ParseFile extracts the note-on events of every track of a Standard MIDI
// File, in seconds, ordered by time.
func ParseFile(path string, opts Options) ([]Note, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open midi file")
	}
	defer f.Close()

	return Parse(f, opts)
}

func Parse(r io.Reader, opts Options) ([]Note, error) {
	var notes []Note
	reader := smf.ReadTracksFrom(r).Do(func(ev smf.TrackEvent) {
		var ch, key, vel uint8
		if !ev.Message.GetNoteStart(&ch, &key, &vel) {
			return
		}
		if opts.skip(ch) {
			return
		}
		pitch, ok := opts.pitch(int(key))
		if !ok {
			return
		}
		notes = append(notes, Note{
			Time:  roundMillis(float64(ev.AbsMicroSeconds) / 1_000_000),
			Pitch: pitch,
		})
	})
	if err := reader.Error(); err != nil {
		return nil, errors.Wrap(err, "read midi tracks")
	}
	if len(notes) == 0 {
		return nil, errors.New("midi file contains no notes")
	}

	sort.SliceStable(notes, func(i, j int) bool { return notes[i].Time < notes[j].Time })
	return notes, nil
}

func roundMillis(sec float64) float32 {
	return float32(math.Round(sec*1000) / 1000)
}
