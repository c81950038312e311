package midiparser

import (
	"encoding/json"
	"io"
	"sort"

	"github.com/pkg/errors"
)

// ToneJSON is the subset of a @tonejs/midi JSON export the extractor reads.
type ToneJSON struct {
	Header struct {
		Name   string `json:"name"`
		Ppq    int    `json:"ppq"`
		Tempos []struct {
			Bpm   float64 `json:"bpm"`
			Ticks int     `json:"ticks"`
		} `json:"tempos"`
	} `json:"header"`
	Tracks []struct {
		Channel    int `json:"channel"`
		Instrument struct {
			Family string `json:"family"`
			Number int    `json:"number"`
			Name   string `json:"name"`
		} `json:"instrument"`
		Name  string `json:"name"`
		Notes []struct {
			Duration float64 `json:"duration"`
			Midi     int     `json:"midi"`
			Name     string  `json:"name"`
			Ticks    int     `json:"ticks"`
			Time     float64 `json:"time"`
			Velocity float64 `json:"velocity"`
		} `json:"notes"`
	} `json:"tracks"`
}

// ParseToneJSON reads notes from a Tone.js JSON export, whose note times are
// already in seconds.
func ParseToneJSON(r io.Reader, opts Options) ([]Note, error) {
	var parsed ToneJSON
	if err := json.NewDecoder(r).Decode(&parsed); err != nil {
		return nil, errors.Wrap(err, "decode tone.js json")
	}

	var notes []Note
	for _, track := range parsed.Tracks {
		if track.Channel >= 0 && track.Channel < 16 && opts.skip(uint8(track.Channel)) {
			continue
		}
		for _, n := range track.Notes {
			pitch, ok := opts.pitch(n.Midi)
			if !ok {
				continue
			}
			notes = append(notes, Note{Time: roundMillis(n.Time), Pitch: pitch})
		}
	}
	if len(notes) == 0 {
		return nil, errors.New("tone.js export contains no notes")
	}

	sort.SliceStable(notes, func(i, j int) bool { return notes[i].Time < notes[j].Time })
	return notes, nil
}
