package midiparser

import (
	"encoding/json"
	"io"
	"math"
	"os"

	"github.com/pkg/errors"
)

// Load reads and validates a note table file.
func Load(path string) ([]Note, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open note table")
	}
	defer f.Close()

	notes, err := Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "note table %s", path)
	}
	return notes, nil
}

func Decode(r io.Reader) ([]Note, error) {
	var table NoteTable
	if err := json.NewDecoder(r).Decode(&table); err != nil {
		return nil, errors.Wrap(err, "decode")
	}
	if err := Validate(table.Notes); err != nil {
		return nil, err
	}
	return table.Notes, nil
}

func Save(path string, notes []Note) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create note table")
	}
	if err := Encode(f, notes); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func Encode(w io.Writer, notes []Note) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(NoteTable{Notes: notes}), "encode note table")
}

// Validate checks that the table is non-empty, finite and sorted by time.
func Validate(notes []Note) error {
	if len(notes) == 0 {
		return errors.New("note table is empty")
	}
	for i, n := range notes {
		if math.IsNaN(float64(n.Time)) || math.IsInf(float64(n.Time), 0) {
			return errors.Errorf("note %d has non-finite time", i)
		}
		if i > 0 && n.Time < notes[i-1].Time {
			return errors.Errorf("note %d at %.3fs is before note %d at %.3fs", i, n.Time, i-1, notes[i-1].Time)
		}
	}
	return nil
}

// LowestHighest returns the pitch range of the table.
func LowestHighest(notes []Note) (uint8, uint8) {
	lowest, highest := uint8(255), uint8(0)
	for _, n := range notes {
		lowest = min(lowest, n.Pitch)
		highest = max(highest, n.Pitch)
	}
	return lowest, highest
}

// LastTime is the time of the final note, or 0 for an empty table.
func LastTime(notes []Note) float32 {
	if len(notes) == 0 {
		return 0
	}
	return notes[len(notes)-1].Time
}
