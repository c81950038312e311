package midiparser

// Note is a key strike: when it lands, in seconds from the start, and which key.
type Note struct {
	Time  float32 `json:"time"`
	Pitch uint8   `json:"pitch"`
}

// NoteTable is the on-disk note table.
type NoteTable struct {
	Notes []Note `json:"notes"`
}

// Options filters what the extractors keep.
type Options struct {
	// SkipChannels drops notes on these MIDI channels (0-15).
	SkipChannels []uint8
	// Transpose shifts every pitch, results outside 0-127 are dropped.
	Transpose int
}

// PercussionChannel is the General MIDI drum channel.
const PercussionChannel uint8 = 9

func (o Options) skip(channel uint8) bool {
	for _, c := range o.SkipChannels {
		if c == channel {
			return true
		}
	}
	return false
}

func (o Options) pitch(key int) (uint8, bool) {
	p := key + o.Transpose
	if p < 0 || p > 127 {
		return 0, false
	}
	return uint8(p), true
}
