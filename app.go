package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"gopkg.in/alecthomas/kingpin.v2"

	"pianorain/midiparser"
	"pianorain/visualizer"
)

var (
	app = kingpin.New("pianorain", "Falling notes visualizer for precomputed MIDI note tables.")

	renderCmd     = app.Command("render", "Render a note table to the memory-mapped image sink.")
	renderNotes   = renderCmd.Arg("notes", "Note table JSON file").Required().String()
	sinkPath      = renderCmd.Flag("sink", "Memory-mapped image sink").Default("/tmp/imagesink").String()
	resolution    = renderCmd.Flag("resolution", "Canvas size").Default("vga").Enum("vga", "360p", "480p", "720p", "1080p")
	fps           = renderCmd.Flag("fps", "Frames per second").Default("30").Float64()
	view          = renderCmd.Flag("view", "Seconds of upcoming notes on screen").Default("0.4").Float64()
	slope         = renderCmd.Flag("slope", "Horizontal margin and fall drift in pixels").Default("30").Float64()
	palette       = renderCmd.Flag("palette", "Palette colors, low to high pitch").Default("#160729", "#171856", "#243771", "#416e8f", "#dbf3f1").Strings()
	seed          = renderCmd.Flag("seed", "Particle seed, 0 uses the clock").Default("0").Uint64()
	maxFrames     = renderCmd.Flag("frames", "Stop after this many frames, 0 runs until interrupted").Default("0").Int()
	stopAtEnd     = renderCmd.Flag("stop-at-end", "Stop once the last note has landed").Bool()
	tail          = renderCmd.Flag("tail", "Seconds rendered after the last note with --stop-at-end").Default("2").Float64()
	fast          = renderCmd.Flag("fast", "Render frames back to back instead of in real time").Bool()
	debug         = renderCmd.Flag("debug", "Draw the frame counter overlay").Bool()
	record        = renderCmd.Flag("record", "Encode the frames to a video with ffmpeg").Short('r').Bool()
	output        = renderCmd.Flag("output", "Video file, defaults to output/<notes>.mp4").String()
	ffmpegBin     = renderCmd.Flag("ffmpeg", "ffmpeg binary").Default("ffmpeg").String()
	audioPath     = renderCmd.Flag("audio", "Audio file muxed into the recording").String()
	midiAudio     = renderCmd.Flag("midi", "MIDI file rendered with timidity and muxed into the recording").String()
	snapshotDir   = renderCmd.Flag("snapshot-dir", "Folder for PNG snapshots").String()
	snapshotEvery = renderCmd.Flag("snapshot-every", "Write every Nth frame as PNG").Default("30").Int()

	extractCmd = app.Command("extract", "Extract a note table from a MIDI file.")
	extractIn  = extractCmd.Arg("midi", "Standard MIDI File, or Tone.js JSON with --tonejs").Required().String()
	extractOut = extractCmd.Arg("out", "Note table JSON file").Default("notes.json").String()
	toneJS     = extractCmd.Flag("tonejs", "Input is a @tonejs/midi JSON export").Bool()
	skipDrums  = extractCmd.Flag("skip-drums", "Drop the General MIDI percussion channel").Default("true").Bool()
	transpose  = extractCmd.Flag("transpose", "Semitones added to every pitch").Default("0").Int()
)

func main() {
	app.Version("0.1.0")

	var err error
	switch kingpin.MustParse(app.Parse(os.Args[1:])) {
	case renderCmd.FullCommand():
		err = render()
	case extractCmd.FullCommand():
		err = extract()
	}
	if err != nil {
		log.Fatalln(err)
	}
}

func render() error {
	executionStartTime := time.Now()

	notesFile, err := visualizer.ExpandPath(*renderNotes)
	if err != nil {
		return err
	}
	notes, err := midiparser.Load(notesFile)
	if err != nil {
		return err
	}

	res := visualizer.Resolutions[*resolution]
	settings := visualizer.DefaultSettings()
	settings.Width, settings.Height = res[0], res[1]
	settings.FPS = *fps
	settings.View = float32(*view)
	settings.Slope = float32(*slope)
	settings.SlopeAngle = settings.Slope / float32(settings.Height)
	settings.Palette = *palette
	settings.Seed = *seed
	settings.StopAtEnd = *stopAtEnd
	settings.Tail = float32(*tail)
	settings.Unpaced = *fast

	sinkFile, err := visualizer.ExpandPath(*sinkPath)
	if err != nil {
		return err
	}
	sink, err := visualizer.OpenSink(sinkFile, settings.Width, settings.Height)
	if err != nil {
		return err
	}
	defer sink.Close()

	opts := []visualizer.Option{visualizer.WithSink(sink)}

	if *debug {
		hud, err := visualizer.NewHUD(9)
		if err != nil {
			return err
		}
		opts = append(opts, visualizer.WithHUD(hud))
	}

	if *snapshotDir != "" {
		dir, err := visualizer.ExpandPath(*snapshotDir)
		if err != nil {
			return err
		}
		snapshots, err := visualizer.NewSnapshotWriter(dir, *snapshotEvery, settings.Width, settings.Height, log.Default())
		if err != nil {
			return err
		}
		defer func() {
			snapshots.Close()
			fmt.Printf("Snapshots written: %d\n", snapshots.Written())
		}()
		opts = append(opts, visualizer.WithSnapshots(snapshots))
	}

	if *record {
		encoder, wav, err := startRecording(notesFile, settings)
		if err != nil {
			return err
		}
		defer func() {
			if err := encoder.Close(); err != nil {
				log.Println(err)
			}
			if wav != "" {
				visualizer.RemoveAudioFile(wav)
			}
		}()
		opts = append(opts, visualizer.WithRecorder(encoder))
	}

	driver, err := visualizer.NewDriver(settings, notes, opts...)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("Rendering %d notes to %s at %dx%d, %g fps\n", len(notes), sink.Path(), settings.Width, settings.Height, settings.FPS)
	if err := driver.Run(ctx, *maxFrames); err != nil {
		return err
	}

	fmt.Printf("Execution time: %f seconds\nFrames rendered: %d\n", time.Since(executionStartTime).Seconds(), driver.Frame())
	return nil
}

// startRecording also returns the WAV rendered from --midi, which the caller
// removes once the encoder is closed.
func startRecording(notesFile string, settings visualizer.Settings) (*visualizer.Encoder, string, error) {
	out := *output
	if out == "" {
		out = visualizer.DefaultOutputPath(notesFile)
	}
	out, err := visualizer.ExpandPath(out)
	if err != nil {
		return nil, "", err
	}
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return nil, "", err
	}

	audio, err := visualizer.ExpandPath(*audioPath)
	if err != nil {
		return nil, "", err
	}
	var wav string
	if *midiAudio != "" {
		midiFile, err := visualizer.ExpandPath(*midiAudio)
		if err != nil {
			return nil, "", err
		}
		if wav, err = visualizer.RenderMidiAudio(midiFile); err != nil {
			return nil, "", err
		}
		audio = wav
	}

	log.Printf("Recording to %s\n", out)
	encoder, err := visualizer.StartEncoder(visualizer.EncoderConfig{
		Binary: *ffmpegBin,
		Output: out,
		Audio:  audio,
		Width:  settings.Width,
		Height: settings.Height,
		FPS:    settings.FPS,
	})
	if err != nil {
		if wav != "" {
			visualizer.RemoveAudioFile(wav)
		}
		return nil, "", err
	}
	return encoder, wav, nil
}

func extract() error {
	in, err := visualizer.ExpandPath(*extractIn)
	if err != nil {
		return err
	}
	out, err := visualizer.ExpandPath(*extractOut)
	if err != nil {
		return err
	}

	opts := midiparser.Options{Transpose: *transpose}
	if *skipDrums {
		opts.SkipChannels = append(opts.SkipChannels, midiparser.PercussionChannel)
	}

	var notes []midiparser.Note
	if *toneJS {
		f, err := os.Open(in)
		if err != nil {
			return err
		}
		defer f.Close()
		notes, err = midiparser.ParseToneJSON(f, opts)
		if err != nil {
			return err
		}
	} else {
		notes, err = midiparser.ParseFile(in, opts)
		if err != nil {
			return err
		}
	}

	if err := midiparser.Save(out, notes); err != nil {
		return err
	}
	lowest, highest := midiparser.LowestHighest(notes)
	fmt.Printf("Extracted %d notes, pitch %d-%d, %.3fs long\nNote table: %s\n", len(notes), lowest, highest, midiparser.LastTime(notes), out)
	return nil
}
