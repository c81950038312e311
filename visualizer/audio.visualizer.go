package visualizer

import (
	"os"
	"os/exec"

	"github.com/pkg/errors"
)

// RenderMidiAudio renders a MIDI file to WAV next to it with timidity and
// returns the WAV path.
func RenderMidiAudio(midiFilePath string) (string, error) {
	var outputWavPath = midiFilePath + ".wav"
	timidityCmdArgs := []string{
		midiFilePath, "-Ow",
		"--preserve-silence",
		"-o", outputWavPath,
	}

	cmd := exec.Command("timidity", timidityCmdArgs...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", errors.Wrapf(err, "timidity: %s", out)
	}

	return outputWavPath, nil
}

func RemoveAudioFile(filePath string) {
	os.Remove(filePath)
}
