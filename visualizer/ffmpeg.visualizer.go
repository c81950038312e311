package visualizer

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/pkg/errors"
)

type EncoderConfig struct {
	Binary string
	Output string
	// Audio is muxed into the video when set.
	Audio  string
	Width  int
	Height int
	FPS    float64
}

func encoderArgs(cfg EncoderConfig) []string {
	args := []string{
		"-y",
		"-f", "rawvideo",
		"-vcodec", "rawvideo",
		"-s", fmt.Sprintf("%dx%d", cfg.Width, cfg.Height),
		"-pix_fmt", "rgba",
		"-r", fmt.Sprintf("%g", cfg.FPS),
		"-i", "-",
	}
	if cfg.Audio != "" {
		args = append(args,
			"-i", cfg.Audio,
			"-map", "0:v", "-map", "1:a",
			"-c:a", "aac",
			"-shortest",
		)
	} else {
		args = append(args, "-an")
	}
	return append(args,
		"-vcodec", "libx264",
		"-pix_fmt", "yuv420p",
		"-crf", "15",
		cfg.Output,
	)
}

// Encoder is an ffmpeg process reading raw RGBA frames from stdin.
type Encoder struct {
	cmd   *exec.Cmd
	stdin io.WriteCloser
}

func StartEncoder(cfg EncoderConfig) (*Encoder, error) {
	bin := cfg.Binary
	if bin == "" {
		bin = "ffmpeg"
	}
	cmd := exec.Command(bin, encoderArgs(cfg)...)
	cmd.Stderr = os.Stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, errors.Wrap(err, "encoder stdin")
	}
	if err := cmd.Start(); err != nil {
		stdin.Close()
		return nil, errors.Wrapf(err, "start encoder: %s", fullCommand(cmd))
	}
	return &Encoder{cmd: cmd, stdin: stdin}, nil
}

func (e *Encoder) Write(frame []byte) (int, error) {
	return e.stdin.Write(frame)
}

// Close ends the stream and waits for ffmpeg to finish the file.
func (e *Encoder) Close() error {
	e.stdin.Close()
	if err := e.cmd.Wait(); err != nil {
		return fmt.Errorf("error executing FFmpeg command: %s; %v", fullCommand(e.cmd), err)
	}
	return nil
}

func fullCommand(cmd *exec.Cmd) string {
	return strings.Join(cmd.Args, " ")
}
