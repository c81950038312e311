package visualizer

import (
	"os"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// MmapSink is a file of exactly one frame, shared-mapped so an external
// viewer can read what was last presented. The file is exclusively locked
// while open.
type MmapSink struct {
	path string
	file *os.File
	data []byte
}

func OpenSink(path string, width, height int) (*MmapSink, error) {
	size := width * height * 4
	if size <= 0 {
		return nil, errors.Errorf("invalid sink size %dx%d", width, height)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, errors.Wrap(err, "open image sink")
	}
	fd := int(f.Fd())
	if err := unix.Flock(fd, unix.LOCK_EX|unix.LOCK_NB); err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "lock image sink %s", path)
	}
	if err := f.Truncate(int64(size)); err != nil {
		f.Close()
		return nil, errors.Wrap(err, "size image sink")
	}
	data, err := unix.Mmap(fd, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, errors.Wrap(err, "map image sink")
	}
	return &MmapSink{path: path, file: f, data: data}, nil
}

func (s *MmapSink) Path() string { return s.path }

func (s *MmapSink) Present(frame []byte) error {
	if len(frame) != len(s.data) {
		return errors.Errorf("frame is %d bytes, image sink holds %d", len(frame), len(s.data))
	}
	copy(s.data, frame)
	return nil
}

func (s *MmapSink) Close() error {
	if s.data == nil {
		return nil
	}
	err := unix.Munmap(s.data)
	s.data = nil
	if cerr := s.file.Close(); err == nil {
		err = cerr
	}
	return errors.Wrap(err, "close image sink")
}
