package visualizer

import (
	"fmt"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
)

const outputFolderPath = "output"

func getFileNameWithoutExtension(filePath string) string {
	fileName := filepath.Base(filePath)
	return fileName[:len(fileName)-len(filepath.Ext(fileName))]
}

// DefaultOutputPath names the video after the note table, inside output/.
func DefaultOutputPath(notesPath string) string {
	return fmt.Sprintf("%s/%s.mp4", outputFolderPath, getFileNameWithoutExtension(notesPath))
}

// ExpandPath resolves a leading ~ to the user's home directory.
func ExpandPath(p string) (string, error) {
	if p == "" {
		return "", nil
	}
	expanded, err := homedir.Expand(p)
	if err != nil {
		return "", errors.Wrapf(err, "expand %s", p)
	}
	return expanded, nil
}
