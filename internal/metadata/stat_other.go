//go:build !linux

package metadata

import "os"

func stat(path string) (fileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return fileInfo{}, err
	}
	return fileInfo{
		size:     info.Size(),
		modified: info.ModTime(),
	}, nil
}
