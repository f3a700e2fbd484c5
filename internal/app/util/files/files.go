package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// MediaExtensions are the file types the local converter picks up from a directory.
var MediaExtensions = []string{
	".mp3", ".m4a", ".wav", ".flac", ".ogg", ".webm",
	".mp4", ".mov", ".mkv", ".avi", ".m4v",
}

// FileInfo describes a local media file.
type FileInfo struct {
	FullPath string
	Name     string
	Size     int64
	ModTime  time.Time
}

// IsMediaFile reports whether name has one of MediaExtensions.
func IsMediaFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range MediaExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// CollectMediaFiles expands inputs into media files. Files are taken as given,
// directories contribute their media files (not recursive) oldest first.
func CollectMediaFiles(inputs []string) ([]FileInfo, error) {
	var out []FileInfo
	for _, input := range inputs {
		info, err := os.Stat(input)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", input, err)
		}
		if !info.IsDir() {
			out = append(out, fileInfo(input, info))
			continue
		}

		dirFiles, err := GetAllMediaFiles(input)
		if err != nil {
			return nil, err
		}
		out = append(out, dirFiles...)
	}
	return out, nil
}

// GetAllMediaFiles lists the media files of inputDir sorted by modification time.
func GetAllMediaFiles(inputDir string) ([]FileInfo, error) {
	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory: %w", err)
	}

	var fileInfos []FileInfo
	for _, entry := range entries {
		if entry.IsDir() || !IsMediaFile(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", entry.Name(), err)
		}
		fileInfos = append(fileInfos, fileInfo(filepath.Join(inputDir, entry.Name()), info))
	}

	sort.SliceStable(fileInfos, func(i, j int) bool {
		return fileInfos[i].ModTime.Before(fileInfos[j].ModTime)
	})

	return fileInfos, nil
}

func fileInfo(path string, info os.FileInfo) FileInfo {
	return FileInfo{
		FullPath: path,
		Name:     info.Name(),
		Size:     info.Size(),
		ModTime:  info.ModTime(),
	}
}
