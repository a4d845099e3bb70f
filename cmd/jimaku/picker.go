package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

var mediaExtensions = map[string]bool{
	".mp4": true,
	".mkv": true,
	".avi": true,
	".mov": true,
	".wav": true,
	".mp3": true,
	".m4a": true,
}

// listMediaFiles returns the media file names in dir, sorted. Subdirectories
// are not descended into.
func listMediaFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list media files: %w", err)
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if mediaExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

// promptSelection shows a numbered listing and reads one choice. The boolean
// is false when the user backs out, which is not an error.
func promptSelection(in io.Reader, out io.Writer, files []string) (string, bool, error) {
	if len(files) == 0 {
		return "", false, errors.New("no media files found in the current directory")
	}

	rows := make([][]string, 0, len(files))
	for i, file := range files {
		rows = append(rows, []string{strconv.Itoa(i + 1), file})
	}
	fmt.Fprintln(out, renderTable([]string{"#", "File"}, rows, 0))
	fmt.Fprint(out, "Select a file (enter or q to cancel): ")

	scanner := bufio.NewScanner(in)
	if !scanner.Scan() {
		return "", false, scanner.Err()
	}
	line := strings.TrimSpace(scanner.Text())
	if line == "" || strings.EqualFold(line, "q") {
		return "", false, nil
	}
	index, err := strconv.Atoi(line)
	if err != nil || index < 1 || index > len(files) {
		return "", false, fmt.Errorf("invalid selection %q", line)
	}
	return files[index-1], true, nil
}
