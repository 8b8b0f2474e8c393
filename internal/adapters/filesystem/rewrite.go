package filesystem

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// RewriteFile replaces every occurrence of oldText with newText in path and
// returns the replacement count. Small files are rewritten in memory; files at
// or above the stream threshold are processed line by line. A missing file is
// not an error.
func (s *Storage) RewriteFile(path, oldText, newText string) (int, error) {
	if oldText == "" || oldText == newText {
		return 0, nil
	}
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	if info.Size() < s.streamThreshold {
		return rewriteInMemory(path, oldText, newText, info.Mode().Perm())
	}
	return rewriteStreaming(path, oldText, newText, info.Mode().Perm())
}

func rewriteInMemory(path, oldText, newText string, perm os.FileMode) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", path, err)
	}
	content := string(data)
	count := strings.Count(content, oldText)
	if count == 0 {
		return 0, nil
	}
	if err := writeFileAtomic(path, []byte(strings.ReplaceAll(content, oldText, newText)), perm); err != nil {
		return 0, err
	}
	return count, nil
}

func rewriteStreaming(path, oldText, newText string, perm os.FileMode) (int, error) {
	in, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer in.Close()

	out, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return 0, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := out.Name()
	fail := func(err error) (int, error) {
		out.Close()
		os.Remove(tmpPath)
		return 0, fmt.Errorf("failed to rewrite %s: %w", path, err)
	}

	reader := bufio.NewReader(in)
	writer := bufio.NewWriter(out)
	count := 0
	for {
		line, readErr := reader.ReadString('\n')
		if n := strings.Count(line, oldText); n > 0 {
			count += n
			line = strings.ReplaceAll(line, oldText, newText)
		}
		if _, err := writer.WriteString(line); err != nil {
			return fail(err)
		}
		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			return fail(readErr)
		}
	}
	if err := writer.Flush(); err != nil {
		return fail(err)
	}
	if count == 0 {
		out.Close()
		os.Remove(tmpPath)
		return 0, nil
	}
	if err := out.Close(); err != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("failed to rewrite %s: %w", path, err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		os.Remove(tmpPath)
		return 0, err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return count, nil
}
