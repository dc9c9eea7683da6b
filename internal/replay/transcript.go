package replay

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// #region transcript

// ReadTranscript parses a JSONL transcript: one Interaction per line,
// blank lines and #-comments skipped.
func ReadTranscript(r io.Reader) ([]Interaction, error) {
	var out []Interaction
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		var inter Interaction
		if err := json.Unmarshal([]byte(text), &inter); err != nil {
			return nil, fmt.Errorf("transcript line %d: %w", line, err)
		}
		out = append(out, inter)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read transcript: %w", err)
	}
	return out, nil
}

// LoadTranscript reads a JSONL transcript from disk.
func LoadTranscript(path string) ([]Interaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open transcript: %w", err)
	}
	defer f.Close()
	return ReadTranscript(f)
}

// #endregion transcript
