package menu

import (
	"bytes"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/natefinch/atomic"
	"github.com/peterh/liner"
)

// Terminal is a readline-style Prompter backed by liner
type Terminal struct {
	line        *liner.State
	historyPath string
	closeOnce   sync.Once
}

// HistoryPath returns the default history file, ~/.ytl_history
func HistoryPath(home string) string {
	if home == "" {
		return ""
	}
	return filepath.Join(home, ".ytl_history")
}

// OpenTerminal puts the terminal in line-editing mode and loads history.
// Close must be called to restore the terminal.
func OpenTerminal(historyPath string) *Terminal {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	if historyPath != "" {
		if f, err := os.Open(historyPath); err == nil {
			if _, err := line.ReadHistory(f); err != nil {
				log.Printf("menu: read history: %v", err)
			}
			f.Close()
		}
	}

	return &Terminal{line: line, historyPath: historyPath}
}

// Prompt implements Prompter
func (t *Terminal) Prompt(prompt string) (string, error) {
	return t.line.Prompt(prompt)
}

// AppendHistory records a non-empty answer for up-arrow recall
func (t *Terminal) AppendHistory(item string) {
	t.line.AppendHistory(item)
}

// Close saves history and restores the terminal. Safe to call more than once.
func (t *Terminal) Close() error {
	var err error
	t.closeOnce.Do(func() {
		t.saveHistory()
		err = t.line.Close()
	})
	return err
}

func (t *Terminal) saveHistory() {
	if t.historyPath == "" {
		return
	}
	var buf bytes.Buffer
	if _, err := t.line.WriteHistory(&buf); err != nil {
		log.Printf("menu: encode history: %v", err)
		return
	}
	if err := atomic.WriteFile(t.historyPath, &buf); err != nil {
		log.Printf("menu: write history: %v", err)
	}
}
