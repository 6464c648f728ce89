// Package clipboard abstracts the system clipboard behind a small
// interface so commands that copy or paste can be tested without one.
package clipboard

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"sync"
)

// Clipboard reads and writes plain text.
type Clipboard interface {
	ReadText() (string, error)
	WriteText(text string) error
}

// ErrUnavailable is returned when no clipboard tool can be found on
// the host.
var ErrUnavailable = errors.New("no clipboard available")

// System returns a Clipboard backed by the platform's clipboard
// utility: pbcopy/pbpaste on darwin, wl-copy/wl-paste or xclip on
// linux.
func System() Clipboard {
	switch runtime.GOOS {
	case "darwin":
		return &execClipboard{
			read:  [][]string{{"pbpaste"}},
			write: [][]string{{"pbcopy"}},
		}
	case "linux":
		return &execClipboard{
			read: [][]string{
				{"wl-paste", "--no-newline"},
				{"xclip", "-selection", "clipboard", "-o"},
			},
			write: [][]string{
				{"wl-copy"},
				{"xclip", "-selection", "clipboard"},
			},
		}
	default:
		return &execClipboard{}
	}
}

type execClipboard struct {
	read  [][]string
	write [][]string
}

func (c *execClipboard) ReadText() (string, error) {
	for _, argv := range c.read {
		if _, err := exec.LookPath(argv[0]); err != nil {
			continue
		}
		out, err := exec.Command(argv[0], argv[1:]...).Output()
		if err != nil {
			return "", fmt.Errorf("%s: %w", argv[0], err)
		}
		return string(out), nil
	}
	return "", ErrUnavailable
}

func (c *execClipboard) WriteText(text string) error {
	for _, argv := range c.write {
		if _, err := exec.LookPath(argv[0]); err != nil {
			continue
		}
		cmd := exec.Command(argv[0], argv[1:]...)
		cmd.Stdin = bytes.NewReader([]byte(text))
		if err := cmd.Run(); err != nil {
			return fmt.Errorf("%s: %w", argv[0], err)
		}
		return nil
	}
	return ErrUnavailable
}

// Memory is an in-process Clipboard for tests.
type Memory struct {
	mu   sync.Mutex
	text string
}

func (m *Memory) ReadText() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text, nil
}

func (m *Memory) WriteText(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = text
	return nil
}
