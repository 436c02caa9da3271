package tui

import (
	"fmt"
	"os/exec"
	"runtime"
	"sync"

	"github.com/atotto/clipboard"
)

// navigator records what the session asked the terminal to do.
// The resolver runs off the UI goroutine, so reads happen after it finishes.
type navigator struct {
	mu          sync.Mutex
	destination string
	path        string
	notice      string
}

func (n *navigator) Navigate(destination string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.destination = destination
}

func (n *navigator) ReplacePath(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.path = path
}

func (n *navigator) Alert(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notice = message
}

func (n *navigator) snapshot() (destination, path, notice string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.destination, n.path, n.notice
}

// openURL hands url to the platform's default browser
func openURL(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	default:
		return fmt.Errorf("cannot open browser on %s", runtime.GOOS)
	}
	return cmd.Start()
}

// SystemClipboard writes to the operating system clipboard
type SystemClipboard struct{}

func (SystemClipboard) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}
