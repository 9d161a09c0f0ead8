package chunker

import (
	"fmt"
	"strings"
)

// Mode selects how WAV input is cut.
type Mode int

const (
	// ModeStreaming sends the container header once, with the first block,
	// and raw PCM after that.
	ModeStreaming Mode = iota
	// ModeComplete makes every fragment a complete WAV file.
	ModeComplete
)

func (m Mode) String() string {
	switch m {
	case ModeStreaming:
		return "streaming"
	case ModeComplete:
		return "complete"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "streaming":
		return ModeStreaming, nil
	case "complete":
		return ModeComplete, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedMode, s)
	}
}
