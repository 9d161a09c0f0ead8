package sink

import (
	"errors"
	"fmt"

	"github.com/gordonklaus/portaudio"
)

// PortAudioOutput writes to the default PortAudio output device with blocking I/O.
type PortAudioOutput struct {
	stream *portaudio.Stream
	buf    []int16
}

// OpenPortAudio initializes PortAudio and starts a stream on the default
// output device. Failures wrap ErrDeviceUnavailable.
func OpenPortAudio(cfg Config) (*PortAudioOutput, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDeviceUnavailable, err)
	}

	out := &PortAudioOutput{buf: make([]int16, cfg.FramesPerBuffer*cfg.Channels)}

	stream, err := portaudio.OpenDefaultStream(0, cfg.Channels, float64(cfg.SampleRate), cfg.FramesPerBuffer, out.buf)
	if err != nil {
		_ = portaudio.Terminate()
		return nil, fmt.Errorf("%w: %w", ErrDeviceUnavailable, err)
	}
	if err := stream.Start(); err != nil {
		_ = stream.Close()
		_ = portaudio.Terminate()
		return nil, fmt.Errorf("%w: %w", ErrDeviceUnavailable, err)
	}
	out.stream = stream

	return out, nil
}

// Write plays one buffer. Shorter input is padded with silence.
func (o *PortAudioOutput) Write(samples []int16) error {
	n := copy(o.buf, samples)
	clear(o.buf[n:])

	err := o.stream.Write()
	if errors.Is(err, portaudio.OutputUnderflowed) {
		return nil
	}
	return err
}

// Close waits for queued buffers to play, then releases the device.
func (o *PortAudioOutput) Close() error {
	return errors.Join(o.stream.Stop(), o.stream.Close(), portaudio.Terminate())
}
