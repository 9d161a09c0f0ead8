// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"

	"github.com/ik5/chunkplay/utils"
)

// Resampler converts src to another sample rate with Catmull-Rom interpolation.
// Samples stay interleaved and the channel count is preserved. When downsampling a
// one-pole low-pass filter runs on the input to reduce aliasing.
type Resampler struct {
	src      Source
	dstRate  int
	step     float64 // source frames consumed per output frame
	channels int

	// window holds 4 consecutive source frames: t-1, t0, t+1, t+2.
	// live marks which slots hold real frames rather than edge copies.
	window [4][]float32
	live   [4]bool
	primed bool

	frac   float64
	in     []float32
	srcEOF bool

	lowPass bool
	alpha   float32
	prev    []float32
}

func NewResampler(src Source, dstRate int) *Resampler {
	channels := src.Channels()
	step := float64(src.SampleRate()) / float64(dstRate)

	r := &Resampler{
		src:      src,
		dstRate:  dstRate,
		step:     step,
		channels: channels,
		in:       make([]float32, channels),
		lowPass:  step > 1.0,
		alpha:    0.5,
		prev:     make([]float32, channels),
	}

	for i := range r.window {
		r.window[i] = make([]float32, channels)
	}

	return r
}

func (r *Resampler) SampleRate() int { return r.dstRate }
func (r *Resampler) Channels() int   { return r.channels }
func (r *Resampler) BufSize() int    { return r.src.BufSize() }

func (r *Resampler) Close() error {
	if err := r.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

// pull reads one source frame into r.in. It reports false once the source is drained.
func (r *Resampler) pull() (bool, error) {
	if r.srcEOF {
		return false, nil
	}

	n, err := r.src.ReadSamples(r.in)
	for n == 0 && err == nil {
		n, err = r.src.ReadSamples(r.in)
	}

	if err != nil && err != io.EOF {
		return false, fmt.Errorf("%w", err)
	}
	if err == io.EOF {
		r.srcEOF = true
	}
	if n < r.channels {
		return false, nil
	}

	if r.lowPass {
		if !r.primed {
			copy(r.prev, r.in)
		}
		for c := range r.channels {
			r.in[c] = r.alpha*r.in[c] + (1-r.alpha)*r.prev[c]
			r.prev[c] = r.in[c]
		}
	}

	return true, nil
}

// load fills slot i with the next source frame, or with a copy of slot i-1
// once the source is exhausted.
func (r *Resampler) load(i int) error {
	ok, err := r.pull()
	if err != nil {
		return err
	}
	if ok {
		copy(r.window[i], r.in)
		r.live[i] = true
		return nil
	}
	copy(r.window[i], r.window[i-1])
	r.live[i] = false
	return nil
}

// prime loads t0, t+1 and t+2. t-1 starts as a copy of t0.
func (r *Resampler) prime() (bool, error) {
	ok, err := r.pull()
	if err != nil || !ok {
		return false, err
	}
	r.primed = true
	copy(r.window[0], r.in)
	copy(r.window[1], r.in)
	r.live[1] = true

	for i := 2; i < 4; i++ {
		if err := r.load(i); err != nil {
			return false, err
		}
	}

	return true, nil
}

// advance shifts the window by one source frame.
func (r *Resampler) advance() error {
	head := r.window[0]
	copy(r.window[:3], r.window[1:])
	copy(r.live[:3], r.live[1:])
	r.window[3] = head

	return r.load(3)
}

// ReadSamples produces interleaved samples at the destination rate.
// dst length must be a multiple of the channel count.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}

	if !r.primed {
		ok, err := r.prime()
		if err != nil {
			return 0, err
		}
		if !ok {
			return 0, io.EOF
		}
	}

	frames := len(dst) / r.channels
	written := 0

	for written < frames {
		for r.frac >= 1.0 {
			r.frac -= 1.0
			if err := r.advance(); err != nil {
				return written * r.channels, err
			}
		}

		if !r.live[1] {
			return written * r.channels, io.EOF
		}

		x := float32(r.frac)
		base := written * r.channels
		for c := range r.channels {
			dst[base+c] = utils.CubicInterpolate(
				r.window[0][c], r.window[1][c], r.window[2][c], r.window[3][c], x)
		}

		written++
		r.frac += r.step
	}

	return written * r.channels, nil
}
