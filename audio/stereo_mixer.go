// SPDX-License-Identifier: EPL-2.0

package audio

import "fmt"

// StereoMixer maps any channel layout onto two channels. Mono is duplicated to
// both sides, stereo passes through, and wider layouts keep the first two channels
// with the remaining ones averaged into both.
type StereoMixer struct {
	src Source
	tmp []float32
}

func NewStereoMixer(src Source) *StereoMixer {
	return &StereoMixer{src: src}
}

func (m *StereoMixer) SampleRate() int { return m.src.SampleRate() }
func (m *StereoMixer) Channels() int   { return 2 }
func (m *StereoMixer) BufSize() int    { return m.src.BufSize() }
func (m *StereoMixer) Close() error {
	if err := m.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

func (m *StereoMixer) ReadSamples(dst []float32) (int, error) {
	if len(dst)%2 != 0 {
		return 0, ErrInvalidDstSize
	}
	if len(dst) == 0 {
		return 0, nil
	}

	channels := m.src.Channels()
	if channels == 2 {
		return m.src.ReadSamples(dst)
	}

	frames := len(dst) / 2
	need := frames * channels
	if cap(m.tmp) < need {
		m.tmp = make([]float32, need)
	}
	m.tmp = m.tmp[:need]

	n, err := m.src.ReadSamples(m.tmp)
	if n == 0 {
		return 0, err
	}
	got := n / channels

	if channels == 1 {
		for f := range got {
			dst[2*f] = m.tmp[f]
			dst[2*f+1] = m.tmp[f]
		}
		return got * 2, err
	}

	extra := channels - 2
	for f := range got {
		frame := m.tmp[f*channels : (f+1)*channels]
		var rest float32
		for _, v := range frame[2:] {
			rest += v
		}
		rest /= float32(extra)
		dst[2*f] = (frame[0] + rest) * 0.5
		dst[2*f+1] = (frame[1] + rest) * 0.5
	}

	return got * 2, err
}
