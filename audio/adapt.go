// SPDX-License-Identifier: EPL-2.0

package audio

// Adapt returns src converted to rate and channels. Stages that would be a no-op
// are skipped, so a source already in the target format is returned unchanged.
// Only mono and stereo targets are supported, and both rates must be positive.
func Adapt(src Source, rate, channels int) (Source, error) {
	if channels != 1 && channels != 2 {
		return nil, ErrInvalidLayout
	}
	if rate <= 0 || src.SampleRate() <= 0 || src.Channels() < 1 {
		return nil, ErrInvalidLayout
	}

	out := src
	if out.SampleRate() != rate {
		out = NewResampler(out, rate)
	}

	switch {
	case out.Channels() == channels:
	case channels == 1:
		out = NewMonoMixer(out)
	default:
		out = NewStereoMixer(out)
	}

	return out, nil
}
