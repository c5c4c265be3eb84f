package animation

import "math/rand/v2"

// PlaybackBuilderOption is a functional option used to configure a Playback during construction.
type PlaybackBuilderOption func(*playback)

// WithLoop sets whether playback wraps to the first frame after the last one. Defaults to true.
//
// Parameters:
//   - loop: true to loop
//
// Returns:
//   - PlaybackBuilderOption: option function to apply
func WithLoop(loop bool) PlaybackBuilderOption {
	return func(p *playback) {
		p.loop = loop
	}
}

// WithSpeed scales the time passed to Advance. Values <= 0 are ignored.
//
// Parameters:
//   - speed: the time scale
//
// Returns:
//   - PlaybackBuilderOption: option function to apply
func WithSpeed(speed float32) PlaybackBuilderOption {
	return func(p *playback) {
		if speed > 0 {
			p.speed = speed
		}
	}
}

// WithRandom supplies the random source used by WithRandomStart.
//
// Parameters:
//   - rng: the random source
//
// Returns:
//   - PlaybackBuilderOption: option function to apply
func WithRandom(rng *rand.Rand) PlaybackBuilderOption {
	return func(p *playback) {
		p.rng = rng
	}
}

// WithRandomStart starts playback at a random time drawn from the source given to WithRandom,
// so several instances of one recording do not move in lockstep. Without WithRandom a source seeded
// from the wall clock is used.
//
// Returns:
//   - PlaybackBuilderOption: option function to apply
func WithRandomStart() PlaybackBuilderOption {
	return func(p *playback) {
		p.randomStart = true
	}
}
