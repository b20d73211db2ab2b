// Package sequence plays scripted series of light states.
//
// A Sequence is resolved from the configuration file (presets or inline
// commands plus hold times) into pre-encoded frames, so that an invalid
// step is reported before the first frame reaches the light. A Runner then
// sends each frame and holds it for the step's duration, optionally
// looping until its context is canceled.
//
// When a run is interrupted the Runner turns the light off before
// returning, so a canceled demo never leaves a light flashing or a buzzer
// sounding.
//
// Usage:
//
//	seq, err := sequence.FromConfig(cfg, "demo")
//	if err != nil {
//	    return err
//	}
//	runner := sequence.NewRunner(driver, sequence.WithObserver(obs))
//	err = runner.Run(ctx, seq)
package sequence
