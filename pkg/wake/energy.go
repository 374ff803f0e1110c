package wake

import "math"

// Energy detector defaults, tuned for 16kHz mono speech.
const (
	energyFrameLength = 512
	energySampleRate  = 16000

	// DefaultEnergyThreshold is the RMS level (0..1) treated as speech.
	DefaultEnergyThreshold = 0.1

	// defaultArmFrames is how many consecutive loud frames trigger.
	// One frame is ~32ms; three filters out door slams and clicks.
	defaultArmFrames = 3
)

// Energy implements Detector with a simple RMS threshold gate. It needs
// no access key or keyword model: any sustained loud sound triggers it.
// Meant for development and tests, not the bedroom shelf.
type Energy struct {
	threshold float64
	armFrames int
	loudRun   int
}

// NewEnergy creates an energy detector. A non-positive threshold uses
// DefaultEnergyThreshold.
func NewEnergy(threshold float64) *Energy {
	if threshold <= 0 {
		threshold = DefaultEnergyThreshold
	}
	return &Energy{
		threshold: threshold,
		armFrames: defaultArmFrames,
	}
}

// Process reports true once armFrames consecutive frames exceed the
// threshold, then re-arms.
func (e *Energy) Process(frame []int16) (bool, error) {
	if rms(frame) >= e.threshold {
		e.loudRun++
	} else {
		e.loudRun = 0
	}

	if e.loudRun >= e.armFrames {
		e.loudRun = 0
		return true, nil
	}
	return false, nil
}

// FrameLength returns the samples per frame.
func (e *Energy) FrameLength() int { return energyFrameLength }

// SampleRate returns the sample rate in Hz.
func (e *Energy) SampleRate() int { return energySampleRate }

// Close is a no-op.
func (e *Energy) Close() error { return nil }

// rms computes the root-mean-square level of a PCM16 frame, scaled to 0..1.
func rms(frame []int16) float64 {
	if len(frame) == 0 {
		return 0
	}
	var sum float64
	for _, s := range frame {
		v := float64(s) / 32768.0
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(frame)))
}
