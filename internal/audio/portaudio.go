package audio

import (
	"context"
	"fmt"

	"github.com/voxtray/voxtray/internal/config"
	"github.com/gordonklaus/portaudio"
)

type portAudioCapture struct {
	stream *portaudio.Stream
}

// New creates a new PortAudio-based audio capture
func New(cfg config.AudioConfig) (Capture, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize PortAudio: %w", err)
	}
	return &portAudioCapture{}, nil
}

func (p *portAudioCapture) Start(ctx context.Context, deviceID string, sampleRate int, out chan<- []float32) error {
	// Find device
	var device *portaudio.DeviceInfo
	if deviceID == "" {
		var err error
		device, err = portaudio.DefaultInputDevice()
		if err != nil {
			return fmt.Errorf("failed to get default input device: %w", err)
		}
	} else {
		devices, err := portaudio.Devices()
		if err != nil {
			return fmt.Errorf("failed to enumerate devices: %w", err)
		}
		for _, d := range devices {
			if d.Name == deviceID {
				device = d
				break
			}
		}
	}

	if device == nil {
		return fmt.Errorf("device not found: %s", deviceID)
	}

	// Open at the device's native channel count and downmix; some inputs
	// refuse a mono stream.
	channels := device.MaxInputChannels
	if channels < 1 {
		return fmt.Errorf("device has no input channels: %s", device.Name)
	}
	if channels > 2 {
		channels = 2
	}

	const frames = 512
	buffer := make([]float32, frames*channels)
	stream, err := portaudio.OpenStream(portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Device:   device,
			Channels: channels,
			Latency:  device.DefaultLowInputLatency,
		},
		SampleRate:      float64(sampleRate),
		FramesPerBuffer: frames,
	}, buffer)

	if err != nil {
		return fmt.Errorf("failed to open audio stream: %w", err)
	}

	p.stream = stream

	if err := stream.Start(); err != nil {
		stream.Close()
		return fmt.Errorf("failed to start audio stream: %w", err)
	}

	// Read loop
	go func() {
		defer stream.Close()
		for {
			select {
			case <-ctx.Done():
				return
			default:
				if err := stream.Read(); err != nil {
					return
				}
				samples := downmixInterleaved(buffer, channels, frames)

				select {
				case out <- samples:
				case <-ctx.Done():
					return
				default:
					// Drop if channel full (backpressure)
				}
			}
		}
	}()

	return nil
}

// downmixInterleaved averages interleaved multi-channel frames into a fresh
// mono slice. Mono input is still copied so the caller never aliases the
// stream's read buffer.
func downmixInterleaved(input []float32, channels, frames int) []float32 {
	out := make([]float32, frames)
	if channels == 1 {
		copy(out, input[:frames])
		return out
	}
	for i := 0; i < frames; i++ {
		var sum float32
		for c := 0; c < channels; c++ {
			sum += input[i*channels+c]
		}
		out[i] = sum / float32(channels)
	}
	return out
}

func (p *portAudioCapture) Stop() error {
	if p.stream != nil {
		return p.stream.Stop()
	}
	return nil
}

func (p *portAudioCapture) ListDevices() ([]AudioDevice, error) {
	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}

	result := make([]AudioDevice, 0, len(devices))
	defaultDevice, _ := portaudio.DefaultInputDevice()

	for _, d := range devices {
		if d.MaxInputChannels > 0 {
			result = append(result, AudioDevice{
				ID:      d.Name,
				Name:    d.Name,
				Default: d == defaultDevice,
			})
		}
	}

	return result, nil
}

func (p *portAudioCapture) Close() error {
	if p.stream != nil {
		p.stream.Close()
	}
	portaudio.Terminate()
	return nil
}