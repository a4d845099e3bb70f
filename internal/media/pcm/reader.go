package pcm

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// ReadSamples opens a finalized PCM container and returns every stored sample
// normalized to [-1.0, 1.0] via s / 32768.0. The mapping is asymmetric:
// -32768 maps exactly to -1.0 while 32767 maps to 0.999969…, matching the
// recognition engine's input contract. A container whose declared format
// deviates from the mono/16kHz/16-bit contract is rejected.
func ReadSamples(path string) ([]float32, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("pcm: open container: %w", err)
	}
	defer file.Close()

	if err := readRIFFPreamble(file); err != nil {
		return nil, err
	}

	var sawFormat bool
	for {
		var chunkHeader [8]byte
		if _, err := io.ReadFull(file, chunkHeader[:]); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				return nil, fmt.Errorf("pcm: container has no data chunk")
			}
			return nil, fmt.Errorf("pcm: read chunk header: %w", err)
		}
		chunkID := string(chunkHeader[0:4])
		chunkSize := binary.LittleEndian.Uint32(chunkHeader[4:8])

		switch chunkID {
		case "fmt ":
			if err := readFormatChunk(file, chunkSize); err != nil {
				return nil, err
			}
			sawFormat = true
		case "data":
			if !sawFormat {
				return nil, fmt.Errorf("pcm: data chunk precedes format declaration")
			}
			return readDataChunk(file, chunkSize)
		default:
			// Skip ancillary chunks (LIST, fact, ...). Chunks are word aligned.
			skip := int64(chunkSize)
			if chunkSize%2 == 1 {
				skip++
			}
			if _, err := file.Seek(skip, io.SeekCurrent); err != nil {
				return nil, fmt.Errorf("pcm: skip chunk %q: %w", chunkID, err)
			}
		}
	}
}

func readRIFFPreamble(r io.Reader) error {
	var preamble [12]byte
	if _, err := io.ReadFull(r, preamble[:]); err != nil {
		return fmt.Errorf("pcm: read container preamble: %w", err)
	}
	if string(preamble[0:4]) != "RIFF" || string(preamble[8:12]) != "WAVE" {
		return fmt.Errorf("pcm: not a WAV container")
	}
	return nil
}

func readFormatChunk(r io.ReadSeeker, size uint32) error {
	if size < 16 {
		return fmt.Errorf("pcm: format chunk too short (%d bytes)", size)
	}
	var fields [16]byte
	if _, err := io.ReadFull(r, fields[:]); err != nil {
		return fmt.Errorf("pcm: read format chunk: %w", err)
	}
	audioFormat := binary.LittleEndian.Uint16(fields[0:2])
	channels := binary.LittleEndian.Uint16(fields[2:4])
	sampleRate := binary.LittleEndian.Uint32(fields[4:8])
	bitsPerSample := binary.LittleEndian.Uint16(fields[14:16])

	if audioFormat != 1 {
		return fmt.Errorf("pcm: container format mismatch: audio format %d, want PCM (1)", audioFormat)
	}
	if channels != Channels {
		return fmt.Errorf("pcm: container format mismatch: %d channels, want %d", channels, Channels)
	}
	if sampleRate != SampleRate {
		return fmt.Errorf("pcm: container format mismatch: sample rate %d, want %d", sampleRate, SampleRate)
	}
	if bitsPerSample != BitsPerSample {
		return fmt.Errorf("pcm: container format mismatch: %d bits per sample, want %d", bitsPerSample, BitsPerSample)
	}

	if size > 16 {
		if _, err := r.Seek(int64(size-16), io.SeekCurrent); err != nil {
			return fmt.Errorf("pcm: skip format extension: %w", err)
		}
	}
	return nil
}

func readDataChunk(r io.Reader, size uint32) ([]float32, error) {
	if size%bytesPerSample != 0 {
		return nil, ErrTruncatedStream
	}
	data := make([]byte, size)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, fmt.Errorf("pcm: read sample data: %w", err)
	}
	samples := make([]float32, size/bytesPerSample)
	for i := range samples {
		s := int16(binary.LittleEndian.Uint16(data[i*bytesPerSample:]))
		samples[i] = float32(s) / 32768.0
	}
	return samples, nil
}
