package pcm

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

const headerSize = 44

// Sink materializes a raw 16-bit little-endian PCM byte stream as a WAV
// container on disk. Bytes arrive in arbitrary chunks; the sink reassembles
// full samples and appends them in order, so memory use stays bounded by the
// read buffer regardless of audio duration.
type Sink struct {
	file    *os.File
	samples int64
}

// CreateSink opens the container file and reserves the header. The header is
// patched with final sizes by Finalize.
func CreateSink(path string) (*Sink, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("pcm: create container: %w", err)
	}
	if err := writeHeader(file, 0); err != nil {
		file.Close()
		return nil, fmt.Errorf("pcm: write header: %w", err)
	}
	return &Sink{file: file}, nil
}

// ReadFrom consumes r until EOF, appending every complete sample to the
// container. A stream that ends with a dangling half-sample byte yields
// ErrTruncatedStream; the byte is not written. Returns the number of samples
// appended by this call.
func (s *Sink) ReadFrom(r io.Reader) (int64, error) {
	var appended int64
	var leftover [1]byte
	haveLeftover := false
	buf := make([]byte, 32*1024)

	for {
		n, readErr := r.Read(buf)
		if n > 0 {
			chunk := buf[:n]
			if haveLeftover {
				pair := []byte{leftover[0], chunk[0]}
				if _, err := s.file.Write(pair); err != nil {
					return appended, fmt.Errorf("pcm: append sample: %w", err)
				}
				appended++
				chunk = chunk[1:]
				haveLeftover = false
			}
			complete := len(chunk) / bytesPerSample * bytesPerSample
			if complete > 0 {
				if _, err := s.file.Write(chunk[:complete]); err != nil {
					return appended, fmt.Errorf("pcm: append samples: %w", err)
				}
				appended += int64(complete / bytesPerSample)
			}
			if complete < len(chunk) {
				leftover[0] = chunk[complete]
				haveLeftover = true
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			s.samples += appended
			return appended, fmt.Errorf("pcm: read stream: %w", readErr)
		}
	}

	s.samples += appended
	if haveLeftover {
		return appended, ErrTruncatedStream
	}
	return appended, nil
}

// Samples reports the total number of samples appended so far.
func (s *Sink) Samples() int64 {
	return s.samples
}

// Finalize patches the container header with the final sizes and closes the
// file. The artifact is a valid self-describing WAV immediately afterwards.
func (s *Sink) Finalize() error {
	if _, err := s.file.Seek(0, io.SeekStart); err != nil {
		s.file.Close()
		return fmt.Errorf("pcm: seek header: %w", err)
	}
	if err := writeHeader(s.file, s.samples*bytesPerSample); err != nil {
		s.file.Close()
		return fmt.Errorf("pcm: finalize header: %w", err)
	}
	if err := s.file.Close(); err != nil {
		return fmt.Errorf("pcm: close container: %w", err)
	}
	return nil
}

// Close releases the file handle without finalizing the header. Used on
// failure paths where the artifact is kept for diagnosis.
func (s *Sink) Close() error {
	return s.file.Close()
}

func writeHeader(w io.Writer, dataSize int64) error {
	byteRate := SampleRate * Channels * bytesPerSample
	blockAlign := Channels * bytesPerSample

	var scratch [headerSize]byte
	copy(scratch[0:4], "RIFF")
	binary.LittleEndian.PutUint32(scratch[4:8], uint32(36+dataSize))
	copy(scratch[8:12], "WAVE")
	copy(scratch[12:16], "fmt ")
	binary.LittleEndian.PutUint32(scratch[16:20], 16)
	binary.LittleEndian.PutUint16(scratch[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(scratch[22:24], Channels)
	binary.LittleEndian.PutUint32(scratch[24:28], SampleRate)
	binary.LittleEndian.PutUint32(scratch[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(scratch[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(scratch[34:36], BitsPerSample)
	copy(scratch[36:40], "data")
	binary.LittleEndian.PutUint32(scratch[40:44], uint32(dataSize))

	_, err := w.Write(scratch[:])
	return err
}
