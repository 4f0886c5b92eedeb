package live

import (
	"bytes"
	"encoding/binary"
	"sync"
)

// Recorder accumulates the session's raw audio chunks and finalizes them as
// a single WAV artifact for the batch pipeline. The live detectors see each
// chunk as it arrives; the recorder only cares about the durable copy.
type Recorder struct {
	mu   sync.Mutex
	pcm  bytes.Buffer
	done bool

	sampleRate    int
	channels      int
	bitsPerSample int
}

// NewRecorder creates a recorder for 16-bit mono PCM at the given sample rate
func NewRecorder(sampleRate int) *Recorder {
	if sampleRate <= 0 {
		sampleRate = 16000
	}
	return &Recorder{
		sampleRate:    sampleRate,
		channels:      1,
		bitsPerSample: 16,
	}
}

// Append adds a raw PCM chunk; chunks after finalization are dropped
func (r *Recorder) Append(chunk []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.done {
		return
	}
	r.pcm.Write(chunk)
}

// Len returns the accumulated PCM byte count
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pcm.Len()
}

// Finalize returns the accumulated audio as a complete WAV file and stops
// accepting further chunks. Calling it again returns the same bytes.
func (r *Recorder) Finalize() []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.done = true

	pcm := r.pcm.Bytes()
	byteRate := r.sampleRate * r.channels * r.bitsPerSample / 8
	blockAlign := r.channels * r.bitsPerSample / 8

	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+len(pcm)))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(r.channels))
	binary.Write(&buf, binary.LittleEndian, uint32(r.sampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(byteRate))
	binary.Write(&buf, binary.LittleEndian, uint16(blockAlign))
	binary.Write(&buf, binary.LittleEndian, uint16(r.bitsPerSample))
	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(len(pcm)))
	buf.Write(pcm)

	return buf.Bytes()
}
