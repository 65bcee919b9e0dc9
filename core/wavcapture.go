package core

/*------------------------------------------------------------------
 *
 * Purpose:	Diagnostic RX/TX WAV capture (C1 ambient stack, spec §6):
 *		write raw demodulator/modulator sample streams to a
 *		standard RIFF/WAVE PCM file for offline inspection.
 *
 * Description:	Field layout and write-now/patch-sizes-later sequencing
 *		follow the teacher's audio_file_open/audio_file_close
 *		(src/gen_packets.go), translated from its cgo
 *		struct-literal-over-C-FILE* approach to encoding/binary
 *		over an os.File, since this core has no cgo audio device
 *		layer to share a header struct with.
 *
 *----------------------------------------------------------------*/

import (
	"encoding/binary"
	"fmt"
	"os"
)

const wavHeaderSize = 44

// WavWriter captures mono 16-bit PCM samples to a RIFF/WAVE file. The
// header is written with placeholder sizes on Create and patched on
// Close, exactly as the teacher's audio_file_open/audio_file_close
// pair does.
type WavWriter struct {
	f          *os.File
	sampleRate int
	byteCount  int64
}

// CreateWavWriter opens path and writes a placeholder 44-byte PCM
// header for one mono channel at sampleRate, bitsPerSample must be 16
// (the only depth anything in this core produces).
func CreateWavWriter(path string, sampleRate int) (*WavWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating wav file %q: %w", path, err)
	}
	w := &WavWriter{f: f, sampleRate: sampleRate}
	if err := w.writeHeader(0); err != nil {
		f.Close()
		return nil, err
	}
	return w, nil
}

func (w *WavWriter) writeHeader(dataSize uint32) error {
	if _, err := w.f.Seek(0, 0); err != nil {
		return err
	}
	const (
		bitsPerSample = 16
		numChannels   = 1
	)
	blockAlign := uint16(numChannels * bitsPerSample / 8)
	byteRate := uint32(w.sampleRate) * uint32(blockAlign)

	hdr := make([]byte, wavHeaderSize)
	copy(hdr[0:4], "RIFF")
	binary.LittleEndian.PutUint32(hdr[4:8], dataSize+wavHeaderSize-8)
	copy(hdr[8:12], "WAVE")
	copy(hdr[12:16], "fmt ")
	binary.LittleEndian.PutUint32(hdr[16:20], 16) // fmt chunk size, always 16 for PCM
	binary.LittleEndian.PutUint16(hdr[20:22], 1)  // PCM
	binary.LittleEndian.PutUint16(hdr[22:24], numChannels)
	binary.LittleEndian.PutUint32(hdr[24:28], uint32(w.sampleRate))
	binary.LittleEndian.PutUint32(hdr[28:32], byteRate)
	binary.LittleEndian.PutUint16(hdr[32:34], blockAlign)
	binary.LittleEndian.PutUint16(hdr[34:36], bitsPerSample)
	copy(hdr[36:40], "data")
	binary.LittleEndian.PutUint32(hdr[40:44], dataSize)

	_, err := w.f.Write(hdr)
	return err
}

// Write appends samples to the capture file.
func (w *WavWriter) Write(samples []int16) error {
	buf := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(s))
	}
	if _, err := w.f.Seek(0, 2); err != nil {
		return err
	}
	n, err := w.f.Write(buf)
	w.byteCount += int64(n)
	return err
}

// Close patches the RIFF and data chunk sizes now that the total byte
// count is known, then closes the file (mirrors audio_file_close's
// seek-back-and-rewrite).
func (w *WavWriter) Close() error {
	if err := w.writeHeader(uint32(w.byteCount)); err != nil {
		w.f.Close()
		return err
	}
	return w.f.Close()
}

// ReadWavMono reads a mono 16-bit PCM WAV file's samples back, for
// tests and offline replay. Only the fields this core ever writes are
// validated; a foreign WAV with extra chunks before "data" is
// rejected rather than skipped.
func ReadWavMono(path string) (samples []int16, sampleRate int, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, err
	}
	if len(data) < wavHeaderSize || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, 0, fmt.Errorf("%s: not a RIFF/WAVE file", path)
	}
	if string(data[12:16]) != "fmt " || string(data[36:40]) != "data" {
		return nil, 0, fmt.Errorf("%s: unsupported WAV chunk layout", path)
	}
	sampleRate = int(binary.LittleEndian.Uint32(data[24:28]))
	dataSize := binary.LittleEndian.Uint32(data[40:44])
	payload := data[wavHeaderSize:]
	if uint32(len(payload)) < dataSize {
		dataSize = uint32(len(payload))
	}
	samples = make([]int16, dataSize/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(payload[i*2:]))
	}
	return samples, sampleRate, nil
}
