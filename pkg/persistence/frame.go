// Package persistence implements the framed binary format of the graph
// artifact. A snapshot is a sequence of frames, each carrying one typed
// JSON payload guarded by a CRC32 checksum, so a truncated or corrupted
// file is detected at load instead of yielding a silently partial graph.
package persistence

import (
	"encoding/binary"
	"errors"
	"hash/crc32"
	"io"
)

const (
	// MagicByte marks the start of a valid frame and lets a reader detect
	// desynchronization immediately.
	MagicByte = 0xB7

	// HeaderSize is the fixed frame metadata size:
	// 1 byte (Magic) + 1 byte (OpCode) + 4 bytes (Length) + 4 bytes (CRC32).
	HeaderSize = 10

	// OpCodeHeader carries the snapshot header with format version and
	// node/edge counts. Exactly one per artifact, always first.
	OpCodeHeader = 0x01
	// OpCodeNode carries one serialized graph node.
	OpCodeNode = 0x02
	// OpCodeEdge carries one serialized graph edge.
	OpCodeEdge = 0x03
)

var (
	// ErrInvalidMagic indicates the stream lost synchronization or the file
	// is not a graph artifact.
	ErrInvalidMagic = errors.New("invalid magic byte")
	// ErrChecksumMismatch indicates corruption within a frame payload.
	ErrChecksumMismatch = errors.New("crc32 checksum mismatch")
	// ErrIncompleteFrame indicates the file ended mid-frame.
	ErrIncompleteFrame = errors.New("incomplete frame")
)

// FrameWriter writes binary frames to an underlying io.Writer. Wrap the
// target in a bufio.Writer so header and payload land in one syscall.
type FrameWriter struct {
	w io.Writer
}

// NewFrameWriter creates a writer over w.
func NewFrameWriter(w io.Writer) *FrameWriter {
	return &FrameWriter{w: w}
}

// WriteFrame encodes one payload as a frame:
// [Magic(1)][OpCode(1)][Length(4)][CRC(4)][Payload(N)]
func (fw *FrameWriter) WriteFrame(opCode byte, payload []byte) error {
	header := make([]byte, HeaderSize)
	header[0] = MagicByte
	header[1] = opCode
	binary.LittleEndian.PutUint32(header[2:6], uint32(len(payload)))
	binary.LittleEndian.PutUint32(header[6:10], crc32.ChecksumIEEE(payload))

	if _, err := fw.w.Write(header); err != nil {
		return err
	}
	if _, err := fw.w.Write(payload); err != nil {
		return err
	}
	return nil
}

// ReadFrame reads and validates the next frame, returning its opcode and
// payload. A clean io.EOF at a frame boundary means the artifact ended;
// any partial read is ErrIncompleteFrame.
func ReadFrame(r io.Reader) (byte, []byte, error) {
	header := make([]byte, HeaderSize)
	if _, err := io.ReadFull(r, header); err != nil {
		if err == io.EOF {
			return 0, nil, io.EOF
		}
		return 0, nil, ErrIncompleteFrame
	}

	if header[0] != MagicByte {
		return 0, nil, ErrInvalidMagic
	}

	opCode := header[1]
	length := binary.LittleEndian.Uint32(header[2:6])
	expectedCRC := binary.LittleEndian.Uint32(header[6:10])

	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return opCode, nil, ErrIncompleteFrame
	}

	if crc32.ChecksumIEEE(payload) != expectedCRC {
		return opCode, nil, ErrChecksumMismatch
	}
	return opCode, payload, nil
}
