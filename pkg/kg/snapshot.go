package kg

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/StephenLER/MAP/pkg/persistence"
)

// SnapshotVersion is the artifact format version. Load rejects artifacts
// written with a different version.
const SnapshotVersion = 1

// snapshotHeader is the first frame of an artifact.
type snapshotHeader struct {
	Version   int `json:"version"`
	NodeCount int `json:"node_count"`
	EdgeCount int `json:"edge_count"`
}

// WriteSnapshot serializes the store to path as a framed binary artifact.
// The write goes through a temp file renamed into place, so a crash never
// leaves a half-written artifact at the target path. Nodes are written in
// id order per type, which keeps artifacts byte-stable across runs.
func WriteSnapshot(s *Store, path string) error {
	tempPath := path + ".tmp"
	f, err := os.Create(tempPath)
	if err != nil {
		return err
	}

	if err := writeFrames(s, f); err != nil {
		f.Close()
		os.Remove(tempPath)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tempPath)
		return err
	}
	return os.Rename(tempPath, path)
}

func writeFrames(s *Store, w io.Writer) error {
	bw := bufio.NewWriter(w)
	fw := persistence.NewFrameWriter(bw)

	header, err := json.Marshal(snapshotHeader{
		Version:   SnapshotVersion,
		NodeCount: s.NodeCount(),
		EdgeCount: s.EdgeCount(),
	})
	if err != nil {
		return err
	}
	if err := fw.WriteFrame(persistence.OpCodeHeader, header); err != nil {
		return err
	}

	for _, t := range []NodeType{NodeMovie, NodePerson, NodeGenre, NodeCertificate} {
		var scanErr error
		s.ScanType(t, func(n *Node) bool {
			payload, err := json.Marshal(n)
			if err != nil {
				scanErr = err
				return false
			}
			if err := fw.WriteFrame(persistence.OpCodeNode, payload); err != nil {
				scanErr = err
				return false
			}
			return true
		})
		if scanErr != nil {
			return scanErr
		}
	}

	for _, e := range s.Edges() {
		payload, err := json.Marshal(e)
		if err != nil {
			return err
		}
		if err := fw.WriteFrame(persistence.OpCodeEdge, payload); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Load reads a framed artifact from path and builds a validated store.
// Every failure mode, from a missing file to a checksum mismatch to a
// dangling edge, wraps ErrLoad.
func Load(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoad, err)
	}
	defer f.Close()
	return Read(bufio.NewReader(f))
}

// Read builds a store from a framed artifact stream.
func Read(r io.Reader) (*Store, error) {
	var (
		header    *snapshotHeader
		nodes     []Node
		edges     []Edge
		sawHeader bool
	)

	for {
		opCode, payload, err := persistence.ReadFrame(r)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoad, err)
		}

		switch opCode {
		case persistence.OpCodeHeader:
			if sawHeader {
				return nil, fmt.Errorf("%w: duplicate header frame", ErrLoad)
			}
			var h snapshotHeader
			if err := json.Unmarshal(payload, &h); err != nil {
				return nil, fmt.Errorf("%w: bad header frame: %v", ErrLoad, err)
			}
			if h.Version != SnapshotVersion {
				return nil, fmt.Errorf("%w: unsupported artifact version %d", ErrLoad, h.Version)
			}
			header = &h
			sawHeader = true
		case persistence.OpCodeNode:
			var n Node
			if err := json.Unmarshal(payload, &n); err != nil {
				return nil, fmt.Errorf("%w: bad node frame: %v", ErrLoad, err)
			}
			nodes = append(nodes, n)
		case persistence.OpCodeEdge:
			var e Edge
			if err := json.Unmarshal(payload, &e); err != nil {
				return nil, fmt.Errorf("%w: bad edge frame: %v", ErrLoad, err)
			}
			edges = append(edges, e)
		default:
			return nil, fmt.Errorf("%w: unknown frame opcode 0x%02x", ErrLoad, opCode)
		}
	}

	if !sawHeader {
		return nil, fmt.Errorf("%w: missing header frame", ErrLoad)
	}
	if header.NodeCount != len(nodes) || header.EdgeCount != len(edges) {
		return nil, fmt.Errorf("%w: frame counts do not match header (want %d nodes %d edges, got %d/%d)",
			ErrLoad, header.NodeCount, header.EdgeCount, len(nodes), len(edges))
	}

	return New(nodes, edges)
}
