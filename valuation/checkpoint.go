package valuation

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// Checkpoint file layout (little-endian):
//
//	magic   [4]byte  "BQR1"
//	dim     uint32   feature dimension, must equal FeatureDim
//	weights [dim]float32
//	bias    float32
//
// The file is read-only and loaded once per process.
var checkpointMagic = [4]byte{'B', 'Q', 'R', '1'}

type checkpoint struct {
	weights []float32
	bias    float32
}

func loadCheckpoint(path string) (*checkpoint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open checkpoint: %w", err)
	}
	defer f.Close()
	return readCheckpoint(bufio.NewReader(f))
}

func readCheckpoint(r io.Reader) (*checkpoint, error) {
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, fmt.Errorf("read checkpoint magic: %w", err)
	}
	if magic != checkpointMagic {
		return nil, fmt.Errorf("bad checkpoint magic %q", magic[:])
	}
	var dim uint32
	if err := binary.Read(r, binary.LittleEndian, &dim); err != nil {
		return nil, fmt.Errorf("read checkpoint dim: %w", err)
	}
	if dim != FeatureDim {
		return nil, fmt.Errorf("checkpoint dim %d, want %d", dim, FeatureDim)
	}
	cp := &checkpoint{weights: make([]float32, dim)}
	if err := binary.Read(r, binary.LittleEndian, &cp.weights); err != nil {
		return nil, fmt.Errorf("read checkpoint weights: %w", err)
	}
	if err := binary.Read(r, binary.LittleEndian, &cp.bias); err != nil {
		return nil, fmt.Errorf("read checkpoint bias: %w", err)
	}
	return cp, nil
}

// WriteCheckpoint writes weights in the format loadCheckpoint reads.
// Exported for tooling that exports a trained model into this layout.
func WriteCheckpoint(w io.Writer, weights []float32, bias float32) error {
	if len(weights) != FeatureDim {
		return fmt.Errorf("got %d weights, want %d", len(weights), FeatureDim)
	}
	if _, err := w.Write(checkpointMagic[:]); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(weights))); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, weights); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, bias)
}
