package persistence

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/colonykernel/sim/randgen"
)

func writeRNGState(w io.Writer, s randgen.State) error {
	if err := binary.Write(w, byteOrder, s.Seed); err != nil {
		return fmt.Errorf("persistence: writing rng seed: %w", err)
	}
	if err := binary.Write(w, byteOrder, s.Stream); err != nil {
		return fmt.Errorf("persistence: writing rng stream: %w", err)
	}
	return nil
}

func readRNGState(r io.Reader) (randgen.State, error) {
	var s randgen.State
	if err := binary.Read(r, byteOrder, &s.Seed); err != nil {
		return randgen.State{}, fmt.Errorf("persistence: reading rng seed: %w", err)
	}
	if err := binary.Read(r, byteOrder, &s.Stream); err != nil {
		return randgen.State{}, fmt.Errorf("persistence: reading rng stream: %w", err)
	}
	return s, nil
}
