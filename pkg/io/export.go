package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/flowglyph/pkg/core/pictograph"
)

// WriteJSON encodes v as indented JSON and writes it to w.
func WriteJSON(v any, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes v to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(v any, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteJSON(v, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteSequence writes seq in the format read by [ReadSequence].
func WriteSequence(seq pictograph.Sequence, w io.Writer) error {
	return WriteJSON(seq, w)
}

// ExportSequence writes seq to a JSON file at path.
func ExportSequence(seq pictograph.Sequence, path string) error {
	return ExportJSON(seq, path)
}
