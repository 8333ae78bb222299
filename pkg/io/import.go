package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/matzehuels/flowglyph/pkg/core/pictograph"
	"github.com/matzehuels/flowglyph/pkg/errors"
)

// ReadSequence decodes a JSON sequence from r and normalizes it.
//
// ReadSequence returns an error if the JSON is malformed or if a motion is
// keyed by anything other than blue or red. ReadSequence does not close r.
func ReadSequence(r io.Reader) (pictograph.Sequence, error) {
	var seq pictograph.Sequence
	if err := json.NewDecoder(r).Decode(&seq); err != nil {
		return seq, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode sequence")
	}
	if err := NormalizeSequence(&seq); err != nil {
		return seq, err
	}
	return seq, nil
}

// ImportSequence reads a JSON sequence file at path.
func ImportSequence(path string) (pictograph.Sequence, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return pictograph.Sequence{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return pictograph.Sequence{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadSequence(f)
}

// ReadPictograph decodes a single JSON pictograph from r and normalizes it.
func ReadPictograph(r io.Reader) (pictograph.PictographData, error) {
	var p pictograph.PictographData
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return p, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode pictograph")
	}
	out, err := NormalizePictograph(p, "")
	if err != nil {
		return p, err
	}
	return out, nil
}

// NormalizeSequence canonicalizes every beat of seq in place.
func NormalizeSequence(seq *pictograph.Sequence) error {
	if sp := seq.StartPosition; sp != nil {
		p, err := NormalizePictograph(sp.Pictograph, seq.PropType)
		if err != nil {
			return errors.New(errors.ErrCodeInvalidSequence, "start position: %s", errors.UserMessage(err))
		}
		sp.Pictograph = p
	}
	for i := range seq.Beats {
		b := &seq.Beats[i]
		if b.Number == 0 {
			b.Number = i + 1
		}
		if b.IsBlank && len(b.Pictograph.Motions) == 0 {
			continue
		}
		p, err := NormalizePictograph(b.Pictograph, seq.PropType)
		if err != nil {
			return errors.New(errors.ErrCodeInvalidSequence, "beat %d: %s", b.Number, errors.UserMessage(err))
		}
		b.Pictograph = p
	}
	return nil
}

// NormalizePictograph returns p with canonical enum values and with arrows
// and props derived from its motions. propType fills in missing prop types.
func NormalizePictograph(p pictograph.PictographData, propType string) (pictograph.PictographData, error) {
	motions := make(map[pictograph.Color]pictograph.MotionData, len(p.Motions))
	for key, m := range p.Motions {
		c, ok := pictograph.ParseColor(string(key))
		if !ok {
			return p, errors.New(errors.ErrCodeInvalidMotion, "unknown motion color %q", key)
		}
		motions[c] = normalizeMotion(m)
	}
	p.Motions = motions
	if p.GridMode != "" {
		p.GridMode = pictograph.GridMode(strings.ToLower(strings.TrimSpace(string(p.GridMode))))
		p.GridMode = p.Grid()
	}
	return p.WithDerived(propType), nil
}

func normalizeMotion(m pictograph.MotionData) pictograph.MotionData {
	if t, ok := pictograph.ParseMotionType(string(m.MotionType)); ok {
		m.MotionType = t
	}
	if t, ok := pictograph.ParseMotionType(string(m.PrefloatMotionType)); ok {
		m.PrefloatMotionType = t
	}
	if l, ok := pictograph.ParseLocation(string(m.StartLoc)); ok {
		m.StartLoc = l
	}
	if l, ok := pictograph.ParseLocation(string(m.EndLoc)); ok {
		m.EndLoc = l
	}
	if m.PropRotDir != "" {
		if r, ok := pictograph.ParseRotationDirection(string(m.PropRotDir)); ok {
			m.PropRotDir = r
		}
	}
	if m.PrefloatPropRotDir != "" {
		if r, ok := pictograph.ParseRotationDirection(string(m.PrefloatPropRotDir)); ok {
			m.PrefloatPropRotDir = r
		}
	}
	if o, ok := pictograph.ParseOrientation(string(m.StartOri)); ok {
		m.StartOri = o
	}
	if o, ok := pictograph.ParseOrientation(string(m.EndOri)); ok {
		m.EndOri = o
	}
	return m
}
