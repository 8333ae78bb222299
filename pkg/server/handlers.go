package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/flowglyph/pkg/buildinfo"
	"github.com/matzehuels/flowglyph/pkg/core/pictograph"
	"github.com/matzehuels/flowglyph/pkg/core/sequence"
	"github.com/matzehuels/flowglyph/pkg/errors"
	flowio "github.com/matzehuels/flowglyph/pkg/io"
	"github.com/matzehuels/flowglyph/pkg/render/continuity"
	"github.com/matzehuels/flowglyph/pkg/store"
)

// PositionRequest is the body of POST /v1/pictographs/position.
type PositionRequest struct {
	Pictograph pictograph.PictographData `json:"pictograph"`
	// Previous holds the previous beat's end orientations; omit it for a
	// pictograph without sequence context.
	Previous pictograph.Orientations `json:"previous_end_orientations,omitempty"`
}

// ValidateResponse is the body returned by POST /v1/sequences/validate.
type ValidateResponse struct {
	Valid    bool                `json:"valid"`
	Issues   []sequence.Issue    `json:"issues"`
	Fixes    []string            `json:"fixes"`
	Sequence pictograph.Sequence `json:"sequence"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"build":  buildinfo.Get(),
	})
}

func (s *Server) handlePositionPictograph(w http.ResponseWriter, r *http.Request) {
	var req PositionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, decodeError(err, "decode request"))
		return
	}
	p, err := flowio.NormalizePictograph(req.Pictograph, "")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	pl, err := s.runner.PositionPictograph(r.Context(), p, req.Previous)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, pl)
}

func (s *Server) readSequence(w http.ResponseWriter, r *http.Request) (pictograph.Sequence, bool) {
	seq, err := flowio.ReadSequence(r.Body)
	if err != nil {
		s.writeError(w, r, decodeError(err, "decode sequence"))
		return seq, false
	}
	return seq, true
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	seq, ok := s.readSequence(w, r)
	if !ok {
		return
	}
	issues := s.runner.Validate(seq)
	fixed, fixes := s.runner.Validator().ValidateAndFix(seq)
	if issues == nil {
		issues = []sequence.Issue{}
	}
	if fixes == nil {
		fixes = []string{}
	}
	s.writeJSON(w, http.StatusOK, ValidateResponse{
		Valid:    len(issues) == 0,
		Issues:   issues,
		Fixes:    fixes,
		Sequence: fixed,
	})
}

func (s *Server) handlePositionSequence(w http.ResponseWriter, r *http.Request) {
	seq, ok := s.readSequence(w, r)
	if !ok {
		return
	}
	res, err := s.runner.PositionSequence(r.Context(), seq)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleEndOrientations(w http.ResponseWriter, r *http.Request) {
	seq, ok := s.readSequence(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"end_orientations": s.runner.EndOrientations(seq),
	})
}

// =============================================================================
// Stored sequences
// =============================================================================

func (s *Server) requireStore(w http.ResponseWriter, r *http.Request) bool {
	if s.store == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeUnsupported, "sequence storage is not configured"))
		return false
	}
	return true
}

func (s *Server) handlePut(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w, r) {
		return
	}
	seq, ok := s.readSequence(w, r)
	if !ok {
		return
	}
	id, err := s.store.Put(r.Context(), seq)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"id": id})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w, r) {
		return
	}
	list, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if list == nil {
		list = []store.Summary{}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"sequences": list})
}

func (s *Server) loadSequence(w http.ResponseWriter, r *http.Request) (pictograph.Sequence, bool) {
	if !s.requireStore(w, r) {
		return pictograph.Sequence{}, false
	}
	seq, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return seq, false
	}
	return seq, true
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	seq, ok := s.loadSequence(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, seq)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w, r) {
		return
	}
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePlacements(w http.ResponseWriter, r *http.Request) {
	seq, ok := s.loadSequence(w, r)
	if !ok {
		return
	}
	res, err := s.runner.PositionSequence(r.Context(), seq)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleContinuity(w http.ResponseWriter, r *http.Request) {
	seq, ok := s.loadSequence(w, r)
	if !ok {
		return
	}
	detailed := r.URL.Query().Get("detailed") == "true"
	svg, err := continuity.RenderSVG(r.Context(), continuity.ToDOT(seq, continuity.Options{Detailed: detailed}))
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "render continuity graph"))
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(svg)
}

// decodeError keeps coded errors and max-size errors as they are and codes
// everything else as a format error.
func decodeError(err error, msg string) error {
	if errors.GetCode(err) != "" {
		return err
	}
	if _, ok := err.(*http.MaxBytesError); ok {
		return err
	}
	return errors.Wrap(errors.ErrCodeInvalidFormat, err, "%s", msg)
}
