package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/townreach/ownermatch/internal/run"
	"github.com/townreach/ownermatch/internal/store"
)

// NearMissEntry pairs a group with one of its near-miss keys, flattened
// for the review queue.
type NearMissEntry struct {
	GroupIndex        int    `json:"group_index"`
	FoundingMemberKey string `json:"founding_member_key"`
	NearMissKey       string `json:"near_miss_key"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRunCounts(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.loadRun(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, doc.Counts)
}

func (s *Server) handleRunFailures(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.loadRun(w, r)
	if !ok {
		return
	}
	failures := doc.Failures
	if failures == nil {
		failures = []run.Failure{}
	}
	writeJSON(w, http.StatusOK, failures)
}

func (s *Server) handleRunGroups(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.loadRun(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, doc.Groups)
}

func (s *Server) handleRunGroup(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.loadRun(w, r)
	if !ok {
		return
	}

	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid group index"})
		return
	}

	for i := range doc.Groups {
		if doc.Groups[i].Index == index {
			writeJSON(w, http.StatusOK, doc.Groups[i])
			return
		}
	}
	writeJSON(w, http.StatusNotFound, errorResponse{Error: "group not found"})
}

func (s *Server) handleRunNearMisses(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.loadRun(w, r)
	if !ok {
		return
	}

	entries := []NearMissEntry{}
	for _, g := range doc.Groups {
		for _, key := range g.NearMissKeys {
			entries = append(entries, NearMissEntry{
				GroupIndex:        g.Index,
				FoundingMemberKey: g.FoundingMemberKey,
				NearMissKey:       key,
			})
		}
	}
	writeJSON(w, http.StatusOK, entries)
}

// loadRun fetches the run document named in the URL; on failure it writes
// the error response itself and reports false.
func (s *Server) loadRun(w http.ResponseWriter, r *http.Request) (*run.Document, bool) {
	runID := mux.Vars(r)["id"]
	doc, err := run.LoadDocument(r.Context(), s.store, runID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "run not found"})
		} else {
			s.logger.Error().Err(err).Str("run_id", runID).Msg("Failed to load run")
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to load run"})
		}
		return nil, false
	}
	return doc, true
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
