package main

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/wbrown/janus-sparql/eval"
	"github.com/wbrown/janus-sparql/executor"
	"github.com/wbrown/janus-sparql/forms"
	"github.com/wbrown/janus-sparql/internal/obslog"
	"github.com/wbrown/janus-sparql/store"
	"github.com/wbrown/janus-sparql/term"
)

// server wires the store + evaluator + logging layers behind a single
// JSON endpoint (§12). It does not parse SPARQL text; it interprets an
// already-built plan.Node.
type server struct {
	ds  store.Dataset
	log obslog.Logger
}

type selectResponse struct {
	Vars []string          `json:"vars"`
	Rows [][]*term.Decoded `json:"rows"`
}

type booleanResponse struct {
	Result bool `json:"result"`
}

type graphResponse struct {
	Triples []term.Triple `json:"triples"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *server) handleEval(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "only POST is supported")
		return
	}

	var req evalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "decode request: "+err.Error())
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ex := executor.New(s.ds)
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	it, err := ex.Execute(ctx, req.Plan, req.Slots)
	if err != nil {
		s.log.Errorf("plan build failed: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	switch req.Form {
	case formSelect:
		b, err := forms.Select(it, req.Vars, s.ds.Encoder())
		if err != nil {
			s.log.Errorf("select failed: %v", err)
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, selectResponse{Vars: b.Vars, Rows: b.Rows})

	case formAsk:
		ok, err := forms.Ask(it)
		if err != nil {
			s.log.Errorf("ask failed: %v", err)
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, booleanResponse{Result: ok})

	case formConstruct:
		templates := make([]forms.TripleTemplate, len(req.Templates))
		for i, t := range req.Templates {
			tpl, err := t.toTripleTemplate()
			if err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			templates[i] = tpl
		}
		triples, err := forms.Construct(it, templates, s.ds.Encoder(), eval.NewBlankNodeMap())
		if err != nil {
			s.log.Errorf("construct failed: %v", err)
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, graphResponse{Triples: triples})

	case formDescribe:
		targets := make([]forms.TemplateTerm, len(req.Targets))
		for i, t := range req.Targets {
			tt, err := t.toTemplateTerm()
			if err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			targets[i] = tt
		}
		triples, err := forms.Describe(it, targets, s.ds, s.ds.Encoder())
		if err != nil {
			s.log.Errorf("describe failed: %v", err)
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, graphResponse{Triples: triples})
	}

	s.log.Debugf("query form=%s completed in %s", req.Form, time.Since(start))
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: msg})
}

// newMux builds the HTTP adapter's single endpoint, following the
// teacher's lack of a web framework dependency: plain
// http.ServeMux, no gin/echo.
func newMux(s *server) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/eval", s.handleEval)
	return mux
}
