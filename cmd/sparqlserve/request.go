package main

import (
	"fmt"

	"github.com/wbrown/janus-sparql/plan"
)

// queryForm names which of the four SPARQL result shapes (§4.6) a
// request wants back.
type queryForm string

const (
	formSelect    queryForm = "select"
	formAsk       queryForm = "ask"
	formConstruct queryForm = "construct"
	formDescribe  queryForm = "describe"
)

// evalRequest is the JSON body this server accepts: a pre-built plan
// (decoded straight into plan.Node/plan.Expression, which already
// marshal/unmarshal through encoding/json's default struct reflection
// since every field is exported) plus the query form and the metadata
// each form needs to render its result.
//
// This adapter deliberately does not parse SPARQL text (excluded by
// the Non-goals) — a caller is expected to have already compiled a
// query down to this plan representation.
type evalRequest struct {
	Form  queryForm  `json:"form"`
	Plan  *plan.Node `json:"plan"`
	Slots int        `json:"slots"`

	// form=select: vars[i] names the variable bound to plan slot i.
	Vars []string `json:"vars,omitempty"`

	// form=construct/describe: the triple templates / described
	// resources, expressed against the same slot namespace as Plan.
	Templates []templateTripleJSON `json:"templates,omitempty"`
	Targets   []templateTermJSON   `json:"targets,omitempty"`
}

func (r *evalRequest) validate() error {
	if r.Plan == nil {
		return fmt.Errorf("request: missing plan")
	}
	switch r.Form {
	case formSelect:
		if len(r.Vars) == 0 {
			return fmt.Errorf("request: select requires vars")
		}
	case formAsk:
	case formConstruct:
		if len(r.Templates) == 0 {
			return fmt.Errorf("request: construct requires templates")
		}
	case formDescribe:
		if len(r.Targets) == 0 {
			return fmt.Errorf("request: describe requires targets")
		}
	default:
		return fmt.Errorf("request: unknown form %q", r.Form)
	}
	return nil
}
