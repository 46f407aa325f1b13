package main

import (
	"fmt"

	"github.com/wbrown/janus-sparql/forms"
	"github.com/wbrown/janus-sparql/term"
)

// templateTermJSON is the wire form of a forms.TemplateTerm: a
// discriminated union rendered as a string tag rather than
// TemplateTermKind's bare int, so request bodies stay readable.
type templateTermJSON struct {
	Kind     string       `json:"kind"` // "variable" | "constant" | "blank"
	Slot     int          `json:"slot,omitempty"`
	Constant term.Encoded `json:"constant,omitempty"`
	Label    string       `json:"label,omitempty"`
}

func (t templateTermJSON) toTemplateTerm() (forms.TemplateTerm, error) {
	switch t.Kind {
	case "variable":
		return forms.Variable(t.Slot), nil
	case "constant":
		return forms.Constant(t.Constant), nil
	case "blank":
		return forms.Blank(t.Label), nil
	default:
		return forms.TemplateTerm{}, fmt.Errorf("template term: unknown kind %q", t.Kind)
	}
}

type templateTripleJSON struct {
	Subject   templateTermJSON `json:"subject"`
	Predicate templateTermJSON `json:"predicate"`
	Object    templateTermJSON `json:"object"`
}

func (t templateTripleJSON) toTripleTemplate() (forms.TripleTemplate, error) {
	s, err := t.Subject.toTemplateTerm()
	if err != nil {
		return forms.TripleTemplate{}, err
	}
	p, err := t.Predicate.toTemplateTerm()
	if err != nil {
		return forms.TripleTemplate{}, err
	}
	o, err := t.Object.toTemplateTerm()
	if err != nil {
		return forms.TripleTemplate{}, err
	}
	return forms.TripleTemplate{Subject: s, Predicate: p, Object: o}, nil
}
