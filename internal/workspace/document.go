package workspace

// document.go — decoding design documents.
//
// A document is one YAML mapping with a "kind" key naming the layer it
// describes; the rest of the mapping is that layer's candidate model. A
// .yaml file may hold a multi-document stream. A .md file carries exactly
// one document in its front matter.

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"blueprint/internal/frontmatter"
	"blueprint/internal/model"
)

// Kind names the layer a document describes.
type Kind string

const (
	KindUseCaseModel        Kind = "use_case_model"
	KindUseCaseDescriptions Kind = "use_case_descriptions"
	KindActivityModel       Kind = "activity_model"
	KindClassDiagram        Kind = "class_diagram"
	KindObjectDiagram       Kind = "object_diagram"
	KindCRCCards            Kind = "crc_cards"
	KindRequirements        Kind = "requirements"
)

// Kinds lists every document kind in assembly order.
var Kinds = []Kind{
	KindUseCaseModel,
	KindUseCaseDescriptions,
	KindActivityModel,
	KindRequirements,
	KindClassDiagram,
	KindObjectDiagram,
	KindCRCCards,
}

// ParseKind validates s as a document kind.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown document kind %q", s)
}

// Document is one decoded, not yet validated, design document.
type Document struct {
	// Source is the file name, suffixed with "#n" for the n-th document of
	// a stream when n > 1.
	Source string
	Kind   Kind
	// Payload holds the candidate value for Kind, e.g. a
	// model.ActivityModelCollection for KindActivityModel.
	Payload any
}

// Decode decodes every document in data. name picks the format by
// extension: ".md" reads front matter, anything else a YAML stream.
func Decode(name string, data []byte) ([]Document, error) {
	if strings.EqualFold(filepath.Ext(name), ".md") {
		fm, _, err := frontmatter.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		data = fm
	}

	var docs []Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	for i := 0; ; i++ {
		var node yaml.Node
		err := dec.Decode(&node)
		if errors.Is(err, io.EOF) {
			break
		}
		source := name
		if i > 0 {
			source = fmt.Sprintf("%s#%d", name, i+1)
		}
		if err != nil {
			return nil, fmt.Errorf("%s: parse: %w", source, err)
		}
		if isEmpty(&node) {
			continue
		}
		doc, err := decodeNode(source, &node)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("%s: no documents", name)
	}
	return docs, nil
}

func isEmpty(n *yaml.Node) bool {
	if n.Kind == 0 {
		return true
	}
	return n.Kind == yaml.DocumentNode && (len(n.Content) == 0 || n.Content[0].Tag == "!!null")
}

func decodeNode(source string, node *yaml.Node) (Document, error) {
	var head struct {
		Kind string `yaml:"kind"`
	}
	if err := node.Decode(&head); err != nil {
		return Document{}, fmt.Errorf("%s: %w", source, err)
	}
	if head.Kind == "" {
		return Document{}, fmt.Errorf("%s: missing kind", source)
	}
	kind, err := ParseKind(head.Kind)
	if err != nil {
		return Document{}, fmt.Errorf("%s: %w", source, err)
	}

	var payload any
	switch kind {
	case KindUseCaseModel:
		payload, err = decodeAs[model.UseCaseModelCollection](node)
	case KindUseCaseDescriptions:
		payload, err = decodeAs[model.UseCaseDescriptionCollection](node)
	case KindActivityModel:
		payload, err = decodeAs[model.ActivityModelCollection](node)
	case KindClassDiagram:
		payload, err = decodeAs[model.ClassDiagram](node)
	case KindObjectDiagram:
		payload, err = decodeAs[model.ObjectDiagram](node)
	case KindCRCCards:
		payload, err = decodeAs[model.CRCCardSet](node)
	case KindRequirements:
		payload, err = decodeAs[model.RequirementSet](node)
	}
	if err != nil {
		return Document{}, fmt.Errorf("%s: decode %s: %w", source, kind, err)
	}
	return Document{Source: source, Kind: kind, Payload: payload}, nil
}

func decodeAs[T any](node *yaml.Node) (T, error) {
	var v T
	err := node.Decode(&v)
	return v, err
}

// Encode marshals payload as a document of the given kind, with the kind
// key first.
func Encode[T any](kind Kind, payload T) ([]byte, error) {
	return yaml.Marshal(struct {
		Kind    Kind `yaml:"kind"`
		Payload T    `yaml:",inline"`
	}{kind, payload})
}
