// Package frontmatter reads and writes markdown design documents whose model
// payload sits in a YAML block between --- delimiters. The markdown body is
// free-form prose and never parsed.
package frontmatter

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

var (
	openLF   = []byte("---\n")
	openCRLF = []byte("---\r\n")
)

// Has reports whether data opens with a front matter delimiter.
func Has(data []byte) bool {
	return bytes.HasPrefix(data, openLF) || bytes.HasPrefix(data, openCRLF)
}

// Parse splits a markdown document into its front matter (raw YAML bytes)
// and body. Both LF and CRLF line endings are accepted around the
// delimiters.
func Parse(data []byte) (fm []byte, body []byte, err error) {
	var rest []byte
	switch {
	case bytes.HasPrefix(data, openLF):
		rest = data[len(openLF):]
	case bytes.HasPrefix(data, openCRLF):
		rest = data[len(openCRLF):]
	default:
		return nil, nil, fmt.Errorf("frontmatter: missing opening --- delimiter")
	}

	// An empty block closes on the very first line.
	if bytes.HasPrefix(rest, []byte("---")) {
		return nil, trimLineEnd(rest[3:]), nil
	}
	idx := bytes.Index(rest, []byte("\n---"))
	if idx < 0 {
		return nil, nil, fmt.Errorf("frontmatter: missing closing --- delimiter")
	}
	fm = bytes.TrimSuffix(rest[:idx], []byte("\r"))
	return fm, trimLineEnd(rest[idx+4:]), nil
}

func trimLineEnd(b []byte) []byte {
	b = bytes.TrimPrefix(b, []byte("\r"))
	return bytes.TrimPrefix(b, []byte("\n"))
}

// Decode parses data and unmarshals its front matter into v, returning the
// body.
func Decode(data []byte, v any) ([]byte, error) {
	fm, body, err := Parse(data)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(fm, v); err != nil {
		return nil, fmt.Errorf("frontmatter: unmarshal: %w", err)
	}
	return body, nil
}

// Write marshals v as YAML front matter followed by body.
func Write(v any, body string) ([]byte, error) {
	fm, err := yaml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("frontmatter: marshal: %w", err)
	}
	var buf bytes.Buffer
	buf.Write(openLF)
	buf.Write(fm)
	buf.Write(openLF)
	buf.WriteString(body)
	return buf.Bytes(), nil
}
