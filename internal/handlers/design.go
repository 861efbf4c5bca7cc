package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"blueprint/internal/flow"
	"blueprint/internal/metrics"
	"blueprint/internal/model"
	"blueprint/internal/workspace"
)

// maxBody bounds a request document stream.
const maxBody = 4 << 20

const surface = "http"

// Design serves validation and rendering of posted design documents. The
// body of every request is a YAML stream of documents, each with a kind.
type Design struct {
	Metrics *metrics.Metrics
	// Workspace backs GET /project. It may be nil.
	Workspace *workspace.Workspace
}

type ValidateResponse struct {
	Valid   bool               `json:"valid"`
	Summary *workspace.Summary `json:"summary,omitempty"`
	Finding *model.Finding     `json:"finding,omitempty"`
	Error   string             `json:"error,omitempty"`
}

// ValidateHandler answers 200 with a summary when every document
// assembles, 422 with the finding when a model invariant fails, 400 when
// the body cannot be decoded and 413 when it exceeds maxBody.
func (d *Design) ValidateHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	p, status, err := d.assemble(w, r)
	d.Metrics.ObserveValidation(surface, err)
	if err != nil {
		resp := ValidateResponse{Error: err.Error()}
		resp.Finding, _ = model.AsFinding(err)
		writeJSON(w, status, resp)
		return
	}
	s := p.Summary()
	writeJSON(w, http.StatusOK, ValidateResponse{Valid: true, Summary: &s})
}

// ProjectHandler validates the served workspace from disk and answers like
// ValidateHandler: 422 for a finding, 400 when a file cannot be read or
// decoded.
func (d *Design) ProjectHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if d.Workspace == nil {
		http.Error(w, "No workspace is being served", http.StatusNotFound)
		return
	}
	p, status, err := d.load()
	d.Metrics.ObserveValidation(surface, err)
	if err != nil {
		resp := ValidateResponse{Error: err.Error()}
		resp.Finding, _ = model.AsFinding(err)
		writeJSON(w, status, resp)
		return
	}
	s := p.Summary()
	writeJSON(w, http.StatusOK, ValidateResponse{Valid: true, Summary: &s})
}

// RenderHandler returns the PlantUML document of one activity diagram
// (?diagram=<id>) or of every diagram, in declaration order.
func (d *Design) RenderHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var want *model.DiagramID
	if q := r.URL.Query().Get("diagram"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil {
			http.Error(w, "Invalid diagram id: "+q, http.StatusBadRequest)
			return
		}
		id := model.DiagramID(n)
		want = &id
	}

	p, status, err := d.assemble(w, r)
	d.Metrics.ObserveValidation(surface, err)
	if err != nil {
		http.Error(w, err.Error(), status)
		return
	}

	diagrams := p.ActivityDiagrams()
	if want != nil {
		a, ok := p.ActivityDiagram(*want)
		if !ok {
			http.Error(w, "Activity diagram not found: "+strconv.Itoa(int(*want)), http.StatusNotFound)
			return
		}
		diagrams = []*model.ActivityModel{a}
	}
	if len(diagrams) == 0 {
		http.Error(w, "No activity diagrams", http.StatusNotFound)
		return
	}

	var b strings.Builder
	for _, a := range diagrams {
		doc, n := flow.Render(a)
		d.Metrics.ObserveRender(surface, n)
		b.WriteString(doc)
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := io.WriteString(w, b.String()); err != nil {
		log.Printf("Error writing render response: %v", err)
	}
}

// assemble decodes and validates the request body. The returned status is
// meaningful only when err is non-nil.
func (d *Design) assemble(w http.ResponseWriter, r *http.Request) (*workspace.Project, int, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)
	defer r.Body.Close()
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, http.StatusRequestEntityTooLarge, err
		}
		return nil, http.StatusBadRequest, err
	}
	docs, err := workspace.Decode("request.yaml", body)
	if err != nil {
		return nil, http.StatusBadRequest, err
	}
	p, err := workspace.Assemble("", docs)
	if err != nil {
		return nil, http.StatusUnprocessableEntity, err
	}
	return p, http.StatusOK, nil
}

// load is assemble for the served workspace.
func (d *Design) load() (*workspace.Project, int, error) {
	docs, err := d.Workspace.Decode()
	if err != nil {
		return nil, http.StatusBadRequest, err
	}
	p, err := workspace.Assemble(d.Workspace.Manifest.Name, docs)
	if err != nil {
		return nil, http.StatusUnprocessableEntity, err
	}
	return p, http.StatusOK, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}
