package export

// export.go — renders a validated project into a documentation bundle.
//
// Bundle layout:
//   index.md                     — project summary and page index
//   traceability.md              — per use case: descriptions, activities, requirements
//   requirements.md              — functional and non-functional tables
//   activity/<id>-<name>.puml    — one PlantUML activity document per diagram
//   activity/overview.puml       — one package per activity diagram
//
// Markdown pages use [[path|display]] wiki links without extensions.

import (
	"cmp"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"blueprint/internal/flow"
	"blueprint/internal/frontmatter"
	"blueprint/internal/model"
	"blueprint/internal/workspace"
)

// Bundle holds generated page content keyed by forward-slash path relative
// to the output directory.
type Bundle struct {
	pages map[string]string
}

// Paths returns every page path, sorted.
func (b *Bundle) Paths() []string {
	paths := make([]string, 0, len(b.pages))
	for p := range b.pages {
		paths = append(paths, p)
	}
	slices.Sort(paths)
	return paths
}

// Page returns the content of one page.
func (b *Bundle) Page(path string) (string, bool) {
	s, ok := b.pages[path]
	return s, ok
}

// GenerateBundle builds every page for p. No files are written.
func GenerateBundle(p *workspace.Project) (*Bundle, error) {
	pages := make(map[string]string)

	activities := p.ActivityDiagrams()
	for _, a := range activities {
		pages[activityPath(a)] = flow.Document(a)
	}
	if len(activities) > 0 {
		all, err := mergeActivities(p)
		if err != nil {
			return nil, fmt.Errorf("merge activity collections: %w", err)
		}
		pages["activity/overview.puml"] = flow.Overview(all)
	}

	index, err := buildIndexPage(p, activities)
	if err != nil {
		return nil, err
	}
	pages["index.md"] = index
	pages["traceability.md"] = buildTraceability(p)
	pages["requirements.md"] = buildRequirements(p)

	return &Bundle{pages: pages}, nil
}

// WriteBundle writes all pages to outputDir in sorted path order, so two
// runs over the same project produce byte-identical trees. The activity/
// directory always exists afterwards.
func WriteBundle(b *Bundle, outputDir string) error {
	if err := os.MkdirAll(filepath.Join(outputDir, "activity"), 0o755); err != nil {
		return fmt.Errorf("mkdir activity: %w", err)
	}
	for _, p := range b.Paths() {
		abs := filepath.Join(outputDir, filepath.FromSlash(p))
		if err := writePage(abs, b.pages[p]); err != nil {
			return err
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Page builders
// ---------------------------------------------------------------------------

type indexMeta struct {
	Tags    []string          `yaml:"tags"`
	Project string            `yaml:"project"`
	Summary workspace.Summary `yaml:"summary"`
}

func buildIndexPage(p *workspace.Project, activities []*model.ActivityModel) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", p.Name)

	s := p.Summary()
	b.WriteString("| Layer | Count |\n")
	b.WriteString("|-------|-------|\n")
	fmt.Fprintf(&b, "| Use case diagrams | %d |\n", s.UseCaseDiagrams)
	fmt.Fprintf(&b, "| Use case descriptions | %d |\n", s.Descriptions)
	fmt.Fprintf(&b, "| Activity diagrams | %d |\n", s.ActivityDiagrams)
	fmt.Fprintf(&b, "| Requirements | %d |\n", s.Requirements)
	fmt.Fprintf(&b, "| Class diagrams | %d |\n", s.ClassDiagrams)
	fmt.Fprintf(&b, "| Object diagrams | %d |\n", s.ObjectDiagrams)
	fmt.Fprintf(&b, "| CRC cards | %d |\n", s.CRCCards)

	b.WriteString("\n## Pages\n\n")
	b.WriteString("- [[traceability|Traceability]]\n")
	b.WriteString("- [[requirements|Requirements]]\n")

	if len(activities) > 0 {
		b.WriteString("\n## Activity Diagrams\n\n")
		b.WriteString("- [[activity/overview|Overview]]\n")
		for _, a := range activities {
			fmt.Fprintf(&b, "- [[%s|%s]]\n", strings.TrimSuffix(activityPath(a), ".puml"), a.Name())
		}
	}

	if len(p.Classes) > 0 {
		b.WriteString("\n## Class Diagrams\n\n")
		for _, c := range p.Classes {
			d := c.Diagram()
			fmt.Fprintf(&b, "- %s: %d classes, %d generalizations, %d associations\n",
				d.Name, len(d.Classes), len(d.Generalizations), len(d.Associations))
		}
	}

	if len(p.CRC) > 0 {
		b.WriteString("\n## CRC Cards\n\n")
		for _, set := range p.CRC {
			for _, c := range set.Cards() {
				var collab []string
				for _, r := range c.Responsibilities {
					collab = append(collab, r.Collaborators...)
				}
				slices.Sort(collab)
				collab = slices.Compact(collab)
				line := "- " + c.ClassName
				if len(collab) > 0 {
					line += " (collaborates with " + strings.Join(collab, ", ") + ")"
				}
				b.WriteString(line + "\n")
			}
		}
	}

	out, err := frontmatter.Write(indexMeta{Tags: []string{"blueprint/index"}, Project: p.Name, Summary: s}, "\n"+b.String())
	if err != nil {
		return "", fmt.Errorf("index.md: %w", err)
	}
	return string(out), nil
}

type useCaseTrace struct {
	name         string
	descriptions []string
	activities   []string
	requirements []string
}

// buildTraceability groups every downstream reference by the use case it
// points at. Use cases with no references still get a heading.
func buildTraceability(p *workspace.Project) string {
	var b strings.Builder
	b.WriteString(tagBlock("blueprint/traceability"))
	b.WriteString("# Traceability\n\n")

	if p.UseCases == nil {
		b.WriteString("_No use case model._\n")
		return b.String()
	}

	traces := make(map[model.ElementRef]*useCaseTrace)
	var refs []model.ElementRef
	for _, d := range p.UseCases.Diagrams() {
		for _, uc := range d.Diagram().UseCases {
			ref := model.ElementRef{DiagramID: d.ID(), ElementID: uc.ID}
			traces[ref] = &useCaseTrace{name: uc.Name}
			refs = append(refs, ref)
		}
	}

	for _, c := range p.Descriptions {
		for _, d := range c.Descriptions() {
			if t, ok := traces[d.Ref()]; ok {
				t.descriptions = append(t.descriptions, d.Goal)
			}
		}
	}
	for _, a := range p.ActivityDiagrams() {
		for _, l := range a.UseCaseLinks() {
			ref := model.ElementRef{DiagramID: l.DiagramID, ElementID: l.UseCaseID}
			if t, ok := traces[ref]; ok {
				link := fmt.Sprintf("[[%s|%s]]", strings.TrimSuffix(activityPath(a), ".puml"), a.Name())
				if l.FlowStep != "" {
					link += " (" + l.FlowStep + ")"
				}
				t.activities = append(t.activities, link)
			}
		}
	}
	for _, rs := range p.Requirements {
		for _, r := range rs.Requirements() {
			if r.Functional == nil {
				continue
			}
			for _, ref := range r.Functional.UseCases {
				if t, ok := traces[ref]; ok {
					t.requirements = append(t.requirements, fmt.Sprintf("R%d: %s", r.ID, r.Description()))
				}
			}
		}
	}

	slices.SortFunc(refs, func(a, b model.ElementRef) int {
		return cmp.Or(cmp.Compare(a.DiagramID, b.DiagramID), cmp.Compare(a.ElementID, b.ElementID))
	})
	for _, ref := range refs {
		t := traces[ref]
		fmt.Fprintf(&b, "## UC%d (Diagram %d): %s\n\n", ref.ElementID, ref.DiagramID, t.name)
		writeList(&b, "Description", t.descriptions)
		writeList(&b, "Activities", t.activities)
		writeList(&b, "Requirements", t.requirements)
		if len(t.descriptions)+len(t.activities)+len(t.requirements) == 0 {
			b.WriteString("_Not referenced._\n\n")
		}
	}
	return b.String()
}

func writeList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "**%s**\n\n", title)
	for _, it := range items {
		b.WriteString("- " + it + "\n")
	}
	b.WriteString("\n")
}

func buildRequirements(p *workspace.Project) string {
	var b strings.Builder
	b.WriteString(tagBlock("blueprint/requirements"))
	b.WriteString("# Requirements\n\n")

	var functional, nonFunctional []model.Requirement
	for _, rs := range p.Requirements {
		for _, r := range rs.Requirements() {
			switch r.Type {
			case model.RequirementFunctional:
				functional = append(functional, r)
			case model.RequirementNonFunctional:
				nonFunctional = append(nonFunctional, r)
			}
		}
	}
	if len(functional)+len(nonFunctional) == 0 {
		b.WriteString("_None._\n")
		return b.String()
	}

	if len(functional) > 0 {
		b.WriteString("## Functional\n\n")
		b.WriteString("| ID | Description | Priority | Use cases |\n")
		b.WriteString("|----|-------------|----------|-----------|\n")
		for _, r := range functional {
			var ucs []string
			for _, ref := range r.Functional.UseCases {
				ucs = append(ucs, ref.String())
			}
			fmt.Fprintf(&b, "| R%d | %s | %s | %s |\n", r.ID, r.Functional.Description, r.Functional.Priority, strings.Join(ucs, ", "))
		}
		b.WriteString("\n")
	}

	if len(nonFunctional) > 0 {
		b.WriteString("## Non-functional\n\n")
		b.WriteString("| ID | Category | Description | Metric |\n")
		b.WriteString("|----|----------|-------------|--------|\n")
		for _, r := range nonFunctional {
			nf := r.NonFunctional
			fmt.Fprintf(&b, "| R%d | %s | %s | %s |\n", r.ID, nf.Category, nf.Description, nf.Metric)
		}
	}
	return b.String()
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func activityPath(a *model.ActivityModel) string {
	return fmt.Sprintf("activity/%d-%s.puml", a.ID(), workspace.Slug(a.Name()))
}

// mergeActivities rebuilds every activity document of p as one collection
// for the overview. Assembly already guarantees diagram ids are unique
// across documents.
func mergeActivities(p *workspace.Project) (*model.ActivityCollection, error) {
	all := model.ActivityModelCollection{ProjectName: p.Name}
	for _, a := range p.ActivityDiagrams() {
		all.ActivityDiagrams = append(all.ActivityDiagrams, a.Diagram())
	}
	return model.BuildActivityCollection(all, p.UseCases)
}

func tagBlock(tags ...string) string {
	sorted := slices.Clone(tags)
	slices.Sort(sorted)
	var b strings.Builder
	b.WriteString("---\ntags:\n")
	for _, t := range sorted {
		b.WriteString("  - " + t + "\n")
	}
	b.WriteString("---\n\n")
	return b.String()
}

// writePage writes content to path, creating parent directories as needed.
func writePage(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
