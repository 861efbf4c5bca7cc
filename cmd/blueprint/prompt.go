package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"blueprint/internal/workspace"
)

// question is one value the add command asks for.
type question struct {
	key    string
	prompt string
	value  string             // pre-filled answer
	check  func(string) error // nil accepts anything
}

// addQuestions lists what add still needs: the diagram id unless --id was
// given, and the document name unless it was an argument.
func addQuestions(needID, needName bool) []question {
	var qs []question
	if needID {
		qs = append(qs, question{key: "id", prompt: "Diagram id", value: "1", check: checkDiagramID})
	}
	if needName {
		qs = append(qs, question{key: "name", prompt: "Document name", check: checkDocumentName})
	}
	return qs
}

// parseDiagramID accepts positive integers only; diagram ids start at 1.
func parseDiagramID(s string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid id %q: must be a positive integer", s)
	}
	return id, nil
}

func checkDiagramID(s string) error {
	_, err := parseDiagramID(s)
	return err
}

// checkDocumentName refuses names that leave nothing to build a file name from.
func checkDocumentName(s string) error {
	if workspace.Slug(s) == "" {
		return errors.New("the name needs at least one letter or digit")
	}
	return nil
}

// promptModel asks the questions one at a time and will not move past an
// answer its check refuses.
type promptModel struct {
	questions []question
	idx       int
	inputs    []textinput.Model
	err       error // why the current answer was refused
	done      bool
}

func newPromptModel(questions []question) promptModel {
	inputs := make([]textinput.Model, len(questions))
	for i, q := range questions {
		ti := textinput.New()
		ti.Placeholder = q.prompt
		ti.CharLimit = 128
		ti.SetValue(q.value)
		inputs[i] = ti
	}
	m := promptModel{questions: questions, inputs: inputs}
	if len(inputs) > 0 {
		m.inputs[0].Focus()
	}
	return m
}

func (m promptModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			if check := m.questions[m.idx].check; check != nil {
				if m.err = check(m.inputs[m.idx].Value()); m.err != nil {
					return m, nil
				}
			}
			if m.idx == len(m.inputs)-1 {
				m.done = true
				return m, tea.Quit
			}
			m.inputs[m.idx].Blur()
			m.idx++
			m.inputs[m.idx].Focus()
			return m, textinput.Blink
		}
		m.err = nil
	}
	var cmd tea.Cmd
	m.inputs[m.idx], cmd = m.inputs[m.idx].Update(msg)
	return m, cmd
}

func (m promptModel) View() string {
	if m.done || len(m.questions) == 0 {
		return ""
	}
	q := m.questions[m.idx]
	v := fmt.Sprintf("%s: %s\n", q.prompt, m.inputs[m.idx].View())
	if m.err != nil {
		v += errorStyle.Render("✗ "+m.err.Error()) + "\n"
	}
	return v
}

func (m promptModel) answers() map[string]string {
	out := make(map[string]string, len(m.questions))
	for i, q := range m.questions {
		out[q.key] = strings.TrimSpace(m.inputs[i].Value())
	}
	return out
}

// promptQuestions runs the TUI and returns answers keyed by question.key.
func promptQuestions(questions []question) (map[string]string, error) {
	if len(questions) == 0 {
		return map[string]string{}, nil
	}
	result, err := tea.NewProgram(newPromptModel(questions)).Run()
	if err != nil {
		return nil, err
	}
	final, ok := result.(promptModel)
	if !ok || !final.done {
		return nil, errors.New("prompt cancelled")
	}
	return final.answers(), nil
}
