package flow

// linearize.go — depth-first walk of an activity graph into PlantUML lines.
//
// The walk keeps its own frame stack instead of recursing, so diagram depth
// is bounded by memory rather than by the goroutine stack. Each node is
// emitted at most once; a flow into an already visited node is dropped,
// which is also how cycles terminate.

import "blueprint/internal/model"

type frameKind int

const (
	walkFrame     frameKind = iota // sequential successors of an action or start
	decisionFrame                  // branches of an if block
	forkFrame                      // parallel branches of a fork block
)

type frame struct {
	kind frameKind
	node int
	next int // index into the node's adjacency list
}

type walker struct {
	g       *graph
	visited []bool
	stack   []frame
	lines   []string

	// lanes maps swimlane ids to names; nil when lane switches are not emitted.
	lanes   map[model.ElementID]string
	lane    model.ElementID
	hasLane bool
}

// Linearize renders a validated activity diagram as ordered lines:
// "start", ":<name>;" per action, if/elseif/endif around decisions,
// fork/fork again/end fork around forks, "stop" per end node, a
// "note right : <cond>" line before a guarded successor, and a comment
// marker at merge and join nodes. A merge or join reached from an action
// ends the walk there. One that is the direct target of a decision branch,
// or a merge that is the direct target of a fork branch, is walked through.
//
// m must come from model.BuildActivityDiagram or BuildActivityCollection.
func Linearize(m *model.ActivityModel) []string {
	return newWalker(newGraph(m)).walk()
}

func newWalker(g *graph) *walker {
	return &walker{g: g, visited: make([]bool, len(g.nodes))}
}

func (w *walker) walk() []string {
	if w.g.start < 0 {
		return nil
	}
	w.switchLane(w.g.start)
	w.emit("start")
	w.visited[w.g.start] = true
	w.push(walkFrame, w.g.start)
	w.run()
	return w.lines
}

func (w *walker) emit(line string) { w.lines = append(w.lines, line) }

// switchLane emits a "|<lane>|" line when node n sits in a different
// swimlane from the previous node that declared one.
func (w *walker) switchLane(n int) {
	id := w.g.nodes[n].SwimlaneID
	if w.lanes == nil || id == nil || (w.hasLane && w.lane == *id) {
		return
	}
	w.lane, w.hasLane = *id, true
	w.emit("|" + w.lanes[*id] + "|")
}

func (w *walker) push(kind frameKind, node int) {
	w.stack = append(w.stack, frame{kind: kind, node: node})
}

func (w *walker) run() {
	for len(w.stack) > 0 {
		top := &w.stack[len(w.stack)-1]
		out := w.g.out[top.node]
		if top.next >= len(out) {
			kind := top.kind
			w.stack = w.stack[:len(w.stack)-1]
			switch kind {
			case decisionFrame:
				w.emit("endif")
			case forkFrame:
				w.emit("end fork")
			}
			continue
		}

		i := top.next
		top.next++
		e := out[i]
		// top is not used past this point; enter may grow the stack.
		switch top.kind {
		case walkFrame:
			if w.visited[e.to] {
				continue
			}
			if e.guard != "" {
				w.emit("note right : " + e.guard)
			}
			w.enter(e.to, false)
		case decisionFrame:
			if i > 0 {
				cond := e.guard
				if cond == "" {
					cond = "no"
				}
				w.emit("elseif (" + cond + ") then")
			}
			if !w.visited[e.to] {
				w.enter(e.to, true)
			}
		case forkFrame:
			if i > 0 {
				w.emit("fork again")
			}
			if !w.visited[e.to] {
				w.enter(e.to, w.g.nodes[e.to].NodeType == model.NodeMerge)
			}
		}
	}
}

// enter emits node n and, for nodes that have successors worth walking,
// pushes the frame that will walk them. through makes a merge or join
// node continue into its successors instead of ending the branch.
func (w *walker) enter(n int, through bool) {
	w.visited[n] = true
	w.switchLane(n)
	node := w.g.nodes[n]
	switch node.NodeType {
	case model.NodeAction:
		w.emit(":" + node.Name + ";")
		w.push(walkFrame, n)
	case model.NodeDecision:
		w.emit("if (" + w.g.decisionCondition(n) + ") then")
		w.push(decisionFrame, n)
	case model.NodeFork:
		w.emit("fork")
		w.push(forkFrame, n)
	case model.NodeMerge:
		w.emit("' merge point")
		if through {
			w.push(walkFrame, n)
		}
	case model.NodeJoin:
		w.emit("' join point")
		if through {
			w.push(walkFrame, n)
		}
	case model.NodeEnd:
		w.emit("stop")
	}
}
