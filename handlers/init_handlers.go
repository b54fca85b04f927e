package handlers

import (
	"shopsight/insights"
	"shopsight/llm"
	"shopsight/warehouse"
)

var (
	store    warehouse.Reader
	engine   *insights.Engine
	narrator *llm.Orchestrator
)

// Init wires the handler package's collaborators. Called once at startup,
// and from tests with fakes.
func Init(r warehouse.Reader, o *llm.Orchestrator) {
	store = r
	engine = insights.NewEngine(r)
	narrator = o
}
