package provide

import "github.com/yonasBSD/mako/internal/js_ast"

type hoistedDecl struct {
	name string
	stmt js_ast.Stmt
}

// Declarations waiting to be spliced into the top of the module. There is at
// most one entry per name. Setting a name that is already present replaces
// its statement but keeps the position of the first insertion.
type hoistTable struct {
	entries []hoistedDecl
	indices map[string]int
}

func newHoistTable() hoistTable {
	return hoistTable{indices: make(map[string]int)}
}

func (h *hoistTable) set(name string, stmt js_ast.Stmt) {
	if i, ok := h.indices[name]; ok {
		h.entries[i].stmt = stmt
		return
	}
	h.indices[name] = len(h.entries)
	h.entries = append(h.entries, hoistedDecl{name: name, stmt: stmt})
}

func (h *hoistTable) len() int {
	return len(h.entries)
}

func (h *hoistTable) names() []string {
	names := make([]string, len(h.entries))
	for i, entry := range h.entries {
		names[i] = entry.name
	}
	return names
}

// Returns a new slice with the hoisted declarations in front of "stmts"
func (h *hoistTable) prependTo(stmts []js_ast.Stmt) []js_ast.Stmt {
	result := make([]js_ast.Stmt, 0, len(h.entries)+len(stmts))
	for _, entry := range h.entries {
		result = append(result, entry.stmt)
	}
	return append(result, stmts...)
}
