package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kiln-dev/kiln/pkg/agent"
)

const goFixture = `package main

import "fmt"

type Server struct {
	addr string
}

func NewServer(addr string) *Server {
	return &Server{addr: addr}
}

func (s *Server) Start() error {
	fmt.Println(s.addr)
	return nil
}
`

const pyFixture = `import os

class Handler:
    def handle(self, req):
        return req

def main():
    Handler().handle(os.environ)
`

func TestFindDefinition(t *testing.T) {
	host := newFakeHost(map[string]string{
		"server.go": goFixture,
		"app.py":    pyFixture,
	})
	tool := newFindDefinitionTool()

	t.Run("go function", func(t *testing.T) {
		res := execute(t, tool, host, map[string]any{"symbolName": "NewServer"})
		assert.Contains(t, res.Output, "server.go:9: func NewServer(addr string) *Server {")
	})

	t.Run("go method with receiver", func(t *testing.T) {
		res := execute(t, tool, host, map[string]any{"symbolName": "Start"})
		assert.Contains(t, res.Output, "server.go:13:")
	})

	t.Run("go type", func(t *testing.T) {
		res := execute(t, tool, host, map[string]any{"symbolName": "Server"})
		assert.Contains(t, res.Output, "server.go:5: type Server struct {")
	})

	t.Run("python class and def", func(t *testing.T) {
		res := execute(t, tool, host, map[string]any{"symbolName": "Handler"})
		assert.Contains(t, res.Output, "app.py:3: class Handler:")

		res = execute(t, tool, host, map[string]any{"symbolName": "handle"})
		assert.Contains(t, res.Output, "app.py:4:")
	})

	t.Run("scoped to one file", func(t *testing.T) {
		res := execute(t, tool, host, map[string]any{"symbolName": "main", "path": "app.py"})
		assert.Contains(t, res.Output, "app.py:7: def main():")
		assert.NotContains(t, res.Output, "server.go")
	})

	t.Run("not found", func(t *testing.T) {
		res := execute(t, tool, host, map[string]any{"symbolName": "Ghost"})
		assert.Equal(t, `No definition found for "Ghost"`, res.Output)
	})
}

func TestFindReferences(t *testing.T) {
	host := newFakeHost(map[string]string{
		"server.go": goFixture,
		"main.go":   "package main\n\nfunc main() {\n\ts := NewServer(\":80\")\n\t_ = s.Start()\n}\n",
	})
	res := execute(t, newFindReferencesTool(), host, map[string]any{"symbolName": "NewServer"})

	assert.Contains(t, res.Output, "server.go:9:")
	assert.Contains(t, res.Output, "main.go:4:")
	// Substring hits like "NewServerPool" must not count.
	resNone := execute(t, newFindReferencesTool(), host, map[string]any{"symbolName": "Serve"})
	assert.Equal(t, `No references to "Serve"`, resNone.Output)
}

func TestDocumentSymbols(t *testing.T) {
	host := newFakeHost(map[string]string{"server.go": goFixture})
	res := execute(t, newDocumentSymbolsTool(), host, map[string]any{"path": "server.go"})

	assert.Contains(t, res.Output, "type\tServer")
	assert.Contains(t, res.Output, "func\tNewServer")
	assert.Contains(t, res.Output, "func\tStart")
	assert.NotContains(t, res.Output, "addr")
}

func TestWorkspaceSymbols(t *testing.T) {
	host := newFakeHost(map[string]string{
		"server.go": goFixture,
		"app.py":    pyFixture,
	})
	res := execute(t, newWorkspaceSymbolsTool(), host, map[string]any{"query": "serv"})

	assert.Contains(t, res.Output, "Server\ttype\tserver.go:5")
	assert.Contains(t, res.Output, "NewServer\tfunc\tserver.go:9")
	assert.NotContains(t, res.Output, "Handler")
}

func TestDiagnosticsTool(t *testing.T) {
	host := newFakeHost(map[string]string{"a.go": "package a\n"})
	tool := newDiagnosticsTool()

	t.Run("no problems", func(t *testing.T) {
		res := execute(t, tool, host, map[string]any{"path": "a.go"})
		assert.Equal(t, "No problems reported.", res.Output)
	})

	t.Run("formats findings", func(t *testing.T) {
		host.diags["a.go"] = []agent.Diagnostic{
			{Path: "a.go", Line: 3, Severity: agent.DiagnosticError, Message: "undefined: x"},
		}
		res := execute(t, tool, host, map[string]any{"path": "a.go"})
		assert.Equal(t, "a.go:3 [error] undefined: x", res.Output)
	})

	t.Run("workspace-wide without path", func(t *testing.T) {
		res := execute(t, tool, host, map[string]any{})
		assert.Contains(t, res.Output, "a.go:3 [error]")
	})

	t.Run("not cacheable", func(t *testing.T) {
		assert.False(t, tool.Cacheable())
	})
}
