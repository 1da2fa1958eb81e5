// Package mcpserver exposes header stamping and the project audit as MCP
// tools over stdio.
package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

// Run starts the MCP server over stdio.
// It blocks until the client disconnects or the context is cancelled.
func Run(ctx context.Context, version string, logger *zap.Logger) error {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "rbumdev",
			Version: version,
		},
		nil,
	)
	register(server, newToolset(logger))
	return server.Run(ctx, &mcp.StdioTransport{})
}

func register(server *mcp.Server, t *toolset) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "stamp_project",
		Description: "Refresh the First created / Last updated headers of every .swift and .md file under the project root. Hidden, build, Pods and Carthage directories are skipped. Set dry_run to list the files that would change without writing.",
	}, t.handleStampProject)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "stamp_file",
		Description: "Refresh the header of a single .swift or .md file inside the project root. Other file types are left untouched; files in hidden, build, Pods or Carthage directories are refused.",
	}, t.handleStampFile)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "preview_header",
		Description: "Return the content a file inside the project root would have after stamping, without writing it. Read-only.",
	}, t.handlePreviewHeader)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "header_status",
		Description: "List every tracked file with its recorded creation and update dates and whether a stamp run would rewrite it. Read-only.",
	}, t.handleHeaderStatus)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "audit_project",
		Description: "List source files (.swift .m .h .mm .cpp) on disk that project.pbxproj does not reference. Read-only.",
	}, t.handleAuditProject)
}
