package mcpserver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rbum/devtools/internal/audit"
	"github.com/rbum/devtools/internal/config"
	"github.com/rbum/devtools/internal/headers"
	"github.com/rbum/devtools/internal/stamper"
	"github.com/rbum/devtools/internal/storage"
	"go.uber.org/zap"
)

type toolset struct {
	logger *zap.Logger
	now    func() time.Time
}

func newToolset(logger *zap.Logger) *toolset {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &toolset{logger: logger, now: time.Now}
}

// collector gathers stamper notices; stdout belongs to the MCP transport.
type collector struct {
	mu      sync.Mutex
	notes   []string
	updated []string
}

func (c *collector) Notice(msg string)  { c.add(&c.notes, msg) }
func (c *collector) Warning(msg string) { c.add(&c.notes, "Warning: "+msg) }
func (c *collector) Updated(p string)   { c.add(&c.updated, p) }

func (c *collector) add(dst *[]string, s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	*dst = append(*dst, s)
}

type textOutput struct {
	Message string `json:"message"`
}

// loadProject resolves the config for root, defaulting to the working directory.
func (t *toolset) loadProject(root string) (*config.Config, string, error) {
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, "", fmt.Errorf("failed to get working directory: %w", err)
		}
		root = wd
	}
	cfg, err := config.Load("", root)
	if err != nil {
		return nil, "", err
	}
	cfg.SetProjectRoot(root)
	abs, err := cfg.AbsRoot()
	if err != nil {
		return nil, "", err
	}
	return cfg, abs, nil
}

func (t *toolset) newStamper(cfg *config.Config, rep stamper.Reporter) *stamper.Stamper {
	return stamper.New(stamper.Options{
		Headers:     cfg.HeaderOptions(t.now()),
		ExcludeDirs: cfg.ExcludeDirs,
	}, rep, t.logger)
}

type stampProjectInput struct {
	Root   string `json:"root,omitempty" jsonschema:"Project root directory. Defaults to the server working directory."`
	DryRun bool   `json:"dry_run,omitempty" jsonschema:"Only report the files that would change"`
}

func (t *toolset) handleStampProject(ctx context.Context, req *mcp.CallToolRequest, input stampProjectInput) (*mcp.CallToolResult, textOutput, error) {
	cfg, root, err := t.loadProject(input.Root)
	if err != nil {
		return nil, textOutput{}, err
	}

	var res *stamper.Result
	started := t.now()
	rep := &collector{}
	s := t.newStamper(cfg, rep)
	if input.DryRun {
		res, err = s.Plan(ctx, root)
	} else {
		fl, lockErr := stamper.Lock(cfg.StateDir, root)
		if lockErr != nil {
			return nil, textOutput{}, lockErr
		}
		defer stamper.Unlock(fl)
		res, err = s.Run(ctx, root)
	}
	if err != nil {
		return nil, textOutput{}, err
	}
	if err := storage.NewRunStore(cfg.StateDir).Append(storage.RunRecord{
		Root:      root,
		Scanned:   res.Scanned,
		Updated:   res.Updated,
		DryRun:    res.DryRun,
		Trigger:   "mcp",
		StartedAt: started,
	}); err != nil {
		t.logger.Warn("failed to record run", zap.String("root", root), zap.Error(err))
	}

	var b strings.Builder
	for _, n := range rep.notes {
		b.WriteString(n + "\n")
	}
	verb := "Updated"
	if res.DryRun {
		verb = "Would update"
	}
	fmt.Fprintf(&b, "%s %d of %d files.", verb, len(res.Updated), res.Scanned)
	for _, p := range res.Updated {
		fmt.Fprintf(&b, "\n%s %s", verb, relTo(root, p))
	}
	return nil, textOutput{Message: b.String()}, nil
}

type stampFileInput struct {
	Path string `json:"path" jsonschema:"Path of the .swift or .md file to stamp, absolute or relative to the root"`
	Root string `json:"root,omitempty" jsonschema:"Project root directory. Defaults to the server working directory."`
}

// resolveFile returns the project config and the absolute path of a file
// inside it. Files outside the root or under an excluded directory are
// rejected, as a project run would never open them.
func (t *toolset) resolveFile(root, path string) (*config.Config, string, error) {
	if path == "" {
		return nil, "", fmt.Errorf("path is required")
	}
	cfg, absRoot, err := t.loadProject(root)
	if err != nil {
		return nil, "", err
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(absRoot, path)
	}
	path = filepath.Clean(path)

	rel, err := filepath.Rel(absRoot, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return nil, "", fmt.Errorf("%s is outside the project root %s", path, absRoot)
	}
	exclude := cfg.ExcludeDirs
	if exclude == nil {
		exclude = stamper.DefaultExcludeDirs
	}
	if stamper.Excluded(rel, exclude) {
		return nil, "", fmt.Errorf("%s is in an excluded or hidden directory", path)
	}
	return cfg, path, nil
}

func (t *toolset) handleStampFile(ctx context.Context, req *mcp.CallToolRequest, input stampFileInput) (*mcp.CallToolResult, textOutput, error) {
	cfg, path, err := t.resolveFile(input.Root, input.Path)
	if err != nil {
		return nil, textOutput{}, err
	}
	if !headers.Tracked(path) {
		return nil, textOutput{Message: fmt.Sprintf("%s is not a tracked file type; left untouched.", path)}, nil
	}

	changed, err := t.newStamper(cfg, &collector{}).ProcessFile(path)
	if err != nil {
		return nil, textOutput{}, err
	}
	if !changed {
		return nil, textOutput{Message: fmt.Sprintf("%s is already current.", path)}, nil
	}
	return nil, textOutput{Message: fmt.Sprintf("Updated %s", path)}, nil
}

type previewOutput struct {
	Path    string `json:"path"`
	Changed bool   `json:"changed"`
	Content string `json:"content"`
}

func (t *toolset) handlePreviewHeader(ctx context.Context, req *mcp.CallToolRequest, input stampFileInput) (*mcp.CallToolResult, previewOutput, error) {
	cfg, path, err := t.resolveFile(input.Root, input.Path)
	if err != nil {
		return nil, previewOutput{}, err
	}
	r, ok := headers.RendererFor(path, cfg.HeaderOptions(t.now()))
	if !ok {
		return nil, previewOutput{}, fmt.Errorf("%s is not a .swift or .md file", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, previewOutput{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	content := string(data)
	rendered := r.Render(content, filepath.Base(path))
	return nil, previewOutput{Path: path, Changed: rendered != content, Content: rendered}, nil
}

type rootInput struct {
	Root string `json:"root,omitempty" jsonschema:"Project root directory. Defaults to the server working directory."`
}

func (t *toolset) handleHeaderStatus(ctx context.Context, req *mcp.CallToolRequest, input rootInput) (*mcp.CallToolResult, textOutput, error) {
	cfg, root, err := t.loadProject(input.Root)
	if err != nil {
		return nil, textOutput{}, err
	}
	statuses, err := t.newStamper(cfg, &collector{}).Status(root)
	if err != nil {
		return nil, textOutput{}, err
	}

	var b strings.Builder
	for _, st := range statuses {
		state := "current"
		if st.Stale {
			state = "stale"
		}
		created := st.Created
		if created == "" {
			created = "-"
		}
		fmt.Fprintf(&b, "%s\t%s\t%s\tcreated %s\n", state, st.Kind, relTo(root, st.Path), created)
	}
	if b.Len() == 0 {
		return nil, textOutput{Message: "No tracked files found."}, nil
	}
	return nil, textOutput{Message: strings.TrimRight(b.String(), "\n")}, nil
}

type auditInput struct {
	Root    string `json:"root,omitempty" jsonschema:"Project root directory. Defaults to the server working directory."`
	PBXProj string `json:"pbxproj,omitempty" jsonschema:"Path to project.pbxproj, relative to the root or absolute"`
}

func (t *toolset) handleAuditProject(ctx context.Context, req *mcp.CallToolRequest, input auditInput) (*mcp.CallToolResult, textOutput, error) {
	cfg, root, err := t.loadProject(input.Root)
	if err != nil {
		return nil, textOutput{}, err
	}
	pbx := input.PBXProj
	if pbx == "" {
		pbx = cfg.Audit.PBXProj
	}

	report, err := audit.Run(audit.Options{
		Root:       root,
		PBXProj:    cfg.ResolvePath(pbx),
		Extensions: cfg.Audit.Extensions,
	})
	if err != nil {
		return nil, textOutput{}, err
	}
	if len(report.Unreferenced) == 0 {
		return nil, textOutput{Message: fmt.Sprintf("All %d source files are referenced.", report.Sources)}, nil
	}
	return nil, textOutput{Message: strings.Join(report.Unreferenced, "\n")}, nil
}

func relTo(root, path string) string {
	if rel, err := filepath.Rel(root, path); err == nil {
		return filepath.ToSlash(rel)
	}
	return path
}
