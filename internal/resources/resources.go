// Package resources implements MCP resource handlers for taskdeck.
//
// Resources provide read-only data that the host can consume for
// context. They use URI-based addressing (taskdeck://...) following MCP
// conventions.
package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mfigueroa/taskdeck/internal/project"
)

// Handler manages taskdeck resource endpoints.
type Handler struct {
	registry *project.Registry
}

// NewHandler creates a resource Handler. The registry may be nil when
// the project database failed to open.
func NewHandler(registry *project.Registry) *Handler {
	return &Handler{registry: registry}
}

// ProjectsResource returns the MCP resource definition for the project
// registry.
func (h *Handler) ProjectsResource() mcp.Resource {
	return mcp.NewResource(
		"taskdeck://projects",
		"Registered Projects",
		mcp.WithResourceDescription("Every project taskdeck has operated on, plus which one is current"),
		mcp.WithMIMEType("application/json"),
	)
}

// projectsPayload is the JSON shape served by taskdeck://projects.
type projectsPayload struct {
	Current  *project.Entry  `json:"current"`
	Projects []project.Entry `json:"projects"`
}

// HandleProjects returns the project registry contents as JSON.
func (h *Handler) HandleProjects(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	if h.registry == nil {
		return errorResource(req.Params.URI, "project registry is not available"), nil
	}

	current, err := h.registry.Current()
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}
	entries, err := h.registry.List()
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}

	data, err := json.MarshalIndent(projectsPayload{Current: current, Projects: entries}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling projects: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// errorResource returns a resource with an error message.
func errorResource(uri, message string) []mcp.ResourceContents {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "text/plain",
			Text:     fmt.Sprintf("Error: %s", message),
		},
	}
}
