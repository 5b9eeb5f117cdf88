// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the gallery to LLM clients via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/lumen/internal/gallery"
)

// Server wraps the MCP server with gallery tools.
type Server struct {
	mcp     *server.MCPServer
	svc     *gallery.Service
	onEvent func(kind, path string)
}

// New creates a new MCP server with all gallery tools registered. onEvent is
// invoked after tool-driven mutations; nil disables it.
func New(svc *gallery.Service, onEvent func(kind, path string)) *Server {
	s := &Server{svc: svc, onEvent: onEvent}

	s.mcp = server.NewMCPServer(
		"Lumen",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_images",
		mcp.WithDescription("List gallery images. The record shape is documented "+
			"by the gallery://image-record resource."),
		mcp.WithBoolean("tagged", mcp.Description("When set, return only images whose tagged status matches")),
	), s.listImages)

	s.mcp.AddTool(mcp.NewTool("get_image_info",
		mcp.WithDescription("Return the full record of one image."),
		mcp.WithString("image_id", mcp.Required(), mcp.Description("Image id")),
	), s.getImageInfo)

	s.mcp.AddTool(mcp.NewTool("toggle_favourite",
		mcp.WithDescription("Flip the favourite flag of an image and return its new state."),
		mcp.WithString("image_id", mcp.Required(), mcp.Description("Image id")),
	), s.toggleFavourite)

	// Resource: image record contract.
	s.mcp.AddResource(
		mcp.NewResource("gallery://image-record", "Image Record Contract",
			mcp.WithResourceDescription("JSON shape of gallery image records."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readImageRecordResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) listImages(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var tagged *bool
	if v, ok := req.GetArguments()["tagged"].(bool); ok {
		tagged = &v
	}
	imgs, err := s.svc.ListImages(ctx, tagged)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(imgs, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getImageInfo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	imageID, err := req.RequireString("image_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	img, err := s.svc.GetImage(ctx, imageID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(img, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) toggleFavourite(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	imageID, err := req.RequireString("image_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	img, err := s.svc.ToggleFavourite(ctx, imageID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if s.onEvent != nil {
		s.onEvent("favourite", img.Path)
	}
	out, _ := json.Marshal(map[string]any{
		"image_id":    img.ID,
		"isFavourite": img.IsFavourite,
	})
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readImageRecordResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "gallery://image-record",
			MIMEType: "text/markdown",
			Text:     ImageRecordContract,
		},
	}, nil
}
