package mcpserver

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/lumen/internal/gallery"
	"github.com/starford/lumen/internal/imagestore"
	"github.com/starford/lumen/internal/testutil"
)

func testServer(t *testing.T) (*Server, *imagestore.DB) {
	t.Helper()
	db := testutil.TestDB(t)
	_, lib := testutil.TestLibrary(t)
	srv := New(gallery.NewService(db, lib), nil)
	return srv, db
}

func seed(t *testing.T, db *imagestore.DB, id string, tags []string) {
	t.Helper()
	err := db.UpsertImage(imagestore.RawImage{
		ID:   id,
		Path: "/library/" + id + ".jpg",
		Metadata: map[string]any{
			"name":          id + ".jpg",
			"width":         640,
			"height":        480,
			"file_location": "/library/" + id + ".jpg",
			"file_size":     2048,
			"item_type":     "image/jpeg",
		},
		Tags: tags,
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func callTool(t *testing.T, srv *Server, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go has no direct "call tool" test helper; call the handlers.
	var result *mcp.CallToolResult
	var err error
	switch name {
	case "list_images":
		result, err = srv.listImages(ctx, req)
	case "get_image_info":
		result, err = srv.getImageInfo(ctx, req)
	case "toggle_favourite":
		result, err = srv.toggleFavourite(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}
	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestListImagesTool(t *testing.T) {
	srv, db := testServer(t)
	seed(t, db, "a", []string{"beach"})
	seed(t, db, "b", nil)

	r := callTool(t, srv, "list_images", map[string]any{})
	text := resultText(r)
	if !strings.Contains(text, `"id": "a"`) || !strings.Contains(text, `"id": "b"`) {
		t.Errorf("list = %q", text)
	}

	r = callTool(t, srv, "list_images", map[string]any{"tagged": true})
	text = resultText(r)
	if !strings.Contains(text, `"id": "a"`) || strings.Contains(text, `"id": "b"`) {
		t.Errorf("tagged list = %q", text)
	}
}

func TestGetImageInfoTool(t *testing.T) {
	srv, db := testServer(t)
	seed(t, db, "a", nil)

	r := callTool(t, srv, "get_image_info", map[string]any{"image_id": "a"})
	text := resultText(r)
	if !strings.Contains(text, `"isFavourite": false`) {
		t.Errorf("info = %q", text)
	}
}

func TestGetImageInfoMissing(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "get_image_info", map[string]any{"image_id": "ghost"})
	if !r.IsError {
		t.Error("expected error for missing image")
	}
}

func TestToggleFavouriteTool(t *testing.T) {
	srv, db := testServer(t)
	seed(t, db, "a", nil)

	r := callTool(t, srv, "toggle_favourite", map[string]any{"image_id": "a"})
	if text := resultText(r); !strings.Contains(text, `"isFavourite":true`) {
		t.Errorf("toggle = %q", text)
	}
	r = callTool(t, srv, "toggle_favourite", map[string]any{"image_id": "a"})
	if text := resultText(r); !strings.Contains(text, `"isFavourite":false`) {
		t.Errorf("second toggle = %q", text)
	}
}

func TestToggleFavouriteToolPublishesEvent(t *testing.T) {
	db := testutil.TestDB(t)
	_, lib := testutil.TestLibrary(t)
	var events []string
	srv := New(gallery.NewService(db, lib), func(kind, path string) {
		events = append(events, kind+" "+path)
	})
	seed(t, db, "a", nil)

	callTool(t, srv, "toggle_favourite", map[string]any{"image_id": "a"})
	if len(events) != 1 || events[0] != "favourite /library/a.jpg" {
		t.Errorf("events = %v, want one favourite event", events)
	}

	// Errors are reported as tool results; nothing must be published.
	r := callTool(t, srv, "toggle_favourite", map[string]any{"image_id": "ghost"})
	if !r.IsError {
		t.Error("expected error result for missing image")
	}
	if len(events) != 1 {
		t.Errorf("events after failed toggle = %v", events)
	}
}
