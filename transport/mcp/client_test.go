package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mazequest/mazequest/game/engine"
	"github.com/mazequest/mazequest/game/lifecycle"
	"github.com/mazequest/mazequest/game/service"
)

func TestNewClient(t *testing.T) {
	baseURL := "http://localhost:8080"
	client := NewClient(baseURL)

	if client == nil {
		t.Fatal("Expected client to be created")
	}

	if client.baseURL != baseURL {
		t.Errorf("Expected baseURL %s, got %s", baseURL, client.baseURL)
	}

	if client.httpClient == nil {
		t.Error("Expected HTTP client to be initialized")
	}

	if client.mcpServer == nil {
		t.Error("Expected MCP server to be initialized")
	}
}

func TestClient_apiCall(t *testing.T) {
	expectedResponse := map[string]interface{}{
		"id":    "test-session",
		"stage": "playing",
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(expectedResponse)
	}))
	defer server.Close()

	client := NewClient(server.URL)

	var response map[string]interface{}
	if err := client.apiCall("GET", "/api", nil, &response); err != nil {
		t.Fatalf("apiCall failed: %v", err)
	}

	if response["id"] != expectedResponse["id"] {
		t.Errorf("Expected id %v, got %v", expectedResponse["id"], response["id"])
	}
}

func TestClient_apiCall_Error(t *testing.T) {
	client := NewClient("http://invalid-url-that-does-not-exist:9999")

	if err := client.apiCall("GET", "/api", nil, nil); err == nil {
		t.Error("Expected error for invalid URL")
	}
}

func TestClient_apiCall_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Internal Server Error"))
	}))
	defer server.Close()

	client := NewClient(server.URL)

	err := client.apiCall("GET", "/api", nil, nil)
	if err == nil {
		t.Error("Expected error for HTTP 500 response")
	}

	if !strings.Contains(err.Error(), "API error") {
		t.Errorf("Expected 'API error' in error message, got: %v", err)
	}
}

func TestClient_apiCall_ErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "session not found"})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	err := client.apiCall("GET", "/api/sessions/nope", nil, nil)
	if err == nil {
		t.Fatal("Expected error for HTTP 404 response")
	}

	if err.Error() != "session not found" {
		t.Errorf("Expected server error message to pass through, got: %v", err)
	}
}

func TestClient_createSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" || r.URL.Path != "/api/sessions" {
			t.Errorf("Expected POST /api/sessions, got %s %s", r.Method, r.URL.Path)
		}

		resp := service.SessionInfo{
			ID: "ab12",
			Session: lifecycle.Snapshot{
				Stage:  lifecycle.StagePlaying,
				Player: engine.State{Position: engine.Coordinate{X: 1, Y: 1}},
			},
			Grid: engine.DefaultConfig(),
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	ctx := context.Background()

	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      "create_session",
			Arguments: map[string]interface{}{},
		},
	}

	result, err := client.handleCreateSession(ctx, request)
	if err != nil {
		t.Fatalf("createSession failed: %v", err)
	}

	if result == nil {
		t.Fatal("Expected result, got nil")
	}

	resultStr, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatal("Expected text content in result")
	}

	if !strings.Contains(resultStr.Text, "ab12") {
		t.Errorf("Expected session ID in result, got: %s", resultStr.Text)
	}

	// The board render should mark the player and the goal
	if !strings.Contains(resultStr.Text, "P") || !strings.Contains(resultStr.Text, "G") {
		t.Errorf("Expected board render in result, got: %s", resultStr.Text)
	}
}

func TestClient_move(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" || r.URL.Path != "/api/sessions/ab12/move" {
			t.Errorf("Expected POST /api/sessions/ab12/move, got %s %s", r.Method, r.URL.Path)
		}

		var req map[string]interface{}
		json.NewDecoder(r.Body).Decode(&req)
		if req["direction"] != "down" {
			t.Errorf("Expected direction down, got %v", req["direction"])
		}

		resp := service.MoveResult{
			Moved: true,
			Events: []engine.Event{
				{
					Type: engine.EventMoved,
					Dir:  engine.DirDown,
					From: engine.Coordinate{X: 1, Y: 1},
					To:   engine.Coordinate{X: 1, Y: 2},
				},
			},
			Session: lifecycle.Snapshot{
				Stage:  lifecycle.StagePlaying,
				Player: engine.State{Position: engine.Coordinate{X: 1, Y: 2}, Moves: 1},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(server.URL)

	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name: "move",
			Arguments: map[string]interface{}{
				"session_id": "ab12",
				"direction":  "down",
			},
		},
	}

	result, err := client.handleMove(context.Background(), request)
	if err != nil {
		t.Fatalf("move failed: %v", err)
	}

	resultStr := result.Content[0].(mcp.TextContent)
	if !strings.Contains(resultStr.Text, "✓ Moved") {
		t.Errorf("Expected move confirmation, got: %s", resultStr.Text)
	}
	if !strings.Contains(resultStr.Text, "Position: (1,2)") {
		t.Errorf("Expected updated position, got: %s", resultStr.Text)
	}
}

func TestFormatSnapshot(t *testing.T) {
	snap := &lifecycle.Snapshot{
		Stage: lifecycle.StagePlaying,
		Player: engine.State{
			Position: engine.Coordinate{X: 5, Y: 3},
			Moves:    12,
			Message:  "Reach the exit.",
		},
	}

	result := formatSnapshot(snap)

	expectedFields := []string{
		"Stage: playing",
		"Position: (5,3)",
		"Moves: 12",
		"Reach the exit.",
	}

	for _, field := range expectedFields {
		if !strings.Contains(result, field) {
			t.Errorf("Expected field '%s' in formatted output, got: %s", field, result)
		}
	}
}

func TestFormatSnapshot_Victory(t *testing.T) {
	snap := &lifecycle.Snapshot{
		Stage: lifecycle.StageVictory,
		Player: engine.State{
			Position: engine.Coordinate{X: 14, Y: 10},
			HasWon:   true,
		},
	}

	result := formatSnapshot(snap)

	if !strings.Contains(result, "🎉 VICTORY!") {
		t.Errorf("Expected '🎉 VICTORY!' in result, got: %s", result)
	}
}

func TestFormatMoveResult_Blocked(t *testing.T) {
	moveResult := &service.MoveResult{
		Blocked: true,
		Events: []engine.Event{
			{Type: engine.EventBlocked, Dir: engine.DirRight, From: engine.Coordinate{X: 1, Y: 1}, To: engine.Coordinate{X: 2, Y: 1}},
		},
		Session: lifecycle.Snapshot{
			Stage:  lifecycle.StagePlaying,
			Player: engine.State{Position: engine.Coordinate{X: 1, Y: 1}},
		},
	}

	result := formatMoveResult(moveResult)

	if !strings.Contains(result, "Blocked by an obstacle") {
		t.Errorf("Expected blocked notice, got: %s", result)
	}
}

func TestFormatBoard(t *testing.T) {
	cfg := &engine.Config{
		Width:  3,
		Height: 2,
		Start:  engine.Coordinate{X: 1, Y: 1},
		Goal:   engine.Coordinate{X: 3, Y: 2},
		Obstacles: []engine.Coordinate{
			{X: 2, Y: 1},
		},
	}

	board := formatBoard(cfg, engine.Coordinate{X: 1, Y: 1})

	want := "P#.\n..G\n"
	if board != want {
		t.Errorf("Expected board %q, got %q", want, board)
	}
}

func TestFormatRating(t *testing.T) {
	if got := formatRating(0); got != "unset" {
		t.Errorf("Expected 'unset' for rating 0, got %q", got)
	}
	if got := formatRating(3); got != "★★★☆☆" {
		t.Errorf("Expected three stars, got %q", got)
	}
}

func TestClient_Integration(t *testing.T) {
	client := NewClient("http://localhost:8080")

	if client == nil {
		t.Fatal("Failed to create client")
	}

	if client.mcpServer == nil {
		t.Fatal("MCP server not initialized")
	}

	if client.baseURL == "" {
		t.Error("Base URL not set")
	}

	if client.httpClient == nil {
		t.Error("HTTP client not initialized")
	}
}
