package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mazequest/mazequest/game/engine"
	"github.com/mazequest/mazequest/game/lifecycle"
	"github.com/mazequest/mazequest/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"MazeQuest",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`MazeQuest - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Guide the player (P) from the top-left corner to the goal (G) without
hitting obstacles (#). Hitting an obstacle holds the player in place for
a short grace period and then resets the run to the start.

AVAILABLE TOOLS:
- create_session: Create a new game session
- list_sessions: List all active sessions
- get_session: Get session details including the board
- game_state: Get the current session snapshot
- move: Move one cell (up/down/left/right)
- restart: Return the session to the start
- open_feedback: After winning, open the feedback form
- update_feedback_draft: Edit the feedback text and star rating
- submit_feedback: Submit the feedback (requires text and a 1-5 rating)
- contact_form: Fetch the contact form shown after feedback

The board is 1-indexed with (1,1) at the top-left; moving down
increases y.`),
	)

	c.registerTools()
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session with an optional requested ID",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Requested session ID (optional, generated if omitted)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session, including the board layout",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID to retrieve",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetSession)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current session snapshot (stage, position, draft)",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move",
		Description: "Move the player one cell in a direction",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"direction": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"up", "down", "left", "right"},
					"description": "Direction to move",
				},
			},
			Required: []string{"session_id", "direction"},
		},
	}, c.handleMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "restart",
		Description: "Restart the session: player back to start, feedback state cleared",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleRestart)

	// Post-victory workflow
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "open_feedback",
		Description: "Open the feedback form. Only valid right after winning.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleOpenFeedback)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "update_feedback_draft",
		Description: "Update the feedback draft text and star rating (0 clears the rating)",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"text": map[string]interface{}{
					"type":        "string",
					"description": "Feedback text",
				},
				"rating": map[string]interface{}{
					"type":        "integer",
					"description": "Star rating 1-5, or 0 to clear",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleUpdateDraft)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "submit_feedback",
		Description: "Submit the feedback draft. Requires non-empty text and a 1-5 rating.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleSubmitFeedback)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "contact_form",
		Description: "Fetch the contact form shown after feedback submission",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleContactForm)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(method, path string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	body := map[string]string{}
	if sessionID != "" {
		body["session_id"] = sessionID
	}

	var info service.SessionInfo
	if err := c.apiCall("POST", "/api/sessions", body, &info); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\n\n%s", info.ID, formatSessionInfo(&info))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall("GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		result += fmt.Sprintf("- %s (Stage: %s, Position: (%d,%d), Created: %s)\n",
			s.ID, s.Session.Stage,
			s.Session.Player.Position.X, s.Session.Player.Position.Y,
			s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var info service.SessionInfo
	if err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s", sessionID), nil, &info); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&info)), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var snap lifecycle.Snapshot
	if err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s/state", sessionID), nil, &snap); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSnapshot(&snap)), nil
}

func (c *Client) handleMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	direction, _ := args["direction"].(string)

	body := map[string]interface{}{
		"direction": direction,
	}

	var result service.MoveResult
	if err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/move", sessionID), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatMoveResult(&result)), nil
}

func (c *Client) handleRestart(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var response struct {
		Message string              `json:"message"`
		Session *lifecycle.Snapshot `json:"session"`
	}

	if err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/restart", sessionID), nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("%s\n\n%s", response.Message, formatSnapshot(response.Session))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleOpenFeedback(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var snap lifecycle.Snapshot
	if err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/feedback/open", sessionID), nil, &snap); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := "Feedback form opened.\n\n" + formatSnapshot(&snap)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleUpdateDraft(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	text, _ := args["text"].(string)
	rating := 0
	if r, ok := args["rating"].(float64); ok {
		rating = int(r)
	}

	body := map[string]interface{}{
		"text":   text,
		"rating": rating,
	}

	var draft lifecycle.Draft
	if err := c.apiCall("PUT", fmt.Sprintf("/api/sessions/%s/feedback/draft", sessionID), body, &draft); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Draft updated.\nText: %s\nRating: %s", draft.Text, formatRating(draft.Rating))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleSubmitFeedback(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var result service.SubmitResult
	if err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/feedback", sessionID), nil, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	response := "Thanks for your feedback!\n"
	if result.Submitted != nil {
		response += fmt.Sprintf("Submitted: %q rated %s\n", result.Submitted.Text, formatRating(result.Submitted.Rating))
	}
	response += "\n" + formatSnapshot(&result.Session)
	return mcp.NewToolResultText(response), nil
}

func (c *Client) handleContactForm(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var view service.ContactFormView
	if err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s/contact-form", sessionID), nil, &view); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if view.Pending {
		return mcp.NewToolResultText("Contact form is still loading; try again shortly."), nil
	}
	if view.Form == nil {
		return mcp.NewToolResultText("No contact form available."), nil
	}

	var b strings.Builder
	b.WriteString(view.Form.Title + "\n\n")
	for _, field := range view.Form.Fields {
		required := ""
		if field.Required {
			required = " (required)"
		}
		b.WriteString(fmt.Sprintf("- %s [%s]%s\n", field.Label, field.Type, required))
	}
	return mcp.NewToolResultText(b.String()), nil
}

// Formatting helpers

func formatSessionInfo(info *service.SessionInfo) string {
	result := fmt.Sprintf("Session: %s\nCreated: %s\n\n%s",
		info.ID,
		info.CreatedAt.Format("2006-01-02 15:04:05"),
		formatSnapshot(&info.Session))
	if info.Grid != nil {
		result += "\n\n" + formatBoard(info.Grid, info.Session.Player.Position)
	}
	return result
}

func formatSnapshot(snap *lifecycle.Snapshot) string {
	if snap == nil {
		return "No session state available"
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Stage: %s | Position: (%d,%d) | Moves: %d\n",
		snap.Stage, snap.Player.Position.X, snap.Player.Position.Y, snap.Player.Moves))

	if snap.Player.Message != "" {
		b.WriteString(fmt.Sprintf("Message: %s\n", snap.Player.Message))
	}

	if snap.Player.HasWon {
		b.WriteString("🎉 VICTORY!\n")
	}

	if snap.Draft.Text != "" || snap.Draft.Rating != 0 {
		b.WriteString(fmt.Sprintf("Draft: %q rated %s\n", snap.Draft.Text, formatRating(snap.Draft.Rating)))
	}

	if snap.Submitted != nil {
		b.WriteString(fmt.Sprintf("Submitted feedback: %q rated %s\n",
			snap.Submitted.Text, formatRating(snap.Submitted.Rating)))
	}

	if snap.ContactFormPending {
		b.WriteString("Contact form: loading\n")
	} else if snap.ContactForm != nil {
		b.WriteString(fmt.Sprintf("Contact form: %s (%d fields)\n",
			snap.ContactForm.Title, len(snap.ContactForm.Fields)))
	}

	return strings.TrimRight(b.String(), "\n")
}

// formatBoard renders the grid. P marks the player, G the goal, #
// obstacles and . empty cells.
func formatBoard(cfg *engine.Config, player engine.Coordinate) string {
	obstacles := make(map[engine.Coordinate]bool, len(cfg.Obstacles))
	for _, o := range cfg.Obstacles {
		obstacles[o] = true
	}

	var b strings.Builder
	for y := 1; y <= cfg.Height; y++ {
		for x := 1; x <= cfg.Width; x++ {
			pos := engine.Coordinate{X: x, Y: y}
			switch {
			case pos == player:
				b.WriteString("P")
			case pos == cfg.Goal:
				b.WriteString("G")
			case obstacles[pos]:
				b.WriteString("#")
			default:
				b.WriteString(".")
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

func formatMoveResult(result *service.MoveResult) string {
	var b strings.Builder

	switch {
	case result.Won:
		b.WriteString("🎉 Reached the goal!\n")
	case result.Blocked:
		b.WriteString("✗ Blocked by an obstacle; the run resets shortly\n")
	case result.Moved:
		b.WriteString("✓ Moved\n")
	default:
		b.WriteString("Move had no effect\n")
	}

	if len(result.Events) > 0 {
		b.WriteString("Events:\n")
		for _, event := range result.Events {
			b.WriteString(fmt.Sprintf("- %s %s (%d,%d)→(%d,%d)\n",
				event.Type, event.Dir,
				event.From.X, event.From.Y, event.To.X, event.To.Y))
		}
	}

	b.WriteString("\n" + formatSnapshot(&result.Session))
	return b.String()
}

func formatRating(rating int) string {
	if rating == 0 {
		return "unset"
	}
	return strings.Repeat("★", rating) + strings.Repeat("☆", lifecycle.MaxRating-rating)
}
