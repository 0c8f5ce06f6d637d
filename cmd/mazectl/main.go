// Command mazectl is a terminal client for a running MazeQuest server.
// It drives the same REST API the web UI uses: create sessions, move
// around the board, and walk the post-victory feedback flow.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/mazequest/mazequest/game/engine"
	"github.com/mazequest/mazequest/game/lifecycle"
	"github.com/mazequest/mazequest/game/service"
)

func main() {
	cmd := newRootCommand(os.Stdout)
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCommand(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "mazectl",
		Usage: "control a MazeQuest server from the terminal",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "server",
				Aliases: []string{"s"},
				Value:   "http://localhost:8080",
				Usage:   "base URL of the game server",
				Sources: cli.EnvVars("MAZEQUEST_SERVER"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "new",
				Usage: "create a new session",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "id", Usage: "requested session ID (generated if omitted)"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					client := newAPIClient(cmd.String("server"))
					body := map[string]string{}
					if id := cmd.String("id"); id != "" {
						body["session_id"] = id
					}
					var info service.SessionInfo
					if err := client.call(ctx, "POST", "/api/sessions", body, &info); err != nil {
						return err
					}
					fmt.Fprintf(out, "Session %s created\n\n", info.ID)
					printSession(out, &info)
					return nil
				},
			},
			{
				Name:  "list",
				Usage: "list active sessions",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					client := newAPIClient(cmd.String("server"))
					var response struct {
						Count    int                   `json:"count"`
						Sessions []service.SessionInfo `json:"sessions"`
					}
					if err := client.call(ctx, "GET", "/api/sessions", nil, &response); err != nil {
						return err
					}
					fmt.Fprintf(out, "Active sessions: %d\n", response.Count)
					for _, s := range response.Sessions {
						fmt.Fprintf(out, "  %s  stage=%s pos=(%d,%d) moves=%d\n",
							s.ID, s.Session.Stage,
							s.Session.Player.Position.X, s.Session.Player.Position.Y,
							s.Session.Player.Moves)
					}
					return nil
				},
			},
			{
				Name:      "show",
				Usage:     "show a session with its board",
				ArgsUsage: "<session-id>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					id, err := sessionArg(cmd)
					if err != nil {
						return err
					}
					client := newAPIClient(cmd.String("server"))
					var info service.SessionInfo
					if err := client.call(ctx, "GET", "/api/sessions/"+id, nil, &info); err != nil {
						return err
					}
					printSession(out, &info)
					return nil
				},
			},
			{
				Name:      "move",
				Usage:     "move the player one cell",
				ArgsUsage: "<session-id> <up|down|left|right>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					id, err := sessionArg(cmd)
					if err != nil {
						return err
					}
					dir := strings.ToLower(cmd.Args().Get(1))
					if dir == "" {
						return fmt.Errorf("direction required (up, down, left, or right)")
					}
					client := newAPIClient(cmd.String("server"))
					var result service.MoveResult
					err = client.call(ctx, "POST", "/api/sessions/"+id+"/move",
						map[string]string{"direction": dir}, &result)
					if err != nil {
						return err
					}
					printMoveResult(out, &result)
					return nil
				},
			},
			{
				Name:      "restart",
				Usage:     "restart a session from the beginning",
				ArgsUsage: "<session-id>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					id, err := sessionArg(cmd)
					if err != nil {
						return err
					}
					client := newAPIClient(cmd.String("server"))
					var response struct {
						Message string              `json:"message"`
						Session *lifecycle.Snapshot `json:"session"`
					}
					if err := client.call(ctx, "POST", "/api/sessions/"+id+"/restart", nil, &response); err != nil {
						return err
					}
					fmt.Fprintln(out, response.Message)
					printSnapshot(out, response.Session)
					return nil
				},
			},
			{
				Name:  "feedback",
				Usage: "post-victory feedback operations",
				Commands: []*cli.Command{
					{
						Name:      "open",
						Usage:     "open the feedback form after a win",
						ArgsUsage: "<session-id>",
						Action: func(ctx context.Context, cmd *cli.Command) error {
							id, err := sessionArg(cmd)
							if err != nil {
								return err
							}
							client := newAPIClient(cmd.String("server"))
							var snap lifecycle.Snapshot
							if err := client.call(ctx, "POST", "/api/sessions/"+id+"/feedback/open", nil, &snap); err != nil {
								return err
							}
							fmt.Fprintln(out, "Feedback form opened")
							printSnapshot(out, &snap)
							return nil
						},
					},
					{
						Name:      "draft",
						Usage:     "update the feedback draft",
						ArgsUsage: "<session-id>",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "text", Usage: "feedback text"},
							&cli.IntFlag{Name: "rating", Usage: "star rating 1-5, or 0 to clear"},
						},
						Action: func(ctx context.Context, cmd *cli.Command) error {
							id, err := sessionArg(cmd)
							if err != nil {
								return err
							}
							client := newAPIClient(cmd.String("server"))
							body := map[string]interface{}{
								"text":   cmd.String("text"),
								"rating": cmd.Int("rating"),
							}
							var draft lifecycle.Draft
							if err := client.call(ctx, "PUT", "/api/sessions/"+id+"/feedback/draft", body, &draft); err != nil {
								return err
							}
							fmt.Fprintf(out, "Draft: %q rating=%d\n", draft.Text, draft.Rating)
							return nil
						},
					},
					{
						Name:      "submit",
						Usage:     "submit the feedback draft",
						ArgsUsage: "<session-id>",
						Action: func(ctx context.Context, cmd *cli.Command) error {
							id, err := sessionArg(cmd)
							if err != nil {
								return err
							}
							client := newAPIClient(cmd.String("server"))
							var result service.SubmitResult
							if err := client.call(ctx, "POST", "/api/sessions/"+id+"/feedback", nil, &result); err != nil {
								return err
							}
							fmt.Fprintln(out, "Thanks for your feedback!")
							if result.Submitted != nil {
								fmt.Fprintf(out, "Submitted: %q rating=%d\n", result.Submitted.Text, result.Submitted.Rating)
							}
							return nil
						},
					},
				},
			},
			{
				Name:      "contact",
				Usage:     "show the contact form",
				ArgsUsage: "<session-id>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					id, err := sessionArg(cmd)
					if err != nil {
						return err
					}
					client := newAPIClient(cmd.String("server"))
					var view service.ContactFormView
					if err := client.call(ctx, "GET", "/api/sessions/"+id+"/contact-form", nil, &view); err != nil {
						return err
					}
					if view.Pending {
						fmt.Fprintln(out, "Contact form is still loading; try again shortly.")
						return nil
					}
					if view.Form == nil {
						fmt.Fprintln(out, "No contact form available.")
						return nil
					}
					fmt.Fprintln(out, view.Form.Title)
					for _, field := range view.Form.Fields {
						required := ""
						if field.Required {
							required = " (required)"
						}
						fmt.Fprintf(out, "  %s [%s]%s\n", field.Label, field.Type, required)
					}
					return nil
				},
			},
			{
				Name:      "delete",
				Usage:     "delete a session",
				ArgsUsage: "<session-id>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					id, err := sessionArg(cmd)
					if err != nil {
						return err
					}
					client := newAPIClient(cmd.String("server"))
					if err := client.call(ctx, "DELETE", "/api/sessions/"+id, nil, nil); err != nil {
						return err
					}
					fmt.Fprintf(out, "Session %s deleted\n", id)
					return nil
				},
			},
		},
	}
}

func sessionArg(cmd *cli.Command) (string, error) {
	id := cmd.Args().First()
	if id == "" {
		return "", fmt.Errorf("session ID required")
	}
	return id, nil
}

// apiClient is a minimal REST client for the game server.
type apiClient struct {
	baseURL    string
	httpClient *http.Client
}

func newAPIClient(baseURL string) *apiClient {
	return &apiClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *apiClient) call(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
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
		return fmt.Errorf("server returned %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}
	return nil
}

// Output helpers

func printSession(out io.Writer, info *service.SessionInfo) {
	printSnapshot(out, &info.Session)
	if info.Grid != nil {
		fmt.Fprintln(out)
		printBoard(out, info.Grid, info.Session.Player.Position)
	}
}

func printSnapshot(out io.Writer, snap *lifecycle.Snapshot) {
	if snap == nil {
		return
	}
	fmt.Fprintf(out, "Stage: %s | Position: (%d,%d) | Moves: %d\n",
		snap.Stage, snap.Player.Position.X, snap.Player.Position.Y, snap.Player.Moves)
	if snap.Player.Message != "" {
		fmt.Fprintf(out, "Message: %s\n", snap.Player.Message)
	}
	if snap.Draft.Text != "" || snap.Draft.Rating != 0 {
		fmt.Fprintf(out, "Draft: %q rating=%d\n", snap.Draft.Text, snap.Draft.Rating)
	}
}

func printMoveResult(out io.Writer, result *service.MoveResult) {
	switch {
	case result.Won:
		fmt.Fprintln(out, "You reached the goal!")
	case result.Blocked:
		fmt.Fprintln(out, "Blocked by an obstacle; the run resets shortly.")
	case result.Moved:
		fmt.Fprintln(out, "Moved.")
	default:
		fmt.Fprintln(out, "Move had no effect.")
	}
	printSnapshot(out, &result.Session)
}

// printBoard renders the grid. P marks the player, G the goal, #
// obstacles and . empty cells.
func printBoard(out io.Writer, cfg *engine.Config, player engine.Coordinate) {
	obstacles := make(map[engine.Coordinate]bool, len(cfg.Obstacles))
	for _, o := range cfg.Obstacles {
		obstacles[o] = true
	}

	for y := 1; y <= cfg.Height; y++ {
		var row strings.Builder
		for x := 1; x <= cfg.Width; x++ {
			pos := engine.Coordinate{X: x, Y: y}
			switch {
			case pos == player:
				row.WriteString("P")
			case pos == cfg.Goal:
				row.WriteString("G")
			case obstacles[pos]:
				row.WriteString("#")
			default:
				row.WriteString(".")
			}
		}
		fmt.Fprintln(out, row.String())
	}
}
