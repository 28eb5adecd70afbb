package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func newEventsCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "events <room>",
		Short: "Stream SSE events from a room",
		Long: `Connect to the room's SSE endpoint and stream events in real-time.

Events include:
  - game-state: The table changed (sent redacted for your seat)
  - action-error: One of your actions was rejected
  - player-left: A seat was given up or timed out
  - room-closed: The room was closed

Press Ctrl+C to disconnect.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return streamEvents(args[0], jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output events as JSON lines")

	return cmd
}

// SSEEvent represents a parsed SSE event
type SSEEvent struct {
	Time  time.Time `json:"time"`
	Event string    `json:"event"`
	Data  string    `json:"data"`
}

func streamEvents(roomCode string, jsonOutput bool) error {
	url := strings.TrimSuffix(cfg.ServerURL, "/") + roomPath(roomCode, "events")

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	// Set headers
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	if cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+cfg.Token)
	}

	// Set up cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	req = req.WithContext(ctx)

	// Make request
	httpClient := &http.Client{
		Timeout: 0, // No timeout for SSE
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		var errResp ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Error.Code != "" {
			return fmt.Errorf("%s", errResp.Error.String())
		}
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	if !jsonOutput {
		pterm.Info.Printfln("Connected to room %s", roomCode)
	}

	// Parse SSE stream
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	var currentEvent string
	var dataLines []string

	for scanner.Scan() {
		line := scanner.Text()

		if strings.HasPrefix(line, "event: ") {
			currentEvent = strings.TrimPrefix(line, "event: ")
		} else if strings.HasPrefix(line, "data: ") {
			dataLines = append(dataLines, strings.TrimPrefix(line, "data: "))
		} else if strings.HasPrefix(line, ":") {
			// keepalive comment
			continue
		} else if line == "" {
			// End of event
			if currentEvent != "" {
				data := strings.Join(dataLines, "\n")
				printEvent(currentEvent, data, jsonOutput)
			}
			currentEvent = ""
			dataLines = nil
		}
	}

	if err := scanner.Err(); err != nil {
		// Context cancellation is expected
		if ctx.Err() != nil {
			if !jsonOutput {
				fmt.Println("\nDisconnected")
			}
			return nil
		}
		return fmt.Errorf("stream error: %w", err)
	}

	if !jsonOutput {
		fmt.Println("Disconnected")
	}
	return nil
}

func printEvent(event, data string, jsonOutput bool) {
	now := time.Now()

	if jsonOutput {
		evt := SSEEvent{
			Time:  now,
			Event: event,
			Data:  data,
		}
		jsonData, _ := json.Marshal(evt)
		fmt.Println(string(jsonData))
		return
	}

	timestamp := pterm.Gray(now.Format("2006-01-02 15:04:05"))
	fmt.Printf("[%s] %s: %s\n", timestamp, pterm.LightCyan(event), summarizeEvent(event, data))
}

// summarizeEvent renders a one-line description of an event payload
func summarizeEvent(event, data string) string {
	switch event {
	case "game-state":
		var state GameState
		if err := json.Unmarshal([]byte(data), &state); err == nil {
			return summarizeState(state)
		}
	case "action-error":
		var apiErr APIError
		if err := json.Unmarshal([]byte(data), &apiErr); err == nil && apiErr.Code != "" {
			return pterm.LightRed(apiErr.String())
		}
	}

	// Truncate data if it's too long for display
	display := strings.ReplaceAll(data, "\n", " ")
	if len(display) > 100 {
		display = display[:100] + "..."
	}
	return display
}

func summarizeState(g GameState) string {
	parts := []string{g.Status}
	if g.HasStarted {
		parts = append(parts, fmt.Sprintf("hand %d round %d", g.HandNumber, g.CurrentRound))
	}
	for _, t := range g.Teams {
		parts = append(parts, fmt.Sprintf("%s %d", t.Name, t.Score))
	}
	for _, p := range g.Players {
		if p.IsCurrentPlayer {
			parts = append(parts, "turn: "+p.Name)
		}
		if len(p.Hand) > 0 {
			parts = append(parts, "hand: "+renderCards(p.Hand))
		}
	}
	if len(g.Table) > 0 {
		played := make([]Card, len(g.Table))
		for i, pc := range g.Table {
			played[i] = pc.Card
		}
		parts = append(parts, "table: "+renderCards(played))
	}
	if g.Pending != nil {
		parts = append(parts, "settling "+g.Pending.Kind)
	}
	return strings.Join(parts, " | ")
}
