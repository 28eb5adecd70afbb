package e2e_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/trucogame-go/internal/api"
	"github.com/mcoot/trucogame-go/internal/factory"
)

// cliRunner manages CLI binary execution
type cliRunner struct {
	binaryPath string
	serverURL  string
	tokenFile  string
}

func newCLIRunner(t *testing.T, serverURL string) *cliRunner {
	t.Helper()

	// Find project root (where go.mod is)
	projectRoot := findProjectRoot(t)

	// Build the CLI binary
	binaryPath := filepath.Join(projectRoot, "bin", "trucoctl-test")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/trucoctl")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build CLI: %s", string(output))

	// Create temp token file
	tokenFile := filepath.Join(t.TempDir(), "token")

	return &cliRunner{
		binaryPath: binaryPath,
		serverURL:  serverURL,
		tokenFile:  tokenFile,
	}
}

// withTokenFile returns a runner sharing the binary but keeping its own token
func (r *cliRunner) withTokenFile(t *testing.T) *cliRunner {
	t.Helper()
	return &cliRunner{
		binaryPath: r.binaryPath,
		serverURL:  r.serverURL,
		tokenFile:  filepath.Join(t.TempDir(), "token"),
	}
}

func (r *cliRunner) run(args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--token-file", r.tokenFile,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	cmd.Env = append(os.Environ(), "TRUCO_TOKEN=")
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func (r *cliRunner) runWithToken(token string, args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--token", token,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// testServer manages a real HTTP server for e2e tests
type testServer struct {
	server   *http.Server
	addr     string
	shutdown func()
}

func startTestServer(t *testing.T) *testServer {
	t.Helper()

	// Find a free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	app, err := factory.New(factory.Config{Logger: logger})
	require.NoError(t, err)

	apiRouter := api.NewRouter(api.RouterConfig{
		Logger:         logger,
		AuthService:    app.AuthService,
		RoomController: app.RoomController,
		GameController: app.GameController,
		SessionService: app.SessionService,
		HubManager:     app.HubManager,
	})

	server := &http.Server{
		Addr:    addr,
		Handler: apiRouter,
	}

	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			t.Logf("server error: %v", err)
		}
	}()

	// Wait for server to be ready
	serverURL := "http://" + addr
	waitForServer(t, serverURL+"/api/v1/health")

	return &testServer{
		server: server,
		addr:   serverURL,
		shutdown: func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(ctx)
			_ = app.Close()
		},
	}
}

func waitForServer(t *testing.T, url string) {
	t.Helper()

	client := &http.Client{Timeout: 100 * time.Millisecond}
	deadline := time.Now().Add(5 * time.Second)

	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}

	t.Fatal("server did not become ready in time")
}

// Response types for JSON parsing
type playerResponse struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	IsGuest     bool   `json:"is_guest"`
	IsBot       bool   `json:"is_bot"`
}

type authResponse struct {
	Player       playerResponse `json:"player"`
	SessionToken string         `json:"session_token"`
}

type roomResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	PlayerCount int    `json:"player_count"`
	MaxPlayers  int    `json:"max_players"`
	Status      string `json:"status"`
}

type cardResponse struct {
	Rank    string `json:"rank"`
	Suit    string `json:"suit"`
	Display string `json:"display"`
}

type seatResponse struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	IsCurrentPlayer bool           `json:"is_current_player"`
	IsBot           bool           `json:"is_bot"`
	HandSize        int            `json:"hand_size"`
	Hand            []cardResponse `json:"hand"`
}

type gameStateResponse struct {
	RoomID        string         `json:"room_id"`
	Status        string         `json:"status"`
	HasStarted    bool           `json:"has_started"`
	CurrentRound  int            `json:"current_round"`
	HandValue     int            `json:"hand_value"`
	CurrentPlayer string         `json:"current_player"`
	Players       []seatResponse `json:"players"`
	Table         []struct {
		PlayerID string       `json:"player_id"`
		Card     cardResponse `json:"card"`
	} `json:"table"`
	Truco *struct {
		Level     string `json:"level"`
		Responder string `json:"responder"`
		Accepted  bool   `json:"accepted"`
	} `json:"truco"`
}

type roomCreatedResponse struct {
	Room  roomResponse      `json:"room"`
	State gameStateResponse `json:"state"`
}

type handResponse struct {
	Cards []cardResponse `json:"cards"`
}

type healthResponse struct {
	Status string `json:"status"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func createGuest(t *testing.T, cli *cliRunner, name string) authResponse {
	t.Helper()

	output, err := cli.run("player", "guest", "--name", name)
	require.NoError(t, err, "output: %s", output)

	var resp authResponse
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	return resp
}

// Tests

func TestCLI_HealthCheck(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("health")
	require.NoError(t, err, "output: %s", output)

	var resp healthResponse
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestCLI_PlayerCommands(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	authResp := createGuest(t, cli, "Alice")
	assert.Equal(t, "Alice", authResp.Player.DisplayName)
	assert.True(t, authResp.Player.IsGuest)
	assert.NotEmpty(t, authResp.SessionToken)

	// Get me (token should be saved in token file)
	output, err := cli.run("player", "me")
	require.NoError(t, err, "output: %s", output)

	var player playerResponse
	require.NoError(t, json.Unmarshal([]byte(output), &player))
	assert.Equal(t, "Alice", player.DisplayName)
	assert.Equal(t, authResp.Player.ID, player.ID)

	// Register and log in with a real account
	reg := cli.withTokenFile(t)
	output, err = reg.run("player", "register", "--name", "Gaúcho", "--user", "gaucho", "--pass", "chimarrao")
	require.NoError(t, err, "output: %s", output)

	output, err = reg.run("player", "login", "--user", "gaucho", "--pass", "chimarrao")
	require.NoError(t, err, "output: %s", output)
	var loginResp authResponse
	require.NoError(t, json.Unmarshal([]byte(output), &loginResp))
	assert.False(t, loginResp.Player.IsGuest)

	// Logout forgets the token
	output, err = cli.run("player", "logout")
	require.NoError(t, err, "output: %s", output)
	var msgResp messageResponse
	require.NoError(t, json.Unmarshal([]byte(output), &msgResp))
	assert.Equal(t, "Logged out", msgResp.Message)

	_, err = cli.run("player", "me")
	assert.Error(t, err)
}

func TestCLI_RoomCommands(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)
	token := createGuest(t, cli, "Alice").SessionToken

	// Create room
	output, err := cli.runWithToken(token, "room", "create", "--name", "Mesa", "--max-players", "2")
	require.NoError(t, err, "output: %s", output)

	var created roomCreatedResponse
	require.NoError(t, json.Unmarshal([]byte(output), &created))
	assert.Equal(t, "Mesa", created.Room.Name)
	assert.Equal(t, "waiting", created.Room.Status)
	assert.Equal(t, 1, created.Room.PlayerCount)
	assert.Len(t, created.State.Players, 1)
	roomCode := created.Room.ID

	// List rooms
	output, err = cli.runWithToken(token, "room", "list")
	require.NoError(t, err, "output: %s", output)
	var list struct {
		Rooms []roomResponse `json:"rooms"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &list))
	require.Len(t, list.Rooms, 1)
	assert.Equal(t, roomCode, list.Rooms[0].ID)

	// Add a bot, then remove it
	output, err = cli.runWithToken(token, "room", "add-bot", roomCode)
	require.NoError(t, err, "output: %s", output)
	var bot playerResponse
	require.NoError(t, json.Unmarshal([]byte(output), &bot))
	assert.True(t, bot.IsBot)

	output, err = cli.runWithToken(token, "room", "get", roomCode)
	require.NoError(t, err, "output: %s", output)
	var room roomResponse
	require.NoError(t, json.Unmarshal([]byte(output), &room))
	assert.Equal(t, 2, room.PlayerCount)

	output, err = cli.runWithToken(token, "room", "remove-bot", roomCode, bot.ID)
	require.NoError(t, err, "output: %s", output)

	// Leave room; the last human closes it
	output, err = cli.runWithToken(token, "room", "leave", roomCode)
	require.NoError(t, err, "output: %s", output)

	var msgResp messageResponse
	require.NoError(t, json.Unmarshal([]byte(output), &msgResp))
	assert.Contains(t, msgResp.Message, "Left room")

	_, err = cli.runWithToken(token, "room", "get", roomCode)
	assert.Error(t, err)
}

func TestCLI_GameFlow(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli1 := newCLIRunner(t, ts.addr)
	cli2 := cli1.withTokenFile(t)

	auth1 := createGuest(t, cli1, "Alice")
	auth2 := createGuest(t, cli2, "Bob")
	tokens := map[string]string{
		auth1.Player.ID: auth1.SessionToken,
		auth2.Player.ID: auth2.SessionToken,
	}

	output, err := cli1.runWithToken(auth1.SessionToken, "room", "create")
	require.NoError(t, err, "output: %s", output)
	var created roomCreatedResponse
	require.NoError(t, json.Unmarshal([]byte(output), &created))
	roomCode := created.Room.ID

	output, err = cli2.runWithToken(auth2.SessionToken, "room", "join", roomCode)
	require.NoError(t, err, "output: %s", output)

	// Both ready up
	_, err = cli1.runWithToken(auth1.SessionToken, "game", "ready", roomCode)
	require.NoError(t, err)
	output, err = cli2.runWithToken(auth2.SessionToken, "game", "ready", roomCode)
	require.NoError(t, err, "output: %s", output)

	var state gameStateResponse
	require.NoError(t, json.Unmarshal([]byte(output), &state))
	assert.Equal(t, "playing", state.Status)
	assert.True(t, state.HasStarted)
	require.NotEmpty(t, state.CurrentPlayer)

	current := state.CurrentPlayer
	other := auth1.Player.ID
	if current == other {
		other = auth2.Player.ID
	}

	// The waiting seat cannot play
	output, err = cli1.runWithToken(tokens[other], "game", "hand", roomCode)
	require.NoError(t, err, "output: %s", output)
	var otherHand handResponse
	require.NoError(t, json.Unmarshal([]byte(output), &otherHand))
	require.Len(t, otherHand.Cards, 3)

	output, err = cli1.runWithToken(tokens[other], "game", "play", roomCode, otherHand.Cards[0].Display)
	assert.Error(t, err)
	assert.Contains(t, output, "NOT_YOUR_TURN")

	// Truco is answered by the other seat
	output, err = cli1.runWithToken(tokens[current], "game", "bid", roomCode, "truco")
	require.NoError(t, err, "output: %s", output)
	require.NoError(t, json.Unmarshal([]byte(output), &state))
	require.NotNil(t, state.Truco)
	assert.Equal(t, other, state.Truco.Responder)

	output, err = cli1.runWithToken(tokens[other], "game", "respond", roomCode, "truco", "accept")
	require.NoError(t, err, "output: %s", output)
	require.NoError(t, json.Unmarshal([]byte(output), &state))
	assert.True(t, state.Truco.Accepted)
	assert.Equal(t, 2, state.HandValue)

	// The current seat plays a card written as rank-suit
	output, err = cli1.runWithToken(tokens[current], "game", "hand", roomCode)
	require.NoError(t, err, "output: %s", output)
	var hand handResponse
	require.NoError(t, json.Unmarshal([]byte(output), &hand))
	card := hand.Cards[0]

	output, err = cli1.runWithToken(tokens[current], "game", "play", roomCode, card.Rank+"-"+card.Suit)
	require.NoError(t, err, "output: %s", output)
	require.NoError(t, json.Unmarshal([]byte(output), &state))
	require.Len(t, state.Table, 1)
	assert.Equal(t, card.Display, state.Table[0].Card.Display)
	assert.Equal(t, other, state.CurrentPlayer)

	// The opponent only sees the size of the current seat's hand
	output, err = cli1.runWithToken(tokens[other], "game", "state", roomCode)
	require.NoError(t, err, "output: %s", output)
	require.NoError(t, json.Unmarshal([]byte(output), &state))
	for _, p := range state.Players {
		if p.ID == current {
			assert.Empty(t, p.Hand)
			assert.Equal(t, 2, p.HandSize)
		}
	}
}

func TestCLI_UnsupportedBid(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)
	token := createGuest(t, cli, "Alice").SessionToken

	output, err := cli.runWithToken(token, "room", "create")
	require.NoError(t, err, "output: %s", output)
	var created roomCreatedResponse
	require.NoError(t, json.Unmarshal([]byte(output), &created))

	output, err = cli.runWithToken(token, "game", "bid", created.Room.ID, "real_envido")
	assert.Error(t, err)
	assert.Contains(t, output, "UNSUPPORTED_BID")

	output, err = cli.runWithToken(token, "game", "bid", created.Room.ID, "truco")
	assert.Error(t, err)
	assert.Contains(t, output, "GAME_NOT_IN_PROGRESS")

	output, err = cli.runWithToken(token, "game", "respond", created.Room.ID, "truco", "maybe")
	assert.Error(t, err)
	assert.Contains(t, output, "accept or decline")
}

func TestCLI_ErrorHandling(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	// Get player without auth
	output, err := cli.run("player", "me")
	assert.Error(t, err)
	assert.Contains(t, strings.ToLower(output), "unauthorized")

	// Get non-existent room
	token := createGuest(t, cli, "Alice").SessionToken

	output, err = cli.runWithToken(token, "room", "get", "INVALID")
	assert.Error(t, err)
	assert.Contains(t, strings.ToLower(output), "not found")

	// Bad room size is rejected before hitting the server
	output, err = cli.runWithToken(token, "room", "create", "--max-players", "3")
	assert.Error(t, err)
	assert.Contains(t, output, "--max-players must be 2 or 4")
}
