package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/pterm/pterm"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to stdout
func NewOutput(format string) *Output {
	return newOutputTo(format, os.Stdout)
}

func newOutputTo(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		pterm.Error.WithWriter(os.Stderr).Println(err.Error())
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Fprintln(o.w, string(data))
	} else {
		fmt.Fprintln(o.w, pterm.Success.Sprint(msg))
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Player:
		o.printPlayer(v)
	case AuthResult:
		o.printAuthResult(v)
	case Room:
		o.printRoom(v)
	case RoomList:
		o.printRoomList(v)
	case RoomCreated:
		o.printRoom(v.Room)
		fmt.Fprintln(o.w)
		o.printGameState(v.State)
	case GameState:
		o.printGameState(v)
	case Hand:
		fmt.Fprintf(o.w, "Hand: %s\n", renderCards(v.Cards))
	case HealthResult:
		fmt.Fprintf(o.w, "Status: %s\n", pterm.Green(v.Status))
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Player response type (matches API)
type Player struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	IsGuest     bool   `json:"is_guest"`
	IsBot       bool   `json:"is_bot,omitempty"`
}

// AuthResult combines player and token
type AuthResult struct {
	Player       Player    `json:"player"`
	SessionToken string    `json:"session_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Room response type
type Room struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	PlayerCount int       `json:"player_count"`
	MaxPlayers  int       `json:"max_players"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// RoomList response type
type RoomList struct {
	Rooms []Room `json:"rooms"`
}

// RoomCreated is a new room with the creator already seated
type RoomCreated struct {
	Room  Room      `json:"room"`
	State GameState `json:"state"`
}

// Card response type
type Card struct {
	Rank    string `json:"rank"`
	Suit    string `json:"suit"`
	Display string `json:"display"`
}

// Hand response type
type Hand struct {
	Cards []Card `json:"cards"`
}

// Team response type
type Team struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Score     int    `json:"score"`
	RoundsWon int    `json:"rounds_won"`
}

// Seat response type
type Seat struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Team            int    `json:"team"`
	IsReady         bool   `json:"is_ready"`
	IsCurrentPlayer bool   `json:"is_current_player"`
	IsBot           bool   `json:"is_bot"`
	HandSize        int    `json:"hand_size"`
	Hand            []Card `json:"hand,omitempty"`
}

// PlayedCard response type
type PlayedCard struct {
	PlayerID string `json:"player_id"`
	Team     int    `json:"team"`
	Card     Card   `json:"card"`
}

// Round response type
type Round struct {
	Round        int    `json:"round"`
	Winner       int    `json:"winner"`
	WinnerPlayer string `json:"winner_player,omitempty"`
	Tied         bool   `json:"tied"`
}

// TrucoBid response type
type TrucoBid struct {
	Level          string `json:"level"`
	Value          int    `json:"value"`
	RequestedBy    string `json:"requested_by"`
	RequestingTeam int    `json:"requesting_team"`
	Responder      string `json:"responder"`
	Accepted       bool   `json:"accepted"`
}

// EnvidoResult response type
type EnvidoResult struct {
	Team1  int `json:"team1"`
	Team2  int `json:"team2"`
	Winner int `json:"winner"`
}

// EnvidoBid response type
type EnvidoBid struct {
	Level           string        `json:"level"`
	Value           int           `json:"value"`
	RequestedBy     string        `json:"requested_by"`
	RequestingTeam  int           `json:"requesting_team"`
	RespondingTeam  int           `json:"responding_team"`
	WaitingResponse bool          `json:"waiting_response"`
	Accepted        bool          `json:"accepted"`
	Result          *EnvidoResult `json:"result,omitempty"`
}

// Flor response type
type Flor struct {
	Value      int    `json:"value"`
	Team       int    `json:"team"`
	DeclaredBy string `json:"declared_by"`
}

// Pending response type
type Pending struct {
	Kind  string    `json:"kind"`
	DueAt time.Time `json:"due_at"`
}

// GameState response type
type GameState struct {
	RoomID        string       `json:"room_id"`
	Name          string       `json:"name"`
	Status        string       `json:"status"`
	HasStarted    bool         `json:"has_started"`
	MaxPlayers    int          `json:"max_players"`
	HandNumber    int          `json:"hand_number"`
	CurrentRound  int          `json:"current_round"`
	HandValue     int          `json:"hand_value"`
	CurrentPlayer string       `json:"current_player,omitempty"`
	Teams         []Team       `json:"teams"`
	Players       []Seat       `json:"players"`
	Table         []PlayedCard `json:"table"`
	Rounds        []Round      `json:"rounds"`
	Truco         *TrucoBid    `json:"truco,omitempty"`
	Retruco       *TrucoBid    `json:"retruco,omitempty"`
	Vale4         *TrucoBid    `json:"vale4,omitempty"`
	Envido        *EnvidoBid   `json:"envido,omitempty"`
	Flor          *Flor        `json:"flor,omitempty"`
	Winner        int          `json:"winner,omitempty"`
	Pending       *Pending     `json:"pending,omitempty"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printPlayer(p Player) {
	kind := "registered"
	switch {
	case p.IsBot:
		kind = "bot"
	case p.IsGuest:
		kind = "guest"
	}
	fmt.Fprintf(o.w, "Player: %s (%s)\n", pterm.LightCyan(p.DisplayName), p.ID)
	fmt.Fprintf(o.w, "Account: %s\n", kind)
}

func (o *Output) printAuthResult(a AuthResult) {
	o.printPlayer(a.Player)
	fmt.Fprintf(o.w, "Token: %s\n", a.SessionToken)
	if !a.ExpiresAt.IsZero() {
		fmt.Fprintf(o.w, "Expires: %s\n", a.ExpiresAt.Local().Format(time.RFC1123))
	}
}

func (o *Output) printRoom(r Room) {
	fmt.Fprintf(o.w, "Room: %s (%s)\n", pterm.LightCyan(r.Name), r.ID)
	fmt.Fprintf(o.w, "Status: %s\n", colorStatus(r.Status))
	fmt.Fprintf(o.w, "Players: %d/%d\n", r.PlayerCount, r.MaxPlayers)
}

func (o *Output) printRoomList(l RoomList) {
	if len(l.Rooms) == 0 {
		fmt.Fprintln(o.w, "No open rooms")
		return
	}
	data := pterm.TableData{{"Code", "Name", "Players", "Status"}}
	for _, r := range l.Rooms {
		data = append(data, []string{
			r.ID,
			r.Name,
			fmt.Sprintf("%d/%d", r.PlayerCount, r.MaxPlayers),
			colorStatus(r.Status),
		})
	}
	o.renderTable(data)
}

func (o *Output) printGameState(g GameState) {
	fmt.Fprintln(o.w, pterm.DefaultSection.Sprintf("%s (%s)", g.Name, g.RoomID))
	fmt.Fprintf(o.w, "Status: %s\n", colorStatus(g.Status))
	if g.HasStarted {
		fmt.Fprintf(o.w, "Hand %d, round %d, worth %d\n", g.HandNumber, g.CurrentRound, g.HandValue)
	}

	names := make(map[string]string, len(g.Players))
	for _, p := range g.Players {
		names[p.ID] = p.Name
	}

	teams := pterm.TableData{{"Team", "Score", "Rounds"}}
	for _, t := range g.Teams {
		teams = append(teams, []string{t.Name, fmt.Sprint(t.Score), fmt.Sprint(t.RoundsWon)})
	}
	o.renderTable(teams)

	seats := pterm.TableData{{"", "Player", "Team", "Ready", "Cards"}}
	for _, p := range g.Players {
		marker := ""
		if p.IsCurrentPlayer {
			marker = pterm.LightYellow("▶")
		}
		name := p.Name
		if p.IsBot {
			name += " [bot]"
		}
		cards := fmt.Sprint(p.HandSize)
		if len(p.Hand) > 0 {
			cards = renderCards(p.Hand)
		}
		seats = append(seats, []string{marker, name, fmt.Sprint(p.Team), yesNo(p.IsReady), cards})
	}
	o.renderTable(seats)

	if len(g.Table) > 0 {
		played := make([]string, len(g.Table))
		for i, pc := range g.Table {
			played[i] = fmt.Sprintf("%s (%s)", renderCard(pc.Card), nameOr(names, pc.PlayerID))
		}
		fmt.Fprintf(o.w, "Table: %s\n", strings.Join(played, ", "))
	}
	for _, r := range g.Rounds {
		if r.Tied {
			fmt.Fprintf(o.w, "Round %d: tied\n", r.Round)
			continue
		}
		fmt.Fprintf(o.w, "Round %d: team %d (%s)\n", r.Round, r.Winner, nameOr(names, r.WinnerPlayer))
	}

	for _, bid := range []*TrucoBid{g.Truco, g.Retruco, g.Vale4} {
		if bid == nil {
			continue
		}
		fmt.Fprintf(o.w, "%s (%d) called by %s: %s\n",
			bid.Level, bid.Value, nameOr(names, bid.RequestedBy), bidState(bid.Accepted, bid.Responder, names))
	}
	if e := g.Envido; e != nil {
		state := "declined"
		switch {
		case e.WaitingResponse:
			state = "waiting for team " + fmt.Sprint(e.RespondingTeam)
		case e.Accepted:
			state = "accepted"
		}
		fmt.Fprintf(o.w, "%s (%d) called by %s: %s\n", e.Level, e.Value, nameOr(names, e.RequestedBy), state)
		if r := e.Result; r != nil {
			fmt.Fprintf(o.w, "Envido: %d to %d, team %d wins\n", r.Team1, r.Team2, r.Winner)
		}
	}
	if f := g.Flor; f != nil {
		fmt.Fprintf(o.w, "Flor (%d) declared by %s\n", f.Value, nameOr(names, f.DeclaredBy))
	}

	if p := g.Pending; p != nil {
		fmt.Fprintf(o.w, "%s\n", pterm.Gray(fmt.Sprintf("Settling %s at %s", p.Kind, p.DueAt.Local().Format(time.TimeOnly))))
	}
	if g.Winner != 0 {
		fmt.Fprintln(o.w, pterm.LightGreen(fmt.Sprintf("Team %d wins the game", g.Winner)))
	}
}

func (o *Output) renderTable(data pterm.TableData) {
	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		o.printJSON(data)
		return
	}
	fmt.Fprintln(o.w, table)
}

// renderCard colors red suits red
func renderCard(c Card) string {
	display := c.Display
	if display == "" {
		display = c.Rank + " " + c.Suit
	}
	switch c.Suit {
	case "copas", "ouros":
		return pterm.LightRed(display)
	default:
		return pterm.LightWhite(display)
	}
}

func renderCards(cards []Card) string {
	if len(cards) == 0 {
		return "-"
	}
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = renderCard(c)
	}
	return strings.Join(out, " ")
}

func colorStatus(status string) string {
	switch status {
	case "waiting":
		return pterm.LightYellow(status)
	case "playing":
		return pterm.LightGreen(status)
	default:
		return pterm.Gray(status)
	}
}

func bidState(accepted bool, responder string, names map[string]string) string {
	if accepted {
		return "accepted"
	}
	return "waiting for " + nameOr(names, responder)
}

func nameOr(names map[string]string, id string) string {
	if name, ok := names[id]; ok {
		return name
	}
	return id
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
