package model

// TeamID is 1 or 2. The zero value means "no team".
type TeamID int

const (
	NoTeam TeamID = 0
	Team1  TeamID = 1
	Team2  TeamID = 2
)

// Opponent returns the other team
func (t TeamID) Opponent() TeamID {
	if t == Team1 {
		return Team2
	}
	return Team1
}

// Team aggregates the seats sharing a TeamID
type Team struct {
	ID        TeamID
	Name      string
	Score     int // cumulative, persists across hands
	RoundsWon int // reset every hand
}

// NewTeams returns the two teams with their default names
func NewTeams() [2]Team {
	return [2]Team{
		{ID: Team1, Name: "Time 1"},
		{ID: Team2, Name: "Time 2"},
	}
}
