package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newGameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "Table commands",
	}

	cmd.AddCommand(newGameStateCmd())
	cmd.AddCommand(newGameHandCmd())
	cmd.AddCommand(newGameReadyCmd())
	cmd.AddCommand(newGamePlayCmd())
	cmd.AddCommand(newGameBidCmd())
	cmd.AddCommand(newGameRespondCmd())
	cmd.AddCommand(newGameFlorCmd())

	return cmd
}

func newGameStateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "state <room>",
		Short: "Show the table as you see it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result GameState

			if err := client.Get(roomPath(args[0], "state"), &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newGameHandCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hand <room>",
		Short: "Show your cards",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Hand

			if err := client.Get(roomPath(args[0], "cards"), &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newGameReadyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ready <room>",
		Short: "Mark yourself ready to start",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return postAction(args[0], "ready", nil)
		},
	}
}

func newGamePlayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "play <room> <card>",
		Short: "Play a card from your hand",
		Long: `Play a card from your hand.

Cards are written as rank then suit, either with the suit symbol or name:
  7♦, "7 ouros", 7-ouros, 1-espadas, 12-copas`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			card := strings.Join(args[1:], " ")
			return postAction(args[0], "play", map[string]string{"card": card})
		},
	}
}

func newGameBidCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bid <room> <kind>",
		Short: "Call truco, retruco, vale4, envido or flor bids",
		Long: `Call a bid.

Kinds: truco, retruco, vale4, envido, real_envido, falta_envido,
flor, contra_flor, contra_flor_resto. The server rejects tiers it does not support.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return postAction(args[0], "bids", map[string]string{"bid": args[1]})
		},
	}
}

func newGameRespondCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "respond <room> <kind> accept|decline",
		Short: "Answer a pending bid",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			accept, err := parseAnswer(args[2])
			if err != nil {
				return err
			}
			req := map[string]any{"bid": args[1], "accept": accept}
			return postAction(args[0], "bids/respond", req)
		},
	}
}

func newGameFlorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "flor <room>",
		Short: "Declare flor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return postAction(args[0], "flor", nil)
		},
	}
}

// postAction sends a table action and prints the resulting state
func postAction(code, action string, body any) error {
	var result GameState

	if err := client.Post(roomPath(code, action), body, &result); err != nil {
		return err
	}

	NewOutput(cfg.Output).Print(result)
	return nil
}

func parseAnswer(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "accept", "yes", "quero":
		return true, nil
	case "decline", "no", "nao", "não":
		return false, nil
	}
	return false, fmt.Errorf("answer must be accept or decline, got %q", s)
}
