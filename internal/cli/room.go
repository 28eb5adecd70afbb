package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRoomCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "room",
		Short: "Room and seat commands",
	}

	cmd.AddCommand(newRoomListCmd())
	cmd.AddCommand(newRoomCreateCmd())
	cmd.AddCommand(newRoomGetCmd())
	cmd.AddCommand(newRoomJoinCmd())
	cmd.AddCommand(newRoomLeaveCmd())
	cmd.AddCommand(newRoomAddBotCmd())
	cmd.AddCommand(newRoomRemoveBotCmd())

	return cmd
}

func newRoomListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List open rooms",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result RoomList

			if err := client.Get("/api/v1/rooms", &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newRoomCreateCmd() *cobra.Command {
	var name string
	var maxPlayers int

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a room and take the first seat",
		RunE: func(cmd *cobra.Command, args []string) error {
			if maxPlayers != 0 && maxPlayers != 2 && maxPlayers != 4 {
				return fmt.Errorf("--max-players must be 2 or 4")
			}

			req := map[string]any{}
			if name != "" {
				req["name"] = name
			}
			if maxPlayers > 0 {
				req["max_players"] = maxPlayers
			}

			var result RoomCreated

			if err := client.Post("/api/v1/rooms", req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Room name (default: server generated)")
	cmd.Flags().IntVar(&maxPlayers, "max-players", 0, "Seats at the table, 2 or 4 (default: 2)")

	return cmd
}

func newRoomGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <room>",
		Short: "Get room details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Room

			if err := client.Get(roomPath(args[0]), &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newRoomJoinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "join <room>",
		Short: "Take a seat in a room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result GameState

			if err := client.Post(roomPath(args[0], "join"), nil, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newRoomLeaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "leave <room>",
		Short: "Give up your seat",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := args[0]

			if err := client.Post(roomPath(code, "leave"), nil, nil); err != nil {
				return err
			}

			NewOutput(cfg.Output).PrintMessage(fmt.Sprintf("Left room %s", code))
			return nil
		},
	}
}

func newRoomAddBotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add-bot <room>",
		Short: "Seat a bot in an empty chair",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Player

			if err := client.Post(roomPath(args[0], "bots"), nil, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newRoomRemoveBotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove-bot <room> <bot-id>",
		Short: "Remove a bot from the table",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, botID := args[0], args[1]

			if err := client.Delete(roomPath(code, "bots", botID)); err != nil {
				return err
			}

			NewOutput(cfg.Output).PrintMessage(fmt.Sprintf("Removed bot %s", botID))
			return nil
		},
	}
}
