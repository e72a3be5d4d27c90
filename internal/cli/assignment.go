package cli

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/mcoot/sportsched/internal/api/request"
	"github.com/mcoot/sportsched/internal/model"
)

func assignmentCommands() []*cobra.Command {
	return []*cobra.Command{
		newTransitionCmd(),
		newShortcutCmd("confirm", model.AssignmentConfirmed),
		newShortcutCmd("decline", model.AssignmentDeclined),
		newShortcutCmd("complete", model.AssignmentCompleted),
	}
}

func newTransitionCmd() *cobra.Command {
	var expect string

	cmd := &cobra.Command{
		Use:   "transition <id> <status>",
		Short: "Move an assignment to a new status",
		Long: `Move an assignment along its lifecycle:

  pending   -> confirmed, declined
  confirmed -> completed, declined

With --expect the change only applies if the assignment is still in that status.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return transition(args[0], model.AssignmentStatus(args[1]), model.AssignmentStatus(expect))
		},
	}

	cmd.Flags().StringVar(&expect, "expect", "", "Status the assignment must currently have")

	return cmd
}

func newShortcutCmd(use string, to model.AssignmentStatus) *cobra.Command {
	var expect string

	cmd := &cobra.Command{
		Use:   use + " <id>",
		Short: "Mark an assignment " + string(to),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return transition(args[0], to, model.AssignmentStatus(expect))
		},
	}

	cmd.Flags().StringVar(&expect, "expect", "", "Status the assignment must currently have")

	return cmd
}

func transition(id string, to, expect model.AssignmentStatus) error {
	req := request.TransitionRequest{Status: to}
	if expect != "" {
		req.ExpectedStatus = &expect
	}

	return recordOf[model.Assignment](NewOutput(cfg.Output), http.MethodPost, "/api/v1/assignments/"+id+"/transition", req)
}
