package cli

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcoot/sportsched/internal/api/response"
	"github.com/mcoot/sportsched/internal/model"
	"github.com/mcoot/sportsched/internal/query"
)

// entityDef describes one CRUD collection exposed by the API
type entityDef struct {
	kind    model.EntityKind
	short   string
	filters []string
	list    func(out *Output, path string, params url.Values) error
	record  func(out *Output, method, path string, body any) error
	extra   func() []*cobra.Command
}

var entityDefs = []entityDef{
	{
		kind:    model.KindLocation,
		short:   "Manage game locations",
		filters: []string{query.ParamSearch, query.ParamActive},
		list:    listOf[model.Location],
		record:  recordOf[model.Location],
	},
	{
		kind:    model.KindOfficial,
		short:   "Manage officials",
		filters: []string{query.ParamSearch, query.ParamExperienceLevel, query.ParamActive},
		list:    listOf[model.Official],
		record:  recordOf[model.Official],
	},
	{
		kind:  model.KindGame,
		short: "Manage games",
		filters: []string{
			query.ParamSearch, query.ParamSport, query.ParamLeague,
			query.ParamStatus, query.ParamDateFrom, query.ParamDateTo,
		},
		list:   listOf[model.Game],
		record: recordOf[model.Game],
	},
	{
		kind:    model.KindUser,
		short:   "Manage user accounts",
		filters: []string{query.ParamSearch, query.ParamRole, query.ParamActive},
		list:    listOf[response.User],
		record:  recordOf[response.User],
	},
	{
		kind:  model.KindAssignment,
		short: "Manage official assignments",
		filters: []string{
			query.ParamStatus, query.ParamGameID, query.ParamOfficialID,
			query.ParamDateFrom, query.ParamDateTo,
		},
		list:   listOf[model.AssignmentDetail],
		record: recordOf[model.Assignment],
		extra:  assignmentCommands,
	},
}

// Fields sent as numbers or booleans by --set
var (
	intFields   = map[string]bool{"capacity": true, "officials_needed": true}
	floatFields = map[string]bool{"rating": true, "fee": true}
	boolFields  = map[string]bool{"is_active": true}
)

func collectionPath(kind model.EntityKind) string {
	return "/api/v1/" + kind.Plural()
}

func listOf[T any](out *Output, path string, params url.Values) error {
	var result response.List[T]
	if err := client.GetQuery(path, params, &result); err != nil {
		return err
	}
	out.Print(result)
	return nil
}

func recordOf[T any](out *Output, method, path string, body any) error {
	var result T
	if err := client.Do(method, path, body, &result); err != nil {
		return err
	}
	out.Print(result)
	return nil
}

func newEntityCmd(def entityDef) *cobra.Command {
	cmd := &cobra.Command{
		Use:     string(def.kind),
		Aliases: []string{def.kind.Plural()},
		Short:   def.short,
	}

	cmd.AddCommand(newEntityListCmd(def))
	cmd.AddCommand(newEntityGetCmd(def))
	cmd.AddCommand(newEntityWriteCmd(def, "create"))
	cmd.AddCommand(newEntityWriteCmd(def, "update"))
	cmd.AddCommand(newEntityDeleteCmd(def))
	if def.extra != nil {
		cmd.AddCommand(def.extra()...)
	}

	return cmd
}

func newEntityListCmd(def entityDef) *cobra.Command {
	values := make(map[string]*string, len(def.filters))
	var sort string

	cmd := &cobra.Command{
		Use:   "list",
		Short: fmt.Sprintf("List %s", def.kind.Plural()),
		RunE: func(cmd *cobra.Command, args []string) error {
			params := url.Values{}
			for name, v := range values {
				if *v != "" {
					params.Set(name, *v)
				}
			}
			if sort != "" {
				params.Set(query.ParamSort, sort)
			}
			// Reject malformed filters before they reach the server
			if _, _, err := query.FromValues(params); err != nil {
				return err
			}

			return def.list(NewOutput(cfg.Output), collectionPath(def.kind), params)
		},
	}

	for _, name := range def.filters {
		values[name] = cmd.Flags().String(flagName(name), "", filterUsage(name))
	}
	cmd.Flags().StringVar(&sort, "sort", "", "Sort field, prefix with - for descending")

	return cmd
}

func newEntityGetCmd(def entityDef) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: fmt.Sprintf("Show one %s", def.kind),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return def.record(NewOutput(cfg.Output), http.MethodGet, collectionPath(def.kind)+"/"+args[0], nil)
		},
	}
}

// newEntityWriteCmd builds create (POST) or update <id> (PATCH)
func newEntityWriteCmd(def entityDef, verb string) *cobra.Command {
	var sets []string

	cmd := &cobra.Command{
		Use:   verb,
		Short: fmt.Sprintf("%s a %s", strings.ToUpper(verb[:1])+verb[1:], def.kind),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := parseSets(sets)
			if err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			if verb == "create" {
				return def.record(out, http.MethodPost, collectionPath(def.kind), body)
			}
			if len(body) == 0 {
				return fmt.Errorf("nothing to update: pass at least one --set")
			}
			return def.record(out, http.MethodPatch, collectionPath(def.kind)+"/"+args[0], body)
		},
	}
	if verb == "update" {
		cmd.Use = "update <id>"
		cmd.Args = cobra.ExactArgs(1)
	}

	cmd.Flags().StringArrayVar(&sets, "set", nil, "Field to set as key=value (repeatable)")

	return cmd
}

func newEntityDeleteCmd(def entityDef) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: fmt.Sprintf("Delete a %s", def.kind),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete(collectionPath(def.kind) + "/" + args[0]); err != nil {
				return err
			}

			NewOutput(cfg.Output).PrintMessage(fmt.Sprintf("Deleted %s %s", def.kind, args[0]))
			return nil
		},
	}
}

// parseSets turns key=value pairs into a JSON body
func parseSets(sets []string) (map[string]any, error) {
	body := make(map[string]any, len(sets))
	for _, s := range sets {
		key, raw, ok := strings.Cut(s, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --set %q: expected key=value", s)
		}

		switch {
		case intFields[key]:
			n, err := strconv.Atoi(raw)
			if err != nil {
				return nil, fmt.Errorf("%s must be an integer", key)
			}
			body[key] = n
		case floatFields[key]:
			f, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("%s must be a number", key)
			}
			body[key] = f
		case boolFields[key]:
			b, err := strconv.ParseBool(raw)
			if err != nil {
				return nil, fmt.Errorf("%s must be true or false", key)
			}
			body[key] = b
		default:
			body[key] = raw
		}
	}
	return body, nil
}

func flagName(param string) string {
	return strings.ReplaceAll(param, "_", "-")
}

func filterUsage(param string) string {
	switch param {
	case query.ParamSearch:
		return "Case-insensitive text search"
	case query.ParamActive:
		return "Filter by active flag (true or false)"
	case query.ParamDateFrom, query.ParamDateTo:
		return "Game date bound, YYYY-MM-DD (inclusive)"
	default:
		return "Filter by " + strings.ReplaceAll(param, "_", " ")
	}
}
