package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/mcoot/sportsched/internal/api/response"
	"github.com/mcoot/sportsched/internal/model"
	"github.com/mcoot/sportsched/internal/services/report"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to stdout
func NewOutput(format string) *Output {
	return &Output{format: format, w: os.Stdout}
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
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Fprintln(o.w, string(data))
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case response.AuthResponse:
		o.printUser(v.User)
		fmt.Fprintf(o.w, "Token: %s\n", v.SessionToken)
		fmt.Fprintf(o.w, "Expires: %s\n", v.ExpiresAt.Format("2006-01-02 15:04 MST"))
	case response.User:
		o.printUser(v)
	case response.Health:
		fmt.Fprintf(o.w, "Status: %s\n", v.Status)
		fmt.Fprintf(o.w, "Storage: %s\n", v.Storage)
		fmt.Fprintf(o.w, "Version: %s\n", v.Version)
	case response.List[response.User]:
		table(o, []string{"ID", "USERNAME", "NAME", "ROLE", "ACTIVE"}, v.Items, func(u response.User) []string {
			return []string{u.ID, u.Username, u.FullName, string(u.Role), yesNo(u.IsActive)}
		})
	case response.List[model.Location]:
		table(o, []string{"ID", "NAME", "CITY", "CAPACITY", "ACTIVE"}, v.Items, func(l model.Location) []string {
			return []string{string(l.ID), l.Name, l.City, strconv.Itoa(l.Capacity), yesNo(l.IsActive)}
		})
	case response.List[model.Official]:
		table(o, []string{"ID", "NAME", "EMAIL", "EXPERIENCE", "RATING", "ASSIGNMENTS", "ACTIVE"}, v.Items, func(of model.Official) []string {
			return []string{string(of.ID), of.Name, of.Email, string(of.ExperienceLevel), strconv.FormatFloat(of.Rating, 'f', 1, 64), strconv.Itoa(of.TotalAssignments), yesNo(of.IsActive)}
		})
	case response.List[model.Game]:
		table(o, []string{"ID", "DATE", "TIME", "MATCH", "SPORT", "LOCATION", "STATUS"}, v.Items, func(g model.Game) []string {
			return []string{string(g.ID), g.Date, g.Time, g.HomeTeam + " vs " + g.AwayTeam, g.Sport, g.Location, string(g.Status)}
		})
	case response.List[model.AssignmentDetail]:
		table(o, []string{"ID", "DATE", "MATCH", "OFFICIAL", "POSITION", "STATUS"}, v.Items, func(a model.AssignmentDetail) []string {
			return []string{string(a.ID), a.GameDate, a.HomeTeam + " vs " + a.AwayTeam, a.OfficialName, string(a.Position), string(a.Status)}
		})
	case response.List[report.Count]:
		table(o, []string{"KEY", "COUNT"}, v.Items, func(c report.Count) []string {
			return []string{c.Key, strconv.Itoa(c.Count)}
		})
	case response.List[report.OfficialRank]:
		table(o, []string{"OFFICIAL", "NAME", "ASSIGNMENTS", "RATING"}, v.Items, func(r report.OfficialRank) []string {
			return []string{string(r.OfficialID), r.Name, strconv.Itoa(r.Assignments), strconv.FormatFloat(r.Rating, 'f', 1, 64)}
		})
	case response.List[model.ActivityLogEntry]:
		table(o, []string{"TIME", "ACTION", "ACTOR", "ENTITY"}, v.Items, func(e model.ActivityLogEntry) []string {
			action := e.Action
			if e.FromStatus != "" {
				action += fmt.Sprintf(" (%s -> %s)", e.FromStatus, e.ToStatus)
			}
			return []string{e.Timestamp.Format("2006-01-02 15:04:05"), action, string(e.ActorID), e.EntityID}
		})
	case report.DashboardStats:
		fmt.Fprintf(o.w, "Upcoming games:      %d\n", v.UpcomingGames)
		fmt.Fprintf(o.w, "Active officials:    %d\n", v.ActiveOfficials)
		fmt.Fprintf(o.w, "Total assignments:   %d\n", v.TotalAssignments)
		fmt.Fprintf(o.w, "Pending assignments: %d\n", v.PendingAssignments)
		fmt.Fprintf(o.w, "Total games:         %d\n", v.TotalGames)
		fmt.Fprintf(o.w, "Active users:        %d\n", v.ActiveUsers)
	default:
		// Fallback to JSON for single records and unknown types
		o.printJSON(data)
	}
}

func (o *Output) printUser(u response.User) {
	fmt.Fprintf(o.w, "User: %s (%s)\n", u.Username, u.ID)
	fmt.Fprintf(o.w, "Name: %s\n", u.FullName)
	fmt.Fprintf(o.w, "Role: %s\n", u.Role)
	fmt.Fprintf(o.w, "Active: %s\n", yesNo(u.IsActive))
}

func table[T any](o *Output, header []string, rows []T, row func(T) []string) {
	tw := tabwriter.NewWriter(o.w, 0, 4, 2, ' ', 0)
	writeRow(tw, header)
	for _, r := range rows {
		writeRow(tw, row(r))
	}
	_ = tw.Flush()
	fmt.Fprintf(o.w, "(%d rows)\n", len(rows))
}

func writeRow(w io.Writer, cells []string) {
	for i, c := range cells {
		if i > 0 {
			fmt.Fprint(w, "\t")
		}
		fmt.Fprint(w, c)
	}
	fmt.Fprintln(w)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
