package console

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"emilock-admin/internal/client/model"
	"emilock-admin/internal/session"

	"github.com/dustin/go-humanize"
)

// RenderClients prints the roster as a table.
func RenderClients(w io.Writer, clients []model.Client) {
	if len(clients) == 0 {
		fmt.Fprintln(w, "No clients found.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPHONE\tREGISTERED\tLOCKED\tOUTSTANDING\tLAST SEEN")
	for i := range clients {
		c := &clients[i]
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			shortID(c.ID), c.Name, c.Phone,
			yesNo(c.IsRegistered), yesNo(c.IsLocked),
			money(c.OutstandingBal), relativeTime(c.LastHeartbeat))
	}
	tw.Flush()
}

// RenderLocations prints the map screen as a list with deep links.
func RenderLocations(w io.Writer, locations []model.ClientLocation) {
	if len(locations) == 0 {
		fmt.Fprintln(w, "No client locations reported yet.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tPHONE\tLOCKED\tOUTSTANDING\tUPDATED\tMAP")
	for i := range locations {
		l := &locations[i]
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			l.Name, l.Phone, yesNo(l.IsLocked),
			money(l.OutstandingBal), relativeTime(l.LastUpdate), l.MapURL())
	}
	tw.Flush()
}

// RenderStats prints the dashboard cards as lines.
func RenderStats(w io.Writer, stats *model.DeviceStats) {
	if stats == nil {
		fmt.Fprintln(w, "No stats available.")
		return
	}

	fmt.Fprintf(w, "Total clients:      %s\n", humanize.Comma(int64(stats.TotalClients)))
	fmt.Fprintf(w, "Registered devices: %s\n", humanize.Comma(int64(stats.RegisteredClients)))
	fmt.Fprintf(w, "Unregistered:       %s\n", humanize.Comma(int64(stats.UnregisteredClients)))
	fmt.Fprintf(w, "Locked devices:     %s\n", humanize.Comma(int64(stats.LockedClients)))
	fmt.Fprintf(w, "Unlocked devices:   %s\n", humanize.Comma(int64(stats.UnlockedClients())))
}

// RenderSession prints the active session for whoami.
func RenderSession(w io.Writer, sess *session.AdminSession) {
	name := sess.Username
	if sess.FirstName != "" || sess.LastName != "" {
		name = fmt.Sprintf("%s (%s %s)", sess.Username, sess.FirstName, sess.LastName)
	}
	fmt.Fprintf(w, "Signed in as %s, role %s\n", name, sess.Role)
	if sess.IsSuperAdmin {
		fmt.Fprintln(w, "Super admin privileges: yes")
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func money(amount float64) string {
	return humanize.CommafWithDigits(amount, 2) + " EUR"
}

func relativeTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "never"
	}
	return humanize.Time(*t)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
