package cli

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	catalog "github.com/Apurer/gamestore-client/internal/domains/catalog/domain"
	store "github.com/Apurer/gamestore-client/internal/domains/store/domain"
	users "github.com/Apurer/gamestore-client/internal/domains/users/domain"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().
			Padding(0, 1)

	borderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	keyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("99")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

func renderTable(w io.Writer, headers []string, rows [][]string) {
	if len(rows) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("(none)"))
		return
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	fmt.Fprintln(w, t.Render())
}

// renderFields prints aligned key/value lines.
func renderFields(w io.Writer, fields [][2]string) {
	width := 0
	for _, f := range fields {
		width = max(width, len(f[0]))
	}
	for _, f := range fields {
		label := keyStyle.Render(fmt.Sprintf("%-*s", width+1, f[0]+":"))
		fmt.Fprintf(w, "%s %s\n", label, f[1])
	}
}

func success(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, successStyle.Render(fmt.Sprintf(format, args...)))
}

func renderGames(w io.Writer, games []catalog.Game) {
	rows := make([][]string, 0, len(games))
	for _, g := range games {
		rows = append(rows, []string{g.ID.String(), g.Title, g.Genre, g.Platform, formatPrice(g.Price)})
	}
	renderTable(w, []string{"ID", "TITLE", "GENRE", "PLATFORM", "PRICE"}, rows)
}

func renderGame(w io.Writer, g *catalog.Game) {
	fields := [][2]string{
		{"ID", g.ID.String()},
		{"Title", g.Title},
		{"Price", formatPrice(g.Price)},
	}
	for _, opt := range [][2]string{
		{"Genre", g.Genre},
		{"Platform", g.Platform},
		{"Description", g.Description},
		{"Image", g.ImageURL},
	} {
		if opt[1] != "" {
			fields = append(fields, opt)
		}
	}
	renderFields(w, fields)
}

func renderOrders(w io.Writer, orders []store.Order, withUser bool) {
	headers := []string{"ID", "GAME", "AMOUNT", "STATUS", "CREATED"}
	if withUser {
		headers = append(headers, "USER")
	}
	rows := make([][]string, 0, len(orders))
	for _, o := range orders {
		game := o.GameID.String()
		if o.Game != nil && o.Game.Title != "" {
			game = o.Game.Title
		}
		row := []string{o.ID.String(), game, formatPrice(o.Amount), string(o.Status), formatTime(o.CreatedAt)}
		if withUser {
			row = append(row, o.UserID.String())
		}
		rows = append(rows, row)
	}
	renderTable(w, headers, rows)
}

func renderUsers(w io.Writer, list []users.User) {
	rows := make([][]string, 0, len(list))
	for _, u := range list {
		status := string(u.Status)
		if status == "" {
			status = string(users.StatusActive)
		}
		rows = append(rows, []string{u.ID.String(), u.Username, u.Email, string(u.Role), status, strconv.Itoa(len(u.PurchasedGames))})
	}
	renderTable(w, []string{"ID", "USERNAME", "EMAIL", "ROLE", "STATUS", "GAMES"}, rows)
}

func formatPrice(price float64) string {
	return "$" + strconv.FormatFloat(price, 'f', 2, 64)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(time.DateTime)
}
