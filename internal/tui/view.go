package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/okian/pactum/internal/domain/risk"
	"github.com/okian/pactum/internal/domain/types"
)

const (
	dateLayout     = "02/01/2006"
	maxDescription = 60
)

var filterLabels = map[risk.SeverityFilter]string{
	risk.FilterAll:    "Todos",
	risk.FilterHigh:   risk.SeverityHigh.Label(),
	risk.FilterMedium: risk.SeverityMedium.Label(),
	risk.FilterLow:    risk.SeverityLow.Label(),
}

// View renders the viewer.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Análise de Riscos"))
	b.WriteString("\n")

	view, ok := m.RiskView()
	if !ok {
		b.WriteString(m.spinner.View() + " Carregando riscos...\n")
		return b.String()
	}

	b.WriteString(m.counters(view))
	b.WriteString("\n")
	b.WriteString(m.filters())
	b.WriteString("\n")
	if m.searching || m.search.Value() != "" {
		b.WriteString(m.search.View())
		b.WriteString("\n")
	}
	for _, w := range view.Warnings {
		b.WriteString(m.styles.Warning.Render("! " + w.Message))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.body(view))

	status := fmt.Sprintf("ciclo %s · %s", view.CycleID, view.CompletedAt.Local().Format("15:04:05"))
	if m.loading {
		status = m.spinner.View() + " atualizando... " + status
	}
	b.WriteString("\n")
	b.WriteString(m.styles.Muted.Render(status))
	b.WriteString(m.styles.Help.Render("\n/ buscar · f severidade · r atualizar · esc limpar · q sair"))
	return b.String()
}

func (m Model) counters(v types.RiskView) string {
	parts := []string{"Total " + lipgloss.NewStyle().Bold(true).Render(itoa(v.Total))}
	for _, sev := range risk.Severities {
		parts = append(parts, m.styles.Count(sev, v.Counts.Of(sev)))
	}
	return strings.Join(parts, "   ")
}

func (m Model) filters() string {
	parts := make([]string, 0, len(risk.SeverityFilters))
	for _, f := range risk.SeverityFilters {
		label := filterLabels[f]
		if f == m.filter.Severity {
			label = m.styles.Selected.Render("[" + label + "]")
		} else {
			label = m.styles.Muted.Render(label)
		}
		parts = append(parts, label)
	}
	return "Severidade: " + strings.Join(parts, " ")
}

func (m Model) body(v types.RiskView) string {
	switch {
	case v.State == types.StateUnavailable:
		return m.styles.Muted.Render("Fontes de risco indisponíveis.") + "\n"
	case v.State == types.StateEmpty:
		return m.styles.Muted.Render("Nenhum risco identificado.") + "\n"
	case len(v.Items) == 0:
		return m.styles.Muted.Render("Nenhum risco corresponde ao filtro.") + "\n"
	}

	rows := v.Items
	if limit := m.visibleRows(); limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	var b strings.Builder
	for _, it := range rows {
		fmt.Fprintf(&b, "%s %-18s %-16s %s %s\n",
			m.styles.Badge(it.Severity),
			it.ContractReference,
			it.Category,
			truncate(it.Description, maxDescription),
			m.styles.Muted.Render(occurred(it)),
		)
	}
	if hidden := len(v.Items) - len(rows); hidden > 0 {
		b.WriteString(m.styles.Muted.Render(fmt.Sprintf("... mais %d itens", hidden)) + "\n")
	}
	return b.String()
}

// visibleRows leaves room for the header and footer; zero means unknown height.
func (m Model) visibleRows() int {
	const chrome = 12
	if m.height <= chrome {
		return 0
	}
	return m.height - chrome
}

func occurred(it risk.Item) string {
	if it.OccurredOn.IsZero() {
		return ""
	}
	return it.OccurredOn.Format(dateLayout)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
