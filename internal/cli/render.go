package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/okian/pactum/internal/domain/agenda"
	"github.com/okian/pactum/internal/domain/risk"
	"github.com/okian/pactum/internal/domain/types"
	"github.com/okian/pactum/internal/tui"
	"gopkg.in/yaml.v3"
)

// Format selects how reports are written.
type Format string

const (
	FormatTable    Format = "table"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "markdown"
)

// Formats lists the accepted --output values.
var Formats = []Format{FormatTable, FormatJSON, FormatYAML, FormatMarkdown}

const (
	dateLayout   = "02/01/2006"
	markdownWrap = 100
)

// ParseFormat parses an --output value. Empty means table.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatTable, nil
	case FormatTable, FormatJSON, FormatYAML, FormatMarkdown:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q (want table, json, yaml or markdown)", ErrUnknownFormat, s)
	}
}

// RenderRisks writes a risk view in the given format.
func RenderRisks(w io.Writer, v types.RiskView, f Format) error {
	switch f {
	case FormatJSON:
		return writeJSON(w, v)
	case FormatYAML:
		return writeYAML(w, v)
	case FormatMarkdown:
		return writeMarkdown(w, risksMarkdown(v))
	default:
		return writeString(w, risksTable(v))
	}
}

// RenderAgenda writes an agenda view in the given format.
func RenderAgenda(w io.Writer, v types.AgendaView, f Format) error {
	switch f {
	case FormatJSON:
		return writeJSON(w, v)
	case FormatYAML:
		return writeYAML(w, v)
	case FormatMarkdown:
		return writeMarkdown(w, agendaMarkdown(v))
	default:
		return writeString(w, agendaTable(v))
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

func writeMarkdown(w io.Writer, md string) error {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(markdownWrap),
	)
	if err != nil {
		return fmt.Errorf("markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return fmt.Errorf("render markdown: %w", err)
	}
	return writeString(w, out)
}

func writeString(w io.Writer, s string) error {
	_, err := io.WriteString(w, s)
	return err
}

func risksTable(v types.RiskView) string {
	var b strings.Builder
	styles := tui.DefaultStyles()

	parts := []string{fmt.Sprintf("Total %d", v.Total)}
	for _, sev := range risk.Severities {
		parts = append(parts, styles.Count(sev, v.Counts.Of(sev)))
	}
	b.WriteString(strings.Join(parts, "   ") + "\n")
	writeWarnings(&b, v.Warnings, styles)

	if msg := emptyMessage(v.State, len(v.Items)); msg != "" {
		b.WriteString(styles.Muted.Render(msg) + "\n")
		return b.String()
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Severidade", "Contrato", "Categoria", "Descrição", "Data", "Impacto")
	for _, it := range v.Items {
		t.Row(styles.Badge(it.Severity), it.ContractReference, it.Category, it.Description, dateOf(it), money(it))
	}
	b.WriteString(t.String() + "\n")
	return b.String()
}

func risksMarkdown(v types.RiskView) string {
	var b strings.Builder
	b.WriteString("# Análise de Riscos\n\n")
	fmt.Fprintf(&b, "**Total:** %d · **Alto:** %d · **Médio:** %d · **Baixo:** %d\n\n",
		v.Total, v.Counts.High, v.Counts.Medium, v.Counts.Low)
	for _, w := range v.Warnings {
		fmt.Fprintf(&b, "> ⚠ %s\n\n", w.Message)
	}
	if msg := emptyMessage(v.State, len(v.Items)); msg != "" {
		b.WriteString("_" + msg + "_\n")
		return b.String()
	}
	b.WriteString("| Severidade | Contrato | Categoria | Descrição | Data | Impacto |\n")
	b.WriteString("|---|---|---|---|---|---|\n")
	for _, it := range v.Items {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
			it.Severity.Label(), cell(it.ContractReference), cell(it.Category),
			cell(it.Description), dateOf(it), money(it))
	}
	return b.String()
}

func agendaTable(v types.AgendaView) string {
	var b strings.Builder
	styles := tui.DefaultStyles()

	fmt.Fprintf(&b, "Próximos 7 dias %d   Próximos 30 dias %d   Atrasados %d\n",
		v.Counts.Next7, v.Counts.Next30, v.Counts.Overdue)
	writeWarnings(&b, v.Warnings, styles)

	if v.State == types.StateUnavailable {
		b.WriteString(styles.Muted.Render("Alertas indisponíveis.") + "\n")
		return b.String()
	}
	if len(v.Events) == 0 {
		b.WriteString(styles.Muted.Render("Nenhum prazo na agenda.") + "\n")
		return b.String()
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Status", "Prazo", "Data", "Título", "Contrato")
	for _, e := range v.Events {
		t.Row(e.Status.Label(), e.Caption(), eventDate(e), e.Title, e.ContractReference)
	}
	b.WriteString(t.String() + "\n")
	return b.String()
}

func agendaMarkdown(v types.AgendaView) string {
	var b strings.Builder
	b.WriteString("# Agenda de Prazos\n\n")
	fmt.Fprintf(&b, "**Próximos 7 dias:** %d · **Próximos 30 dias:** %d · **Atrasados:** %d\n\n",
		v.Counts.Next7, v.Counts.Next30, v.Counts.Overdue)
	for _, w := range v.Warnings {
		fmt.Fprintf(&b, "> ⚠ %s\n\n", w.Message)
	}
	if len(v.Events) == 0 {
		b.WriteString("_Nenhum prazo na agenda._\n")
		return b.String()
	}
	b.WriteString("| Status | Prazo | Data | Título | Contrato |\n")
	b.WriteString("|---|---|---|---|---|\n")
	for _, e := range v.Events {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			e.Status.Label(), e.Caption(), eventDate(e), cell(e.Title), cell(e.ContractReference))
	}
	return b.String()
}

func writeWarnings(b *strings.Builder, warnings []types.Warning, styles tui.Styles) {
	for _, w := range warnings {
		b.WriteString(styles.Warning.Render("! "+w.Message) + "\n")
	}
}

func emptyMessage(state types.State, filtered int) string {
	switch {
	case state == types.StateUnavailable:
		return "Fontes de risco indisponíveis."
	case state == types.StateEmpty:
		return "Nenhum risco identificado."
	case filtered == 0:
		return "Nenhum risco corresponde ao filtro."
	default:
		return ""
	}
}

func dateOf(it risk.Item) string {
	if it.OccurredOn.IsZero() {
		return risk.NoValue
	}
	return it.OccurredOn.Format(dateLayout)
}

func eventDate(e agenda.Event) string {
	if !e.Dated {
		return risk.NoValue
	}
	return e.TargetDate.Format(dateLayout)
}

func money(it risk.Item) string {
	if it.MonetaryImpact == nil {
		return risk.NoValue
	}
	return "R$ " + it.MonetaryImpact.StringFixed(2)
}

// cell keeps pipes in free text from splitting a markdown table row.
func cell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
