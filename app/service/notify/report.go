package notify

import (
	"fmt"
	"html/template"
	"strings"

	"leadchat/app/service/analysis"
	"leadchat/app/service/conversation"
	"leadchat/app/service/visitor"

	_ "embed"
)

//go:embed report.tmpl
var reportTemplateText string

var reportTemplate = template.Must(
	template.New("report").Funcs(template.FuncMap{
		"orNA": func(s string) string {
			if s == "" {
				return "N/A"
			}
			return s
		},
		"roleLabel": func(r conversation.Role) string {
			if r == conversation.RoleUser {
				return "Lead"
			}
			return "Virtual SDR"
		},
	}).Parse(reportTemplateText),
)

func subjectFor(outcome conversation.Outcome) (subject, title string) {
	switch outcome {
	case conversation.OutcomeTransferred:
		return "[WhatsApp Lead] New qualified lead!", "Hot lead ready for WhatsApp follow-up!"
	case conversation.OutcomeScheduled:
		return "[Meeting Scheduled] Lead booked a meeting!", "Meeting confirmed with a qualified lead"
	case conversation.OutcomeAbandoned:
		return "[Analysis] Conversation abandoned", "Abandoned conversation analysis"
	default:
		return "[Analysis] Conversation finalized", "Non-converted conversation analysis"
	}
}

type reportData struct {
	Title       string
	IsTransfer  bool
	IsScheduled bool
	Analysis    *analysis.Result
	History     conversation.History
	Sections    []visitorSection
}

type visitorSection struct {
	Name string
	Rows []visitorRow
}

type visitorRow struct {
	Key   string
	Value string
}

func visitorSections(c *visitor.Context) []visitorSection {
	if c == nil {
		return nil
	}

	var sections []visitorSection

	if t := c.Technical; t != nil {
		sections = append(sections, visitorSection{
			Name: "Technical Information",
			Rows: []visitorRow{
				{"Device", t.Device},
				{"Operating System", t.OS},
				{"Browser", t.Browser},
				{"Screen Resolution", t.ScreenResolution},
				{"Language", t.Language},
			},
		})
	}

	if g := c.Geographical; g != nil {
		rows := []visitorRow{{"Timezone", g.Timezone}}
		if l := g.Location; l != nil {
			rows = append(rows, visitorRow{"Location Status", string(l.Status)})
			if l.Latitude != nil && l.Longitude != nil {
				rows = append(rows,
					visitorRow{"Latitude", fmt.Sprintf("%.5f", *l.Latitude)},
					visitorRow{"Longitude", fmt.Sprintf("%.5f", *l.Longitude)},
				)
			}
		}
		sections = append(sections, visitorSection{Name: "Geographical Information", Rows: rows})
	}

	var rows []visitorRow
	if p := c.Page; p != nil {
		rows = append(rows,
			visitorRow{"Traffic Source", p.TrafficSource},
			visitorRow{"Landing Page", p.LandingPage},
			visitorRow{"Access Date (UTC)", p.AccessTimestamp},
		)
	}
	if b := c.Behavioral; b != nil {
		timeOnPage := ""
		if b.TimeOnPageBeforeChat != nil {
			timeOnPage = fmt.Sprintf("%d seconds", *b.TimeOnPageBeforeChat)
		}
		rows = append(rows,
			visitorRow{"Time on Page before Chat", timeOnPage},
			visitorRow{"Scroll Depth", fmt.Sprintf("%d%%", b.ScrollDepth)},
		)
	}
	if len(rows) > 0 {
		sections = append(sections, visitorSection{Name: "Context and Behavior", Rows: rows})
	}

	return sections
}

func renderReport(
	result *analysis.Result,
	history conversation.History,
	visitorCtx *visitor.Context,
	outcome conversation.Outcome,
) (subject, body string, err error) {
	subject, title := subjectFor(outcome)

	data := reportData{
		Title:       title,
		IsTransfer:  outcome == conversation.OutcomeTransferred,
		IsScheduled: outcome == conversation.OutcomeScheduled,
		Analysis:    result,
		History:     history,
		Sections:    visitorSections(visitorCtx),
	}

	var sb strings.Builder
	if err := reportTemplate.Execute(&sb, data); err != nil {
		return "", "", fmt.Errorf("failed to render report: %w", err)
	}

	return subject, sb.String(), nil
}
