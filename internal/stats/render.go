package stats

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Renderer serializes session history to bytes.
type Renderer interface {
	Render(history []Session) ([]byte, error)
}

// JSONRenderer renders history as indented JSON.
type JSONRenderer struct{}

func (r *JSONRenderer) Render(history []Session) ([]byte, error) {
	return json.MarshalIndent(history, "", "  ")
}

// MarkdownRenderer renders history as a human-readable Markdown report.
type MarkdownRenderer struct {
	// Player, when set, is included in the report header.
	Player string
}

func (r *MarkdownRenderer) Render(history []Session) ([]byte, error) {
	var sb strings.Builder

	sb.WriteString("# Jutsu practice history\n\n")
	if r.Player != "" {
		fmt.Fprintf(&sb, "- Player: %s\n", r.Player)
	}
	fmt.Fprintf(&sb, "- Sessions: %d\n\n", len(history))

	// Per-combo best times across all sessions.
	best := make(map[string]Completion)
	for _, s := range history {
		for _, c := range s.Completions {
			cur, seen := best[c.ComboID]
			if !seen || c.Elapsed < cur.Elapsed {
				best[c.ComboID] = c
			}
		}
	}
	if len(best) > 0 {
		sb.WriteString("## Best times\n\n")
		ids := make([]string, 0, len(best))
		for id := range best {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			c := best[id]
			fmt.Fprintf(&sb, "- %s: %s\n", c.Name, c.Elapsed.Round(10*time.Millisecond))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Sessions\n\n")
	if len(history) == 0 {
		sb.WriteString("(none)\n")
	}
	for _, s := range history {
		fmt.Fprintf(&sb, "### %s — %s\n\n", s.StartTime.Format("2006-01-02 15:04:05 MST"), s.Mode)
		if s.TargetCombo != "" {
			fmt.Fprintf(&sb, "- Target: %s\n", s.TargetCombo)
		}
		fmt.Fprintf(&sb, "- Attempts: %d\n", s.Attempts)
		fmt.Fprintf(&sb, "- Completions: %d\n", len(s.Completions))
		for _, c := range s.Completions {
			fmt.Fprintf(&sb, "  - %s in %s\n", c.Name, c.Elapsed.Round(10*time.Millisecond))
		}
		if len(s.Resets) > 0 {
			reasons := make([]string, 0, len(s.Resets))
			for reason := range s.Resets {
				reasons = append(reasons, reason)
			}
			sort.Strings(reasons)
			parts := make([]string, len(reasons))
			for i, reason := range reasons {
				parts[i] = fmt.Sprintf("%s ×%d", reason, s.Resets[reason])
			}
			fmt.Fprintf(&sb, "- Resets: %s\n", strings.Join(parts, ", "))
		}
		sb.WriteString("\n")
	}

	return []byte(sb.String()), nil
}
