package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/puretechnyc/ctags/internal/adapters/socket"
	"github.com/puretechnyc/ctags/internal/lang"
)

// ANSI color codes for terminal output.
const (
	colorReset = "\033[0m"
	colorBold  = "\033[1m"
	colorCyan  = "\033[36m"
	colorGreen = "\033[32m"
	colorGray  = "\033[90m"
)

// formatStats renders index statistics. live marks daemon-served numbers.
func formatStats(st *socket.StatsResult, live bool) string {
	var sb strings.Builder

	source := "stored"
	if live {
		source = "daemon"
	}
	sb.WriteString(fmt.Sprintf("%sctags index%s %s(%s)%s\n",
		colorBold, colorReset, colorGray, source, colorReset))
	sb.WriteString(fmt.Sprintf("  Project:   %s%s%s\n", colorCyan, st.ProjectRoot, colorReset))
	sb.WriteString(fmt.Sprintf("  Database:  %s\n", st.DBPath))
	sb.WriteString(fmt.Sprintf("  Tags file: %s\n", st.TagsPath))
	sb.WriteString(fmt.Sprintf("  Files:     %d\n", st.FileCount))
	sb.WriteString(fmt.Sprintf("  Tags:      %d\n", st.TagCount))

	if len(st.Kinds) > 0 {
		sb.WriteString(fmt.Sprintf("  Kinds:     %s\n", joinCounts(st.Kinds)))
	}
	if len(st.Languages) > 0 {
		sb.WriteString(fmt.Sprintf("  Languages: %s\n", joinCounts(st.Languages)))
	}
	if live {
		sb.WriteString(fmt.Sprintf("  Socket:    %s\n", st.SocketPath))
		sb.WriteString(fmt.Sprintf("  Uptime:    %s\n", st.Uptime))
	}
	return sb.String()
}

// joinCounts renders a name->count map as "a 1, b 2", sorted by name.
func joinCounts(counts map[string]int) string {
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s %d", name, counts[name]))
	}
	return strings.Join(parts, ", ")
}

// formatLangs renders the language registrations with their kind tables.
func formatLangs(defs []*lang.Definition) string {
	var sb strings.Builder
	for _, def := range defs {
		exts := make([]string, len(def.Extensions))
		for i, e := range def.Extensions {
			exts[i] = "." + e
		}
		sb.WriteString(fmt.Sprintf("%s%s%s %s(%s)%s\n",
			colorBold, def.Name, colorReset, colorGray, strings.Join(exts, ", "), colorReset))

		for _, k := range def.Kinds {
			off := ""
			if !k.Enabled {
				off = fmt.Sprintf("  %s[off]%s", colorGray, colorReset)
			}
			sb.WriteString(fmt.Sprintf("  %s%s%s  %s%s\n",
				colorGreen, string(k.Letter), colorReset, k.Description, off))
		}
	}
	return sb.String()
}
