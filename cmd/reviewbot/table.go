package main

import (
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// setting is one row of `config show`.
type setting struct {
	Key    string
	Value  string
	Secret bool
}

// renderSettings draws settings as a key/value table with a separator between
// config sections. Secret values are masked.
func renderSettings(settings []setting) string {
	if len(settings) == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Key", "Value"})

	section := ""
	for i, s := range settings {
		name, _, _ := strings.Cut(s.Key, ".")
		if i > 0 && name != section {
			tw.AppendSeparator()
		}
		section = name
		value := s.Value
		if s.Secret {
			value = maskSecret(value)
		}
		tw.AppendRow(table.Row{s.Key, value})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, AlignHeader: text.AlignLeft},
		{Number: 2, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}
