package main

import (
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/ik5/chunkplay/session"
)

func renderSummary(stats session.Stats) string {
	rows := []struct {
		label string
		value int
	}{
		{"Lines read", stats.Lines},
		{"Envelopes parsed", stats.Parsed},
		{"Fragments decoded", stats.Decoded},
		{"Fragments played", stats.Played},
		{"Malformed envelopes", stats.Malformed},
		{"Invalid base64", stats.InvalidEncoding},
		{"Decompression failures", stats.DecompressionFailures},
		{"WAV header not found", stats.CaptureFailures},
		{"Audio decode failures", stats.DecodeFailures},
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.SetTitle("Session summary")
	tw.AppendHeader(table.Row{"Counter", "Value"})
	for _, r := range rows {
		tw.AppendRow(table.Row{r.label, strconv.Itoa(r.value)})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})

	return tw.Render()
}
