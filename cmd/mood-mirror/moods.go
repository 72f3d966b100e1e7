package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/justestif/go-mood-mirror/internal/mood"
)

func newMoodsCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "moods",
		Short:       "Show how each emotion maps to a target mood",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), moodTable())
			return nil
		},
	}
}

func moodTable() string {
	headers := []string{"Emotion", "", "Valence", "Energy", "Genre"}
	rows := make([][]string, 0, len(mood.Emotions))
	for _, e := range mood.Emotions {
		d := mood.Map(e.String())
		rows = append(rows, []string{
			e.String(),
			mood.Emoji(e.String()),
			strconv.FormatFloat(d.Valence, 'f', 1, 64),
			strconv.FormatFloat(d.Energy, 'f', 1, 64),
			mood.GenreLabel(d.GenreSeed),
		})
	}
	return renderTable(headers, rows, []columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft})
}
