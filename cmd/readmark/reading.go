package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"readmark/internal/stats"
	"readmark/pkg/client"
	"readmark/pkg/domain"
)

func readingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reading",
		Short: "Track reading sessions and statistics",
	}
	cmd.AddCommand(
		readingStartCmd(),
		readingFinishCmd(),
		readingSessionsCmd(),
		readingStatsCmd(),
		readingPresetsCmd(),
	)
	return cmd
}

func readingStartCmd() *cobra.Command {
	var minutes, startPage int

	cmd := &cobra.Command{
		Use:   "start <book-id>",
		Short: "Start a reading session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			bookID, err := parseID(args[0])
			if err != nil {
				return err
			}
			create := domain.ReadingSessionCreate{
				BookID:          bookID,
				DurationMinutes: minutes,
			}
			if startPage > 0 {
				create.StartPage = &startPage
			}
			created, err := a.api.CreateReadingSession(cmd.Context(), create)
			if err != nil {
				return err
			}
			fmt.Printf("Session %d started (%d minutes planned). Finish with: readmark reading finish %d\n",
				created.ID, minutes, created.ID)
			return nil
		},
	}
	cmd.Flags().IntVar(&minutes, "minutes", 15, "planned session length")
	cmd.Flags().IntVar(&startPage, "start-page", 0, "page the session starts on")
	return cmd
}

func readingFinishCmd() *cobra.Command {
	var endPage, wordsEncountered, wordsSaved int

	cmd := &cobra.Command{
		Use:   "finish <session-id>",
		Short: "End a reading session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			var update domain.ReadingSessionUpdate
			if cmd.Flags().Changed("end-page") {
				update.EndPage = &endPage
			}
			if cmd.Flags().Changed("words-encountered") {
				update.WordsEncountered = &wordsEncountered
			}
			if cmd.Flags().Changed("words-saved") {
				update.WordsSaved = &wordsSaved
			}
			updated, err := a.api.UpdateReadingSession(cmd.Context(), id, update)
			if err != nil {
				return err
			}
			fmt.Printf("Session %d finished", updated.ID)
			if updated.EndPage != nil {
				fmt.Printf(" at page %d", *updated.EndPage)
			}
			fmt.Println()
			return nil
		},
	}
	cmd.Flags().IntVar(&endPage, "end-page", 0, "page the session ended on")
	cmd.Flags().IntVar(&wordsEncountered, "words-encountered", 0, "new words encountered")
	cmd.Flags().IntVar(&wordsSaved, "words-saved", 0, "words saved to the dictionary")
	return cmd
}

func readingSessionsCmd() *cobra.Command {
	var skip, limit int

	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List past reading sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			sessions, err := a.api.ListReadingSessions(cmd.Context(), client.ListOptions{Skip: skip, Limit: limit})
			if err != nil {
				return err
			}
			if len(sessions) == 0 {
				fmt.Println("No sessions yet. Run: readmark reading start <book-id>")
				return nil
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tBOOK\tMINUTES\tPAGES\tWORDS SAVED\tWHEN")
			for _, s := range sessions {
				pages := "-"
				if s.StartPage != nil && s.EndPage != nil {
					pages = fmt.Sprintf("%d-%d", *s.StartPage, *s.EndPage)
				}
				fmt.Fprintf(w, "%d\t%d\t%d\t%s\t%d\t%s\n",
					s.ID, s.BookID, s.DurationMinutes, pages, s.WordsSaved,
					s.CreatedAt.Local().Format("2006-01-02 15:04"))
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVar(&skip, "skip", 0, "records to skip")
	cmd.Flags().IntVar(&limit, "limit", 0, "max records to return")
	return cmd
}

func readingStatsCmd() *cobra.Command {
	var local bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show reading statistics",
		Long: `Show reading statistics.

By default the server-side aggregate is printed. With --local the session
list is fetched and aggregated client-side, adding a weekly activity chart
and the current streak.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if !local {
				remote, err := a.api.ReadingStats(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Printf("Sessions:     %d\n", remote.TotalSessions)
				fmt.Printf("Minutes:      %d\n", remote.TotalMinutes)
				fmt.Printf("Books:        %d\n", remote.TotalBooks)
				fmt.Printf("Words saved:  %d\n", remote.TotalWordsSaved)
				fmt.Printf("Avg session:  %.1f min\n", remote.AverageSessionLength)
				if remote.FavoriteReadingTime != "" {
					fmt.Printf("Best hour:    %s\n", remote.FavoriteReadingTime)
				}
				return nil
			}

			sessions, err := a.api.ListReadingSessions(cmd.Context(), client.ListOptions{})
			if err != nil {
				return err
			}
			now := time.Now()
			summary := stats.Summarize(sessions)
			fmt.Printf("Sessions:     %d\n", summary.TotalSessions)
			fmt.Printf("Minutes:      %d\n", summary.TotalMinutes)
			fmt.Printf("Words saved:  %d\n", summary.TotalWordsSaved)
			fmt.Printf("Avg session:  %.1f min\n", summary.AverageSessionLength)
			if summary.FavoriteReadingTime != "" {
				fmt.Printf("Best hour:    %s\n", summary.FavoriteReadingTime)
			}
			fmt.Printf("Streak:       %d day(s)\n\n", stats.Streak(sessions, now))

			week := stats.WeeklyActivity(sessions, now)
			peak := 0
			for _, day := range week {
				if day.Minutes > peak {
					peak = day.Minutes
				}
			}
			for _, day := range week {
				bar := ""
				if peak > 0 {
					bar = strings.Repeat("█", day.Minutes*24/peak)
				}
				fmt.Printf("%s  %-24s %3dm\n", day.Date.Format("Mon"), bar, day.Minutes)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&local, "local", false, "aggregate sessions client-side")
	return cmd
}

func readingPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List reading timer presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			presets, err := a.api.TimerPresets(cmd.Context())
			if err != nil {
				return err
			}
			for _, p := range presets {
				fmt.Printf("%3d min  %s\n", p.Minutes, p.Label)
			}
			return nil
		},
	}
}
