package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"readmark/pkg/client"
	"readmark/pkg/domain"
)

func dictCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dict",
		Short: "Manage your personal dictionary",
	}
	cmd.AddCommand(
		dictLookupCmd(),
		dictAddCmd(),
		dictListCmd(),
		dictMasterCmd(),
		dictDeleteCmd(),
	)
	return cmd
}

func dictLookupCmd() *cobra.Command {
	var save bool
	var bookID, page int

	cmd := &cobra.Command{
		Use:   "lookup <word>",
		Short: "Look up a word, optionally saving it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			word := strings.ToLower(strings.TrimSpace(args[0]))
			lookup, err := a.api.LookupWord(cmd.Context(), word)
			if err != nil {
				return err
			}
			fmt.Printf("%s", lookup.Word)
			if lookup.Phonetic != "" {
				fmt.Printf("  %s", lookup.Phonetic)
			}
			fmt.Println()
			definition := firstDefinition(lookup)
			if definition != "" {
				fmt.Printf("  %s\n", definition)
			}

			if !save {
				return nil
			}
			if definition == "" {
				return fmt.Errorf("no definition found to save")
			}
			create := domain.DictionaryEntryCreate{
				Word:       lookup.Word,
				Definition: definition,
				Phonetic:   lookup.Phonetic,
			}
			if bookID > 0 {
				create.BookID = &bookID
			}
			if page > 0 {
				create.PageNumber = &page
			}
			entry, err := a.api.CreateDictionaryEntry(cmd.Context(), create)
			if err != nil {
				return err
			}
			fmt.Printf("Saved as entry %d\n", entry.ID)
			return nil
		},
	}
	cmd.Flags().BoolVar(&save, "save", false, "save the first definition to your dictionary")
	cmd.Flags().IntVar(&bookID, "book", 0, "book the word was encountered in")
	cmd.Flags().IntVar(&page, "page", 0, "page the word was encountered on")
	return cmd
}

func dictAddCmd() *cobra.Command {
	var definition, context string
	var bookID, page int

	cmd := &cobra.Command{
		Use:   "add <word>",
		Short: "Save a word with your own definition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if strings.TrimSpace(definition) == "" {
				return fmt.Errorf("--definition is required")
			}
			create := domain.DictionaryEntryCreate{
				Word:       strings.ToLower(strings.TrimSpace(args[0])),
				Definition: definition,
				Context:    context,
			}
			if bookID > 0 {
				create.BookID = &bookID
			}
			if page > 0 {
				create.PageNumber = &page
			}
			entry, err := a.api.CreateDictionaryEntry(cmd.Context(), create)
			if err != nil {
				return err
			}
			fmt.Printf("Saved %q as entry %d\n", entry.Word, entry.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&definition, "definition", "", "definition to store (required)")
	cmd.Flags().StringVar(&context, "context", "", "sentence the word appeared in")
	cmd.Flags().IntVar(&bookID, "book", 0, "book the word was encountered in")
	cmd.Flags().IntVar(&page, "page", 0, "page the word was encountered on")
	return cmd
}

func dictListCmd() *cobra.Command {
	var skip, limit int
	var mastered, unmastered bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved words",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			filter := client.DictionaryFilter{
				ListOptions: client.ListOptions{Skip: skip, Limit: limit},
			}
			if mastered {
				value := true
				filter.Mastered = &value
			} else if unmastered {
				value := false
				filter.Mastered = &value
			}
			entries, err := a.api.ListDictionaryEntries(cmd.Context(), filter)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Println("No saved words.")
				return nil
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tWORD\tDEFINITION\tMASTERED")
			for _, e := range entries {
				masteredMark := ""
				if e.Mastered != 0 {
					masteredMark = "yes"
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", e.ID, e.Word, clip(e.Definition, 60), masteredMark)
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVar(&skip, "skip", 0, "records to skip")
	cmd.Flags().IntVar(&limit, "limit", 0, "max records to return")
	cmd.Flags().BoolVar(&mastered, "mastered", false, "only mastered words")
	cmd.Flags().BoolVar(&unmastered, "unmastered", false, "only words still being learned")
	cmd.MarkFlagsMutuallyExclusive("mastered", "unmastered")
	return cmd
}

func dictMasterCmd() *cobra.Command {
	var unset bool

	cmd := &cobra.Command{
		Use:   "master <id>",
		Short: "Mark a word as mastered",
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
			value := 1
			if unset {
				value = 0
			}
			entry, err := a.api.UpdateDictionaryEntry(cmd.Context(), id, domain.DictionaryEntryUpdate{Mastered: &value})
			if err != nil {
				return err
			}
			state := "mastered"
			if unset {
				state = "learning again"
			}
			fmt.Printf("%q is now %s\n", entry.Word, state)
			return nil
		},
	}
	cmd.Flags().BoolVar(&unset, "unset", false, "mark as not mastered instead")
	return cmd
}

func dictDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a saved word",
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
			if err := a.api.DeleteDictionaryEntry(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Printf("Deleted entry %d\n", id)
			return nil
		},
	}
}

// firstDefinition digs the first definition string out of the loosely typed
// lookup response.
func firstDefinition(lookup domain.WordLookup) string {
	for _, meaning := range lookup.Meanings {
		m, ok := meaning.(map[string]any)
		if !ok {
			continue
		}
		definitions, ok := m["definitions"].([]any)
		if !ok {
			continue
		}
		for _, d := range definitions {
			def, ok := d.(map[string]any)
			if !ok {
				continue
			}
			if text, ok := def["definition"].(string); ok && text != "" {
				return text
			}
		}
	}
	return ""
}

func clip(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
