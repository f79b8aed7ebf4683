package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"readmark/internal/bookmeta"
	"readmark/pkg/client"
	"readmark/pkg/domain"
)

const defaultExportFetchers = 4

func booksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "books",
		Short: "Manage your library",
	}
	cmd.AddCommand(
		booksListCmd(),
		booksShowCmd(),
		booksUpdateCmd(),
		booksDeleteCmd(),
		booksPageCmd(),
		booksUploadCmd(),
		booksExportCmd(),
		booksInspectCmd(),
	)
	return cmd
}

func booksListCmd() *cobra.Command {
	var skip, limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List books in your library",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			books, err := a.api.ListBooks(cmd.Context(), client.ListOptions{Skip: skip, Limit: limit})
			if err != nil {
				return err
			}
			if len(books) == 0 {
				fmt.Println("No books yet. Run: readmark books upload <file>")
				return nil
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tAUTHOR\tPAGES\tPROGRESS\tSTATUS")
			for _, b := range books {
				fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%.0f%%\t%s\n",
					b.ID, b.Title, b.Author, b.TotalPages, b.Progress, b.Status)
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVar(&skip, "skip", 0, "records to skip")
	cmd.Flags().IntVar(&limit, "limit", 0, "max records to return")
	return cmd
}

func booksShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one book record",
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
			book, err := a.api.GetBook(cmd.Context(), id)
			if err != nil {
				return err
			}
			printBook(book)
			return nil
		},
	}
}

func booksUpdateCmd() *cobra.Command {
	var title, author string
	var page int

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a book's title, author, or current page",
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
			var update domain.BookUpdate
			if cmd.Flags().Changed("title") {
				update.Title = &title
			}
			if cmd.Flags().Changed("author") {
				update.Author = &author
			}
			if cmd.Flags().Changed("page") {
				update.CurrentPage = &page
			}
			if update.Title == nil && update.Author == nil && update.CurrentPage == nil {
				return fmt.Errorf("nothing to update; pass --title, --author, or --page")
			}
			book, err := a.api.UpdateBook(cmd.Context(), id, update)
			if err != nil {
				return err
			}
			printBook(book)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&author, "author", "", "new author")
	cmd.Flags().IntVar(&page, "page", 0, "current page")
	return cmd
}

func booksDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a book",
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
			if err := a.api.DeleteBook(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Printf("Deleted book %d\n", id)
			return nil
		},
	}
}

func booksPageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "page <id> <n>",
		Short: "Print the text of one page",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			page, err := parseID(args[1])
			if err != nil {
				return err
			}
			text, err := a.api.GetPageText(cmd.Context(), id, page)
			if err != nil {
				return err
			}
			fmt.Println(text.Text)
			return nil
		},
	}
}

func booksUploadCmd() *cobra.Command {
	var title, author string
	var quiet bool

	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a book, chunked when large",
		Long: `Upload a PDF or EPUB to your library.

Title and author default to what can be read from the file itself;
--title and --author override. Files above the chunk size are uploaded
through the chunked session protocol with progress reporting.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			path := args[0]
			meta, err := bookmeta.Extract(path)
			if err != nil {
				// Metadata is best-effort; the server extracts its own.
				meta = bookmeta.Meta{}
			}
			if title == "" {
				title = meta.Title
			}
			if author == "" {
				author = meta.Author
			}

			opts := client.UploadOptions{Title: title, Author: author}
			if !quiet {
				opts.OnProgress = func(sent, total int64, pct float64) {
					fmt.Fprintf(os.Stderr, "\rUploading... %3.0f%% (%d/%d bytes)", pct, sent, total)
				}
			}
			book, err := a.api.UploadBookFile(cmd.Context(), path, opts)
			if !quiet {
				fmt.Fprintln(os.Stderr)
			}
			if err != nil {
				return err
			}
			fmt.Printf("Uploaded %q as book %d\n", book.Title, book.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "book title (default: from file metadata)")
	cmd.Flags().StringVar(&author, "author", "", "book author (default: from file metadata)")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress progress output")
	return cmd
}

func booksExportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export <id>",
		Short: "Export a book's extracted text to a file",
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
			book, err := a.api.GetBook(cmd.Context(), id)
			if err != nil {
				return err
			}
			if book.TotalPages == 0 {
				return fmt.Errorf("book %d has no extracted pages yet (status %s)", id, book.Status)
			}

			fetchers := a.cfg.ExportFetchers
			if fetchers <= 0 {
				fetchers = defaultExportFetchers
			}
			pages := make([]string, book.TotalPages)
			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(fetchers)
			for n := 1; n <= book.TotalPages; n++ {
				n := n
				g.Go(func() error {
					text, err := a.api.GetPageText(ctx, id, n)
					if err != nil {
						return fmt.Errorf("page %d: %w", n, err)
					}
					pages[n-1] = text.Text
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			if output == "" {
				output = fmt.Sprintf("book-%d.txt", id)
			}
			if err := os.WriteFile(output, []byte(strings.Join(pages, "\n\n")), 0o644); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			fmt.Printf("Exported %d pages to %s\n", book.TotalPages, output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output path (default: book-<id>.txt)")
	return cmd
}

func booksInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file>",
		Short: "Show the metadata a local book file carries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, err := bookmeta.Extract(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Title:   %s\n", meta.Title)
			if meta.Author != "" {
				fmt.Printf("Author:  %s\n", meta.Author)
			}
			if meta.Pages > 0 {
				fmt.Printf("Pages:   %d\n", meta.Pages)
			}
			if meta.Excerpt != "" {
				fmt.Printf("Excerpt: %s\n", meta.Excerpt)
			}
			return nil
		},
	}
}

func printBook(b domain.Book) {
	fmt.Printf("ID:       %d\n", b.ID)
	fmt.Printf("Title:    %s\n", b.Title)
	if b.Author != "" {
		fmt.Printf("Author:   %s\n", b.Author)
	}
	fmt.Printf("File:     %s\n", b.Filename)
	fmt.Printf("Status:   %s\n", b.Status)
	fmt.Printf("Pages:    %d (at page %d, %.0f%%)\n", b.TotalPages, b.CurrentPage, b.Progress)
}

func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}
