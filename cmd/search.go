package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/astroquery/internal/backend"
	"github.com/ziadkadry99/astroquery/internal/search"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Semantically search the publication corpus",
	Long:  `Runs a semantic search against the backend with the same filters as the search page and prints the matching publications.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().String("years", "", "publication year range, e.g. 2010-2020")
	searchCmd.Flags().StringSlice("section", nil, "restrict to a section (repeatable): immune, plants, microgravity, cellular, genomics")
	searchCmd.Flags().String("journal", "", "restrict to a journal")
	searchCmd.Flags().Int("limit", 10, "maximum number of results")
	searchCmd.Flags().Bool("json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	years, _ := cmd.Flags().GetString("years")
	sections, _ := cmd.Flags().GetStringSlice("section")
	journal, _ := cmd.Flags().GetString("journal")
	limit, _ := cmd.Flags().GetInt("limit")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()

	params := url.Values{"q": {args[0]}}
	if years != "" {
		params.Set("years", years)
	}
	if len(sections) > 0 {
		params.Set("sections", strings.Join(sections, ","))
	}
	if journal != "" {
		params.Set("journal", journal)
	}

	svc := search.NewService(newBackendClient(cfg, logger), nil, logger.Named("search"))
	res, err := svc.Search(ctx, "", search.ParseState(params))
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	pubs := res.Publications
	if limit > 0 && len(pubs) > limit {
		pubs = pubs[:limit]
	}

	if jsonOutput {
		return printSearchResultsJSON(pubs)
	}

	if res.Warning != "" {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", res.Warning)
	}
	if len(pubs) == 0 {
		fmt.Println("No results found.")
		if len(res.Suggestions) > 0 {
			fmt.Printf("Try: %s\n", strings.Join(res.Suggestions, ", "))
		}
		return nil
	}
	printSearchResultsTable(pubs)
	return nil
}

type searchResultJSON struct {
	Rank     int      `json:"rank"`
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Journal  string   `json:"journal,omitempty"`
	Year     string   `json:"year,omitempty"`
	Sections []string `json:"sections,omitempty"`
	Link     string   `json:"link,omitempty"`
}

func printSearchResultsJSON(pubs []backend.Publication) error {
	out := make([]searchResultJSON, 0, len(pubs))
	for i, p := range pubs {
		out = append(out, searchResultJSON{
			Rank:     i + 1,
			ID:       p.ID.String(),
			Title:    p.Title,
			Journal:  p.Journal,
			Year:     p.Year.String(),
			Sections: p.Sections,
			Link:     p.Link,
		})
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func printSearchResultsTable(pubs []backend.Publication) {
	fmt.Printf("Found %d results:\n\n", len(pubs))
	for i, p := range pubs {
		meta := strings.TrimSpace(strings.Join([]string{p.Journal, p.Year.String()}, " "))
		if meta != "" {
			meta = " (" + meta + ")"
		}
		fmt.Printf("  %d. %s%s\n", i+1, truncate(p.Title, 120), meta)
		fmt.Printf("     ID: %s\n", p.ID)
		if p.Link != "" {
			fmt.Printf("     %s\n", p.Link)
		}
		fmt.Println()
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
