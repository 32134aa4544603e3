package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/mmcdole/tubegrab/internal/adapter"
	"github.com/mmcdole/tubegrab/internal/domain"
	"github.com/mmcdole/tubegrab/internal/format"
	"github.com/mmcdole/tubegrab/internal/validate"
)

func (a *app) runInfo(ctx context.Context, cmd *infoCmd) error {
	info, err := a.metadata.FetchInfo(ctx, validate.Clean(cmd.URL))
	if err != nil {
		return errors.New(domain.UserMessage(err, "Failed to fetch video info"))
	}
	printInfo(os.Stdout, info, time.Now())
	return nil
}

// printInfo writes the metadata preview as plain text
func printInfo(w io.Writer, info *domain.VideoInfo, now time.Time) {
	title := format.Sanitize(info.Title)
	if title == "" {
		title = "Unknown"
	}
	fmt.Fprintln(w, title)
	if info.Uploader != "" {
		fmt.Fprintf(w, "  Uploader:  %s\n", format.Sanitize(info.Uploader))
	}
	fmt.Fprintf(w, "  Duration:  %s\n", format.Duration(info.Duration))
	if info.FileSize > 0 {
		fmt.Fprintf(w, "  Size:      ~%s\n", format.FileSize(info.FileSize))
	}
	if info.ViewCount > 0 {
		fmt.Fprintf(w, "  Views:     %s\n", format.Count(info.ViewCount))
	}
	if uploaded := info.UploadedAt(); !uploaded.IsZero() {
		fmt.Fprintf(w, "  Uploaded:  %s\n", format.RelativeTime(uploaded, now))
	}
	if len(info.Formats) > 0 {
		qualities := make([]string, 0, len(info.Formats))
		for _, f := range info.Formats {
			qualities = append(qualities, f.Quality)
		}
		fmt.Fprintf(w, "  Available: %s\n", strings.Join(qualities, ", "))
	}
}

func (a *app) runHistory(cmd *historyCmd) error {
	if cmd.Clear {
		if err := a.history.Clear(); err != nil {
			return err
		}
		fmt.Println("History cleared.")
		return nil
	}

	entries := a.history.List()
	if cmd.Search != "" {
		entries = a.history.Search(cmd.Search)
	}
	if len(entries) == 0 {
		if cmd.Search != "" {
			fmt.Println("No matches.")
		} else {
			fmt.Println("No downloads yet.")
		}
		return nil
	}

	printHistory(os.Stdout, entries, time.Now())
	return nil
}

// printHistory writes one line per entry, newest first
func printHistory(w io.Writer, entries []domain.HistoryEntry, now time.Time) {
	for _, e := range entries {
		fmt.Fprintf(w, "%-12s %-5s %-6s %s\n  %s\n",
			format.RelativeTime(e.Timestamp, now),
			e.Format,
			e.Quality,
			format.Sanitize(e.Title),
			e.URL)
	}
}

func (a *app) runStats(ctx context.Context) error {
	stats, err := a.client.GetStats(ctx)
	if err != nil {
		return errors.New(domain.UserMessage(err, "Failed to load statistics"))
	}
	fmt.Printf("Total downloads:  %s\n", humanize.Comma(stats.TotalDownloads))
	fmt.Printf("Successful:       %s\n", humanize.Comma(stats.SuccessfulDownloads))
	fmt.Printf("Failed:           %s\n", humanize.Comma(stats.FailedDownloads))
	fmt.Printf("Data downloaded:  %s\n", humanize.Bytes(uint64(max(stats.TotalBytes, 0))))
	return nil
}

func (a *app) runHealth(ctx context.Context) error {
	health, err := a.client.GetHealth(ctx)
	if err != nil {
		return fmt.Errorf("service unreachable at %s: %s", a.cfg.Server.URL, domain.UserMessage(err, "no response"))
	}
	fmt.Printf("Status:            %s\n", format.Sanitize(health.Status))
	if health.Timestamp != "" {
		fmt.Printf("Server time:       %s\n", format.Sanitize(health.Timestamp))
	}
	fmt.Printf("Active downloads:  %d\n", health.ActiveDownloads)
	return nil
}

func (a *app) runReset(cmd *resetCmd) error {
	if !cmd.Yes {
		ok, err := confirm(os.Stdin, "Clear all local data (history, theme, terms acceptance)? [y/N]: ")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Nothing changed.")
			return nil
		}
	}
	if err := a.preferences.ClearAll(); err != nil {
		return err
	}
	fmt.Println("✓ All data cleared.")
	return nil
}

// confirm prompts and reads a yes/no answer, defaulting to no
func confirm(r io.Reader, prompt string) (bool, error) {
	fmt.Print(prompt)
	input, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("failed to read input: %w", err)
	}
	answer := strings.ToLower(strings.TrimSpace(input))
	return answer == "y" || answer == "yes", nil
}

func runConfig(cfg *adapter.Config, cmd *configCmd) error {
	if cmd.SetServer != "" {
		cfg.Server.URL = strings.TrimRight(strings.TrimSpace(cmd.SetServer), "/")
		if err := adapter.SaveConfig(cfg); err != nil {
			return err
		}
		fmt.Println("✓ Configuration saved!")
	}

	fmt.Printf("Config file:  %s\n", adapter.ConfigFile())
	fmt.Printf("Server:       %s\n", cfg.Server.URL)
	fmt.Printf("Data dir:     %s\n", cfg.Storage.Dir)
	fmt.Printf("Log file:     %s\n", cfg.Logging.File)
	return nil
}
