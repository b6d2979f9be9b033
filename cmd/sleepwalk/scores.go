package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/sleepwalk/internal/registry"
	"github.com/vovakirdan/sleepwalk/internal/storage"
)

var (
	flagHistory int
	flagClear   bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [pack]",
	Short: "Show the leaderboard and best times",
	Long: `Display the leaderboard and per-level best times of a pack.
Without a pack, every pack with records is shown.

Examples:
  sleepwalk scores
  sleepwalk scores classic
  sleepwalk scores classic --history 20
  sleepwalk scores classic --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagHistory, "history", 0, "Also show this many recent level attempts")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Clear the pack's leaderboard")
}

func runScores(_ *cobra.Command, args []string) {
	a, err := setup(false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	if flagClear {
		if len(args) == 0 {
			fmt.Fprintln(os.Stderr, "Error: --clear needs a pack")
			os.Exit(1)
		}
		if err := a.records(args[0]).ClearLeaderboard(); err != nil {
			fmt.Fprintf(os.Stderr, "Error clearing leaderboard: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Leaderboard for %s cleared.\n", args[0])
		return
	}

	packs := args
	if len(packs) == 0 {
		packs = knownPacks(a)
	}

	for i, pack := range packs {
		if i > 0 {
			fmt.Println()
		}
		if err := printPack(pack, a.records(pack)); err != nil {
			fmt.Fprintf(os.Stderr, "Error retrieving records: %v\n", err)
			os.Exit(1)
		}
	}
}

// knownPacks returns registered packs followed by packs that only exist in
// the database, such as a custom directory that is not loaded right now.
func knownPacks(a *app) []string {
	seen := make(map[string]bool)
	var packs []string
	for _, p := range registry.List() {
		seen[p.ID] = true
		packs = append(packs, p.ID)
	}
	if a.store == nil {
		return packs
	}
	stored, err := a.store.Packs()
	if err != nil {
		a.logger.Warn("listing stored packs", "err", err)
		return packs
	}
	for _, p := range stored {
		if !seen[p] {
			packs = append(packs, p)
		}
	}
	return packs
}

func printPack(pack string, records storage.Records) error {
	scores, err := records.List()
	if err != nil {
		return err
	}

	fmt.Printf("Leaderboard - %s\n", pack)
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("  No runs recorded yet.")
	} else {
		fmt.Printf("  %-4s  %-16s  %-8s  %-5s  %s\n", "Rank", "Name", "Time", "Level", "Date")
		fmt.Printf("  %-4s  %-16s  %-8s  %-5s  %s\n", "----", "----", "----", "-----", "----")
		for i, entry := range scores {
			dateStr := entry.CreatedAt.Format("2006-01-02 15:04")
			fmt.Printf("  %-4d  %-16s  %-8s  %-5d  %s\n",
				i+1, entry.Name, fmt.Sprintf("%.1fs", entry.ElapsedSeconds), entry.LevelNumber, dateStr)
		}
	}

	best, err := records.AllBestTimes()
	if err != nil {
		return err
	}
	if len(best) > 0 {
		fmt.Println()
		fmt.Println("Best times:")
		levels := make([]int, 0, len(best))
		for idx := range best {
			levels = append(levels, idx)
		}
		sort.Ints(levels)
		for _, idx := range levels {
			fmt.Printf("  Level %-3d  %.1fs\n", idx+1, best[idx].Seconds())
		}
	}

	if flagHistory <= 0 {
		return nil
	}
	attempts, err := records.RecentAttempts(flagHistory)
	if err != nil {
		return err
	}
	fmt.Println()
	fmt.Println("Recent attempts:")
	if len(attempts) == 0 {
		fmt.Println("  None.")
		return nil
	}
	for _, at := range attempts {
		final := "-"
		if at.Final > 0 {
			final = fmt.Sprintf("%.1fs", at.Final.Seconds())
		}
		fmt.Printf("  %s  level %-3d  %-4s  %-8s  %d moves\n",
			at.At.Format("2006-01-02 15:04"), at.LevelIndex+1, at.Outcome, final, at.Moves)
	}
	return nil
}
