package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/minho/lingua/internal/ledger"
	"github.com/minho/lingua/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show a learner's progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		userID, _ := cmd.Flags().GetString("user")
		svc := ledger.NewService(st, nil)
		ctx := cmd.Context()

		rec, err := svc.Record(ctx, userID)
		switch {
		case errors.Is(err, store.ErrNotFound):
			fmt.Printf("No progress recorded for %q yet.\n", userID)
			return nil
		case err != nil:
			return err
		}

		fmt.Printf("Learner %s\n", userID)
		fmt.Printf("  XP:     %d (level %d, %.0f%% to next)\n",
			rec.XP, rec.Level, 100*ledger.LevelProgress(rec.XP))
		fmt.Printf("  Badges: %d\n", len(rec.Badges))
		for _, b := range rec.Badges {
			fmt.Printf("    - %s\n", b)
		}

		if streak, err := svc.Streak(ctx, userID); err == nil {
			fmt.Printf("  Streak: %d days (longest %d, %d freezes banked)\n",
				streak.Days, streak.Longest, streak.FreezeCount)
		} else if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		garden, err := svc.GardenStats(ctx, userID)
		if err != nil {
			return err
		}
		if garden.Total == 0 {
			fmt.Println("  Garden: empty")
			return nil
		}
		fmt.Printf("  Garden: %d plants, mean mastery %.2f\n", garden.Total, garden.MeanMastery)
		for _, stage := range []store.Stage{store.StageSeed, store.StageSprout, store.StageBud, store.StageBloom} {
			if n := garden.ByStage[stage]; n > 0 {
				fmt.Printf("    %-7s %d\n", stage, n)
			}
		}
		return nil
	},
}
