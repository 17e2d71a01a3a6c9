package cmd

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/spf13/cobra"

	"github.com/minho/lingua/internal/encourage"
	"github.com/minho/lingua/internal/engine"
	"github.com/minho/lingua/internal/ledger"
	"github.com/minho/lingua/internal/store"
)

// simulatedTurn is one scripted exchange in the demo session.
type simulatedTurn struct {
	input    string
	expected string
	elapsed  float64
	hints    int
}

var demoTurns = []simulatedTurn{
	{"안녕하세요", "안녕하세요", 6, 0},
	{"감사함니다", "감사합니다", 12, 0},
	{"저는 학생이에요", "저는 학생이에요", 14, 0},
	{"밥을 먹었서요", "밥을 먹었어요", 18, 1},
	{"내일 봬요", "내일 봬요", 9, 0},
	{"주말에 뭐 했어요?", "주말에 뭐 했어요?", 16, 0},
}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a scripted session through the engine and ledgers",
	Long: "Simulate drives a canned conversation through the scorer, flow detector,\n" +
		"difficulty adjuster, and gamification ledgers against an in-memory store.",
	RunE: func(cmd *cobra.Command, args []string) error {
		seed, _ := cmd.Flags().GetInt64("seed")
		picker := encourage.NewPicker(rand.New(rand.NewSource(seed)))

		userID, _ := cmd.Flags().GetString("user")
		svc := ledger.NewService(store.NewMemory(), nil)
		ctx := cmd.Context()

		difficulty := 0.5
		var history []engine.Metric
		turnAt := time.Now()

		for i, turn := range demoTurns {
			m, err := engine.ScoreTurn(turn.input, turn.expected, turn.elapsed, difficulty, turn.hints, turnAt)
			if err != nil {
				return err
			}
			history = append(history, m)
			turnAt = turnAt.Add(time.Duration(turn.elapsed * float64(time.Second)))

			adj := engine.AdjustDifficulty(difficulty, history)
			if em := engine.EmergencyAdjust(difficulty, history); em != nil {
				adj = *em
			}
			difficulty = adj.New

			fmt.Printf("turn %d  acc=%.2f timing=%.1f conf=%.2f  → difficulty %.2f (%s)\n",
				i+1, m.Accuracy, m.Timing, m.Confidence, adj.New, adj.Reason)

			if _, err := svc.GrantXP(ctx, userID, 10, fmt.Sprintf("turn %d", i+1)); err != nil {
				return err
			}
		}

		verdict := engine.DetectFlow(history)
		fmt.Printf("\nflow: %v (quality %.2f)\n", verdict.IsFlow, verdict.Quality)
		for _, r := range verdict.Reasons {
			fmt.Printf("  - %s\n", r)
		}

		if _, err := svc.RecordActivity(ctx, userID); err != nil {
			return err
		}
		seedRes, err := svc.PlantSeed(ctx, userID, "-었어요 past tense", store.CategoryGrammar, "밥을 먹었서요")
		if err != nil {
			return err
		}
		water, err := svc.WaterPlant(ctx, userID, seedRes.PlantID, true)
		if err != nil {
			return err
		}
		rec, err := svc.Record(ctx, userID)
		if err != nil {
			return err
		}

		next := engine.AdjustForNextSession(difficulty, history)
		fmt.Printf("\nplanted %q → stage %s after one watering\n", "-었어요 past tense", water.Stage)
		fmt.Printf("session XP: %d (level %d)\n", rec.XP, rec.Level)
		fmt.Printf("next session difficulty: %.2f (%s)\n", next.New, next.Reason)
		fmt.Println(picker.ForChange(next.Change))
		return nil
	},
}

func init() {
	simulateCmd.Flags().Int64("seed", 0, "Random seed for encouragement selection")
}
