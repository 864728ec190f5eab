package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"wizkid-challenge/internal/app"
	"wizkid-challenge/internal/domain"
)

// NewPlayCmd runs today's challenge in the terminal.
func NewPlayCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Play today's challenge in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			rt, err := buildRuntime(cmd.Context(), cfg, logger, runtimeOptions{countdown: app.TickerCountdown{}})
			if err != nil {
				return err
			}
			defer rt.Close()
			return play(cmd.Context(), rt.service, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

// play drives one session from lines on in. "q" or end of input finishes early.
func play(ctx context.Context, service *app.ChallengeService, in io.Reader, out io.Writer) error {
	engine := service.Engine()
	before, err := service.DisplayProgress(ctx)
	if err != nil {
		return err
	}
	if _, err := service.StartToday(ctx); err != nil {
		return err
	}
	fmt.Fprintf(out, "Daily challenge for %s. Streak: %d. Answer with the option number, q to stop.\n", engine.Today(), before.Streak)

	scanner := bufio.NewScanner(in)
	for {
		snap := engine.Snapshot()
		if snap.State != domain.StateActive {
			break
		}
		printQuestion(out, snap)

		if !scanner.Scan() {
			finishQuietly(engine)
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "q" {
			finishQuietly(engine)
			break
		}
		choice, err := strconv.Atoi(line)
		if err != nil {
			fmt.Fprintf(out, "enter a number between 1 and %d\n", len(snap.Question.Options))
			continue
		}

		result, err := engine.SubmitAnswer(choice - 1)
		switch {
		case errors.Is(err, app.ErrOptionNotFound):
			fmt.Fprintf(out, "enter a number between 1 and %d\n", len(snap.Question.Options))
			continue
		case errors.Is(err, domain.ErrInvalidTransition):
			fmt.Fprintln(out, "time is up")
		case err != nil:
			return err
		default:
			printResult(out, snap, result)
			if _, err := engine.Advance(); err != nil && !errors.Is(err, domain.ErrInvalidTransition) {
				return err
			}
		}
	}

	outcome, ok := engine.Outcome()
	if !ok {
		return errors.New("session ended without an outcome")
	}
	fmt.Fprintf(out, "\nScore: %d (%d/%d correct, %s)\n", outcome.Score, outcome.Correct, outcome.Total, outcome.Cause)

	progress, err := engine.Commit(ctx)
	if err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	printProgress(out, progress)
	return nil
}

func finishQuietly(engine *app.Engine) {
	// The countdown may have finished the session already.
	_, _ = engine.Finish()
}

func printQuestion(out io.Writer, snap domain.Snapshot) {
	q := snap.Question
	fmt.Fprintf(out, "\n[%d/%d] %s  (%ds left, score %d)\n%s\n", snap.QuestionIndex+1, snap.Total, q.Subject, snap.TimeRemaining, snap.Score, q.Text)
	for i, opt := range q.Options {
		fmt.Fprintf(out, "  %d) %s\n", i+1, opt)
	}
}

func printResult(out io.Writer, snap domain.Snapshot, result domain.AnswerResult) {
	if result.Correct {
		fmt.Fprintf(out, "Correct! +%d\n", result.Awarded)
	} else {
		fmt.Fprintf(out, "Wrong, the answer was %q.\n", snap.Question.Options[result.CorrectIndex])
	}
	if result.Explanation != "" {
		fmt.Fprintln(out, result.Explanation)
	}
}

func printProgress(out io.Writer, p domain.Progress) {
	last := p.LastPlayedDate.String()
	if last == "" {
		last = "never"
	}
	fmt.Fprintf(out, "Total points: %d\nStreak: %d\nDaily best: %d\nLast played: %s\n", p.TotalPoints, p.Streak, p.DailyBest, last)
}
