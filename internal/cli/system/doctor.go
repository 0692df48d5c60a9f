package system

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/trackmy/internal/backup"
	"github.com/julianstephens/trackmy/internal/cli"
	"github.com/julianstephens/trackmy/internal/storage"
	"github.com/julianstephens/trackmy/internal/storage/sqlite"
	"github.com/julianstephens/trackmy/internal/streak"
	"github.com/julianstephens/trackmy/internal/utils"
)

type DoctorCmd struct{}

// errNotApplicable marks a check that does not apply to the current backend.
var errNotApplicable = errors.New("not applicable")

type diagnostic struct {
	name string
	// warnOnly checks report problems without failing the run.
	warnOnly bool
	// needsStore checks are skipped when the store is unreachable.
	needsStore bool
	run        func(ctx *cli.Context) error
}

var diagnostics = []diagnostic{
	{name: "Storage reachable", run: checkStoreReachable},
	{name: "Schema version", needsStore: true, run: checkSchemaVersion},
	{name: "Backups present", warnOnly: true, run: checkBackupsPresent},
	{name: "Completion dates", needsStore: true, run: checkCompletionDates},
	{name: "Completion references", warnOnly: true, needsStore: true, run: checkCompletionReferences},
	{name: "Habit counters", needsStore: true, run: checkHabitCounters},
	{name: "Best streaks", warnOnly: true, needsStore: true, run: checkBestStreaks},
	{name: "Clock/timezone", run: checkClockTimezone},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	failed := 0
	reachable := true
	for i, d := range diagnostics {
		if d.needsStore && !reachable {
			fmt.Println(cli.MutedStyle.Render(fmt.Sprintf("⊘ %s: SKIPPED (storage not reachable)", d.name)))
			continue
		}

		err := d.run(ctx)
		switch {
		case err == nil:
			fmt.Printf("%s %s: OK\n", cli.SuccessStyle.Render("✓"), d.name)
		case errors.Is(err, errNotApplicable):
			fmt.Println(cli.MutedStyle.Render(fmt.Sprintf("⊘ %s: SKIPPED (%v)", d.name, err)))
		case d.warnOnly:
			fmt.Printf("%s %s: WARNING\n   %v\n", cli.WarningStyle.Render("⚠"), d.name, err)
		default:
			fmt.Printf("%s %s: FAIL\n   Error: %v\n", cli.DangerStyle.Render("✗"), d.name, err)
			failed++
			if i == 0 {
				reachable = false
			}
		}
	}

	fmt.Println()
	if failed > 0 {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("%d health check(s) failed", failed)
	}
	fmt.Println("All diagnostics passed!")
	return nil
}

func checkStoreReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(ctx.Ctx); err != nil {
		return fmt.Errorf("failed to load storage: %w", err)
	}
	if _, err := ctx.Store.ListSettings(ctx.Ctx); err != nil {
		return fmt.Errorf("failed to query storage: %w", err)
	}
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	migrator, ok := ctx.Store.(storage.Migrator)
	if !ok {
		return fmt.Errorf("%w: backend has no schema", errNotApplicable)
	}
	current, latest, err := migrator.SchemaVersion(ctx.Ctx)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	switch {
	case current > latest:
		return fmt.Errorf("schema version (%d) is newer than supported version (%d)", current, latest)
	case current < latest:
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d, run 'trackmy migrate'", current, latest)
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	if _, ok := ctx.Store.(*sqlite.Store); !ok {
		return fmt.Errorf("%w: backups are sqlite only", errNotApplicable)
	}
	backups, err := backup.NewManager(ctx.Store.Location()).List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return errors.New("no backups found, consider creating one with 'trackmy backup create'")
	}
	return nil
}

func checkCompletionDates(ctx *cli.Context) error {
	completions, err := ctx.Store.ListCompletions(ctx.Ctx, "", "")
	if err != nil {
		return err
	}
	for date := range completions {
		if !utils.ValidDayKey(date) {
			return fmt.Errorf("completion record has an invalid date %q", date)
		}
	}
	return nil
}

func checkCompletionReferences(ctx *cli.Context) error {
	habits, err := ctx.Store.ListHabits(ctx.Ctx, "")
	if err != nil {
		return err
	}
	live := make(map[string]bool, len(habits))
	for _, h := range habits {
		live[h.ID] = true
	}

	completions, err := ctx.Store.ListCompletions(ctx.Ctx, "", "")
	if err != nil {
		return err
	}
	dangling := make(map[string]bool)
	for _, ids := range completions {
		for _, id := range ids {
			if !live[id] {
				dangling[id] = true
			}
		}
	}
	if len(dangling) > 0 {
		return fmt.Errorf("%d deleted habit(s) still appear in completion history", len(dangling))
	}
	return nil
}

func checkHabitCounters(ctx *cli.Context) error {
	habits, err := ctx.Store.ListHabits(ctx.Ctx, "")
	if err != nil {
		return err
	}
	for _, h := range habits {
		switch {
		case h.Streak < 0 || h.TotalCompletions < 0:
			return fmt.Errorf("habit %q has negative counters", h.Name)
		case h.BestStreak < h.Streak:
			return fmt.Errorf("habit %q has best streak %d below current streak %d", h.Name, h.BestStreak, h.Streak)
		case h.LastCompleted != "" && !utils.ValidDayKey(h.LastCompleted):
			return fmt.Errorf("habit %q has an invalid last completion date %q", h.Name, h.LastCompleted)
		}
	}
	return nil
}

// checkBestStreaks reports habits whose stored best streak is shorter than a
// run in their history, which happens after days are toggled out of order.
func checkBestStreaks(ctx *cli.Context) error {
	habits, err := ctx.Store.ListHabits(ctx.Ctx, "")
	if err != nil {
		return err
	}
	completions, err := ctx.Store.ListCompletions(ctx.Ctx, "", "")
	if err != nil {
		return err
	}

	var behind []string
	for _, h := range habits {
		if longest := streak.Longest(completions, h.ID); longest > h.BestStreak {
			behind = append(behind, fmt.Sprintf("%s (best %d, history %d)", h.Name, h.BestStreak, longest))
		}
	}
	if len(behind) > 0 {
		return fmt.Errorf("best streak below the longest run in history: %s", strings.Join(behind, ", "))
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	if ctx.Config != nil && !utils.ValidateTimezone(ctx.Config.Timezone) {
		return fmt.Errorf("configured timezone %q is not valid", ctx.Config.Timezone)
	}
	return nil
}
