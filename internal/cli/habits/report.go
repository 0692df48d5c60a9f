package habits

import (
	"fmt"

	"github.com/julianstephens/trackmy/internal/cli"
	"github.com/julianstephens/trackmy/internal/utils"
)

type StatsCmd struct {
	Date string `help:"Day to report on as YYYY-MM-DD, today or yesterday." default:"today"`
}

func (c *StatsCmd) Run(ctx *cli.Context) error {
	on, err := ctx.ParseDay(c.Date)
	if err != nil {
		return err
	}
	st, err := ctx.Service.Stats(ctx.Ctx, on)
	if err != nil {
		return err
	}

	fmt.Println(cli.HeadingStyle.Render("Stats for " + st.Date))
	fmt.Printf("  Habits:          %d\n", st.TotalHabits)
	fmt.Printf("  Completed:       %d/%d %s\n", st.CompletedToday, st.TotalHabits, cli.Percent(st.CompletionRate))
	fmt.Printf("  Longest current: %d days\n", st.MaxStreak)
	fmt.Printf("  Best ever:       %d days\n", st.MaxBestStreak)
	return nil
}

type WeekCmd struct {
	Offset int    `help:"Weeks relative to the current one (-1 is last week)." default:"0"`
	Date   string `help:"Any day inside the week." default:"today"`
}

func (c *WeekCmd) Run(ctx *cli.Context) error {
	on, err := ctx.ParseDay(c.Date)
	if err != nil {
		return err
	}
	rates, err := ctx.Service.WeekRates(ctx.Ctx, on, c.Offset)
	if err != nil {
		return err
	}

	fmt.Println(cli.HeadingStyle.Render(fmt.Sprintf("Week of %s", rates[0].Date)))
	for _, r := range rates {
		t, err := utils.ParseDayKey(r.Date)
		if err != nil {
			return err
		}
		fmt.Printf("  %s %s  %s %s\n", t.Weekday().String()[:3], r.Date, cli.Bar(r.Rate, 20), cli.Percent(r.Rate))
	}
	return nil
}

type RangeCmd struct {
	Start string `arg:"" help:"First day (YYYY-MM-DD)."`
	End   string `arg:"" help:"Last day (YYYY-MM-DD)."`
}

func (c *RangeCmd) Run(ctx *cli.Context) error {
	for _, key := range []string{c.Start, c.End} {
		if !utils.ValidDayKey(key) {
			return fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", key)
		}
	}
	if c.Start > c.End {
		return fmt.Errorf("start %s is after end %s", c.Start, c.End)
	}

	days, err := ctx.Service.RangeCompletions(ctx.Ctx, c.Start, c.End)
	if err != nil {
		return err
	}
	if len(days) == 0 {
		fmt.Printf("No completions between %s and %s.\n", c.Start, c.End)
		return nil
	}

	all, err := ctx.Service.ListHabits(ctx.Ctx, "")
	if err != nil {
		return err
	}
	names := map[string]string{}
	for _, h := range all {
		names[h.ID] = h.Name
	}
	for _, date := range days.Dates() {
		fmt.Println(cli.HeadingStyle.Render(date))
		for _, id := range days[date] {
			name, ok := names[id]
			if !ok {
				name = cli.MutedStyle.Render(id + " (deleted)")
			}
			fmt.Printf("  %s %s\n", cli.Check(true), name)
		}
	}
	return nil
}
