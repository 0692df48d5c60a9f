package habits

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/trackmy/internal/cli"
	"github.com/julianstephens/trackmy/internal/models"
)

type HabitCmd struct {
	Add    HabitAddCmd    `cmd:"" help:"Add a new habit."`
	List   HabitListCmd   `cmd:"" help:"List habits." default:"1"`
	Show   HabitShowCmd   `cmd:"" help:"Show a habit and its counters."`
	Edit   HabitEditCmd   `cmd:"" help:"Edit a habit."`
	Delete HabitDeleteCmd `cmd:"" help:"Delete a habit. Its completion history is kept."`
	Toggle HabitToggleCmd `cmd:"" help:"Toggle a habit's completion for a day."`
}

type HabitAddCmd struct {
	Name        string `arg:"" help:"Habit name."`
	Category    string `help:"Category: health, fitness, learning, family, work, mindfulness or other." default:"other"`
	Frequency   string `help:"Frequency: daily or weekly." default:"daily"`
	Time        string `help:"Reminder time in HH:MM format."`
	Description string `help:"Optional description."`
}

func (c *HabitAddCmd) Run(ctx *cli.Context) error {
	category := models.Category(strings.ToLower(c.Category))
	if !category.Valid() {
		return fmt.Errorf("invalid category %q", c.Category)
	}

	habit, err := ctx.Service.AddHabit(ctx.Ctx, models.Habit{
		Name:        c.Name,
		Category:    category,
		Frequency:   models.ParseFrequency(c.Frequency),
		Time:        c.Time,
		Description: c.Description,
	})
	if err != nil {
		return err
	}

	fmt.Printf("%s Added habit: %s (%s)\n", cli.SuccessStyle.Render("✓"), habit.Name, habit.ID)
	return nil
}

type HabitListCmd struct {
	Category string `help:"Only list habits in this category."`
	Flat     bool   `help:"Do not group by category."`
}

func (c *HabitListCmd) Run(ctx *cli.Context) error {
	var category models.Category
	if c.Category != "" {
		category = models.Category(strings.ToLower(c.Category))
		if !category.Valid() {
			return fmt.Errorf("invalid category %q", c.Category)
		}
	}

	list, err := ctx.Service.ListHabits(ctx.Ctx, category)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Println("No habits found.")
		return nil
	}

	today, err := ctx.ParseDay("")
	if err != nil {
		return err
	}

	if c.Flat || category != "" {
		for _, h := range list {
			if err := printHabitLine(ctx, h, today); err != nil {
				return err
			}
		}
		return nil
	}

	for _, group := range ctx.Service.GroupByCategory() {
		fmt.Println(cli.HeadingStyle.Render(strings.ToUpper(string(group.Category))))
		for _, h := range group.Habits {
			if err := printHabitLine(ctx, h, today); err != nil {
				return err
			}
		}
		fmt.Println()
	}
	return nil
}

type HabitShowCmd struct {
	Habit string `arg:"" help:"Habit id or name."`
}

func (c *HabitShowCmd) Run(ctx *cli.Context) error {
	h, err := ctx.FindHabit(c.Habit)
	if err != nil {
		return err
	}
	today, err := ctx.ParseDay("")
	if err != nil {
		return err
	}
	current, err := ctx.Service.CurrentStreak(ctx.Ctx, h.ID, today)
	if err != nil {
		return err
	}
	longest, err := ctx.Service.LongestStreak(ctx.Ctx, h.ID)
	if err != nil {
		return err
	}

	fmt.Println(cli.HeadingStyle.Render(h.Name))
	fmt.Printf("  ID:                %s\n", h.ID)
	fmt.Printf("  Category:          %s\n", cli.CategoryLabel(h.Category))
	fmt.Printf("  Frequency:         %s\n", h.Frequency)
	if h.Time != "" {
		fmt.Printf("  Time:              %s\n", h.Time)
	}
	if h.Description != "" {
		fmt.Printf("  Description:       %s\n", h.Description)
	}
	fmt.Printf("  Current streak:    %d\n", current)
	fmt.Printf("  Best streak:       %d\n", h.BestStreak)
	if longest > h.BestStreak {
		fmt.Printf("  Longest run:       %d\n", longest)
	}
	fmt.Printf("  Total completions: %d\n", h.TotalCompletions)
	if h.LastCompleted != "" {
		fmt.Printf("  Last completed:    %s\n", h.LastCompleted)
	}
	fmt.Printf("  Created:           %s\n", h.CreatedAt.Local().Format("2006-01-02 15:04"))
	return nil
}

type HabitEditCmd struct {
	Habit       string  `arg:"" help:"Habit id or name."`
	Name        *string `help:"New name."`
	Category    *string `help:"New category."`
	Frequency   *string `help:"New frequency."`
	Time        *string `help:"New reminder time (HH:MM, empty to clear)."`
	Description *string `help:"New description."`
}

func (c *HabitEditCmd) Run(ctx *cli.Context) error {
	h, err := ctx.FindHabit(c.Habit)
	if err != nil {
		return err
	}

	patch := models.HabitPatch{
		Name:        c.Name,
		Time:        c.Time,
		Description: c.Description,
	}
	if c.Category != nil {
		category := models.Category(strings.ToLower(*c.Category))
		if !category.Valid() {
			return fmt.Errorf("invalid category %q", *c.Category)
		}
		patch.Category = &category
	}
	if c.Frequency != nil {
		frequency := models.ParseFrequency(*c.Frequency)
		patch.Frequency = &frequency
	}
	if patch.Empty() {
		fmt.Println("No changes specified.")
		return nil
	}

	updated, err := ctx.Service.UpdateHabit(ctx.Ctx, h.ID, patch)
	if err != nil {
		return err
	}
	fmt.Printf("%s Updated habit: %s\n", cli.SuccessStyle.Render("✓"), updated.Name)
	return nil
}

type HabitDeleteCmd struct {
	Habit string `arg:"" help:"Habit id or name."`
	Yes   bool   `short:"y" help:"Do not ask for confirmation."`
}

func (c *HabitDeleteCmd) Run(ctx *cli.Context) error {
	h, err := ctx.FindHabit(c.Habit)
	if err != nil {
		return err
	}

	ok, err := ctx.Ask(c.Yes, fmt.Sprintf("Delete habit %q?", h.Name), "Past completions stay in the history.")
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("Delete cancelled.")
		return nil
	}

	if err := ctx.Service.DeleteHabit(ctx.Ctx, h.ID); err != nil {
		return err
	}
	fmt.Printf("%s Deleted habit: %s\n", cli.SuccessStyle.Render("✓"), h.Name)
	return nil
}

type HabitToggleCmd struct {
	Habit string `arg:"" help:"Habit id or name."`
	Date  string `help:"Day as YYYY-MM-DD, today or yesterday." default:"today"`
}

func (c *HabitToggleCmd) Run(ctx *cli.Context) error {
	h, err := ctx.FindHabit(c.Habit)
	if err != nil {
		return err
	}
	on, err := ctx.ParseDay(c.Date)
	if err != nil {
		return err
	}

	day, err := ctx.Service.ToggleCompletion(ctx.Ctx, h.ID, on)
	if err != nil {
		return err
	}
	updated, err := ctx.Service.GetHabit(ctx.Ctx, h.ID)
	if err != nil {
		return err
	}

	if day.Contains(h.ID) {
		fmt.Printf("%s %s done on %s (streak %d, best %d)\n",
			cli.SuccessStyle.Render("✓"), updated.Name, day.Date, updated.Streak, updated.BestStreak)
	} else {
		fmt.Printf("%s %s not done on %s\n", cli.Check(false), updated.Name, day.Date)
	}
	return nil
}

func printHabitLine(ctx *cli.Context, h models.Habit, today time.Time) error {
	done, err := ctx.Service.IsCompleted(ctx.Ctx, h.ID, today)
	if err != nil {
		return err
	}
	current, err := ctx.Service.CurrentStreak(ctx.Ctx, h.ID, today)
	if err != nil {
		return err
	}

	line := fmt.Sprintf("  %s %-24s %-12s streak %-3d best %-3d", cli.Check(done), h.Name, cli.CategoryLabel(h.Category), current, h.BestStreak)
	if h.Time != "" {
		line += " " + cli.MutedStyle.Render(h.Time)
	}
	fmt.Println(line)
	return nil
}
