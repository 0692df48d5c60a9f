package data

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/julianstephens/trackmy/internal/cli"
	"github.com/julianstephens/trackmy/internal/snapshot"
)

type ExportCmd struct {
	Output string `short:"o" help:"Output file. Defaults to track-my-backup-YYYY-MM-DD.json in the current directory."`
}

func (c *ExportCmd) Run(ctx *cli.Context) error {
	doc, err := ctx.Service.Export(ctx.Ctx)
	if err != nil {
		return err
	}

	path := c.Output
	if path == "" {
		path = snapshot.DefaultFileName(time.Now(), ctx.Service.Location())
	}
	if err := snapshot.WriteFile(path, doc); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}

	fmt.Printf("%s Exported %d habits and %d days to %s\n",
		cli.SuccessStyle.Render("✓"), len(doc.Data.Habits), len(doc.Data.Completions), path)
	return nil
}

type ImportCmd struct {
	File string `arg:"" help:"Export document to import." type:"existingfile"`
	Yes  bool   `short:"y" help:"Do not ask for confirmation."`
}

func (c *ImportCmd) Run(ctx *cli.Context) error {
	doc, err := snapshot.ReadFile(c.File)
	if err != nil {
		return err
	}

	ok, err := ctx.Ask(c.Yes,
		fmt.Sprintf("Import %s?", filepath.Base(c.File)),
		fmt.Sprintf("%d habits and %d days will overwrite records with the same id or date.", len(doc.Data.Habits), len(doc.Data.Completions)))
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("Import cancelled.")
		return nil
	}

	ctx.PerformAutomaticBackup()
	if err := ctx.Service.Import(ctx.Ctx, doc); err != nil {
		return err
	}

	fmt.Printf("%s Imported %d habits and %d days\n",
		cli.SuccessStyle.Render("✓"), len(doc.Data.Habits), len(doc.Data.Completions))
	return nil
}

type ClearCmd struct {
	Yes bool `short:"y" help:"Do not ask for confirmation."`
}

func (c *ClearCmd) Run(ctx *cli.Context) error {
	ok, err := ctx.Ask(c.Yes,
		"Delete all habits, completions and settings?",
		"An automatic backup is made first when using SQLite.")
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("Clear cancelled.")
		return nil
	}

	ctx.PerformAutomaticBackup()
	if err := ctx.Service.ClearAll(ctx.Ctx); err != nil {
		return err
	}

	fmt.Println(cli.DangerStyle.Render("All data cleared."))
	return nil
}
