package system

import (
	"errors"
	"fmt"

	"github.com/julianstephens/trackmy/internal/cli"
	"github.com/julianstephens/trackmy/internal/config"
)

// ConfigCmd shows or edits config.yaml.
type ConfigCmd struct {
	Show ConfigShowCmd `cmd:"" help:"Print the resolved configuration." default:"1"`
	Set  ConfigSetCmd  `cmd:"" help:"Write a key to config.yaml."`
}

type ConfigShowCmd struct{}

func (c *ConfigShowCmd) Run(ctx *cli.Context) error {
	if ctx.Config == nil {
		return errors.New("no configuration loaded")
	}
	cfg := ctx.Config
	fmt.Println(cli.HeadingStyle.Render("Configuration:"))
	fmt.Printf("  File:        %s\n", config.FilePath(cfg.Dir))
	fmt.Printf("  Backend:     %s\n", cfg.Backend)
	fmt.Printf("  Storage:     %s\n", ctx.Store.Location())
	fmt.Printf("  Timezone:    %s\n", cfg.Timezone)
	fmt.Printf("  Auto backup: %v\n", cfg.AutoBackup)
	fmt.Printf("  Debug:       %v\n", cfg.Debug)
	return nil
}

type ConfigSetCmd struct {
	Key   string `arg:"" help:"One of backend, path, timezone, debug, auto_backup."`
	Value string `arg:"" help:"New value."`
}

func (c *ConfigSetCmd) Run(ctx *cli.Context) error {
	if ctx.Config == nil {
		return errors.New("no configuration loaded")
	}
	if err := config.Set(ctx.Config.Dir, c.Key, c.Value); err != nil {
		return err
	}
	fmt.Printf("%s %s = %s\n", cli.SuccessStyle.Render("✓"), c.Key, c.Value)
	return nil
}
