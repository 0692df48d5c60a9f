package system

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/trackmy/internal/cli"
	"github.com/julianstephens/trackmy/internal/keyring"
	"github.com/julianstephens/trackmy/internal/storage"
	"github.com/julianstephens/trackmy/internal/storage/postgres"
)

// KeyringCmd manages the PostgreSQL connection string kept in the OS keyring.
type KeyringCmd struct {
	Set    KeyringSetCmd    `cmd:"" help:"Store a connection string."`
	Get    KeyringGetCmd    `cmd:"" help:"Show the stored connection string with the password masked."`
	Delete KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
	Status KeyringStatusCmd `cmd:"" help:"Check whether the OS keyring is usable." default:"1"`
}

type KeyringSetCmd struct {
	ConnectionString string `arg:"" help:"PostgreSQL connection string."`
}

func (cmd *KeyringSetCmd) Run(ctx *cli.Context) error {
	connStr := strings.TrimSpace(cmd.ConnectionString)
	if !storage.IsPostgresURL(connStr) && !strings.Contains(connStr, "host=") {
		return errors.New("connection string must be a PostgreSQL URL or a key=value DSN with host=")
	}

	if _, err := postgres.ValidateConnString(connStr); err != nil {
		if !errors.Is(err, postgres.ErrEmbeddedCredentials) {
			return fmt.Errorf("invalid connection string: %w", err)
		}
		// The keyring is encrypted, so an embedded password is accepted here.
		fmt.Println(cli.WarningStyle.Render("⚠️  Connection string contains a password; it is stored as-is in the OS keyring."))
	}

	if err := keyring.SetConnectionString(connStr); err != nil {
		return fmt.Errorf("failed to store connection string in keyring: %w", err)
	}

	fmt.Printf("%s Connection string stored in OS keyring\n", cli.SuccessStyle.Render("✓"))
	fmt.Println("  It is used whenever the postgres backend has no --config value.")
	return nil
}

type KeyringGetCmd struct{}

func (cmd *KeyringGetCmd) Run(ctx *cli.Context) error {
	connStr, err := keyring.GetConnectionString()
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no connection string found in keyring, use 'trackmy keyring set' to store one")
		}
		return fmt.Errorf("failed to read connection string from keyring: %w", err)
	}

	fmt.Println(maskPassword(connStr))
	return nil
}

type KeyringDeleteCmd struct{}

func (cmd *KeyringDeleteCmd) Run(ctx *cli.Context) error {
	if err := keyring.DeleteConnectionString(); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no connection string found in keyring")
		}
		return fmt.Errorf("failed to delete connection string from keyring: %w", err)
	}

	fmt.Printf("%s Connection string deleted from OS keyring\n", cli.SuccessStyle.Render("✓"))
	return nil
}

type KeyringStatusCmd struct{}

func (cmd *KeyringStatusCmd) Run(ctx *cli.Context) error {
	if !keyring.IsAvailable() {
		fmt.Println(cli.DangerStyle.Render("✗ OS keyring is not available on this system"))
		return errors.New("keyring unavailable")
	}

	fmt.Printf("%s OS keyring is available\n", cli.SuccessStyle.Render("✓"))
	for _, item := range []struct {
		label string
		get   func() (string, error)
	}{
		{"Connection string", keyring.GetConnectionString},
		{"API key", keyring.GetAPIKey},
	} {
		if _, err := item.get(); err == nil {
			fmt.Printf("%s %s is stored\n", cli.SuccessStyle.Render("✓"), item.label)
		} else {
			fmt.Println(cli.MutedStyle.Render("- " + item.label + " is not stored"))
		}
	}
	return nil
}

// maskPassword hides the password of a URL or key=value connection string.
func maskPassword(connStr string) string {
	if storage.IsPostgresURL(connStr) {
		scheme := strings.Index(connStr, "://") + 3
		rest := connStr[scheme:]
		// Passwords may contain '@'; the last one ends the user info.
		at := strings.LastIndex(rest, "@")
		if at == -1 {
			return connStr
		}
		user, _, hasPassword := strings.Cut(rest[:at], ":")
		if !hasPassword {
			return connStr
		}
		return connStr[:scheme] + user + ":****" + rest[at:]
	}

	fields := strings.Fields(connStr)
	for i, field := range fields {
		if strings.HasPrefix(field, "password=") {
			fields[i] = "password=****"
		}
	}
	return strings.Join(fields, " ")
}
