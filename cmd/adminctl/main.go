// Command adminctl creates staff users from the terminal, for bootstrapping a
// deployment before the admin UI has anyone who can log in.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"syscall"

	"golang.org/x/term"

	authservice "mangonet/internal/auth/service"
	"mangonet/internal/auth/session"
	authstore "mangonet/internal/auth/store"
	"mangonet/internal/auth/token"
	"mangonet/internal/platform/config"
	"mangonet/internal/platform/logger"
	"mangonet/internal/platform/postgres"
	settingsservice "mangonet/internal/settings/service"
	settingsstore "mangonet/internal/settings/store"
)

func main() {
	username := flag.String("username", "", "username for the new staff user")
	role := flag.String("role", "admin", "role for the new staff user (admin or standard)")
	flag.Parse()

	if *username == "" {
		fmt.Fprintln(os.Stderr, "usage: adminctl -username <name> [-role admin|standard]")
		os.Exit(2)
	}

	cfg := config.FromEnv()
	if cfg.DatabaseURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL must be set")
		os.Exit(2)
	}

	ctx := context.Background()
	db, err := postgres.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		fmt.Fprintln(os.Stderr, "postgres connection failed:", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		fmt.Fprintln(os.Stderr, "schema setup failed:", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "password for %s: ", *username)
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to read password:", err)
		os.Exit(1)
	}

	svc := authservice.New(
		authstore.NewPostgres(db),
		settingsservice.New(settingsstore.NewPostgres(db)),
		token.NewService(cfg.JWTSigningKey),
		session.NewInMemory(),
		cfg.SessionTTL,
		cfg.BootstrapPassword,
		logger.New(),
	)

	user, err := svc.CreateUser(ctx, *username, string(password), *role)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to create user:", err)
		os.Exit(1)
	}
	fmt.Printf("created %s user %s (%s)\n", user.Role, user.Username, user.ID)
}
