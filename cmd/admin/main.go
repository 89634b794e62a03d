// Command admin manages the admin capability of existing accounts.
//
// Usage:
//
//	admin -list
//	admin -promote user@example.com
//	admin -demote user@example.com
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"chronicle/internal/cache"
	"chronicle/internal/config"
	"chronicle/internal/database"
	"chronicle/internal/middleware"
	"chronicle/internal/repository"
)

func main() {
	var (
		promote = flag.String("promote", "", "grant the admin capability to the account with this email")
		demote  = flag.String("demote", "", "revoke the admin capability from the account with this email")
		list    = flag.Bool("list", false, "list all admin accounts")
	)
	flag.Parse()

	if *promote == "" && *demote == "" && !*list {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		middleware.Logger.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		middleware.Logger.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// The web server caches identities in Redis; without this a promotion or
	// demotion would not be visible there until the cached entry expires.
	cache.InitRedis(cfg.RedisURL)

	ctx := context.Background()
	users := repository.NewUserRepository(db)

	switch {
	case *list:
		admins, err := users.ListAdmins(ctx)
		if err != nil {
			middleware.Logger.Error("failed to list admins", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if len(admins) == 0 {
			fmt.Println("no admin accounts")
			return
		}
		for _, admin := range admins {
			fmt.Printf("%d\t%s\t%s\n", admin.ID, admin.Email, admin.Name)
		}
	case *promote != "":
		if err := setAdmin(ctx, users, *promote, true); err != nil {
			middleware.Logger.Error("promote failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		fmt.Printf("%s is now an admin\n", *promote)
	case *demote != "":
		if err := setAdmin(ctx, users, *demote, false); err != nil {
			middleware.Logger.Error("demote failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		fmt.Printf("%s is no longer an admin\n", *demote)
	}
}

func setAdmin(ctx context.Context, users repository.UserRepository, email string, isAdmin bool) error {
	user, err := users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("no account registered under %s", email)
	}
	user.IsAdmin = isAdmin
	return users.Update(ctx, user)
}
