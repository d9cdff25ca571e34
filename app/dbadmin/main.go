// Command dbadmin manages the prompt service schema and inspects stored trips.
//
//	dbadmin migrate
//	dbadmin drop
//	dbadmin truncate <table>
//	dbadmin tables
//	dbadmin trips
//	dbadmin incomplete
//	dbadmin upsert-user -id <id> [-provider p] [-first f] [-last l] [-email e] [-url u]
//	dbadmin has-profile <user_id>
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/tripwise/prompt-svc/config"
	"github.com/tripwise/prompt-svc/internal/logger"
	"github.com/tripwise/prompt-svc/internal/models"
	pgrepo "github.com/tripwise/prompt-svc/internal/repositories/postgres"
	"github.com/tripwise/prompt-svc/internal/services"
)

var errUsage = errors.New("usage: dbadmin migrate|drop|truncate <table>|tables|trips|incomplete|upsert-user -id <id>|has-profile <user_id>")

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config error: %v", err)
	}
	log := logger.New(cfg.LogLevel)

	db, err := config.InitPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("PostgreSQL init error: %v", err)
	}

	if err := run(context.Background(), db, os.Args[1:], os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, db *gorm.DB, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}

	switch args[0] {
	case "migrate":
		if err := pgrepo.Migrate(ctx, db); err != nil {
			return err
		}
		fmt.Fprintln(out, "tables created")
	case "drop":
		if err := pgrepo.DropAll(ctx, db); err != nil {
			return err
		}
		fmt.Fprintln(out, "tables dropped")
	case "truncate":
		if len(args) != 2 {
			return errUsage
		}
		if err := pgrepo.Truncate(ctx, db, args[1]); err != nil {
			return err
		}
		fmt.Fprintf(out, "%s truncated\n", args[1])
	case "tables":
		names, err := pgrepo.ListTables(ctx, db)
		if err != nil {
			return err
		}
		for _, n := range names {
			fmt.Fprintln(out, n)
		}
	case "trips":
		trips, err := pgrepo.NewTripRepo(db).ListAll(ctx)
		if err != nil {
			return err
		}
		return printJSON(out, trips)
	case "incomplete":
		rows, err := pgrepo.NewTripRepo(db).ListIncomplete(ctx)
		if err != nil {
			return err
		}
		return printJSON(out, rows)
	case "upsert-user":
		return upsertUser(ctx, db, args[1:], out)
	case "has-profile":
		if len(args) != 2 {
			return errUsage
		}
		ok, err := services.NewUserService(pgrepo.NewUserRepo(db)).HasProfile(ctx, args[1])
		if err != nil {
			return err
		}
		fmt.Fprintln(out, ok)
	default:
		return errUsage
	}
	return nil
}

func upsertUser(ctx context.Context, db *gorm.DB, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("upsert-user", flag.ContinueOnError)
	fs.SetOutput(out)
	var u models.User
	fs.StringVar(&u.ID, "id", "", "user id (required)")
	fs.StringVar(&u.Provider, "provider", "", "identity provider")
	fs.StringVar(&u.FirstName, "first", "", "first name")
	fs.StringVar(&u.LastName, "last", "", "last name")
	fs.StringVar(&u.Email, "email", "", "email")
	fs.StringVar(&u.URL, "url", "", "profile picture url")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if u.ID == "" {
		return errors.New("upsert-user: -id is required")
	}

	if err := services.NewUserService(pgrepo.NewUserRepo(db)).Upsert(ctx, &u); err != nil {
		return err
	}
	fmt.Fprintf(out, "user %s saved\n", u.ID)
	return nil
}

func printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
