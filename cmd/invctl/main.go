// Command invctl is an operator tool for the inventory service: it signs test tokens,
// prints the XP table and applies migrations.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/goalplay-inventory/internal/auth"
	"github.com/and161185/goalplay-inventory/internal/migrate"
	"github.com/and161185/goalplay-inventory/internal/model"
	"github.com/and161185/goalplay-inventory/internal/progression"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

func usage() {
	fmt.Fprintf(os.Stderr, `invctl: GoalPlay inventory operator tool

Usage:
  invctl token    --secret S --sub UUID [--wallet W] [--chain C] [--ttl 1h]
  invctl xp-table [--max N]
  invctl migrate  --dsn DSN
  invctl version
`)
	os.Exit(2)
}

func main() {
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() < 1 {
		usage()
	}
	args := flag.Args()[1:]

	var err error
	switch flag.Arg(0) {
	case "version":
		fmt.Printf("invctl %s (%s)\n", version, buildDate)
	case "token":
		err = runToken(args, os.Stdout)
	case "xp-table":
		err = runXPTable(args, os.Stdout)
	case "migrate":
		err = runMigrate(args, os.Stdout)
	default:
		usage()
	}
	if err != nil {
		fail(err)
	}
}

// runToken prints a signed bearer token for the given subject.
func runToken(args []string, w io.Writer) error {
	fs := flag.NewFlagSet("token", flag.ContinueOnError)
	secret := fs.String("secret", os.Getenv("JWT_SECRET"), "HS256 signing key")
	sub := fs.String("sub", "", "user id (UUID)")
	wallet := fs.String("wallet", "", "wallet address (creates the user on first request)")
	chain := fs.String("chain", "", "chain type (default evm)")
	ttl := fs.Duration("ttl", time.Hour, "token lifetime")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *secret == "" {
		return errors.New("need --secret or JWT_SECRET")
	}
	id, err := uuid.FromString(*sub)
	if err != nil {
		return fmt.Errorf("bad --sub: %w", err)
	}

	tok, exp, err := auth.Issue(model.Identity{UserID: id, Wallet: *wallet, Chain: *chain}, []byte(*secret), *ttl)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, tok)
	fmt.Fprintf(os.Stderr, "expires %s\n", exp.UTC().Format(time.RFC3339))
	return nil
}

// runXPTable prints the experience needed to leave each level.
func runXPTable(args []string, w io.Writer) error {
	fs := flag.NewFlagSet("xp-table", flag.ContinueOnError)
	maxLevel := fs.Int("max", 20, "last level to print")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *maxLevel < 1 || *maxLevel > progression.MaxLevel {
		return fmt.Errorf("--max must be in 1..%d", progression.MaxLevel)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "LEVEL\tREQUIRED_XP\tLEVEL_AT_XP\tBONUS")
	for l := 1; l <= *maxLevel; l++ {
		req := progression.RequiredXP(l)
		fmt.Fprintf(tw, "%d\t%d\t%d\t%d\n", l, req, progression.LevelFromTotalXP(req), progression.LevelBonus(l))
	}
	return tw.Flush()
}

func runMigrate(args []string, w io.Writer) error {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	dsn := fs.String("dsn", os.Getenv("DATABASE_URL"), "PostgreSQL DSN")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *dsn == "" {
		return errors.New("need --dsn or DATABASE_URL")
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	applied, err := migrate.Up(ctx, *dsn)
	if err != nil {
		return err
	}
	if len(applied) == 0 {
		fmt.Fprintln(w, "schema up to date")
		return nil
	}
	for _, v := range applied {
		fmt.Fprintf(w, "applied %05d\n", v)
	}
	return nil
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
