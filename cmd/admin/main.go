package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"argentasync/internal/infrastructure/postgres"
	"argentasync/internal/shared/auth"
	"argentasync/internal/shared/config"
)

const usage = `Argenta Sync Admin CLI - Management commands for the sync API

Usage:
  admin <command> [options]

Commands:
  hash-password     Generate a bcrypt hash for ADMIN_PASSWORD_HASH
  list-accounts     List known bank accounts and their sync state
  reset-checkpoint  Reset the sync checkpoint so the next run refetches everything

Examples:
  # Generate the admin password hash (prompts for the password)
  admin hash-password

  # List accounts with their checkpoints
  admin list-accounts

  # Force a full refetch for one account on the next run
  admin reset-checkpoint --account-id=be68539007547034

  # Force a full refetch for every account
  admin reset-checkpoint --all
`

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "hash-password":
		runHashPassword()
	case "list-accounts":
		runListAccounts()
	case "reset-checkpoint":
		runResetCheckpoint(os.Args[2:])
	case "help", "-h", "--help":
		fmt.Print(usage)
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		fmt.Print(usage)
		os.Exit(1)
	}
}

func runHashPassword() {
	fmt.Print("Password: ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		log.Fatalf("Failed to read password: %v", err)
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		log.Fatal("Password must not be empty")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	fmt.Printf("ADMIN_PASSWORD_HASH=%s\n", hash)
}

func runListAccounts() {
	repo, db := openAccountRepo()
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	accounts, err := repo.List(ctx)
	if err != nil {
		log.Fatalf("Failed to list accounts: %v", err)
	}

	if len(accounts) == 0 {
		fmt.Println("No accounts found. Run a login first so accounts get discovered.")
		return
	}

	for _, acc := range accounts {
		linked := "-"
		if acc.LedgerAccountID != nil {
			linked = *acc.LedgerAccountID
		}
		lastSync := "never"
		if acc.LastSyncTime != nil {
			lastSync = acc.LastSyncTime.Format(time.RFC3339)
		}
		fmt.Printf("%s  %s  alias=%q  ledger=%s  checkpoint=%d  lastSync=%s\n",
			acc.ID, acc.IBAN, acc.Alias, linked, acc.LastSyncedRowCount, lastSync)
	}
}

func runResetCheckpoint(args []string) {
	fs := flag.NewFlagSet("reset-checkpoint", flag.ExitOnError)

	accountID := fs.String("account-id", "", "Account ID to reset")
	all := fs.Bool("all", false, "Reset every account")

	fs.Usage = func() {
		fmt.Println("Usage: admin reset-checkpoint [options]")
		fmt.Println("\nOptions:")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if *accountID == "" && !*all {
		fmt.Println("Error: must specify --account-id or --all")
		fs.Usage()
		os.Exit(1)
	}

	repo, db := openAccountRepo()
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var ids []string
	if *all {
		accounts, err := repo.List(ctx)
		if err != nil {
			log.Fatalf("Failed to list accounts: %v", err)
		}
		for _, acc := range accounts {
			ids = append(ids, acc.ID)
		}
	} else {
		ids = []string{*accountID}
	}

	zero := 0
	for _, id := range ids {
		if err := repo.UpdateSyncStatus(ctx, id, &zero); err != nil {
			log.Fatalf("Failed to reset checkpoint for %s: %v", id, err)
		}
		log.Printf("Checkpoint reset for %s, next sync will refetch everything", id)
	}
}

func openAccountRepo() (*postgres.AccountRepository, *postgres.DB) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := postgres.New(cfg.Database.ConnectionString())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	return postgres.NewAccountRepository(db), db
}
