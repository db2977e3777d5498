package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/term"

	"github.com/finchapp/finch/internal/auth"
	"github.com/finchapp/finch/internal/common"
	"github.com/finchapp/finch/internal/models"
	"github.com/finchapp/finch/internal/storage/sqlite"
)

// finch-admin creates accounts directly against the database, for
// bootstrapping an instance before the API is exposed.
func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("finch-admin", flag.ContinueOnError)
	fs.SetOutput(stderr)

	email := fs.String("email", "", "Account email")
	passwordFlag := fs.String("password", "", "Password (prompts if omitted)")
	currency := fs.String("currency", "USD", "Preferred currency code")
	dbPath := fs.String("db", "finch.db", "Path to database file")
	reset := fs.Bool("reset", false, "Reset the password of an existing account")

	if err := fs.Parse(args); err != nil {
		return err
	}

	*email = strings.ToLower(strings.TrimSpace(*email))
	if *email == "" || !strings.Contains(*email, "@") {
		fmt.Fprintln(stdout, "Usage: finch-admin -email <email> [-password <password>] [-currency <code>] [-db <path>] [-reset]")
		fs.PrintDefaults()
		return fmt.Errorf("a valid -email is required")
	}

	password := *passwordFlag
	if password == "" {
		fmt.Fprint(stdout, "Password: ")
		var err error
		password, err = readPassword(stdin)
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		fmt.Fprintln(stdout)
	}
	if strings.TrimSpace(password) == "" {
		return fmt.Errorf("password cannot be empty")
	}

	if path := os.Getenv("FINCH_DB_PATH"); path != "" && *dbPath == "finch.db" {
		*dbPath = path
	}

	logger := common.NewSilentLogger()
	store, err := sqlite.New(logger, *dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	ctx := context.Background()

	if *reset {
		user, err := store.GetUserByEmail(ctx, *email)
		if err != nil {
			return fmt.Errorf("account %s not found: %w", *email, err)
		}
		user.PasswordHash = hash
		if err := store.UpdateUser(ctx, user); err != nil {
			return fmt.Errorf("failed to update password: %w", err)
		}
		fmt.Fprintf(stdout, "Password for %s reset\n", user.Email)
		return nil
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Email:        *email,
		PasswordHash: hash,
		Language:     "en",
		Currency:     strings.ToUpper(*currency),
		Timezone:     "UTC",
		Theme:        "light",
	}

	if err := store.CreateUser(ctx, user); err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	if err := store.SeedDefaultCategories(ctx, user.ID); err != nil {
		return fmt.Errorf("failed to seed categories: %w", err)
	}

	fmt.Fprintf(stdout, "Account %s created with ID %s\n", user.Email, user.ID)
	return nil
}

func readPassword(stdin io.Reader) (string, error) {
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		bytePassword, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(bytePassword), nil
	}

	// Fallback for non-terminal input (tests, pipes).
	scanner := bufio.NewScanner(stdin)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
