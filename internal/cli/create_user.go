package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"golang.org/x/crypto/bcrypt"

	"github.com/mrlokans/interlinear/internal/auth"
	"github.com/mrlokans/interlinear/internal/config"
	"github.com/mrlokans/interlinear/internal/database"
	"github.com/mrlokans/interlinear/internal/database/users"
)

// CreateUserCommand creates an account on the document server so another
// reader can use this instance as its remote flashcard backend.
type CreateUserCommand struct {
	Username     string
	Password     string
	DatabasePath string
	BcryptCost   int

	out io.Writer
}

func NewCreateUserCommand() *CreateUserCommand {
	return &CreateUserCommand{out: os.Stdout}
}

func (cmd *CreateUserCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("create-user", flag.ContinueOnError)

	fs.StringVar(&cmd.Username, "username", "", "Account name (required)")
	fs.StringVar(&cmd.Password, "password", "", fmt.Sprintf("Account password, at least %d characters (required)", auth.MinPasswordLength))
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the database file")
	fs.IntVar(&cmd.BcryptCost, "cost", bcrypt.DefaultCost, "bcrypt cost for the password hash")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s create-user -username <name> -password <password> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Create a document server account. Readers configured with REMOTE_URL,\n")
		fmt.Fprintf(os.Stderr, "REMOTE_USERNAME and REMOTE_PASSWORD sign in with it.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.Username == "" {
		return fmt.Errorf("required flag -username not provided")
	}
	if cmd.Password == "" {
		return fmt.Errorf("required flag -password not provided")
	}
	return nil
}

func (cmd *CreateUserCommand) Run() error {
	db, err := database.Open(cmd.DatabasePath, database.Options{})
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	svc := auth.NewService(users.NewRepository(db.DB), config.Auth{BcryptCost: cmd.BcryptCost})
	user, err := svc.CreateUser(cmd.Username, cmd.Password)
	if err != nil {
		if errors.Is(err, auth.ErrUserExists) {
			return fmt.Errorf("account %q already exists", cmd.Username)
		}
		return err
	}

	fmt.Fprintf(cmd.out, "Created account %s\n", user.Username)
	fmt.Fprintf(cmd.out, "Owner id: %s\n", user.UID)
	return nil
}
