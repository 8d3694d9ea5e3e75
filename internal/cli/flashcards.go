package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/mrlokans/interlinear/internal/annotations"
	"github.com/mrlokans/interlinear/internal/config"
	"github.com/mrlokans/interlinear/internal/database"
	"github.com/mrlokans/interlinear/internal/database/flashcards"
	"github.com/mrlokans/interlinear/internal/entities"
)

// FlashcardsCommand lists or prunes an owner's flashcards in the local store.
type FlashcardsCommand struct {
	Owner        string
	DeleteID     string
	DatabasePath string

	out io.Writer
}

func NewFlashcardsCommand() *FlashcardsCommand {
	return &FlashcardsCommand{out: os.Stdout}
}

func (cmd *FlashcardsCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("flashcards", flag.ContinueOnError)

	fs.StringVar(&cmd.Owner, "owner", "", "Owner id, e.g. local-user-1a2b3c4d (required)")
	fs.StringVar(&cmd.DeleteID, "delete", "", "Delete the flashcard with this id before listing")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the database file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s flashcards -owner <id> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "List an owner's flashcards, newest first.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.Owner == "" {
		return fmt.Errorf("required flag -owner not provided")
	}
	return nil
}

func (cmd *FlashcardsCommand) Run() error {
	db, err := database.Open(cmd.DatabasePath, database.Options{})
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	local, err := annotations.NewLocalBackend(flashcards.NewRepository(db.DB))
	if err != nil {
		return err
	}
	store := annotations.NewStore(local, nil)
	ctx := context.Background()

	if cmd.DeleteID != "" {
		cards, err := store.ListByOwner(ctx, cmd.Owner)
		if err != nil {
			return err
		}
		if !ownsCard(cards, cmd.DeleteID) {
			return fmt.Errorf("no flashcard %s for owner %s", cmd.DeleteID, cmd.Owner)
		}
		if err := store.Delete(ctx, cmd.DeleteID); err != nil {
			return err
		}
		fmt.Fprintf(cmd.out, "Deleted %s\n\n", cmd.DeleteID)
	}

	cards, err := store.ListByOwner(ctx, cmd.Owner)
	if err != nil {
		return err
	}
	if len(cards) == 0 {
		fmt.Fprintf(cmd.out, "No flashcards for %s\n", cmd.Owner)
		return nil
	}

	w := tabwriter.NewWriter(cmd.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tWORD\tGLOSS\tVERSE\tCREATED")
	for _, card := range cards {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			card.ID,
			card.WordAnalysis.Original,
			card.WordAnalysis.Gloss,
			card.VerseReference,
			time.UnixMilli(card.CreatedAt).UTC().Format(time.RFC3339),
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.out, "\n%d flashcards\n", len(cards))
	return nil
}

func ownsCard(cards []entities.Flashcard, id string) bool {
	for _, card := range cards {
		if card.ID == id {
			return true
		}
	}
	return false
}
