package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mrlokans/interlinear/internal/annotations"
	"github.com/mrlokans/interlinear/internal/database"
	"github.com/mrlokans/interlinear/internal/database/flashcards"
	"github.com/mrlokans/interlinear/internal/entities"
)

const owner = "local-user-1a2b3c4d"

func seedCards(t *testing.T, dbPath string, words ...string) []string {
	t.Helper()
	db, err := database.Open(dbPath, database.Options{})
	require.NoError(t, err)
	defer db.Close()

	local, err := annotations.NewLocalBackend(flashcards.NewRepository(db.DB))
	require.NoError(t, err)
	store := annotations.NewStore(local, nil)

	var ids []string
	for _, word := range words {
		card, err := store.Save(context.Background(), owner, entities.WordAnalysis{Original: word, Gloss: "gloss of " + word}, "John 1:1")
		require.NoError(t, err)
		ids = append(ids, card.ID)
	}
	return ids
}

func TestCreateUserCommand_ParseFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{"complete", []string{"-username", "reader", "-password", "correct-horse-battery"}, false},
		{"missing username", []string{"-password", "correct-horse-battery"}, true},
		{"missing password", []string{"-username", "reader"}, true},
		{"unknown flag", []string{"-username", "reader", "-password", "x", "-bogus"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewCreateUserCommand().ParseFlags(tt.args)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCreateUserCommand_Run(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	var out bytes.Buffer
	cmd := &CreateUserCommand{
		Username:     "reader",
		Password:     "correct-horse-battery",
		DatabasePath: dbPath,
		BcryptCost:   bcrypt.MinCost,
		out:          &out,
	}
	require.NoError(t, cmd.Run())
	assert.Contains(t, out.String(), "Created account reader")
	assert.Contains(t, out.String(), "Owner id: ")

	err := cmd.Run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	cmd.Username = "short-password"
	cmd.Password = "short"
	assert.Error(t, cmd.Run())
}

func TestFlashcardsCommand_List(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	seedCards(t, dbPath, "λόγος", "ἀρχῇ")

	var out bytes.Buffer
	cmd := &FlashcardsCommand{Owner: owner, DatabasePath: dbPath, out: &out}
	require.NoError(t, cmd.Run())

	output := out.String()
	assert.Contains(t, output, "2 flashcards")
	assert.Less(t, bytes.Index(out.Bytes(), []byte("ἀρχῇ")), bytes.Index(out.Bytes(), []byte("λόγος")))
}

func TestFlashcardsCommand_Delete(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	ids := seedCards(t, dbPath, "λόγος", "ἀρχῇ")

	var out bytes.Buffer
	cmd := &FlashcardsCommand{Owner: owner, DeleteID: ids[0], DatabasePath: dbPath, out: &out}
	require.NoError(t, cmd.Run())
	assert.Contains(t, out.String(), "Deleted "+ids[0])
	assert.Contains(t, out.String(), "1 flashcards")

	cmd = &FlashcardsCommand{Owner: "local-user-someone", DeleteID: ids[1], DatabasePath: dbPath, out: &out}
	assert.Error(t, cmd.Run())
}

func TestFlashcardsCommand_Empty(t *testing.T) {
	var out bytes.Buffer
	cmd := &FlashcardsCommand{Owner: owner, DatabasePath: filepath.Join(t.TempDir(), "test.db"), out: &out}
	require.NoError(t, cmd.Run())
	assert.Contains(t, out.String(), "No flashcards for "+owner)
}

func TestFlashcardsCommand_ParseFlags(t *testing.T) {
	cmd := NewFlashcardsCommand()
	assert.Error(t, cmd.ParseFlags([]string{}))
	require.NoError(t, cmd.ParseFlags([]string{"-owner", owner, "-delete", "local-1"}))
	assert.Equal(t, "local-1", cmd.DeleteID)
}
