package testutil

import (
	"context"
	"io"
	"log"
	"os"
	"testing"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/schoolconnect/core"
	"github.com/trezcool/schoolconnect/core/user"
	logsvc "github.com/trezcool/schoolconnect/services/logger"
	inmemdb "github.com/trezcool/schoolconnect/storage/database/inmem"
)

// NewConfig returns the TEST configuration.
func NewConfig() *core.Config {
	_ = os.Setenv("ENV", "TEST")
	return core.NewConfig()
}

// NewLogger returns a logger that discards everything and never reports to Rollbar.
func NewLogger(conf *core.Config) core.Logger {
	return logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), conf)
}

func NewValidator() (*validator.Validate, ut.Translator) {
	translator := core.NewTranslator()
	validate := core.NewValidator(translator)
	user.InitValidators(validate, translator)
	return validate, translator
}

// NewDB opens a fresh in-memory DB. Password hashing is made cheap for the tests.
func NewDB(t *testing.T, seed bool) *inmemdb.DB {
	user.HashCost = bcrypt.MinCost
	db, err := inmemdb.Open(seed)
	if err != nil {
		t.Fatalf("NewDB() failed: %v", err)
	}
	return db
}

func CreateUser(t *testing.T, repo user.Repository, name, email, pwd, role string, createdAt ...time.Time) user.User {
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		Name:       name,
		Email:      email,
		Role:       role,
		CreatedAt:  tstamp,
		LastActive: tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}
