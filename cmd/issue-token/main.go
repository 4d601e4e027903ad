// Command issue-token provisions a user and prints a bearer token for it.
// Existing users keep their stored admin flag.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/hongminglow/parts-inventory/internal/auth"
	"github.com/hongminglow/parts-inventory/internal/config"
	"github.com/hongminglow/parts-inventory/internal/models"
	"github.com/hongminglow/parts-inventory/internal/storage"
	postgres "github.com/hongminglow/parts-inventory/internal/storage/postgres"
)

func main() {
	username := flag.String("username", "", "username to issue a token for (required)")
	admin := flag.Bool("admin", false, "create the user as an admin if it does not exist")
	flag.Parse()

	if strings.TrimSpace(*username) == "" {
		flag.Usage()
		os.Exit(2)
	}

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx := context.Background()
	store, err := postgres.NewStore(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}
	defer store.Close()

	user, err := ensureUser(ctx, store, strings.TrimSpace(*username), *admin)
	if err != nil {
		log.Fatalf("provision user: %v", err)
	}

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
	token, err := tokens.Generate(user)
	if err != nil {
		log.Fatalf("sign token: %v", err)
	}

	fmt.Fprintf(os.Stderr, "user %s (id=%d, admin=%t)\n", user.Username, user.ID, user.IsAdmin)
	fmt.Println(token)
}

func ensureUser(ctx context.Context, users storage.UserStore, username string, admin bool) (models.User, error) {
	created, err := users.CreateUser(ctx, models.User{Username: username, IsAdmin: admin})
	if err == nil {
		return created, nil
	}
	if !errors.Is(err, storage.ErrAlreadyExists) {
		return models.User{}, err
	}
	return users.FindByUsername(ctx, username)
}
