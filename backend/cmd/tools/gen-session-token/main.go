// gen-session-token prints a session token for local testing of the API.
// With -email the user is created (or renamed) in postgres first.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/potatoland/potatoland/backend/internal/storage/pg"
	"github.com/potatoland/potatoland/shared/config"
	"github.com/potatoland/potatoland/shared/domain"
	"github.com/potatoland/potatoland/shared/jwt"
)

func main() {
	var (
		configFolder string
		userId       int64
		email        string
		name         string
	)
	flag.StringVar(&configFolder, "config_folder", "config", "path to folder with configs")
	flag.Int64Var(&userId, "uid", 0, "existing user id")
	flag.StringVar(&email, "email", "", "email of the user to create or reuse")
	flag.StringVar(&name, "name", "", "display name")
	flag.Parse()

	cfg := config.MustLoad(configFolder)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	storage, err := pg.New(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to postgres: %v", err)
	}
	defer storage.Cleanup()

	var user domain.User
	switch {
	case email != "":
		id, err := storage.SaveUser(ctx, email, name)
		if err != nil {
			log.Fatalf("Failed to save user: %v", err)
		}
		user = domain.User{Id: id, Email: email, Name: name}
	case userId > 0:
		if user, err = storage.User(ctx, userId); err != nil {
			log.Fatalf("Failed to load user %d: %v", userId, err)
		}
	default:
		log.Fatal("Either -uid or -email is required")
	}

	token, err := jwt.New(cfg.JwtKey(), cfg.SessionTTL()).NewToken(user)
	if err != nil {
		log.Fatalf("Failed to sign token: %v", err)
	}

	fmt.Printf("user id: %d\n", user.Id)
	fmt.Printf("Authorization: Bearer %s\n", token)
}
