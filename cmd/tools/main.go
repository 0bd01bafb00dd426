// Command tools mints development access tokens for the push endpoints.
//
//	JWT_SECRET=... go run ./cmd/tools -users 1,2,3 -ttl 24h
package main

import (
	"chat-notify/auth"
	"chat-notify/domain"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()
	users := flag.String("users", "1", "comma separated user ids")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return fmt.Errorf("JWT_SECRET is not set")
	}
	tokens := auth.NewTokenManager(secret)

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"User", "Expires", "Token"})
	table.SetAutoWrapText(false)
	expires := time.Now().Add(*ttl).UTC().Format(time.RFC3339)
	for _, raw := range strings.Split(*users, ",") {
		userID, err := domain.ParseUserID(strings.TrimSpace(raw))
		if err != nil {
			return err
		}
		token, err := tokens.Generate(userID, *ttl)
		if err != nil {
			return fmt.Errorf("sign token for %d: %w", userID, err)
		}
		table.Append([]string{userID.String(), expires, token})
	}
	table.Render()
	return nil
}
