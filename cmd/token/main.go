package main // Mints staff access tokens for operations and local testing

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	flag "github.com/spf13/pflag"

	"github.com/iliyamo/table-reservation/internal/middleware"
	"github.com/iliyamo/table-reservation/internal/utils"
)

type options struct {
	claims utils.Claims
	ttl    time.Duration
}

func parseArgs(args []string) (options, error) {
	fs := flag.NewFlagSet("token", flag.ContinueOnError)
	sub := fs.StringP("sub", "s", "ops", "subject (user id)")
	email := fs.StringP("email", "e", "", "e-mail recorded as the actor in reservation history")
	role := fs.StringP("role", "r", middleware.RoleEditor, "superadmin, admin, editor or reader")
	ttl := fs.Duration("ttl", 12*time.Hour, "token lifetime")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	switch *role {
	case middleware.RoleSuperadmin, middleware.RoleAdmin, middleware.RoleEditor, middleware.RoleReader:
	default:
		return options{}, fmt.Errorf("unknown role %q", *role)
	}
	if *ttl <= 0 {
		return options{}, fmt.Errorf("ttl must be positive, got %s", *ttl)
	}
	return options{claims: utils.Claims{Subject: *sub, Email: *email, Role: *role}, ttl: *ttl}, nil
}

func main() {
	_ = godotenv.Load()

	opts, err := parseArgs(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	tok, err := utils.NewAccessToken(secret, opts.claims, opts.ttl)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(tok.Token)
	fmt.Fprintf(os.Stderr, "expires %s\n", tok.Exp.Format(time.RFC3339))
}
