// Command admin-bootstrap provisions an admin account out of band. It
// replaces any in-band bootstrap endpoint: admin creation needs database
// credentials, not an unauthenticated URL.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lumiclabs/EventHub/internal/adapters/postgres"
	"github.com/lumiclabs/EventHub/internal/config"
	"github.com/lumiclabs/EventHub/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	var (
		email    = flag.String("email", "", "admin email (required)")
		name     = flag.String("name", "Admin", "display name")
		phone    = flag.String("phone", "", "phone number")
		password = flag.String("password", "", "initial password (required, min 6 chars)")
	)
	flag.Parse()

	if *email == "" || len(*password) < 6 {
		log.Fatal("usage: admin-bootstrap -email admin@example.com -password <min 6 chars>")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	repo := postgres.NewRepository(pool)
	if err := repo.Migrate(ctx); err != nil {
		log.Fatalf("failed to migrate schema: %v", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	err = repo.CreateUser(ctx, domain.User{
		ID:           uuid.New(),
		Email:        *email,
		PasswordHash: string(hash),
		Name:         *name,
		Phone:        *phone,
		Role:         domain.RoleAdmin,
		CreatedAt:    time.Now().UTC(),
	})
	if errors.Is(err, domain.ErrEmailTaken) {
		log.Printf("admin %s already exists, nothing to do", *email)
		return
	}
	if err != nil {
		log.Fatalf("failed to create admin: %v", err)
	}
	log.Printf("admin %s created", *email)
}
