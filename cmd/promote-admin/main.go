package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/shatayaglobal/Manpower/internal/config"
	"github.com/shatayaglobal/Manpower/internal/database"
	"github.com/shatayaglobal/Manpower/internal/models"
	"github.com/shatayaglobal/Manpower/internal/services"
)

// promote-admin grants (or with --revoke, removes) the platform admin role
// that hours-card overrides require.
func main() {
	args := os.Args[1:]
	role := models.GlobalRoleAdmin
	if len(args) == 2 && args[0] == "--revoke" {
		role = models.GlobalRoleUser
		args = args[1:]
	}
	if len(args) != 1 {
		fmt.Println("Usage: promote-admin [--revoke] <email>")
		os.Exit(1)
	}

	email := args[0]

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	userService := services.NewUserService(db)
	if err := userService.SetGlobalRole(ctx, email, role); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			log.Fatalf("No user found with email: %s", email)
		}
		log.Fatalf("Failed to update user: %v", err)
	}

	fmt.Printf("Successfully set role of %s to %s\n", email, role)
}
