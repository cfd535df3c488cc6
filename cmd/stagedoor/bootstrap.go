package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"stagedoor/internal/store"
	"stagedoor/internal/workflow"
)

// bootstrapAdmin ensures an initial admin account exists so the deployment
// can manage accounts from a fresh database. Credentials come from the
// environment; with none set, nothing is seeded.
func bootstrapAdmin(ctx context.Context, dataStore *store.Store) error {
	username := os.Getenv("ADMIN_USERNAME")
	password := os.Getenv("ADMIN_PASSWORD")
	if username == "" || password == "" {
		return nil
	}

	_, err := dataStore.CreateUser(ctx, username, password, workflow.RoleAdmin)
	if err != nil && !errors.Is(err, workflow.ErrConflict) {
		return fmt.Errorf("bootstrap admin user: %w", err)
	}
	return nil
}
