package auth

import (
	"context"
	"errors"
	"testing"
)

func TestUserRepository_CreateAndGet(t *testing.T) {
	repo := NewUserRepository(testDB(t))
	ctx := context.Background()

	user := &User{Name: "Alice", Email: "alice@example.com", Password: "$2a$04$hash"}
	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if user.ID == 0 {
		t.Fatal("Create() did not assign an ID")
	}

	byID, err := repo.GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if *byID != *user {
		t.Errorf("GetByID() = %+v, want %+v", byID, user)
	}

	byEmail, err := repo.GetByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("GetByEmail() error = %v", err)
	}
	if byEmail.ID != user.ID {
		t.Errorf("GetByEmail().ID = %d, want %d", byEmail.ID, user.ID)
	}
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	repo := NewUserRepository(testDB(t))
	ctx := context.Background()

	if err := repo.Create(ctx, &User{Name: "A", Email: "dup@example.com", Password: "h"}); err != nil {
		t.Fatalf("first Create() error = %v", err)
	}

	err := repo.Create(ctx, &User{Name: "B", Email: "dup@example.com", Password: "h"})
	if !errors.Is(err, ErrEmailExists) {
		t.Errorf("second Create() error = %v, want ErrEmailExists", err)
	}

	// Emails are compared exactly as stored.
	if err := repo.Create(ctx, &User{Name: "C", Email: "DUP@example.com", Password: "h"}); err != nil {
		t.Errorf("Create() with different case error = %v", err)
	}
}

func TestUserRepository_NotFound(t *testing.T) {
	repo := NewUserRepository(testDB(t))
	ctx := context.Background()

	if _, err := repo.GetByID(ctx, 999); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("GetByID() error = %v, want ErrUserNotFound", err)
	}
	if _, err := repo.GetByEmail(ctx, "nobody@example.com"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("GetByEmail() error = %v, want ErrUserNotFound", err)
	}
}
