package docstore

import (
	"context"
	"log"

	"golang.org/x/crypto/bcrypt"

	"ironcraft/models"
)

// SeedAdmin creates the default admin contractor account if no account
// with the given email exists yet.
func SeedAdmin(ctx context.Context, store Store, email, password string) error {
	existing, err := store.List(ctx, models.ContractorCollection, Eq("email", email))
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := models.Contractor{
		Name:         "Administrator",
		Email:        email,
		PasswordHash: string(hash),
		Privilege:    models.PrivilegeAdmin,
	}
	if _, err := store.Create(ctx, models.ContractorCollection, NewID(), admin); err != nil {
		return err
	}
	log.Printf("Default admin account created (%s)", email)
	return nil
}
