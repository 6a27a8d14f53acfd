package bootstrap

import (
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"smartlib.id/backend/internal/model"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Role{},
		&model.User{},
		&model.Library{},
		&model.AccessRequest{},
		&model.Seat{},
		&model.SeatBooking{},
		&model.Book{},
		&model.BookReservation{},
		&model.Event{},
		&model.EventRegistration{},
		&model.Notification{},
		&model.ActivityLog{},
	)
}

func SeedRoles(db *gorm.DB) error {
	defaultRoles := []model.Role{
		{Name: "admin", Description: "System administrator"},
		{Name: "librarian", Description: "Library staff"},
		{Name: "member", Description: "Library member"},
	}

	for _, role := range defaultRoles {
		var count int64
		if err := db.Model(&model.Role{}).
			Where("name = ?", role.Name).
			Count(&count).Error; err != nil {
			return err
		}

		if count == 0 {
			if err := db.Create(&role).Error; err != nil {
				return err
			}
		}
	}

	return nil
}

// SeedAdminUser creates the bootstrap admin account if no user has it yet.
// The password is for local development; override it on first login.
func SeedAdminUser(db *gorm.DB) error {
	var adminRole model.Role
	if err := db.Where("name = ?", "admin").First(&adminRole).Error; err != nil {
		return err
	}

	var count int64
	if err := db.Model(&model.User{}).
		Where("email = ?", "admin@smartlib.id").
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := model.User{
		Email:        "admin@smartlib.id",
		FullName:     "Administrator",
		PasswordHash: string(hashed),
		RoleID:       &adminRole.ID,
	}
	return db.Create(&admin).Error
}

// SeedMainLibrary guarantees at least one branch exists so access requests
// have a target on a fresh database.
func SeedMainLibrary(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.Library{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	return db.Create(&model.Library{
		Name:    "Main Library",
		Address: "Jl. Perpustakaan No. 1",
	}).Error
}
