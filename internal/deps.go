package internal

import (
	"bitwise74/event-api/internal/service"
	"bitwise74/event-api/internal/store"
	"bitwise74/event-api/pkg/security"

	"gorm.io/gorm"
)

// Deps are handed to every handler
type Deps struct {
	DB        *gorm.DB
	Store     *store.Store
	Argon     *security.ArgonHash
	Mailer    *service.Mailer
	Registrar *service.Registrar
	CheckIn   *service.CheckInService
	// Nil when storage is disabled
	Banners *service.BannerUploader
}
