package dto

import (
	"strings"

	"github.com/fekuna/omnipos-admin-console/internal/apperr"
	"github.com/fekuna/omnipos-admin-console/internal/backend"
)

// BannerInput is the add/edit banner form. A nil Image keeps the current
// image on edit.
type BannerInput struct {
	Title       string
	Description string
	Image       *backend.ImageUpload
	ProductID   string
}

func (in *BannerInput) Validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return apperr.InvalidErr("title", "Please enter a banner title")
	}
	return nil
}
