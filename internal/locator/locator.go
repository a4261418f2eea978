package locator

import (
	"context"
	"fmt"

	"faculty-locator-backend/config"
	"faculty-locator-backend/internal/model"
)

// Source resolves the current whereabouts of a faculty member.
type Source interface {
	ResolveLocation(ctx context.Context, facultyID string) (string, error)
}

// New builds the source selected by cfg.Mode. It returns nil for mode "none".
func New(cfg config.LocationConfig, members []model.FacultyMember, buildings []model.Building) (Source, error) {
	switch cfg.Mode {
	case config.LocationModeNone:
		return nil, nil
	case config.LocationModeStatic, "":
		return NewStaticSource(cfg.Static, members, buildings), nil
	case config.LocationModeHTTP:
		if cfg.HTTP.URL == "" {
			return nil, fmt.Errorf("location.http.url is required in http mode")
		}
		return NewHTTPSource(cfg.HTTP), nil
	default:
		return nil, fmt.Errorf("unsupported location mode %q", cfg.Mode)
	}
}
