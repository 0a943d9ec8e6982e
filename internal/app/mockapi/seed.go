package mockapi

import (
	"context"
	"fmt"
	"log/slog"

	catalog "github.com/Apurer/gamestore-client/internal/domains/catalog/domain"
	users "github.com/Apurer/gamestore-client/internal/domains/users/domain"
)

var sampleGames = []catalog.GameInput{
	{Title: "Starfall Tactics", Description: "Turn-based squad combat across a dying star system.", Price: 29.99, Genre: "Strategy", Platform: "PC"},
	{Title: "Lantern Road", Description: "A cozy walking adventure through a village of paper lights.", Price: 14.99, Genre: "Adventure", Platform: "Switch"},
	{Title: "Iron Circuit", Description: "Arcade racing on magnetic tracks.", Price: 39.99, Genre: "Racing", Platform: "PlayStation"},
	{Title: "Hollow Deep", Description: "Roguelike dungeon dives with a persistent town.", Price: 19.99, Genre: "RPG", Platform: "PC"},
}

// Seed creates the admin account and, when enabled, the sample catalog.
// It is safe to call more than once for the admin account.
func (s *Server) Seed(ctx context.Context) error {
	admin, err := s.users.EnsureAdmin(ctx, users.Registration{
		Username: "admin",
		Email:    s.cfg.AdminEmail,
		Password: s.cfg.AdminPassword,
	})
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "admin account ready", slog.String("user.email", admin.Email))

	if !s.cfg.SeedGames {
		return nil
	}
	existing, err := s.catalog.List(ctx)
	if err != nil {
		return fmt.Errorf("seed games: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}
	for _, input := range sampleGames {
		if _, err := s.catalog.Create(ctx, input, ""); err != nil {
			return fmt.Errorf("seed game %q: %w", input.Title, err)
		}
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "sample games seeded", slog.Int("games.count", len(sampleGames)))
	return nil
}
