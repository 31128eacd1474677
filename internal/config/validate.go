package config

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	if c.Auth.BcryptCost < bcrypt.MinCost || c.Auth.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("auth.bcrypt_cost must be between %d and %d (got %d)", bcrypt.MinCost, bcrypt.MaxCost, c.Auth.BcryptCost)
	}

	if c.Auth.BootstrapUsername == "" {
		return fmt.Errorf("auth.bootstrap_username must not be empty")
	}

	if err := c.Inventory.validate(); err != nil {
		return fmt.Errorf("inventory: %w", err)
	}

	return nil
}

func (i *InventoryConfig) validate() error {
	if i.ExpiringWindowDays <= 0 {
		return fmt.Errorf("expiring_window_days must be > 0 (got %d)", i.ExpiringWindowDays)
	}
	if i.LowStockLimit <= 0 {
		return fmt.Errorf("low_stock_limit must be > 0 (got %d)", i.LowStockLimit)
	}
	if i.FeedRetentionDays <= 0 {
		return fmt.Errorf("feed_retention_days must be > 0 (got %d)", i.FeedRetentionDays)
	}

	categories := ParseCategories(i.CategoriesRaw)
	if len(categories) == 0 {
		return fmt.Errorf("categories must not be empty")
	}
	i.Categories = categories

	return nil
}

// ParseCategories parses a comma-separated category list, trimming
// whitespace and dropping empty entries.
func ParseCategories(raw string) []string {
	parts := strings.Split(raw, ",")
	categories := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		categories = append(categories, p)
	}
	return categories
}
