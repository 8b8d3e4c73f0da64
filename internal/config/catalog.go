package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// CatalogActivity активность из файла каталога
type CatalogActivity struct {
	Slug            string           `yaml:"slug"`
	Name            string           `yaml:"name"`
	Description     string           `yaml:"description"`
	Images          []string         `yaml:"images"`
	Price           float64          `yaml:"price"`
	OriginalPrice   *float64         `yaml:"original_price,omitempty"`
	Currency        string           `yaml:"currency"`
	DurationMinutes int              `yaml:"duration_minutes"`
	Featured        bool             `yaml:"featured"`
	Rating          float64          `yaml:"rating"`
	ReviewCount     int              `yaml:"review_count"`
	Active          *bool            `yaml:"active,omitempty"`
	Schedule        *CatalogSchedule `yaml:"schedule,omitempty"`
}

// CatalogSchedule расписание по умолчанию
type CatalogSchedule struct {
	Weekdays []int    `yaml:"weekdays"` // 0 = воскресенье
	Times    []string `yaml:"times"`    // "10:00"
	Seats    int      `yaml:"seats"`
}

// Catalog корень catalog.yaml
type Catalog struct {
	Activities []CatalogActivity `yaml:"activities"`
}

// LoadCatalog читает и проверяет каталог активностей.
// Поля активностей валидирует сервис при создании, здесь только структура файла.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate catalog: %w", err)
	}

	return &c, nil
}

// Validate проверяет, что slug заданы и не повторяются
func (c *Catalog) Validate() error {
	if len(c.Activities) == 0 {
		return errors.New("no activities defined")
	}

	seen := make(map[string]struct{}, len(c.Activities))
	for i, a := range c.Activities {
		if a.Slug == "" {
			return fmt.Errorf("activity #%d: slug is required", i+1)
		}
		if _, ok := seen[a.Slug]; ok {
			return fmt.Errorf("activity %q: duplicate slug", a.Slug)
		}
		seen[a.Slug] = struct{}{}
	}
	return nil
}
