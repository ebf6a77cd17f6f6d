/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"github.com/friendsincode/bragi_cms/internal/auth"
	"github.com/friendsincode/bragi_cms/internal/db"
	"github.com/friendsincode/bragi_cms/internal/models"
	"github.com/friendsincode/bragi_cms/internal/schedule"
)

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load stations, programs, and users from a YAML fixture file",
	Long: `Seed the database from a YAML fixture file.

Existing rows are matched by name (stations, programs) or email (users) and
skipped, so re-running seed against a populated database is safe.

Example fixture:

  users:
    - email: admin@example.com
      password: change-me-now
      display_name: Admin
      role: admin
  stations:
    - name: North FM
      frequency: "101.5 FM"
      timezone: Europe/Oslo
      programs:
        - name: Morning Drive
          days: [1, 2, 3, 4, 5]
          start_time: "06:00"
          end_time: "09:00"
`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "seed.yml", "Path to the YAML fixture file")
	rootCmd.AddCommand(seedCmd)
}

type seedFixture struct {
	Users    []seedUser    `yaml:"users"`
	Stations []seedStation `yaml:"stations"`
}

type seedUser struct {
	Email       string `yaml:"email"`
	Password    string `yaml:"password"`
	DisplayName string `yaml:"display_name"`
	Role        string `yaml:"role"`
}

type seedStation struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description"`
	Frequency   string        `yaml:"frequency"`
	Timezone    string        `yaml:"timezone"`
	Public      *bool         `yaml:"public"`
	Programs    []seedProgram `yaml:"programs"`
}

type seedProgram struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Days        []int  `yaml:"days"`
	StartTime   string `yaml:"start_time"`
	EndTime     string `yaml:"end_time"`
	Active      *bool  `yaml:"active"`
}

func runSeed(cmd *cobra.Command, args []string) error {
	if err := loadConfig(); err != nil {
		return err
	}

	raw, err := os.ReadFile(seedFile)
	if err != nil {
		return fmt.Errorf("read fixture %s: %w", seedFile, err)
	}

	var fixture seedFixture
	if err := yaml.Unmarshal(raw, &fixture); err != nil {
		return fmt.Errorf("parse fixture: %w", err)
	}

	database, err := initDatabase()
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer func() { _ = db.Close(database) }()

	if err := db.Migrate(database); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	var created, skipped int

	for _, u := range fixture.Users {
		email := strings.ToLower(strings.TrimSpace(u.Email))
		if email == "" || u.Password == "" {
			return fmt.Errorf("user fixture needs email and password")
		}

		var count int64
		database.Model(&models.User{}).Where("email = ?", email).Count(&count)
		if count > 0 {
			skipped++
			continue
		}

		hashed, err := auth.HashPassword(u.Password)
		if err != nil {
			return fmt.Errorf("hash password for %s: %w", email, err)
		}

		role := models.RoleName(u.Role)
		switch role {
		case models.RoleAdmin, models.RoleEditor, models.RoleDJ:
		default:
			return fmt.Errorf("user %s: unknown role %q", email, u.Role)
		}

		user := models.User{
			ID:          uuid.NewString(),
			Email:       email,
			Password:    hashed,
			DisplayName: u.DisplayName,
			Role:        role,
		}
		if err := database.Create(&user).Error; err != nil {
			return fmt.Errorf("create user %s: %w", email, err)
		}
		created++
	}

	for _, st := range fixture.Stations {
		stationID, err := seedOneStation(database, st)
		if err != nil {
			return err
		}
		if stationID == "" {
			skipped++
			continue
		}
		created++

		for _, p := range st.Programs {
			ok, err := seedOneProgram(database, stationID, p)
			if err != nil {
				return fmt.Errorf("station %s: %w", st.Name, err)
			}
			if ok {
				created++
			} else {
				skipped++
			}
		}
	}

	logger.Info().Int("created", created).Int("skipped", skipped).Msg("seed complete")
	return nil
}

// seedOneStation creates the station unless one with the same name exists.
// Returns the new station's ID, or "" when skipped.
func seedOneStation(database *gorm.DB, st seedStation) (string, error) {
	if strings.TrimSpace(st.Name) == "" {
		return "", fmt.Errorf("station fixture needs a name")
	}

	var existing models.Station
	err := database.First(&existing, "name = ?", st.Name).Error
	if err == nil {
		return "", nil
	}

	timezone := st.Timezone
	if timezone == "" {
		timezone = "UTC"
	}
	public := true
	if st.Public != nil {
		public = *st.Public
	}

	station := models.Station{
		ID:          uuid.NewString(),
		Name:        st.Name,
		Slug:        models.Slugify(st.Name),
		Description: st.Description,
		Frequency:   st.Frequency,
		Timezone:    timezone,
		Public:      public,
	}
	if err := database.Create(&station).Error; err != nil {
		return "", fmt.Errorf("create station %s: %w", st.Name, err)
	}
	return station.ID, nil
}

func seedOneProgram(database *gorm.DB, stationID string, p seedProgram) (bool, error) {
	if strings.TrimSpace(p.Name) == "" {
		return false, fmt.Errorf("program fixture needs a name")
	}

	var count int64
	database.Model(&models.Program{}).
		Where("station_id = ? AND name = ?", stationID, p.Name).
		Count(&count)
	if count > 0 {
		return false, nil
	}

	spec, err := schedule.NewSpec(p.Days, p.StartTime, p.EndTime)
	if err != nil {
		return false, fmt.Errorf("program %s: %w", p.Name, err)
	}

	active := true
	if p.Active != nil {
		active = *p.Active
	}

	program := models.Program{
		ID:              uuid.NewString(),
		StationID:       stationID,
		Name:            p.Name,
		Slug:            models.Slugify(p.Name),
		Description:     p.Description,
		Days:            spec.Days.Days(),
		StartTime:       spec.StartTime,
		EndTime:         spec.EndTime,
		DurationMinutes: spec.DurationMinutes(),
		Active:          active,
	}
	if err := database.Create(&program).Error; err != nil {
		return false, fmt.Errorf("create program %s: %w", p.Name, err)
	}
	return true, nil
}
