package services

import (
	"context"
	"errors"
	"slices"

	apperrors "github.com/abrezinsky/sportsday/internal/errors"
	"github.com/abrezinsky/sportsday/internal/logger"
	"github.com/abrezinsky/sportsday/internal/repository"
	"github.com/abrezinsky/sportsday/internal/scoring"
)

// Setting keys
const (
	SettingScoringTable  = "scoring_table"
	SettingRankingPolicy = "ranking_policy"
	SettingBaseURL       = "base_url"
	SettingSiteTitle     = "site_title"
)

// ScoringDefaults are used when the stored scoring settings are missing or
// name something that no longer exists
type ScoringDefaults struct {
	Table  string
	Policy scoring.RankingPolicy
}

// SettingsService handles settings-related business logic
type SettingsService struct {
	log      logger.Logger
	repo     repository.SettingsRepository
	tables   []scoring.ScoringTable
	defaults ScoringDefaults
}

// NewSettingsService creates a new SettingsService. tables lists every
// scoring table that may be selected.
func NewSettingsService(log logger.Logger, repo repository.SettingsRepository, tables []scoring.ScoringTable, defaults ScoringDefaults) *SettingsService {
	if len(tables) == 0 {
		tables = scoring.Tables()
	}
	if defaults.Table == "" {
		defaults.Table = scoring.DefaultScoringTable.Name
	}
	if !defaults.Policy.Valid() {
		defaults.Policy = scoring.PolicyZeroSentinel
	}
	return &SettingsService{log: log, repo: repo, tables: tables, defaults: defaults}
}

func (s *SettingsService) lookupTable(name string) (scoring.ScoringTable, bool) {
	return scoring.TableByName(name, s.tables...)
}

// ScoringTables returns the tables that may be selected
func (s *SettingsService) ScoringTables() []scoring.ScoringTable {
	return slices.Clone(s.tables)
}

// ScoringTable returns the active scoring table
func (s *SettingsService) ScoringTable(ctx context.Context) (scoring.ScoringTable, error) {
	name, err := s.repo.GetSetting(ctx, SettingScoringTable)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return scoring.ScoringTable{}, err
		}
		name = s.defaults.Table
	}
	if t, ok := s.lookupTable(name); ok {
		return t, nil
	}
	s.log.Warn("Stored scoring table is unknown, using default", "table", name, "default", s.defaults.Table)
	if t, ok := s.lookupTable(s.defaults.Table); ok {
		return t, nil
	}
	return scoring.DefaultScoringTable, nil
}

// SetScoringTable selects the active scoring table by name
func (s *SettingsService) SetScoringTable(ctx context.Context, name string) error {
	if _, ok := s.lookupTable(name); !ok {
		return apperrors.Validationf("unknown scoring table %q", name)
	}
	return s.repo.SetSetting(ctx, SettingScoringTable, name)
}

// RankingPolicy returns the active ranking policy
func (s *SettingsService) RankingPolicy(ctx context.Context) (scoring.RankingPolicy, error) {
	value, err := s.repo.GetSetting(ctx, SettingRankingPolicy)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return s.defaults.Policy, nil
		}
		return "", err
	}
	p := scoring.RankingPolicy(value)
	if !p.Valid() {
		s.log.Warn("Stored ranking policy is unknown, using default", "policy", value, "default", s.defaults.Policy)
		return s.defaults.Policy, nil
	}
	return p, nil
}

// SetRankingPolicy selects how standings are ranked
func (s *SettingsService) SetRankingPolicy(ctx context.Context, policy scoring.RankingPolicy) error {
	if !policy.Valid() {
		return apperrors.Validationf("unknown ranking policy %q", policy)
	}
	return s.repo.SetSetting(ctx, SettingRankingPolicy, string(policy))
}

// BaseURL returns the application base URL
func (s *SettingsService) BaseURL(ctx context.Context) (string, error) {
	value, err := s.repo.GetSetting(ctx, SettingBaseURL)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil
		}
		return "", err
	}
	return value, nil
}

// SetBaseURL saves the application base URL
func (s *SettingsService) SetBaseURL(ctx context.Context, url string) error {
	return s.repo.SetSetting(ctx, SettingBaseURL, url)
}

// SiteTitle returns the title shown on public pages
func (s *SettingsService) SiteTitle(ctx context.Context) (string, error) {
	value, err := s.repo.GetSetting(ctx, SettingSiteTitle)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "Sports Day", nil
		}
		return "", err
	}
	return value, nil
}

// GetSetting retrieves an arbitrary setting
func (s *SettingsService) GetSetting(ctx context.Context, key string) (string, error) {
	return s.repo.GetSetting(ctx, key)
}

// SetSetting saves an arbitrary setting
func (s *SettingsService) SetSetting(ctx context.Context, key, value string) error {
	return s.repo.SetSetting(ctx, key, value)
}

// AllSettings returns commonly used settings as a map
func (s *SettingsService) AllSettings(ctx context.Context) (map[string]interface{}, error) {
	settings := make(map[string]interface{})

	table, err := s.ScoringTable(ctx)
	if err != nil {
		return nil, err
	}
	settings[SettingScoringTable] = table.Name

	policy, err := s.RankingPolicy(ctx)
	if err != nil {
		return nil, err
	}
	settings[SettingRankingPolicy] = policy

	baseURL, _ := s.BaseURL(ctx)
	settings[SettingBaseURL] = baseURL

	title, _ := s.SiteTitle(ctx)
	settings[SettingSiteTitle] = title

	names := make([]string, len(s.tables))
	for i, t := range s.tables {
		names[i] = t.Name
	}
	settings["scoring_tables"] = names
	settings["ranking_policies"] = []scoring.RankingPolicy{scoring.PolicyZeroSentinel, scoring.PolicyDense}

	return settings, nil
}

// Settings represents application settings for update operations
type Settings struct {
	BaseURL       string `json:"base_url"`
	SiteTitle     string `json:"site_title"`
	ScoringTable  string `json:"scoring_table"`
	RankingPolicy string `json:"ranking_policy"`
}

// UpdateSettings updates multiple settings at once. Empty fields are left
// unchanged.
func (s *SettingsService) UpdateSettings(ctx context.Context, settings Settings) error {
	if settings.ScoringTable != "" {
		if err := s.SetScoringTable(ctx, settings.ScoringTable); err != nil {
			return err
		}
	}
	if settings.RankingPolicy != "" {
		if err := s.SetRankingPolicy(ctx, scoring.RankingPolicy(settings.RankingPolicy)); err != nil {
			return err
		}
	}
	if settings.BaseURL != "" {
		if err := s.SetBaseURL(ctx, settings.BaseURL); err != nil {
			return err
		}
	}
	if settings.SiteTitle != "" {
		if err := s.SetSetting(ctx, SettingSiteTitle, settings.SiteTitle); err != nil {
			return err
		}
	}
	return nil
}

// ResetTablesResult contains the result of a database reset
type ResetTablesResult struct {
	Tables  []string `json:"tables"`
	Message string   `json:"message"`
}

// ValidTables defines which tables can be reset
var ValidTables = map[string]bool{
	"events": true,
}

// ResetTables validates and resets the specified database tables
func (s *SettingsService) ResetTables(ctx context.Context, tables []string) (*ResetTablesResult, error) {
	if len(tables) == 0 {
		return nil, ErrNoTablesSpecified
	}

	for _, table := range tables {
		if !ValidTables[table] {
			return nil, &InvalidTableError{Table: table}
		}
	}

	for _, table := range tables {
		if err := s.repo.ClearTable(ctx, table); err != nil {
			return nil, err
		}
		s.log.Info("Table cleared", "table", table)
	}

	return &ResetTablesResult{
		Tables:  tables,
		Message: "Successfully deleted data from tables",
	}, nil
}

// Stats returns store statistics for the admin dashboard
func (s *SettingsService) Stats(ctx context.Context) (map[string]interface{}, error) {
	return s.repo.GetStats(ctx)
}
