// Package cfg holds the application-level configuration for the wrench
// server. Ambient concerns (HTTP server, logging, ops endpoints, tracing)
// carry their own Config structs from go-core.
package cfg

import (
	"errors"
	"flag"
	"fmt"
	"unicode/utf8"
)

// Config adds wrench-specific configuration fields to the common
// cfg.Registerable and cfg.Validatable interfaces.
type Config struct {
	DrainSeconds          int
	ShutdownBudgetSeconds int
	APIPort               int
	DatabaseURL           string
	VPICEndpoint          string
	ReviewerToken         string

	// Due-soon lookahead thresholds. Zero disables the dimension.
	DueSoonMiles    int
	DueSoonMonths   int
	OilDueSoonMiles int

	// Status bullets for bulk rendering.
	BulletDueNow  string
	BulletDueSoon string
	BulletOK      string
}

// RegisterFlags binds Config fields to the given FlagSet with defaults inline.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.DrainSeconds, "drain-seconds", 60, "seconds to wait for in-flight requests to drain before shutdown (1..300)")
	fs.IntVar(&c.ShutdownBudgetSeconds, "shutdown-budget-seconds", 90, "total seconds for component shutdown after drain (1..300)")
	fs.IntVar(&c.APIPort, "http-port", 8080, "API listen TCP port (1..65535)")
	fs.StringVar(&c.DatabaseURL, "database-url", "", "PostgreSQL connection URL (empty = in-memory store)")
	fs.StringVar(&c.VPICEndpoint, "vpic-endpoint", "https://vpic.nhtsa.dot.gov", "NHTSA vPIC API base URL for VIN decoding")
	fs.StringVar(&c.ReviewerToken, "reviewer-token", "", "bearer token guarding the manager review endpoints")
	fs.IntVar(&c.DueSoonMiles, "due-soon-miles", 5000, "mileage lookahead for due-soon status (0..50000, 0 disables)")
	fs.IntVar(&c.DueSoonMonths, "due-soon-months", 6, "calendar lookahead for due-soon status (0..24 months, 0 disables)")
	fs.IntVar(&c.OilDueSoonMiles, "oil-due-soon-miles", 1500, "tighter mileage lookahead for engine oil (0..50000, 0 disables)")
	fs.StringVar(&c.BulletDueNow, "bullet-due-now", "•", "bulk-text bullet for due-now lines (1..3 characters)")
	fs.StringVar(&c.BulletDueSoon, "bullet-due-soon", "?", "bulk-text bullet for due-soon lines (1..3 characters)")
	fs.StringVar(&c.BulletOK, "bullet-ok", "–", "bulk-text bullet for ok lines (1..3 characters)")
}

// Validate checks all configuration fields for correctness.
// It returns an error if any field is invalid, or nil if all fields are valid.
func (c *Config) Validate() error {
	var errs []error

	// Drain and shutdown budgets
	if c.DrainSeconds <= 0 || c.DrainSeconds > 300 {
		errs = append(errs, fmt.Errorf("invalid DRAIN_SECONDS %d (must be 1..300)", c.DrainSeconds))
	}
	if c.ShutdownBudgetSeconds <= 0 || c.ShutdownBudgetSeconds > 300 {
		errs = append(errs, fmt.Errorf("invalid SHUTDOWN_BUDGET_SECONDS %d (must be 1..300)", c.ShutdownBudgetSeconds))
	}

	// Shutdown budget must be greater than drain time
	if c.ShutdownBudgetSeconds <= c.DrainSeconds {
		errs = append(errs, fmt.Errorf("SHUTDOWN_BUDGET_SECONDS %d must be greater than DRAIN_SECONDS %d", c.ShutdownBudgetSeconds, c.DrainSeconds))
	}

	// API port must be valid TCP port number
	if c.APIPort <= 0 || c.APIPort > 65535 {
		errs = append(errs, fmt.Errorf("invalid HTTP_PORT %d (must be 1..65535)", c.APIPort))
	}

	// vPIC endpoint is required for VIN decoding
	if c.VPICEndpoint == "" {
		errs = append(errs, errors.New("VPIC_ENDPOINT is required"))
	}

	// Reviewer token guards the review surface
	if c.ReviewerToken == "" {
		errs = append(errs, errors.New("REVIEWER_TOKEN is required"))
	}

	if c.DueSoonMiles < 0 || c.DueSoonMiles > 50000 {
		errs = append(errs, fmt.Errorf("invalid DUE_SOON_MILES %d (must be 0..50000)", c.DueSoonMiles))
	}
	if c.DueSoonMonths < 0 || c.DueSoonMonths > 24 {
		errs = append(errs, fmt.Errorf("invalid DUE_SOON_MONTHS %d (must be 0..24)", c.DueSoonMonths))
	}
	if c.OilDueSoonMiles < 0 || c.OilDueSoonMiles > 50000 {
		errs = append(errs, fmt.Errorf("invalid OIL_DUE_SOON_MILES %d (must be 0..50000)", c.OilDueSoonMiles))
	}

	for _, b := range []struct {
		name  string
		value string
	}{
		{"BULLET_DUE_NOW", c.BulletDueNow},
		{"BULLET_DUE_SOON", c.BulletDueSoon},
		{"BULLET_OK", c.BulletOK},
	} {
		if n := utf8.RuneCountInString(b.value); n < 1 || n > 3 {
			errs = append(errs, fmt.Errorf("invalid %s %q (must be 1..3 characters)", b.name, b.value))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
