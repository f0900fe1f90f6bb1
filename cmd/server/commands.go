package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"laborcontract/internal/domain/auth"
	"laborcontract/internal/domain/wage"
	"laborcontract/internal/platform/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if strings.TrimSpace(cfg.DatabaseURL) == "" {
			return fmt.Errorf("DATABASE_URL is required")
		}
		pool, err := db.Connect(cmd.Context(), cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer pool.Close()
		applied, err := db.Migrate(cmd.Context(), pool, cfg.MigrationsDir)
		if err != nil {
			return err
		}
		zap.L().Info("migrations complete", zap.Int("applied", applied))
		return nil
	},
}

var allowanceFlags struct {
	kind           string
	hourlyWage     string
	hours          string
	days           string
	dailyWorkHours string
	smallWorkplace bool
}

var allowanceCmd = &cobra.Command{
	Use:   "allowance",
	Short: "Compute an overtime, holiday or annual leave allowance",
	Example: `  laborcontract allowance --type overtime --hourly-wage 11000 --hours 8
  laborcontract allowance --type annualLeave --hourly-wage 11000 --daily-hours 8 --days 10`,
	RunE: func(cmd *cobra.Command, args []string) error {
		parse := func(name, raw string) (decimal.Decimal, error) {
			if strings.TrimSpace(raw) == "" {
				return decimal.Zero, nil
			}
			value, err := decimal.NewFromString(raw)
			if err != nil {
				return decimal.Zero, fmt.Errorf("--%s: %w", name, err)
			}
			return value, nil
		}
		hourly, err := parse("hourly-wage", allowanceFlags.hourlyWage)
		if err != nil {
			return err
		}
		hours, err := parse("hours", allowanceFlags.hours)
		if err != nil {
			return err
		}
		days, err := parse("days", allowanceFlags.days)
		if err != nil {
			return err
		}
		daily, err := parse("daily-hours", allowanceFlags.dailyWorkHours)
		if err != nil {
			return err
		}
		req, err := wage.NewRequest(allowanceFlags.kind, hours, days)
		if err != nil {
			return err
		}
		result, err := wage.Compute(wage.Params{
			HourlyWage:     hourly,
			DailyWorkHours: daily,
			SmallWorkplace: allowanceFlags.smallWorkplace,
		}, req)
		if err != nil {
			return err
		}
		return printJSON(cmd, result)
	},
}

var floorFlags struct {
	year       int
	weekly     bool
	hourlyWage int64
}

var floorCmd = &cobra.Command{
	Use:   "floor",
	Short: "Show the minimum hourly wage floor for a year",
	RunE: func(cmd *cobra.Command, args []string) error {
		table := wage.DefaultTable()
		if cfg.MinimumWageFile != "" {
			loaded, err := wage.LoadTable(cfg.MinimumWageFile)
			if err != nil {
				return err
			}
			table = loaded
		}
		year := floorFlags.year
		if year == 0 {
			year = time.Now().Year()
		}
		base := table.BaseFor(year)
		out := map[string]any{
			"year":                    year,
			"baseMinimumWage":         base.Hourly,
			"includeWeeklyHolidayPay": floorFlags.weekly,
			"floor":                   wage.EffectiveFloor(base.Hourly, floorFlags.weekly),
		}
		if floorFlags.hourlyWage > 0 {
			err := wage.CheckCompliance(floorFlags.hourlyWage, base.Hourly, floorFlags.weekly)
			out["compliant"] = err == nil
			if err != nil {
				out["reason"] = err.Error()
			}
		}
		return printJSON(cmd, out)
	},
}

var tokenFlags struct {
	userID string
	role   string
	ttl    time.Duration
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a bearer token for local testing",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.IsProduction() {
			return fmt.Errorf("token minting is disabled in production")
		}
		if cfg.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required")
		}
		role, ok := auth.ParseRole(tokenFlags.role)
		if !ok {
			return fmt.Errorf("--role must be employer or worker")
		}
		if strings.TrimSpace(tokenFlags.userID) == "" {
			return fmt.Errorf("--user is required")
		}
		token, err := auth.GenerateToken(cfg.JWTSecret, auth.Claims{UserID: tokenFlags.userID, Role: role}, tokenFlags.ttl)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func printJSON(cmd *cobra.Command, value any) error {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(value)
}

func init() {
	allowanceCmd.Flags().StringVar(&allowanceFlags.kind, "type", "overtime", "overtime, holiday or annualLeave")
	allowanceCmd.Flags().StringVar(&allowanceFlags.hourlyWage, "hourly-wage", "", "hourly wage in KRW")
	allowanceCmd.Flags().StringVar(&allowanceFlags.hours, "hours", "", "overtime or holiday hours")
	allowanceCmd.Flags().StringVar(&allowanceFlags.days, "days", "", "unused annual leave days")
	allowanceCmd.Flags().StringVar(&allowanceFlags.dailyWorkHours, "daily-hours", "", "contracted hours per day")
	allowanceCmd.Flags().BoolVar(&allowanceFlags.smallWorkplace, "small-workplace", false, "workplace with fewer than five employees")
	_ = allowanceCmd.MarkFlagRequired("hourly-wage")

	floorCmd.Flags().IntVar(&floorFlags.year, "year", 0, "calendar year (default current year)")
	floorCmd.Flags().BoolVar(&floorFlags.weekly, "weekly-holiday-pay", false, "wage already includes weekly holiday pay")
	floorCmd.Flags().Int64Var(&floorFlags.hourlyWage, "hourly-wage", 0, "hourly wage to check against the floor")

	tokenCmd.Flags().StringVar(&tokenFlags.userID, "user", "", "user id placed in the uid claim")
	tokenCmd.Flags().StringVar(&tokenFlags.role, "role", "employer", "employer or worker")
	tokenCmd.Flags().DurationVar(&tokenFlags.ttl, "ttl", 24*time.Hour, "token lifetime")
}
