package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/KunimitsuMk2/mogikintai/internal/config"
	"github.com/KunimitsuMk2/mogikintai/internal/fixtures"
	"github.com/KunimitsuMk2/mogikintai/internal/pkg/database"
	"github.com/KunimitsuMk2/mogikintai/internal/pkg/logger"
	"github.com/KunimitsuMk2/mogikintai/internal/pkg/timeutil"
	"github.com/KunimitsuMk2/mogikintai/internal/repository/postgresql"
	correctionService "github.com/KunimitsuMk2/mogikintai/internal/service/correction"
)

func main() {
	monthFlag := flag.String("month", "", "month to seed as YYYY-MM (defaults to the previous month)")
	flag.Parse()

	if err := run(*monthFlag); err != nil {
		slog.Error("seed failed", "error", err)
		os.Exit(1)
	}
}

func run(monthFlag string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	slog.SetDefault(logger.New(os.Stdout, cfg.App.LogLevel, cfg.App.Env, "seed"))

	loc := cfg.App.Location()
	month, err := seedMonth(monthFlag, time.Now().In(loc))
	if err != nil {
		return err
	}

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
	if err != nil {
		return fmt.Errorf("error connecting to database: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("error running migrations: %w", err)
	}

	txManager := postgresql.NewTxManager(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	restTimeRepo := postgresql.NewRestTimeRepository(db)

	_, err = fixtures.Seed(ctx, fixtures.Deps{
		TxManager:         txManager,
		Users:             postgresql.NewUserRepository(db),
		Attendances:       attendanceRepo,
		RestTimes:         restTimeRepo,
		CorrectionService: correctionService.NewCorrectionService(txManager, postgresql.NewCorrectionRepository(db), attendanceRepo, restTimeRepo, loc, time.Now),
		Location:          loc,
	}, month)
	return err
}

func seedMonth(flagValue string, now time.Time) (time.Time, error) {
	if flagValue != "" {
		return timeutil.ParseYearMonth(flagValue)
	}
	first, _ := timeutil.MonthRange(now)
	return first.AddDate(0, -1, 0), nil
}
