package repository_test

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"eng-analytics-service/internal/database"
	"eng-analytics-service/internal/domain"
	"eng-analytics-service/internal/repository"
	"eng-analytics-service/internal/warehouse"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type WarehouseRepositoryTestSuite struct {
	suite.Suite
	db      *sql.DB
	gateway *warehouse.Client
	repo    domain.WarehouseRepository
	ctx     context.Context
}

func (suite *WarehouseRepositoryTestSuite) SetupSuite() {
	suite.ctx = context.Background()

	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		"postgres", "password", "localhost", "5433", "analytics_test",
	)

	var err error
	suite.db, err = sql.Open("pgx", dsn)
	if err != nil {
		log.Fatalf("Failed to connect to test database: %v", err)
	}

	err = suite.db.Ping()
	if err != nil {
		log.Fatalf("Failed to ping test database: %v", err)
	}

	if err := database.MigrateDB(suite.db); err != nil {
		log.Fatalf("Failed to migrate test database: %v", err)
	}

	logger := logrus.New()
	suite.gateway = warehouse.NewClient(suite.db, 600*time.Second, logger)
	suite.repo = repository.NewWarehouseRepository(suite.gateway)
}

func (suite *WarehouseRepositoryTestSuite) SetupTest() {
	suite.cleanDatabase()
	suite.setupTestData()
	suite.gateway.InvalidateCache()
}

func (suite *WarehouseRepositoryTestSuite) TearDownSuite() {
	if suite.db != nil {
		suite.db.Close()
	}
}

func (suite *WarehouseRepositoryTestSuite) cleanDatabase() {
	tables := []string{"fact_pr_cycle_time", "dora_metrics_weekly", "pr_review_summary", "reviewer_load", "repo_velocity"}
	for _, table := range tables {
		_, err := suite.db.ExecContext(suite.ctx, fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			log.Printf("Failed to clean table %s: %v", table, err)
		}
	}
}

func (suite *WarehouseRepositoryTestSuite) setupTestData() {
	statements := []string{
		`INSERT INTO repo_velocity (repo, week_start, prs_opened, prs_merged, avg_cycle_time_hours, avg_review_time_hours, avg_lines_added, avg_lines_deleted)
		 VALUES ('alpha', '2024-01-01', 5, 4, 20.5, 6.0, 120, 40),
		        ('alpha', '2024-01-08', 7, 6, 18.0, 5.5, 140, 50),
		        ('beta',  '2024-01-08', 3, 2, 30.0, 9.0, 300, 80)`,
		`INSERT INTO reviewer_load (reviewer, repo, week_start, prs_reviewed, avg_review_time_hours, avg_lines_added, avg_lines_deleted, reviewer_rank_this_week)
		 VALUES ('alice', 'alpha', '2024-01-08', 6, 4.0, 120, 30, 1),
		        ('bob',   'beta',  '2024-01-08', 2, 8.0, 250, 60, 2)`,
		`INSERT INTO pr_review_summary (repo, reviewer, total_prs_reviewed, avg_review_time_hours, avg_pr_cycle_time_hours, avg_files_changed, avg_lines_added, avg_lines_deleted, first_pr_date, last_pr_date)
		 VALUES ('alpha', 'alice', 42, 4.2, 19.0, 5.5, 130, 35, '2023-06-01', '2024-01-08')`,
		`INSERT INTO dora_metrics_weekly (repo, week_start, deployments, avg_lead_time_hours, change_failure_rate, mttr_hours)
		 VALUES ('alpha', '2024-01-01', 5, 10.0, 0.1, 1.0),
		        ('alpha', '2024-01-08', 7, 12.0, 0.2, 2.0)`,
		`INSERT INTO fact_pr_cycle_time (pr_id, repo, reviewer, pr_author, created_at, pr_cycle_time_hours, lines_added, lines_deleted, files_changed)
		 VALUES ('pr-1', 'alpha', 'alice', 'carol', '2024-01-10T12:00:00Z', 14.5, 100, 20, 3),
		        ('pr-2', 'beta',  'bob',   'dave',  '2024-01-11T09:00:00Z', 33.0, 300, 60, 7)`,
	}
	for _, stmt := range statements {
		if _, err := suite.db.ExecContext(suite.ctx, stmt); err != nil {
			log.Printf("Failed to seed test data: %v", err)
		}
	}
}

func (suite *WarehouseRepositoryTestSuite) TestGetRepoVelocity() {
	table, err := suite.repo.GetRepoVelocity(suite.ctx)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 3, table.NumRows())

	// Имена колонок нормализованы к верхнему регистру
	assert.True(suite.T(), table.HasColumn("REPO"))
	assert.True(suite.T(), table.HasColumn("WEEK_START"))
	assert.True(suite.T(), table.HasColumn("PRS_OPENED"))

	// Сортировка по неделе задана самим запросом
	first, ok := table.TimeAt(0, "WEEK_START")
	assert.True(suite.T(), ok)
	last, ok := table.TimeAt(table.NumRows()-1, "WEEK_START")
	assert.True(suite.T(), ok)
	assert.False(suite.T(), last.Before(first))
}

func (suite *WarehouseRepositoryTestSuite) TestGetReviewerLoad() {
	table, err := suite.repo.GetReviewerLoad(suite.ctx)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 2, table.NumRows())
	assert.ElementsMatch(suite.T(), []string{"alice", "bob"}, table.DistinctStrings("REVIEWER"))
}

func (suite *WarehouseRepositoryTestSuite) TestGetPRFacts() {
	table, err := suite.repo.GetPRFacts(suite.ctx)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 2, table.NumRows())

	cycle, ok := table.Float64At(0, "PR_CYCLE_TIME_HOURS")
	assert.True(suite.T(), ok)
	assert.Greater(suite.T(), cycle, 0.0)
}

func (suite *WarehouseRepositoryTestSuite) TestGetDORAMetrics_Empty() {
	suite.cleanDatabase()
	suite.gateway.InvalidateCache()

	table, err := suite.repo.GetDORAMetrics(suite.ctx)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 0, table.NumRows())
}

func (suite *WarehouseRepositoryTestSuite) TestCache_ServesStaleWithinWindow() {
	table, err := suite.repo.GetRepoVelocity(suite.ctx)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 3, table.NumRows())

	// Новая строка попала в хранилище после первого запроса
	_, err = suite.db.ExecContext(suite.ctx,
		`INSERT INTO repo_velocity (repo, week_start, prs_opened, prs_merged)
		 VALUES ('gamma', '2024-01-15', 1, 1)`)
	assert.NoError(suite.T(), err)

	// В пределах окна свежести отдается закэшированный результат
	cached, err := suite.repo.GetRepoVelocity(suite.ctx)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 3, cached.NumRows())

	// После сброса кэша виден актуальный срез
	suite.gateway.InvalidateCache()
	fresh, err := suite.repo.GetRepoVelocity(suite.ctx)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 4, fresh.NumRows())
}

func (suite *WarehouseRepositoryTestSuite) TestCache_Stats() {
	suite.gateway.InvalidateCache()
	assert.Equal(suite.T(), 0, suite.gateway.CacheStats().Entries)

	_, err := suite.repo.GetRepoVelocity(suite.ctx)
	assert.NoError(suite.T(), err)
	_, err = suite.repo.GetReviewerLoad(suite.ctx)
	assert.NoError(suite.T(), err)

	assert.Equal(suite.T(), 2, suite.gateway.CacheStats().Entries)
}

func TestWarehouseRepositoryTestSuite(t *testing.T) {
	if os.Getenv("RUN_INTEGRATION_TESTS") != "1" {
		t.Skip("Skipping integration test. Set RUN_INTEGRATION_TESTS=1 to run.")
	}
	suite.Run(t, new(WarehouseRepositoryTestSuite))
}
