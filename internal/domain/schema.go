package domain

// Имена колонок — фиксированный контракт с хранилищем. Витрины строятся
// выше по пайплайну, сервис зависит от них только по именам.
const (
	ColRepo                 = "REPO"
	ColWeekStart            = "WEEK_START"
	ColPRsOpened            = "PRS_OPENED"
	ColPRsMerged            = "PRS_MERGED"
	ColAvgCycleTimeHours    = "AVG_CYCLE_TIME_HOURS"
	ColAvgReviewTimeHours   = "AVG_REVIEW_TIME_HOURS"
	ColAvgLinesAdded        = "AVG_LINES_ADDED"
	ColAvgLinesDeleted      = "AVG_LINES_DELETED"
	ColReviewer             = "REVIEWER"
	ColPRsReviewed          = "PRS_REVIEWED"
	ColReviewerRankThisWeek = "REVIEWER_RANK_THIS_WEEK"
	ColTotalPRsReviewed     = "TOTAL_PRS_REVIEWED"
	ColAvgPRCycleTimeHours  = "AVG_PR_CYCLE_TIME_HOURS"
	ColAvgFilesChanged      = "AVG_FILES_CHANGED"
	ColFirstPRDate          = "FIRST_PR_DATE"
	ColLastPRDate           = "LAST_PR_DATE"
	ColDeployments          = "DEPLOYMENTS"
	ColAvgLeadTimeHours     = "AVG_LEAD_TIME_HOURS"
	ColChangeFailureRate    = "CHANGE_FAILURE_RATE"
	ColMTTRHours            = "MTTR_HOURS"
	ColPRID                 = "PR_ID"
	ColPRAuthor             = "PR_AUTHOR"
	ColCreatedAt            = "CREATED_AT"
	ColPRCycleTimeHours     = "PR_CYCLE_TIME_HOURS"
	ColLinesAdded           = "LINES_ADDED"
	ColLinesDeleted         = "LINES_DELETED"
	ColFilesChanged         = "FILES_CHANGED"
)

// Schema описывает ожидаемый набор колонок витрины.
// Валидация выполняется сразу после выборки, а не в глубине агрегации.
type Schema struct {
	Relation string
	Columns  []string
}

// Validate проверяет, что таблица содержит все колонки контракта.
func (s Schema) Validate(t *Table) error {
	var missing []string
	for _, col := range s.Columns {
		if !t.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return &SchemaError{Relation: s.Relation, Missing: missing}
	}
	return nil
}

var (
	RepoVelocitySchema = Schema{
		Relation: "repo_velocity",
		Columns: []string{
			ColRepo, ColWeekStart, ColPRsOpened, ColPRsMerged,
			ColAvgCycleTimeHours, ColAvgReviewTimeHours,
			ColAvgLinesAdded, ColAvgLinesDeleted,
		},
	}

	ReviewerLoadSchema = Schema{
		Relation: "reviewer_load",
		Columns: []string{
			ColReviewer, ColRepo, ColWeekStart, ColPRsReviewed,
			ColAvgReviewTimeHours, ColAvgLinesAdded, ColAvgLinesDeleted,
			ColReviewerRankThisWeek,
		},
	}

	PRReviewSummarySchema = Schema{
		Relation: "pr_review_summary",
		Columns: []string{
			ColRepo, ColReviewer, ColTotalPRsReviewed, ColAvgReviewTimeHours,
			ColAvgPRCycleTimeHours, ColAvgFilesChanged,
			ColAvgLinesAdded, ColAvgLinesDeleted, ColFirstPRDate, ColLastPRDate,
		},
	}

	DORAMetricsSchema = Schema{
		Relation: "dora_metrics_weekly",
		Columns: []string{
			ColRepo, ColWeekStart, ColDeployments, ColAvgLeadTimeHours,
			ColChangeFailureRate, ColMTTRHours,
		},
	}

	PRFactSchema = Schema{
		Relation: "fact_pr_cycle_time",
		Columns: []string{
			ColPRID, ColRepo, ColReviewer, ColPRAuthor, ColCreatedAt,
			ColPRCycleTimeHours, ColLinesAdded, ColLinesDeleted, ColFilesChanged,
		},
	}
)
