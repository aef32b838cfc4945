package usecase

import (
	"errors"
	"testing"

	"github.com/launchforge/accelerator-api/internal/domain/evaluation"
	"github.com/launchforge/accelerator-api/internal/infrastructure/repository/memory"
)

func TestScoringService_SubmitScore_SecondAttemptRejected(t *testing.T) {
	f := newFixture(t)
	steps := f.setupDefaultSteps(t)
	review := steps[0]

	judge := f.memberContext(t, "user_judge_ayu")
	input := SubmitScoreInput{
		ApplicationID: memory.ApplicationIDBatch12,
		StepID:        review.ID,
		SubmissionID:  "sub_heliotech",
		Values:        evenScore(review, 7),
	}

	if _, err := f.scoringSvc.SubmitScore(t.Context(), judge, input); err != nil {
		t.Fatalf("first score failed: %v", err)
	}

	input.Values = evenScore(review, 9)
	_, err := f.scoringSvc.SubmitScore(t.Context(), judge, input)
	if !errors.Is(err, evaluation.ErrAlreadyScored) {
		t.Fatalf("expected ErrAlreadyScored, got %v", err)
	}
}

func TestScoringService_SubmitScore_MissingCriterion(t *testing.T) {
	f := newFixture(t)
	steps := f.setupDefaultSteps(t)
	review := steps[0]

	_, err := f.scoringSvc.SubmitScore(t.Context(), f.memberContext(t, "user_judge_ayu"), SubmitScoreInput{
		ApplicationID: memory.ApplicationIDBatch12,
		StepID:        review.ID,
		SubmissionID:  "sub_heliotech",
		Values:        map[string]float64{review.Criteria[0].ID: 8},
	})
	if !errors.Is(err, evaluation.ErrMissingScore) {
		t.Fatalf("expected ErrMissingScore, got %v", err)
	}
}

func TestScoringService_SubmitScore_ValueOutOfRange(t *testing.T) {
	f := newFixture(t)
	steps := f.setupDefaultSteps(t)
	review := steps[0]

	_, err := f.scoringSvc.SubmitScore(t.Context(), f.memberContext(t, "user_judge_ayu"), SubmitScoreInput{
		ApplicationID: memory.ApplicationIDBatch12,
		StepID:        review.ID,
		SubmissionID:  "sub_heliotech",
		Values:        evenScore(review, 11),
	})
	if !errors.Is(err, evaluation.ErrValueOutOfRange) {
		t.Fatalf("expected ErrValueOutOfRange, got %v", err)
	}
}

func TestScoringService_SubmitScore_ViewerForbidden(t *testing.T) {
	f := newFixture(t)
	steps := f.setupDefaultSteps(t)
	review := steps[0]

	_, err := f.scoringSvc.SubmitScore(t.Context(), f.memberContext(t, "user_viewer"), SubmitScoreInput{
		ApplicationID: memory.ApplicationIDBatch12,
		StepID:        review.ID,
		SubmissionID:  "sub_heliotech",
		Values:        evenScore(review, 7),
	})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestScoringService_Scoreboard_UnscoredSubmissionStaysPending(t *testing.T) {
	f := newFixture(t)
	steps := f.setupDefaultSteps(t)
	review := steps[0]

	admin := f.adminContext(t)
	if _, err := f.evaluationSvc.UpdateCutoffs(t.Context(), admin, memory.ApplicationIDBatch12, []CutoffInput{{StepNumber: 1, MinAverage: 7}}); err != nil {
		t.Fatalf("update cutoffs: %v", err)
	}

	board, err := f.scoringSvc.GetScoreboard(t.Context(), admin, memory.ApplicationIDBatch12, review.ID, "sub_heliotech")
	if err != nil {
		t.Fatalf("get scoreboard: %v", err)
	}
	if len(board.Rows) != 1 {
		t.Fatalf("expected one row, got %d", len(board.Rows))
	}

	row := board.Rows[0]
	if row.Aggregate.AverageScore != nil {
		t.Fatalf("expected nil average for unscored submission, got %v", *row.Aggregate.AverageScore)
	}
	if row.Gating.Status != evaluation.StatusPending {
		t.Fatalf("expected pending status, got %s", row.Gating.Status)
	}
	if row.Gating.Passed {
		t.Fatal("unscored submission must not pass")
	}
}

func TestScoringService_Scoreboard_CoverageGating(t *testing.T) {
	f := newFixture(t)
	steps := f.setupDefaultSteps(t)
	review := steps[0]

	admin := f.adminContext(t)
	if _, err := f.evaluationSvc.UpdateCutoffs(t.Context(), admin, memory.ApplicationIDBatch12, []CutoffInput{{StepNumber: 1, MinAverage: 6.5}}); err != nil {
		t.Fatalf("update cutoffs: %v", err)
	}

	// Three seeded judges. Two of three is 66.7%, under the 75% coverage
	// requirement: the average clears the cutoff but the verdict must not
	// be a pass yet.
	f.submitScore(t, "user_judge_ayu", review, "sub_heliotech", evenScore(review, 8))
	f.submitScore(t, "user_judge_bram", review, "sub_heliotech", evenScore(review, 7))

	board, err := f.scoringSvc.GetScoreboard(t.Context(), admin, memory.ApplicationIDBatch12, review.ID, "sub_heliotech")
	if err != nil {
		t.Fatalf("get scoreboard: %v", err)
	}

	row := board.Rows[0]
	if row.Aggregate.AverageScore == nil || *row.Aggregate.AverageScore != 7.5 {
		t.Fatalf("expected average 7.5, got %v", row.Aggregate.AverageScore)
	}
	if !row.Gating.MeetsCutoff {
		t.Fatal("average 7.5 should meet cutoff 6.5")
	}
	if row.Gating.Status != evaluation.StatusInsufficientCoverage {
		t.Fatalf("expected insufficient-coverage, got %s", row.Gating.Status)
	}
	if row.Gating.Passed {
		t.Fatal("two of three judges must not produce a pass at 75%% coverage")
	}

	// Third judge brings coverage to 100% and the verdict flips to passed.
	f.submitScore(t, "user_judge_citra", review, "sub_heliotech", evenScore(review, 6))

	board, err = f.scoringSvc.GetScoreboard(t.Context(), admin, memory.ApplicationIDBatch12, review.ID, "sub_heliotech")
	if err != nil {
		t.Fatalf("get scoreboard after third score: %v", err)
	}
	row = board.Rows[0]
	if row.Gating.Status != evaluation.StatusPassed || !row.Gating.Passed {
		t.Fatalf("expected passed, got %s", row.Gating.Status)
	}
}

func TestScoringService_Scoreboard_NoCutoffConfigured(t *testing.T) {
	f := newFixture(t)
	steps := f.setupDefaultSteps(t)
	review := steps[0]

	admin := f.adminContext(t)
	f.submitScore(t, "user_judge_ayu", review, "sub_heliotech", evenScore(review, 9))
	f.submitScore(t, "user_judge_bram", review, "sub_heliotech", evenScore(review, 9))
	f.submitScore(t, "user_judge_citra", review, "sub_heliotech", evenScore(review, 9))

	board, err := f.scoringSvc.GetScoreboard(t.Context(), admin, memory.ApplicationIDBatch12, review.ID, "")
	if err != nil {
		t.Fatalf("get scoreboard: %v", err)
	}
	if board.Cutoff != nil {
		t.Fatalf("expected no cutoff, got %v", *board.Cutoff)
	}
	if len(board.Rows) != 3 {
		t.Fatalf("expected three rows, got %d", len(board.Rows))
	}
	// Full boards sort scored submissions first.
	if board.Rows[0].Submission.ID != "sub_heliotech" {
		t.Fatalf("expected sub_heliotech on top, got %s", board.Rows[0].Submission.ID)
	}
}
