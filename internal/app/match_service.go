package app

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"studymatch-service/internal/domain"
)

// CourseStore abstracts the read-only LMS tables the matchmaker consumes
// (Postgres, in-memory, or a caching decorator). Implementations must batch
// submission lookups by item-id list; the service never queries per student.
type CourseStore interface {
	// EnrolledStudents returns active enrollments in a stable order; that
	// order is the tie-break order for ranking.
	EnrolledStudents(ctx context.Context, courseID string) ([]string, error)
	// AssessmentItems returns the course's quizzes followed by its
	// assignments, each in creation order.
	AssessmentItems(ctx context.Context, courseID string) ([]domain.AssessmentItem, error)
	QuizSubmissions(ctx context.Context, quizIDs []string) ([]domain.SubmissionRecord, error)
	// AssignmentSubmissions resolves each record's OutOf to the assignment's
	// max score.
	AssignmentSubmissions(ctx context.Context, assignmentIDs []string) ([]domain.SubmissionRecord, error)
	Profiles(ctx context.Context, studentIDs []string) (map[string]domain.StudentProfile, error)
	StudentCourses(ctx context.Context, studentID string) ([]domain.Course, error)
}

// MatchService computes study-partner recommendations. It is stateless:
// every call is a fresh computation over the current data snapshot, and it
// never writes to the store.
type MatchService struct {
	store  CourseStore
	policy UngradedPolicy
}

func NewMatchService(store CourseStore, policy UngradedPolicy) *MatchService {
	return &MatchService{store: store, policy: policy}
}

// PeerMatches returns the top-N study partners for a student in a course,
// with the requester's own strong/weak topics and per-match help lists.
// The requester must be enrolled (domain.ErrNotEnrolled otherwise). A course
// with fewer than two enrolled students or no assessment items yields an
// insufficient-data report, not an error.
func (s *MatchService) PeerMatches(ctx context.Context, courseID, studentID string, topN int) (domain.MatchReport, error) {
	students, err := s.store.EnrolledStudents(ctx, courseID)
	if err != nil {
		return domain.MatchReport{}, fmt.Errorf("fetch enrollments: %w", err)
	}
	if !contains(students, studentID) {
		return domain.MatchReport{}, domain.ErrNotEnrolled
	}
	if len(students) < 2 {
		return insufficientReport(courseID, studentID, "at least two enrolled students are needed to suggest study partners"), nil
	}

	items, err := s.store.AssessmentItems(ctx, courseID)
	if err != nil {
		return domain.MatchReport{}, fmt.Errorf("fetch assessment items: %w", err)
	}
	if len(items) == 0 {
		return insufficientReport(courseID, studentID, "the course has no quizzes or assignments to compare performance on"), nil
	}

	var quizIDs, assignmentIDs []string
	for _, item := range items {
		if item.Kind == domain.KindAssignment {
			assignmentIDs = append(assignmentIDs, item.ID)
		} else {
			quizIDs = append(quizIDs, item.ID)
		}
	}

	// One batched query per submission kind, issued concurrently. The call
	// count stays fixed no matter how large the course is.
	var quizSubs, assignmentSubs []domain.SubmissionRecord
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		quizSubs, err = s.store.QuizSubmissions(gctx, quizIDs)
		if err != nil {
			return fmt.Errorf("fetch quiz submissions: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		assignmentSubs, err = s.store.AssignmentSubmissions(gctx, assignmentIDs)
		if err != nil {
			return fmt.Errorf("fetch assignment submissions: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return domain.MatchReport{}, err
	}

	vectors := BuildSkillVectors(items, students, append(quizSubs, assignmentSubs...), s.policy)

	candidates := make([]string, 0, len(students)-1)
	for _, id := range students {
		if id != studentID {
			candidates = append(candidates, id)
		}
	}
	ranked := RankMatches(vectors[studentID], candidates, vectors, topN)

	matchIDs := make([]string, len(ranked))
	for i, rc := range ranked {
		matchIDs[i] = rc.StudentID
	}
	profiles, err := s.store.Profiles(ctx, matchIDs)
	if err != nil {
		return domain.MatchReport{}, fmt.Errorf("fetch profiles: %w", err)
	}

	matches := make([]domain.MatchResult, 0, len(ranked))
	for _, rc := range ranked {
		candidateVec := vectors[rc.StudentID]
		strengths, weaknesses := TopicProfile(candidateVec, items)
		canHelpMe, iHelpThem := HelpTopics(vectors[studentID], candidateVec, items)

		name := rc.StudentID
		if profile, ok := profiles[rc.StudentID]; ok && profile.DisplayName != "" {
			name = profile.DisplayName
		}
		matches = append(matches, domain.MatchResult{
			StudentID:        rc.StudentID,
			DisplayName:      name,
			CompatibilityPct: int(math.Round(rc.Score * 100)),
			Strengths:        strengths,
			Weaknesses:       weaknesses,
			CanHelpMe:        canHelpMe,
			IHelpThem:        iHelpThem,
		})
	}

	myStrengths, myWeaknesses := TopicProfile(vectors[studentID], items)
	return domain.MatchReport{
		CourseID:     courseID,
		StudentID:    studentID,
		MyStrengths:  myStrengths,
		MyWeaknesses: myWeaknesses,
		Matches:      matches,
	}, nil
}

// StudentCourses lists the courses a student can request matches in. Thin
// pass-through over the store, kept here so transports share one surface.
func (s *MatchService) StudentCourses(ctx context.Context, studentID string) ([]domain.Course, error) {
	courses, err := s.store.StudentCourses(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("fetch student courses: %w", err)
	}
	return courses, nil
}

func insufficientReport(courseID, studentID, message string) domain.MatchReport {
	return domain.MatchReport{
		CourseID:         courseID,
		StudentID:        studentID,
		MyStrengths:      []string{},
		MyWeaknesses:     []string{},
		Matches:          []domain.MatchResult{},
		InsufficientData: true,
		Message:          message,
	}
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
