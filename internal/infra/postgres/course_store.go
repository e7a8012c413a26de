package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"studymatch-service/internal/domain"
)

// CourseStore reads the platform's course tables via pgx. All submission
// lookups are batched by item-id list; the query count per match request is
// fixed regardless of course size.
type CourseStore struct {
	pool *pgxpool.Pool
}

func NewCourseStore(pool *pgxpool.Pool) *CourseStore {
	return &CourseStore{pool: pool}
}

func (s *CourseStore) EnrolledStudents(ctx context.Context, courseID string) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT student_id FROM enrollments
		 WHERE course_id=$1 AND status='active'
		 ORDER BY enrolled_at, student_id`, courseID)
	if err != nil {
		return nil, fmt.Errorf("query enrollments: %w", err)
	}
	defer rows.Close()

	var students []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan enrollment: %w", err)
		}
		students = append(students, id)
	}
	return students, rows.Err()
}

// AssessmentItems returns the course's quizzes followed by its assignments,
// each in creation order.
func (s *CourseStore) AssessmentItems(ctx context.Context, courseID string) ([]domain.AssessmentItem, error) {
	quizzes, err := s.quizItems(ctx, courseID)
	if err != nil {
		return nil, err
	}
	assignments, err := s.assignmentItems(ctx, courseID)
	if err != nil {
		return nil, err
	}
	return append(quizzes, assignments...), nil
}

func (s *CourseStore) quizItems(ctx context.Context, courseID string) ([]domain.AssessmentItem, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, title FROM quizzes WHERE course_id=$1 ORDER BY created_at, id`, courseID)
	if err != nil {
		return nil, fmt.Errorf("query quizzes: %w", err)
	}
	defer rows.Close()

	var items []domain.AssessmentItem
	for rows.Next() {
		item := domain.AssessmentItem{Kind: domain.KindQuiz}
		if err := rows.Scan(&item.ID, &item.Title); err != nil {
			return nil, fmt.Errorf("scan quiz: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (s *CourseStore) assignmentItems(ctx context.Context, courseID string) ([]domain.AssessmentItem, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, title, max_score FROM assignments WHERE course_id=$1 ORDER BY created_at, id`, courseID)
	if err != nil {
		return nil, fmt.Errorf("query assignments: %w", err)
	}
	defer rows.Close()

	var items []domain.AssessmentItem
	for rows.Next() {
		item := domain.AssessmentItem{Kind: domain.KindAssignment}
		if err := rows.Scan(&item.ID, &item.Title, &item.MaxScore); err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (s *CourseStore) QuizSubmissions(ctx context.Context, quizIDs []string) ([]domain.SubmissionRecord, error) {
	if len(quizIDs) == 0 {
		return nil, nil
	}
	rows, err := s.pool.Query(ctx,
		`SELECT student_id, quiz_id, score, total_marks
		 FROM quiz_submissions
		 WHERE quiz_id = ANY($1)
		 ORDER BY submitted_at`, quizIDs)
	if err != nil {
		return nil, fmt.Errorf("query quiz submissions: %w", err)
	}
	defer rows.Close()
	return scanSubmissions(rows)
}

func (s *CourseStore) AssignmentSubmissions(ctx context.Context, assignmentIDs []string) ([]domain.SubmissionRecord, error) {
	if len(assignmentIDs) == 0 {
		return nil, nil
	}
	rows, err := s.pool.Query(ctx,
		`SELECT s.student_id, s.assignment_id, s.score, a.max_score
		 FROM assignment_submissions s
		 JOIN assignments a ON a.id = s.assignment_id
		 WHERE s.assignment_id = ANY($1)
		 ORDER BY s.submitted_at`, assignmentIDs)
	if err != nil {
		return nil, fmt.Errorf("query assignment submissions: %w", err)
	}
	defer rows.Close()
	return scanSubmissions(rows)
}

func (s *CourseStore) Profiles(ctx context.Context, studentIDs []string) (map[string]domain.StudentProfile, error) {
	profiles := make(map[string]domain.StudentProfile, len(studentIDs))
	if len(studentIDs) == 0 {
		return profiles, nil
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, full_name FROM students WHERE id = ANY($1)`, studentIDs)
	if err != nil {
		return nil, fmt.Errorf("query profiles: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var profile domain.StudentProfile
		if err := rows.Scan(&profile.ID, &profile.DisplayName); err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		profiles[profile.ID] = profile
	}
	return profiles, rows.Err()
}

func (s *CourseStore) StudentCourses(ctx context.Context, studentID string) ([]domain.Course, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT c.id, c.title
		 FROM courses c
		 JOIN enrollments e ON e.course_id = c.id
		 WHERE e.student_id=$1 AND e.status='active'
		 ORDER BY c.title, c.id`, studentID)
	if err != nil {
		return nil, fmt.Errorf("query student courses: %w", err)
	}
	defer rows.Close()

	courses := []domain.Course{}
	for rows.Next() {
		var course domain.Course
		if err := rows.Scan(&course.ID, &course.Title); err != nil {
			return nil, fmt.Errorf("scan course: %w", err)
		}
		courses = append(courses, course)
	}
	return courses, rows.Err()
}

type rowScanner interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

func scanSubmissions(rows rowScanner) ([]domain.SubmissionRecord, error) {
	var records []domain.SubmissionRecord
	for rows.Next() {
		var rec domain.SubmissionRecord
		if err := rows.Scan(&rec.StudentID, &rec.ItemID, &rec.Score, &rec.OutOf); err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
