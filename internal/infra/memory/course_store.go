package memory

import (
	"context"
	"sync"

	"studymatch-service/internal/domain"
)

// CourseStore is an in-memory implementation of app.CourseStore, used by
// tests and by demo mode when no database is configured. Seed it with the
// Add* methods; lookups mirror the batched shape of the Postgres store.
type CourseStore struct {
	mu             sync.RWMutex
	courses        map[string]domain.Course
	courseOrder    []string
	enrollments    map[string][]string // courseID -> student IDs in enrollment order
	quizzes        map[string][]domain.AssessmentItem
	assignments    map[string][]domain.AssessmentItem
	quizSubs       []domain.SubmissionRecord
	assignmentSubs []domain.SubmissionRecord
	assignmentByID map[string]domain.AssessmentItem
	profiles       map[string]domain.StudentProfile
}

func NewCourseStore() *CourseStore {
	return &CourseStore{
		courses:        make(map[string]domain.Course),
		enrollments:    make(map[string][]string),
		quizzes:        make(map[string][]domain.AssessmentItem),
		assignments:    make(map[string][]domain.AssessmentItem),
		assignmentByID: make(map[string]domain.AssessmentItem),
		profiles:       make(map[string]domain.StudentProfile),
	}
}

func (s *CourseStore) AddCourse(id, title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.courses[id]; !ok {
		s.courseOrder = append(s.courseOrder, id)
	}
	s.courses[id] = domain.Course{ID: id, Title: title}
}

func (s *CourseStore) AddStudent(id, displayName string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[id] = domain.StudentProfile{ID: id, DisplayName: displayName}
}

func (s *CourseStore) Enroll(courseID, studentID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range s.enrollments[courseID] {
		if id == studentID {
			return
		}
	}
	s.enrollments[courseID] = append(s.enrollments[courseID], studentID)
}

func (s *CourseStore) AddQuiz(courseID, quizID, title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quizzes[courseID] = append(s.quizzes[courseID], domain.AssessmentItem{
		ID: quizID, Title: title, Kind: domain.KindQuiz,
	})
}

func (s *CourseStore) AddAssignment(courseID, assignmentID, title string, maxScore float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item := domain.AssessmentItem{
		ID: assignmentID, Title: title, Kind: domain.KindAssignment, MaxScore: maxScore,
	}
	s.assignments[courseID] = append(s.assignments[courseID], item)
	s.assignmentByID[assignmentID] = item
}

// AddQuizSubmission records a graded quiz attempt; score may be nil for a
// submission that is not graded yet.
func (s *CourseStore) AddQuizSubmission(studentID, quizID string, score *float64, totalMarks float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quizSubs = append(s.quizSubs, domain.SubmissionRecord{
		StudentID: studentID, ItemID: quizID, Score: score, OutOf: totalMarks,
	})
}

func (s *CourseStore) AddAssignmentSubmission(studentID, assignmentID string, score *float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assignmentSubs = append(s.assignmentSubs, domain.SubmissionRecord{
		StudentID: studentID, ItemID: assignmentID, Score: score,
	})
}

func (s *CourseStore) EnrolledStudents(_ context.Context, courseID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.courses[courseID]; !ok {
		return nil, domain.ErrCourseNotFound
	}
	return append([]string(nil), s.enrollments[courseID]...), nil
}

func (s *CourseStore) AssessmentItems(_ context.Context, courseID string) ([]domain.AssessmentItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.courses[courseID]; !ok {
		return nil, domain.ErrCourseNotFound
	}
	items := append([]domain.AssessmentItem(nil), s.quizzes[courseID]...)
	return append(items, s.assignments[courseID]...), nil
}

func (s *CourseStore) QuizSubmissions(_ context.Context, quizIDs []string) ([]domain.SubmissionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filterSubmissions(s.quizSubs, quizIDs), nil
}

func (s *CourseStore) AssignmentSubmissions(_ context.Context, assignmentIDs []string) ([]domain.SubmissionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records := filterSubmissions(s.assignmentSubs, assignmentIDs)
	for i := range records {
		records[i].OutOf = s.assignmentByID[records[i].ItemID].MaxScore
	}
	return records, nil
}

func (s *CourseStore) Profiles(_ context.Context, studentIDs []string) (map[string]domain.StudentProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	profiles := make(map[string]domain.StudentProfile, len(studentIDs))
	for _, id := range studentIDs {
		if profile, ok := s.profiles[id]; ok {
			profiles[id] = profile
		}
	}
	return profiles, nil
}

func (s *CourseStore) StudentCourses(_ context.Context, studentID string) ([]domain.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	courses := []domain.Course{}
	for _, courseID := range s.courseOrder {
		for _, id := range s.enrollments[courseID] {
			if id == studentID {
				courses = append(courses, s.courses[courseID])
				break
			}
		}
	}
	return courses, nil
}

func filterSubmissions(subs []domain.SubmissionRecord, itemIDs []string) []domain.SubmissionRecord {
	wanted := make(map[string]struct{}, len(itemIDs))
	for _, id := range itemIDs {
		wanted[id] = struct{}{}
	}
	out := []domain.SubmissionRecord{}
	for _, sub := range subs {
		if _, ok := wanted[sub.ItemID]; ok {
			out = append(out, sub)
		}
	}
	return out
}
