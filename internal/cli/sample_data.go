package cli

import "studymatch-service/internal/infra/memory"

// sampleCourseStore seeds a small course so the endpoints work without a
// database; swap in Postgres via config for real data.
func sampleCourseStore() *memory.CourseStore {
	store := memory.NewCourseStore()
	store.AddCourse("algo-101", "Algorithms 101")
	store.AddStudent("s1", "Aisha Patel")
	store.AddStudent("s2", "Ben Okafor")
	store.AddStudent("s3", "Carla Mendes")
	store.Enroll("algo-101", "s1")
	store.Enroll("algo-101", "s2")
	store.Enroll("algo-101", "s3")

	store.AddQuiz("algo-101", "q-sorting", "Sorting")
	store.AddQuiz("algo-101", "q-graphs", "Graph Traversal")
	store.AddAssignment("algo-101", "a-dp", "Dynamic Programming", 10)

	store.AddQuizSubmission("s1", "q-sorting", score(8), 10)
	store.AddQuizSubmission("s1", "q-graphs", score(9), 10)
	store.AddAssignmentSubmission("s1", "a-dp", score(2))

	store.AddQuizSubmission("s2", "q-sorting", score(3), 10)
	store.AddQuizSubmission("s2", "q-graphs", score(2), 10)
	store.AddAssignmentSubmission("s2", "a-dp", score(9))

	store.AddQuizSubmission("s3", "q-sorting", score(5), 10)
	store.AddAssignmentSubmission("s3", "a-dp", score(7))
	return store
}

func score(v float64) *float64 {
	return &v
}
