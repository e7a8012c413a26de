package domain

// AssessmentKind distinguishes the two kinds of graded course items.
type AssessmentKind string

const (
	KindQuiz       AssessmentKind = "quiz"
	KindAssignment AssessmentKind = "assignment"
)

// AssessmentItem is one graded item in a course. Each item is one dimension
// of every skill vector built for that course.
type AssessmentItem struct {
	ID    string         `json:"id"`
	Title string         `json:"title"`
	Kind  AssessmentKind `json:"kind"`
	// MaxScore is the grading denominator for assignments. Quizzes carry
	// their denominator on the submission record instead.
	MaxScore float64 `json:"maxScore,omitempty"`
}

// Label renders the item as a topic label shown to students.
func (i AssessmentItem) Label() string {
	if i.Kind == KindAssignment {
		return "Assignment: " + i.Title
	}
	return "Quiz: " + i.Title
}

// SubmissionRecord is one student's attempt at an assessment item.
type SubmissionRecord struct {
	StudentID string
	ItemID    string
	// Score is nil when the submission exists but has not been graded yet.
	Score *float64
	// OutOf is the scoring denominator: the submission's total marks for a
	// quiz, the assignment's max score for an assignment. 0 means unknown.
	OutOf float64
}

// StudentProfile is the display identity of a student.
type StudentProfile struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

// Course identifies a course a student can request matches in.
type Course struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// MatchResult is one recommended study partner with the topic-level
// breakdown of who helps whom.
type MatchResult struct {
	StudentID        string   `json:"studentId"`
	DisplayName      string   `json:"displayName"`
	CompatibilityPct int      `json:"compatibilityPct"`
	Strengths        []string `json:"strengths"`
	Weaknesses       []string `json:"weaknesses"`
	CanHelpMe        []string `json:"canHelpMe"`
	IHelpThem        []string `json:"iHelpThem"`
}

// MatchReport is the full response for one peer-match request. When the
// course holds too little data to match on, InsufficientData is set and
// Message explains why; that is a valid result, not an error.
type MatchReport struct {
	CourseID         string        `json:"courseId"`
	StudentID        string        `json:"studentId"`
	MyStrengths      []string      `json:"myStrengths"`
	MyWeaknesses     []string      `json:"myWeaknesses"`
	Matches          []MatchResult `json:"matches"`
	InsufficientData bool          `json:"insufficientData,omitempty"`
	Message          string        `json:"message,omitempty"`
}
