package model

type SubmissionResponse struct {
	ID             uint64 `json:"id"`
	Code           string `json:"code"`
	LanguageID     uint64 `json:"language_id"`
	Stdin          string `json:"stdin"`
	ExpectedOutput string `json:"expected_output"`
	SolutionID     uint64 `json:"solution_id"`
}

// SolutionResponse is a user's attempt at an exercise. Status is an opaque code
// assigned by the evaluation engine; no meaning is attached to its values here.
type SolutionResponse struct {
	ID           uint64               `json:"id"`
	UserID       uint64               `json:"user_id"`
	ExerciseID   uint64               `json:"exercise_id"`
	Status       uint32               `json:"status"`
	PointsEarned uint32               `json:"points_earned"`
	Submissions  []SubmissionResponse `json:"submissions"`
}
