package model

type Exercise struct {
	ID                uint64             `json:"id"`
	Slug              string             `json:"slug"`
	Title             string             `json:"title"`
	Points            uint32             `json:"points"`
	Instructions      string             `json:"instructions"`
	Hints             string             `json:"hints"`
	LessonID          uint64             `json:"lesson_id"`
	GithubPath        string             `json:"github_path"`
	LastGithubSync    string             `json:"last_github_sync"`
	SolutionResponses []SolutionResponse `json:"solution_responses"`
}

// ExerciseDetails is the exercise view served to the editor. Exercise is embedded so
// its keys share the top-level object with the extension keys on the wire.
type ExerciseDetails struct {
	Exercise
	Language    string `json:"language"`
	InitialCode string `json:"initial_code"`
	TestCode    string `json:"test_code"`
	LessonName  string `json:"lesson_name"`
	FileName    string `json:"file_name"`
}
