package model

type Module struct {
	ID          uint64           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Slug        string           `json:"slug"`
	CourseID    uint64           `json:"course_id"`
	CourseName  string           `json:"course_name"` // denormalized
	ImageURL    Optional[string] `json:"image_url,omitzero"`
	LessonIDs   []uint64         `json:"lesson_ids"`
	CreatedAt   string           `json:"created_at"`
	UpdatedAt   Optional[string] `json:"updated_at,omitzero"`
}
