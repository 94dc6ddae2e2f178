package model

type Lesson struct {
	ID          uint64           `json:"id"`
	Name        string           `json:"name"`
	Content     string           `json:"content"`
	Credits     uint32           `json:"credits"`
	Slug        string           `json:"slug"`
	ModuleID    uint64           `json:"module_id"`
	ModuleName  string           `json:"module_name"` // denormalized
	ExerciseIDs []uint64         `json:"exercise_ids"`
	CreatedAt   string           `json:"created_at"`
	UpdatedAt   Optional[string] `json:"updated_at,omitzero"`
}
