package model

type Roadmap struct {
	ID          uint64           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Slug        string           `json:"slug"`
	ImageURL    Optional[string] `json:"image_url,omitzero"`
	TagNames    []string         `json:"tag_names"`
	IsPublished bool             `json:"is_published"`
	CourseSlugs []string         `json:"course_slugs"`
	CreatedAt   string           `json:"created_at"`
	UpdatedAt   Optional[string] `json:"updated_at,omitzero"`
}

// RoadmapDetails carries the full course records of a roadmap, flattened onto the
// roadmap's own keys.
type RoadmapDetails struct {
	Roadmap
	Courses []Course `json:"courses"`
}
