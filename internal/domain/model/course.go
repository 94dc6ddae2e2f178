package model

type Course struct {
	ID           uint64           `json:"id"`
	Name         string           `json:"name"`
	Description  string           `json:"description"`
	Slug         string           `json:"slug"`
	ImageURL     Optional[string] `json:"image_url,omitzero"`
	RoadmapSlugs []string         `json:"roadmap_slugs"`
	TagNames     []string         `json:"tag_names"`
	ModuleIDs    []uint64         `json:"module_ids"`
	CreatedAt    string           `json:"created_at"`
	UpdatedAt    Optional[string] `json:"updated_at,omitzero"`
}
