package model

// PaginatedResponse is one page of an ordered result set. Page numbers are 0-based.
type PaginatedResponse[T any] struct {
	Content       []T    `json:"content"`
	Number        uint32 `json:"number"`
	Size          uint32 `json:"size"`
	First         bool   `json:"first"`
	Last          bool   `json:"last"`
	TotalElements uint64 `json:"total_elements"`
	TotalPages    uint32 `json:"total_pages"`
}

type (
	PaginatedExercises = PaginatedResponse[Exercise]
	PaginatedLessons   = PaginatedResponse[Lesson]
	PaginatedRoadmaps  = PaginatedResponse[Roadmap]
	PaginatedModules   = PaginatedResponse[Module]
	PaginatedCourses   = PaginatedResponse[Course]
)

// NewPaginatedResponse derives first, last and total_pages from the page inputs so the
// envelope is always self-consistent. A zero size yields a single page.
func NewPaginatedResponse[T any](content []T, number, size uint32, totalElements uint64) PaginatedResponse[T] {
	if content == nil {
		content = []T{}
	}

	var totalPages uint32
	switch {
	case size == 0:
		totalPages = 1
	default:
		totalPages = uint32((totalElements + uint64(size) - 1) / uint64(size))
	}

	return PaginatedResponse[T]{
		Content:       content,
		Number:        number,
		Size:          size,
		First:         number == 0,
		Last:          uint64(number)+1 >= uint64(totalPages),
		TotalElements: totalElements,
		TotalPages:    totalPages,
	}
}

// HasNext reports whether a page after this one exists.
func (p PaginatedResponse[T]) HasNext() bool {
	return !p.Last
}
