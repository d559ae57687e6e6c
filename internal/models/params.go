package models

// Search defaults.
const (
	DefaultMinAge     = 18
	DefaultMaxAge     = 99
	DefaultPageNumber = 1
	DefaultPageSize   = 10
	MaxPageSize       = 50
)

// Sort keys accepted in UserParams.OrderBy.
const (
	OrderByCreated    = "created"
	OrderByLastActive = "lastActive"
)

// UserParams describes a user search
type UserParams struct {
	UserID     string `json:"-"`
	Gender     string `json:"gender"`
	MinAge     int    `json:"min_age"`
	MaxAge     int    `json:"max_age"`
	Likers     bool   `json:"likers"`
	Likees     bool   `json:"likees"`
	OrderBy    string `json:"order_by"`
	PageNumber int    `json:"page_number"`
	PageSize   int    `json:"page_size"`
}

// NewUserParams returns params populated with the search defaults
func NewUserParams(userID string) UserParams {
	return UserParams{
		UserID:     userID,
		MinAge:     DefaultMinAge,
		MaxAge:     DefaultMaxAge,
		PageNumber: DefaultPageNumber,
		PageSize:   DefaultPageSize,
	}
}

// Normalize fills unset paging and age fields with defaults and caps the page size
func (p *UserParams) Normalize() {
	if p.MinAge == 0 {
		p.MinAge = DefaultMinAge
	}
	if p.MaxAge == 0 {
		p.MaxAge = DefaultMaxAge
	}
	if p.PageNumber == 0 {
		p.PageNumber = DefaultPageNumber
	}
	if p.PageSize == 0 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
}

// HasAgeFilter reports whether the age bounds differ from the defaults
func (p UserParams) HasAgeFilter() bool {
	return p.MinAge != DefaultMinAge || p.MaxAge != DefaultMaxAge
}
