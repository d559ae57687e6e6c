package models

import "time"

// Column names shared by the query builder and the storage backends.
const (
	UserID           = "id"
	UserUsername     = "username"
	UserGender       = "gender"
	UserDateOfBirth  = "date_of_birth"
	UserKnownAs      = "known_as"
	UserCreated      = "created"
	UserLastActive   = "last_active"
	UserIntroduction = "introduction"
	UserLookingFor   = "looking_for"
	UserInterests    = "interests"
	UserCity         = "city"
	UserCountry      = "country"

	PhotoID          = "id"
	PhotoURL         = "url"
	PhotoDescription = "description"
	PhotoDateAdded   = "date_added"
	PhotoIsMain      = "is_main"
	PhotoPublicID    = "public_id"
	PhotoUserID      = "user_id"

	LikeLikerID = "liker_id"
	LikeLikeeID = "likee_id"
)

// Relations that can be eagerly attached to a User.
const (
	IncludePhotos = "photos"
	IncludeLikers = "likers"
	IncludeLikees = "likees"
)

// Table names.
const (
	UsersTable  = "users"
	PhotosTable = "photos"
	LikesTable  = "likes"
)

// Entity is the capability set required to stage a row in a unit of work.
type Entity interface {
	TableName() string
	KeyColumns() []string
	// Columns and Values are aligned and include the key columns.
	Columns() []string
	Values() []any
}

// User represents a member of the matching application
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Gender       string    `json:"gender"`
	DateOfBirth  time.Time `json:"date_of_birth"`
	KnownAs      string    `json:"known_as"`
	Created      time.Time `json:"created"`
	LastActive   time.Time `json:"last_active"`
	Introduction string    `json:"introduction,omitempty"`
	LookingFor   string    `json:"looking_for,omitempty"`
	Interests    string    `json:"interests,omitempty"`
	City         string    `json:"city"`
	Country      string    `json:"country"`
	Photos       []Photo   `json:"photos,omitempty"`
	Likers       []Like    `json:"-"`
	Likees       []Like    `json:"-"`
}

// Photo represents a picture owned by a user
type Photo struct {
	ID          string    `json:"id"`
	URL         string    `json:"url"`
	Description string    `json:"description,omitempty"`
	DateAdded   time.Time `json:"date_added"`
	IsMain      bool      `json:"is_main"`
	PublicID    string    `json:"public_id,omitempty"`
	UserID      string    `json:"user_id"`
}

// Like is a directed edge from the liker to the likee
type Like struct {
	LikerID string `json:"liker_id"`
	LikeeID string `json:"likee_id"`
}

func (u *User) TableName() string    { return UsersTable }
func (u *User) KeyColumns() []string { return []string{UserID} }

func (u *User) Columns() []string {
	return []string{
		UserID, UserUsername, UserGender, UserDateOfBirth, UserKnownAs, UserCreated,
		UserLastActive, UserIntroduction, UserLookingFor, UserInterests, UserCity, UserCountry,
	}
}

func (u *User) Values() []any {
	return []any{
		u.ID, u.Username, u.Gender, u.DateOfBirth, u.KnownAs, u.Created,
		u.LastActive, u.Introduction, u.LookingFor, u.Interests, u.City, u.Country,
	}
}

func (p *Photo) TableName() string    { return PhotosTable }
func (p *Photo) KeyColumns() []string { return []string{PhotoID} }

func (p *Photo) Columns() []string {
	return []string{PhotoID, PhotoURL, PhotoDescription, PhotoDateAdded, PhotoIsMain, PhotoPublicID, PhotoUserID}
}

func (p *Photo) Values() []any {
	return []any{p.ID, p.URL, p.Description, p.DateAdded, p.IsMain, p.PublicID, p.UserID}
}

func (l *Like) TableName() string    { return LikesTable }
func (l *Like) KeyColumns() []string { return []string{LikeLikerID, LikeLikeeID} }
func (l *Like) Columns() []string    { return []string{LikeLikerID, LikeLikeeID} }
func (l *Like) Values() []any        { return []any{l.LikerID, l.LikeeID} }

// MainPhoto returns the photo flagged as main, if any
func (u *User) MainPhoto() *Photo {
	for i := range u.Photos {
		if u.Photos[i].IsMain {
			return &u.Photos[i]
		}
	}
	return nil
}

// Age returns the user's age in whole years at the given instant
func (u *User) Age(at time.Time) int {
	age := at.Year() - u.DateOfBirth.Year()
	if u.DateOfBirth.AddDate(age, 0, 0).After(at) {
		age--
	}
	return age
}
