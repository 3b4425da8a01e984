package data

import (
	"time"
)

// Review represents the reviews table. Uniqueness of (movie_id, user_name)
// is checked before insert; the index only serves lookups.
type Review struct {
	ID           string    `gorm:"primaryKey;size:64"`
	MovieID      int64     `gorm:"not null;index:idx_reviews_movie_user,priority:1"`
	UserName     string    `gorm:"not null;size:50;index:idx_reviews_movie_user,priority:2"`
	Rating       float64   `gorm:"not null"`
	ReviewText   string    `gorm:"not null;size:1000"`
	HelpfulCount int       `gorm:"not null;default:0"`
	Language     string    `gorm:"not null;size:16;default:en"`
	CreatedAt    time.Time `gorm:"index:idx_reviews_created_at"`
	UpdatedAt    time.Time
}

// TableName overrides the table name
func (Review) TableName() string {
	return "reviews"
}

// reviewDocument is the reviews collection shape in MongoDB.
type reviewDocument struct {
	ID           string    `bson:"id"`
	MovieID      int64     `bson:"movie_id"`
	UserName     string    `bson:"user_name"`
	Rating       float64   `bson:"rating"`
	ReviewText   string    `bson:"review_text"`
	CreatedAt    time.Time `bson:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at"`
	HelpfulCount int       `bson:"helpful_count"`
	Language     string    `bson:"language"`
}
