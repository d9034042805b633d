package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Artist struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`

	Name     string `bson:"name" json:"name"`
	Bio      string `bson:"bio,omitempty" json:"bio,omitempty"`
	ImageURL string `bson:"image_url,omitempty" json:"image_url,omitempty"`
}

type Album struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`

	Title       string             `bson:"title" json:"title"`
	ArtistID    primitive.ObjectID `bson:"artist_id" json:"artist_id"`
	GenreID     primitive.ObjectID `bson:"genre_id,omitempty" json:"genre_id,omitempty"`
	CoverURL    string             `bson:"cover_url,omitempty" json:"cover_url,omitempty"`
	ReleaseYear int                `bson:"release_year,omitempty" json:"release_year,omitempty"`
}

// Song media kinds, derived from the uploaded asset's resource type.
const (
	SongTypeAudio = "audio"
	SongTypeVideo = "video"
)

type Song struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`

	Title    string             `bson:"title" json:"title"`
	ArtistID primitive.ObjectID `bson:"artist_id" json:"artist_id"`
	AlbumID  primitive.ObjectID `bson:"album_id,omitempty" json:"album_id,omitempty"`
	GenreID  primitive.ObjectID `bson:"genre_id,omitempty" json:"genre_id,omitempty"`
	Duration int                `bson:"duration,omitempty" json:"duration,omitempty"` // seconds
	MediaURL string             `bson:"media_url,omitempty" json:"media_url,omitempty"`
	Type     string             `bson:"type" json:"type"` // audio|video
}

type Genre struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`

	Name        string `bson:"name" json:"name"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`
}

type Playlist struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`

	Name        string               `bson:"name" json:"name"`
	Description string               `bson:"description,omitempty" json:"description,omitempty"`
	OwnerID     primitive.ObjectID   `bson:"owner_id" json:"owner_id"`
	CoverURL    string               `bson:"cover_url,omitempty" json:"cover_url,omitempty"`
	SongIDs     []primitive.ObjectID `bson:"song_ids" json:"song_ids"`
}

type Favourite struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`

	UserID primitive.ObjectID `bson:"user_id" json:"user_id"`
	SongID primitive.ObjectID `bson:"song_id" json:"song_id"`
}

type FAQ struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`

	Question string `bson:"question" json:"question"`
	Answer   string `bson:"answer" json:"answer"`
}
