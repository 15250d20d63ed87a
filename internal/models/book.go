package models

// CollectStats resume las colecciones/valoraciones de un libro.
// Sump (cuántos lo coleccionaron) es la medida de popularidad del catálogo.
type CollectStats struct {
	Sump    int     `json:"sump" bson:"sump"`
	RateNum int     `json:"rateNum" bson:"rateNum"`
	Average float64 `json:"average" bson:"average"`
}

type BookDoc struct {
	BookID    int          `json:"bookId" bson:"bookId"`
	Title     string       `json:"title" bson:"title"`
	Author    string       `json:"author" bson:"author"`
	Intro     string       `json:"intro,omitempty" bson:"intro,omitempty"`
	Tag       string       `json:"tag,omitempty" bson:"tag,omitempty"` // categoría para ItemCF
	Pic       string       `json:"pic,omitempty" bson:"pic,omitempty"`
	Good      string       `json:"good,omitempty" bson:"good,omitempty"` // premio, si tiene
	Views     int          `json:"views" bson:"views"`
	Stats     CollectStats `json:"stats" bson:"stats"`
	CreatedAt string       `json:"createdAt" bson:"createdAt"`
	UpdatedAt string       `json:"updatedAt" bson:"updatedAt"`
}

// Payload para crear un libro desde la API (admin).
type BookCreateRequest struct {
	Title  string `json:"title"` // obligatorio
	Author string `json:"author"`
	Intro  string `json:"intro,omitempty"`
	Tag    string `json:"tag,omitempty"`
	Pic    string `json:"pic,omitempty"`
	Good   string `json:"good,omitempty"`
}
