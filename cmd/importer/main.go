package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"recomendador/internal/config"
	"recomendador/internal/db"
	"recomendador/internal/models"
	"recomendador/internal/recsys"
)

// Importador de datasets CSV a Mongo. Uso:
//
//	importer -kind books -file books.csv
//	importer -kind movies -file movies.csv
//	importer -kind book_ratings -file ratings.csv
//	importer -kind movie_ratings -file ratings.csv
//
// Los ratings esperan columnas userId,itemId,rating[,timestamp].
func main() {
	kind := flag.String("kind", "", "books | movies | book_ratings | movie_ratings")
	file := flag.String("file", "", "ruta del CSV")
	batchSize := flag.Int("batch", 500, "tamaño de lote para InsertMany")
	flag.Parse()

	if *kind == "" || *file == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.Load()
	db.InitMongo(cfg)

	f, err := os.Open(*file)
	if err != nil {
		log.Fatalf("[importer] no se pudo abrir %s: %v", *file, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // validamos por tipo, no por cantidad

	header, err := r.Read()
	if err != nil {
		log.Fatalf("[importer] CSV vacío o ilegible: %v", err)
	}
	col := columnIndex(header)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	var parse func(row []string, line int) (any, error)
	var collection string

	switch *kind {
	case "books":
		collection = "books"
		parse = func(row []string, line int) (any, error) { return parseBook(col, row, line) }
	case "movies":
		collection = "movies"
		parse = func(row []string, line int) (any, error) { return parseMovie(col, row, line) }
	case "book_ratings", "movie_ratings":
		collection = *kind
		parse = func(row []string, line int) (any, error) { return parseRating(col, row, line) }
	default:
		log.Fatalf("[importer] kind inválido: %q", *kind)
	}

	target := db.DB().Collection(collection)

	var (
		batch   []any
		line    = 1 // el header fue la línea 1
		total   int
		skipped int
	)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		if _, err := target.InsertMany(ctx, batch); err != nil {
			log.Fatalf("[importer] InsertMany falló en línea %d: %v", line, err)
		}
		total += len(batch)
		batch = batch[:0]
		log.Printf("[importer] %d documentos insertados", total)
	}

	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Fatalf("[importer] error leyendo CSV: %v", err)
		}
		line++

		doc, err := parse(row, line)
		if err != nil {
			// fila malformada: se reporta y se sigue
			log.Printf("[importer] %v", err)
			skipped++
			continue
		}
		batch = append(batch, doc)
		if len(batch) >= *batchSize {
			flush()
		}
	}
	flush()

	log.Printf("[importer] listo: %d insertados, %d filas salteadas", total, skipped)
}

func columnIndex(header []string) map[string]int {
	out := make(map[string]int, len(header))
	for i, h := range header {
		out[strings.TrimSpace(h)] = i
	}
	return out
}

func field(col map[string]int, row []string, name string) string {
	i, ok := col[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func intField(col map[string]int, row []string, name string, line int) (int, error) {
	s := field(col, row, name)
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, &recsys.DataFormatError{Row: line, Reason: fmt.Sprintf("columna %s no es un entero: %q", name, s)}
	}
	return v, nil
}

func parseBook(col map[string]int, row []string, line int) (*models.BookDoc, error) {
	id, err := intField(col, row, "bookId", line)
	if err != nil {
		return nil, err
	}
	title := field(col, row, "title")
	if title == "" {
		return nil, &recsys.DataFormatError{Row: line, Reason: "title vacío"}
	}
	now := time.Now().Format(time.RFC3339)
	return &models.BookDoc{
		BookID:    id,
		Title:     title,
		Author:    field(col, row, "author"),
		Intro:     field(col, row, "intro"),
		Tag:       field(col, row, "tag"),
		Pic:       field(col, row, "pic"),
		Good:      field(col, row, "good"),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func parseMovie(col map[string]int, row []string, line int) (*models.MovieDoc, error) {
	id, err := intField(col, row, "movieId", line)
	if err != nil {
		return nil, err
	}
	title := field(col, row, "title")
	if title == "" {
		return nil, &recsys.DataFormatError{Row: line, Reason: "title vacío"}
	}

	var year *int
	if s := field(col, row, "year"); s != "" {
		if y, err := strconv.Atoi(s); err == nil {
			year = &y
		}
	}

	var genres []string
	if s := field(col, row, "genres"); s != "" {
		genres = strings.Split(s, "|")
	}

	now := time.Now().Format(time.RFC3339)
	return &models.MovieDoc{
		MovieID:   id,
		Title:     title,
		Year:      year,
		Genres:    genres,
		Director:  field(col, row, "director"),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func parseRating(col map[string]int, row []string, line int) (*models.RatingDoc, error) {
	userID, err := intField(col, row, "userId", line)
	if err != nil {
		return nil, err
	}
	itemID, err := intField(col, row, "itemId", line)
	if err != nil {
		return nil, err
	}
	if userID <= 0 || itemID <= 0 {
		return nil, &recsys.DataFormatError{Row: line, Reason: fmt.Sprintf("ids deben ser positivos (userId=%d itemId=%d)", userID, itemID)}
	}

	s := field(col, row, "rating")
	rating, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, &recsys.DataFormatError{Row: line, Reason: fmt.Sprintf("rating no es numérico: %q", s)}
	}

	ts := time.Now().Unix()
	if s := field(col, row, "timestamp"); s != "" {
		if v, err := strconv.ParseInt(s, 10, 64); err == nil {
			ts = v
		}
	}

	return &models.RatingDoc{
		UserID:    userID,
		ItemID:    itemID,
		Rating:    rating,
		Timestamp: ts,
	}, nil
}
