package model

import (
	"time"
)

type Member struct {
	ID         int64     `json:"id"`
	FullName   string    `json:"fullname"`
	Gender     string    `json:"gender"`
	Phone      string    `json:"phone"`
	Department *string   `json:"department"`
	Residence  *string   `json:"residence"`
	Fellowship *string   `json:"fellowship"`
	AddedBy    *string   `json:"added_by"`
	CreatedAt  time.Time `json:"created_at"`
}

// Page bounds a roster listing. A zero Limit means no bound.
type Page struct {
	Limit  int
	Offset int
}

type FellowshipCount struct {
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Count int    `json:"count"`
}

type RosterStats struct {
	Total       int               `json:"total"`
	Fellowships []FellowshipCount `json:"fellowships"`
}
