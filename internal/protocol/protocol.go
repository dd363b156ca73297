// Package protocol defines the wire format of the booking service: one JSON
// object per line in each direction, with the field names the desktop client
// has always sent.
package protocol

import (
	"encoding/json"
	"fmt"
)

const (
	ActionAddMovie    = "add_movie"
	ActionGetMovies   = "get_movies"
	ActionBookTicket  = "book_ticket"
	ActionUpdateMovie = "update_movie"
	ActionRemoveMovie = "remove_movie"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

type Request struct {
	Action          string        `json:"action"`
	Movie           *MoviePayload `json:"movie,omitempty"`
	MovieID         int           `json:"movie_id,omitempty"`
	CustomerName    string        `json:"customer_name,omitempty"`
	NumberOfTickets int           `json:"number_of_tickets,omitempty"`
}

type MoviePayload struct {
	MovieID          int     `json:"movie_id,omitempty"`
	Title            string  `json:"title" validate:"required"`
	CinemaRoom       int     `json:"cinema_room" validate:"gte=1,lte=7"`
	ReleaseDate      string  `json:"release_date" validate:"required,date"`
	EndDate          string  `json:"end_date" validate:"required,date"`
	TicketsAvailable int     `json:"tickets_available" validate:"gte=0"`
	TicketPrice      float64 `json:"ticket_price" validate:"gte=0"`
}

// BookingRequest is the validated form of a book_ticket request.
type BookingRequest struct {
	MovieID         int    `json:"movie_id" validate:"gte=1"`
	CustomerName    string `json:"customer_name" validate:"required,notblank"`
	NumberOfTickets int    `json:"number_of_tickets" validate:"gt=0"`
}

type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type MovieListResponse struct {
	Status string     `json:"status"`
	Movies []MovieRow `json:"movies"`
}

type BookingResponse struct {
	Status     string  `json:"status"`
	Message    string  `json:"message"`
	SaleID     int     `json:"sale_id"`
	TotalPrice float64 `json:"total_price"`
}

// Response is the envelope clients decode into: a union of every field the
// server may send. The server itself writes the narrower types above.
type Response struct {
	Status     string     `json:"status"`
	Message    string     `json:"message,omitempty"`
	Movies     []MovieRow `json:"movies,omitempty"`
	SaleID     int        `json:"sale_id,omitempty"`
	TotalPrice float64    `json:"total_price,omitempty"`
}

// MovieRow travels as a positional array:
// [id, title, cinema_room, release_date, end_date, tickets_available, ticket_price].
type MovieRow struct {
	ID               int
	Title            string
	CinemaRoom       int
	ReleaseDate      string
	EndDate          string
	TicketsAvailable int
	TicketPrice      float64
}

func (r MovieRow) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{
		r.ID,
		r.Title,
		r.CinemaRoom,
		r.ReleaseDate,
		r.EndDate,
		r.TicketsAvailable,
		r.TicketPrice,
	})
}

func (r *MovieRow) UnmarshalJSON(data []byte) error {
	fields := []any{&r.ID, &r.Title, &r.CinemaRoom, &r.ReleaseDate, &r.EndDate, &r.TicketsAvailable, &r.TicketPrice}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if len(raw) != len(fields) {
		return fmt.Errorf("movie row has %d fields, want %d", len(raw), len(fields))
	}

	for i, field := range fields {
		if err := json.Unmarshal(raw[i], field); err != nil {
			return err
		}
	}

	return nil
}

func OK(message string) StatusResponse {
	return StatusResponse{Status: StatusSuccess, Message: message}
}

func Error(message string) StatusResponse {
	return StatusResponse{Status: StatusError, Message: message}
}
