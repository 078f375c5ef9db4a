package domain

import (
	"time"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusTentative BookingStatus = "tentative"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusBlockOut  BookingStatus = "block-out"
)

// ReportableStatuses são os status que alimentam os indicadores. Bloqueios de agenda ficam de fora.
func ReportableStatuses() []BookingStatus {
	return []BookingStatus{
		BookingStatusPending,
		BookingStatusTentative,
		BookingStatusConfirmed,
		BookingStatusCancelled,
		BookingStatusCompleted,
	}
}

// BookingRecord representa uma reserva como gravada pelo store de reservas.
// Status chega em qualquer caixa; preços e timestamps podem estar ausentes.
type BookingRecord struct {
	ID              string     `json:"id"`
	OwnerID         string     `json:"owner_id"`
	ResourceID      *string    `json:"resource_id"`
	Date            string     `json:"date"`       // yyyy-mm-dd, sem fuso
	StartTime       string     `json:"start_time"` // HH:MM
	EndTime         string     `json:"end_time"`   // HH:MM
	Status          string     `json:"status"`
	CalculatedPrice *float64   `json:"calculated_price"`
	EstimatedPrice  *float64   `json:"estimated_price"`
	CustomerName    string     `json:"customer_name"`
	CustomerEmail   string     `json:"customer_email"`
	CreatedAt       *time.Time `json:"created_at"`
	UpdatedAt       *time.Time `json:"updated_at"`
}

// BookingFilters restringe a busca de reservas de um owner
type BookingFilters struct {
	ResourceID *string
	Statuses   []BookingStatus
}
