package offers

import (
	"time"

	"github.com/google/uuid"
)

type Location struct {
	ID         int64    `json:"id"`
	City       string   `json:"city" validate:"required"`
	CityRegion string   `json:"city_region" validate:"required"`
	Country    string   `json:"country" validate:"required"`
	PostalCode string   `json:"postal_code,omitempty"`
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`
	MapsURL    string   `json:"maps_url,omitempty"`
}

type FuelType string

const (
	FuelGasoline         FuelType = "GASOLINE"
	FuelDiesel           FuelType = "DIESEL"
	FuelEthanol          FuelType = "ETHANOL"
	FuelElectric         FuelType = "ELECTRIC"
	FuelHydrogen         FuelType = "HYDROGEN"
	FuelLPG              FuelType = "LPG"
	FuelCNG              FuelType = "CNG"
	FuelElectricGasoline FuelType = "ELECTRIC_GASOLINE"
	FuelElectricDiesel   FuelType = "ELECTRIC_DIESEL"
	FuelOthers           FuelType = "OTHERS"
)

type Drive string

const (
	DriveFront Drive = "FRONT_WHEEL_DRIVE"
	DriveRear  Drive = "REAR_WHEEL_DRIVE"
	DriveFour  Drive = "FOUR_WHEEL_DRIVE"
	DriveAll   Drive = "ALL_WHEEL_DRIVE"
)

type Vehicle struct {
	MakerID      int64    `json:"maker_id" validate:"required"`
	MakerName    string   `json:"maker_name"`
	ModelID      int64    `json:"model_id" validate:"required"`
	ModelName    string   `json:"model_name"`
	Trim         string   `json:"trim,omitempty"`
	Year         int      `json:"year" validate:"required,min=1886,max=2100"`
	Mileage      int      `json:"mileage" validate:"min=0"`
	Doors        int      `json:"doors,omitempty" validate:"omitempty,min=1,max=7"`
	State        string   `json:"state" validate:"required,oneof=NEW USED DAMAGED"`
	BodyStyle    string   `json:"body_style" validate:"required"`
	Transmission string   `json:"transmission" validate:"required,oneof=MANUAL AUTOMATIC SEMI_AUTOMATIC"`
	Drive        Drive    `json:"drive,omitempty" validate:"omitempty,oneof=FRONT_WHEEL_DRIVE REAR_WHEEL_DRIVE FOUR_WHEEL_DRIVE ALL_WHEEL_DRIVE"`
	Color        string   `json:"color,omitempty"`
	FuelType     FuelType `json:"fuel_type" validate:"required,oneof=GASOLINE DIESEL ETHANOL ELECTRIC HYDROGEN LPG CNG ELECTRIC_GASOLINE ELECTRIC_DIESEL OTHERS"`
	Features     []string `json:"features,omitempty"`
	HasAccident  bool     `json:"has_accident"`
}

type Offer struct {
	ID          uuid.UUID   `json:"id"`
	AccountID   string      `json:"account_id"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	Price       int64       `json:"price"`
	Location    Location    `json:"location"`
	Vehicle     Vehicle     `json:"vehicle"`
	ImageIDs    []uuid.UUID `json:"image_ids,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}

// Image is an uploaded offer picture
type Image struct {
	Data             []byte
	ContentType      string
	OriginalFilename string
}

type OfferCreateRequest struct {
	Title       string  `json:"title" validate:"required,max=128"`
	Description string  `json:"description" validate:"max=4000"`
	Price       int64   `json:"price" validate:"required,min=1"`
	LocationID  int64   `json:"location_id" validate:"required"`
	Vehicle     Vehicle `json:"vehicle" validate:"required"`
}

// SearchFilter narrows an offer search. A radius search needs all three of
// Latitude, Longitude and RadiusMeters.
type SearchFilter struct {
	MakerID      int64
	ModelID      int64
	Latitude     *float64
	Longitude    *float64
	RadiusMeters int
	Limit        int
}
