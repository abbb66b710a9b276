package models

import "time"

type Plan struct {
	ID string `gorm:"primaryKey;size:32" json:"id"`

	Name         string `gorm:"size:50;not null" json:"name"`
	PriceMonthly int64  `gorm:"not null" json:"priceMonthly"`
	CutsPerMonth int    `gorm:"not null" json:"cutsPerMonth"`
	IsHome       bool   `json:"isHome"`

	ExternalPriceRef string `gorm:"size:191" json:"externalPriceRef,omitempty"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
