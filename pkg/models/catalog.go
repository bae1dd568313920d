package models

import "time"

// Domain is an enterprise-owned business domain.
type Domain struct {
	ID           string    `json:"id" db:"id"`
	DisplayID    string    `json:"display_id" db:"display_id"`
	EnterpriseID string    `json:"enterprise_id" db:"enterprise_id"`
	Name         string    `json:"name" db:"name"`
	Description  string    `json:"description,omitempty" db:"description"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// SystemEntity is an enterprise-owned technical system. Named SystemEntity to
// avoid clashing with the system concept in SQL and Go packages.
type SystemEntity struct {
	ID           string    `json:"id" db:"id"`
	DisplayID    string    `json:"display_id" db:"display_id"`
	EnterpriseID string    `json:"enterprise_id" db:"enterprise_id"`
	Name         string    `json:"name" db:"name"`
	Description  string    `json:"description,omitempty" db:"description"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Asset is an enterprise-owned artifact (document, diagram, dataset, ...).
type Asset struct {
	ID           string    `json:"id" db:"id"`
	DisplayID    string    `json:"display_id" db:"display_id"`
	EnterpriseID string    `json:"enterprise_id" db:"enterprise_id"`
	Name         string    `json:"name" db:"name"`
	Description  string    `json:"description,omitempty" db:"description"`
	AssetType    string    `json:"asset_type,omitempty" db:"asset_type"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
