// Package models defines shared lightweight metadata types.
package models

import "time"

// IntakeFile is the lightweight representation of one intake document in
// the drop folder, returned by list operations.
type IntakeFile struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}
