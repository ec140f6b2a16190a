// Package storage defines the workspace file-system abstraction: the intake
// drop folder technicians copy claim documents into, plus the damage-photo
// attachments directory.
package storage

import "github.com/aerislabs/aeris/internal/models"

// Provider is the interface for workspace file operations.
type Provider interface {
	// List returns metadata for every intake document under dir (relative
	// to the workspace root). Quarantined files are skipped.
	List(dir string) ([]models.IntakeFile, error)
	// Read returns the raw bytes of the file at path (relative to root).
	Read(path string) ([]byte, error)
	// Write atomically writes content to path (relative to root).
	Write(path string, content []byte) error
	// Delete removes the file at path (relative to root).
	Delete(path string) error
	// Quarantine moves a rejected intake document out of the drop folder.
	Quarantine(path string) error
}
