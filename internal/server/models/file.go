package models

import "time"

// File is metadata for a stored object. The bytes themselves live in object
// storage under StoragePath; the record is created before the client uploads
// and Confirmed flips to true only after the upload finished. Unconfirmed
// files must never be served to a downloader.
type File struct {
	ID            string
	VaultID       string
	OwnerID       string
	Name          string
	OriginalName  string
	MimeType      string
	SizeBytes     int64
	StoragePath   string
	Confirmed     bool
	DownloadCount int64
	CreatedAt     time.Time
}
