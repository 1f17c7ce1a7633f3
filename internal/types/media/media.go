package media

import (
	"time"

	"github.com/google/uuid"
)

// StorageType identifies where a file's bytes live.
type StorageType string

const (
	StorageRemoteBucket  StorageType = "REMOTE_BUCKET"
	StorageLocalFolder   StorageType = "LOCAL_FOLDER"
	StorageLocalDatabase StorageType = "LOCAL_DATABASE"
)

// Function is the purpose a file is stored for. It decides the bucket and the
// preferred storage type.
type Function string

const (
	FunctionOfferImage       Function = "OFFER_IMAGE"
	FunctionUserProfileImage Function = "USER_PROFILE_IMAGE"
)

func (f Function) BucketName() string {
	switch f {
	case FunctionOfferImage:
		return "offer-images"
	case FunctionUserProfileImage:
		return "user-profile-images"
	default:
		return "misc"
	}
}

func (f Function) StorageType() StorageType {
	switch f {
	case FunctionUserProfileImage:
		return StorageLocalFolder
	default:
		return StorageRemoteBucket
	}
}

// MediaFile is the metadata row kept for every stored file
type MediaFile struct {
	ID               uuid.UUID   `json:"id" db:"id"`
	Bucket           string      `json:"bucket" db:"bucket"`
	StorageType      StorageType `json:"storage_type" db:"storage_type"`
	ContentType      string      `json:"content_type" db:"content_type"`
	Size             int64       `json:"size" db:"size"`
	FileKey          string      `json:"file_key" db:"file_key"`
	OriginalFilename string      `json:"original_filename" db:"original_filename"`
	ReferenceID      uuid.UUID   `json:"reference_id" db:"reference_id"`
	CreatedAt        time.Time   `json:"created_at" db:"created_at"`
}

// StoreRequest describes a file to be stored
type StoreRequest struct {
	Data             []byte
	FileKey          string
	Function         Function
	ContentType      string
	OriginalFilename string
	ReferenceID      uuid.UUID
}

type MediaInfoResponse struct {
	ID          uuid.UUID   `json:"id"`
	FileKey     string      `json:"file_key"`
	Size        int64       `json:"size"`
	ContentType string      `json:"content_type"`
	StorageType StorageType `json:"storage_type"`
	UploadedAt  time.Time   `json:"uploaded_at"`
}
