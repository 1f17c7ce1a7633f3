package storage

import (
	"context"

	"github.com/google/uuid"
	"github.com/princekumarofficial/autohouse-service/internal/types/catalog"
	"github.com/princekumarofficial/autohouse-service/internal/types/media"
	"github.com/princekumarofficial/autohouse-service/internal/types/offers"
	"github.com/princekumarofficial/autohouse-service/internal/types/users"
)

type Storage interface {
	Users
	Catalog
	ImportSessions
	Locations
	Offers
	MediaFiles
}

type Users interface {
	CreateUser(ctx context.Context, user *users.User) error
	CreateUsers(ctx context.Context, batch []users.User) error
	GetUserByID(ctx context.Context, id string) (users.User, error)
	GetUserByUsername(ctx context.Context, username string) (users.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistingUsernames(ctx context.Context, usernames []string) ([]string, error)
	ListUsers(ctx context.Context) ([]users.UserSummary, error)
}

type Catalog interface {
	CreateMaker(ctx context.Context, name string) (catalog.Maker, error)
	MakerExistsByName(ctx context.Context, name string) (bool, error)
	GetMakerByID(ctx context.Context, id int64) (catalog.Maker, error)
	ListMakersWithModels(ctx context.Context) ([]catalog.Maker, error)
	CreateModel(ctx context.Context, makerID int64, name string) (catalog.Model, error)
	ModelExistsByNameAndMaker(ctx context.Context, name string, makerID int64) (bool, error)
	ListModelsWithTrims(ctx context.Context, makerID int64) ([]catalog.Model, error)
	GetModelByNames(ctx context.Context, makerName, modelName string) (catalog.Model, error)
	CountMakers(ctx context.Context) (int, error)
}

// ImportSession is a unit of work used by bulk catalog imports. Makers and
// models get their ids when persisted; trims are tracked and written on
// Flush. Clear forgets every tracked entity, so callers must re-resolve the
// parents they still need through MakerRef and ModelRef.
type ImportSession interface {
	PersistMaker(ctx context.Context, maker *catalog.Maker) error
	PersistModel(ctx context.Context, model *catalog.Model) error
	AddTrim(ctx context.Context, trim *catalog.Trim) error
	Flush(ctx context.Context) error
	Clear()
	MakerRef(id int64) *catalog.Maker
	ModelRef(id int64) *catalog.Model
	CountMakers(ctx context.Context) (int, error)
}

// ImportSessions runs fn inside one transaction. Any error from fn rolls back
// every write made through the session.
type ImportSessions interface {
	InImportSession(ctx context.Context, fn func(ImportSession) error) error
}

type Locations interface {
	CreateLocation(ctx context.Context, loc *offers.Location) error
	GetLocation(ctx context.Context, id int64) (offers.Location, error)
	ListLocations(ctx context.Context) ([]offers.Location, error)
}

type Offers interface {
	CreateOffer(ctx context.Context, offer *offers.Offer) error
	GetOffer(ctx context.Context, id uuid.UUID) (offers.Offer, error)
	DeleteOffer(ctx context.Context, id uuid.UUID) error
	LatestOffers(ctx context.Context, limit int) ([]offers.Offer, error)
	SearchOffers(ctx context.Context, filter offers.SearchFilter) ([]offers.Offer, error)
}

type MediaFiles interface {
	SaveMediaFile(ctx context.Context, file *media.MediaFile) error
	GetMediaFile(ctx context.Context, id uuid.UUID) (media.MediaFile, error)
	GetMediaFileByKey(ctx context.Context, bucket, fileKey string) (media.MediaFile, error)
	MediaFileExists(ctx context.Context, bucket, fileKey string) (bool, error)
	ListMediaFilesByReference(ctx context.Context, referenceID uuid.UUID) ([]media.MediaFile, error)
	DeleteMediaFile(ctx context.Context, id uuid.UUID) error
	DeleteMediaFilesByReference(ctx context.Context, referenceID uuid.UUID) error
	// OrphanedReferences lists reference ids that no longer match an offer
	// or a user.
	OrphanedReferences(ctx context.Context) ([]uuid.UUID, error)
}
