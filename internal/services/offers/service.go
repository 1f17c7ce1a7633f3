package offers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/princekumarofficial/autohouse-service/internal/events"
	"github.com/princekumarofficial/autohouse-service/internal/geo"
	"github.com/princekumarofficial/autohouse-service/internal/storage"
	"github.com/princekumarofficial/autohouse-service/internal/types"
	mediaTypes "github.com/princekumarofficial/autohouse-service/internal/types/media"
	offerTypes "github.com/princekumarofficial/autohouse-service/internal/types/offers"
)

const (
	TopOffersLimit     = 20
	DefaultSearchLimit = 50
	imageFolder        = "offer-images-folder"
)

// MediaStore is the part of the media service offers need.
type MediaStore interface {
	Store(ctx context.Context, req mediaTypes.StoreRequest) (mediaTypes.MediaFile, error)
	LoadForReference(ctx context.Context, referenceID uuid.UUID) ([]mediaTypes.MediaFile, error)
	RemoveAllForReference(ctx context.Context, referenceID uuid.UUID) (int, error)
}

type Service struct {
	offers    storage.Offers
	locations storage.Locations
	catalog   storage.Catalog
	media     MediaStore
	publisher events.Publisher
	validate  *validator.Validate
	now       func() time.Time
}

func NewService(offers storage.Offers, locations storage.Locations, catalog storage.Catalog, media MediaStore, publisher events.Publisher) *Service {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &Service{
		offers:    offers,
		locations: locations,
		catalog:   catalog,
		media:     media,
		publisher: publisher,
		validate:  validator.New(),
		now:       time.Now,
	}
}

var whitespace = regexp.MustCompile(`\s+`)

// ImageFileName builds "<year>_<maker>_<model>_pic_<millis>.<ext>" in lower
// case with whitespace replaced by underscores.
func ImageFileName(contentType string, year int, maker, model string, at time.Time) string {
	ext := strings.TrimPrefix(contentType, "image/")
	if ext == "jpeg" {
		ext = "jpg"
	}
	name := strings.Join([]string{
		strconv.Itoa(year), maker, model, "pic", strconv.FormatInt(at.UnixMilli(), 10),
	}, "_")
	return whitespace.ReplaceAllString(strings.ToLower(name), "_") + "." + ext
}

// ImageFileKey places fileName under offer-images-folder/YYYY/MM/DD/<offer id>.
func ImageFileKey(offerID uuid.UUID, fileName string, day time.Time) string {
	return strings.Join([]string{
		imageFolder,
		strconv.Itoa(day.Year()),
		fmt.Sprintf("%02d", int(day.Month())),
		fmt.Sprintf("%02d", day.Day()),
		offerID.String(),
		fileName,
	}, "/")
}

// Create stores the offer and its images. If an image cannot be stored the
// offer and the images stored so far are removed and the error is returned.
func (s *Service) Create(ctx context.Context, accountID string, req offerTypes.OfferCreateRequest, images []offerTypes.Image) (offerTypes.Offer, error) {
	if err := s.validate.Struct(req); err != nil {
		return offerTypes.Offer{}, err
	}

	location, err := s.locations.GetLocation(ctx, req.LocationID)
	if err != nil {
		return offerTypes.Offer{}, err
	}

	vehicle, err := s.resolveVehicle(ctx, req.Vehicle)
	if err != nil {
		return offerTypes.Offer{}, err
	}

	offer := offerTypes.Offer{
		ID:          uuid.New(),
		AccountID:   accountID,
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Location:    location,
		Vehicle:     vehicle,
	}
	if err := s.offers.CreateOffer(ctx, &offer); err != nil {
		return offerTypes.Offer{}, err
	}

	now := s.now()
	for i, img := range images {
		// Offset by index so images uploaded together get distinct keys
		fileName := ImageFileName(img.ContentType, vehicle.Year, vehicle.MakerName, vehicle.ModelName, now.Add(time.Duration(i)*time.Millisecond))
		file, err := s.media.Store(ctx, mediaTypes.StoreRequest{
			Data:             img.Data,
			FileKey:          ImageFileKey(offer.ID, fileName, now),
			Function:         mediaTypes.FunctionOfferImage,
			ContentType:      img.ContentType,
			OriginalFilename: img.OriginalFilename,
			ReferenceID:      offer.ID,
		})
		if err != nil {
			s.discard(ctx, offer.ID)
			return offerTypes.Offer{}, fmt.Errorf("offer image %d: %w", i, err)
		}
		offer.ImageIDs = append(offer.ImageIDs, file.ID)
	}

	slog.Info("Offer created", slog.String("offer_id", offer.ID.String()), slog.Int("images", len(offer.ImageIDs)))
	s.publisher.PublishOfferCreated(accountID, offer.ID, len(offer.ImageIDs), offer.CreatedAt)
	return offer, nil
}

func (s *Service) discard(ctx context.Context, offerID uuid.UUID) {
	if _, err := s.media.RemoveAllForReference(ctx, offerID); err != nil {
		slog.Error("Failed to remove images of discarded offer", slog.String("offer_id", offerID.String()), slog.String("error", err.Error()))
	}
	if err := s.offers.DeleteOffer(ctx, offerID); err != nil {
		slog.Error("Failed to delete discarded offer", slog.String("offer_id", offerID.String()), slog.String("error", err.Error()))
	}
}

// resolveVehicle checks that the model belongs to the maker and fills in the
// catalog names.
func (s *Service) resolveVehicle(ctx context.Context, v offerTypes.Vehicle) (offerTypes.Vehicle, error) {
	maker, err := s.catalog.GetMakerByID(ctx, v.MakerID)
	if err != nil {
		return offerTypes.Vehicle{}, err
	}
	for _, m := range maker.Models {
		if m.ID == v.ModelID {
			v.MakerName = maker.Name
			v.ModelName = m.Name
			return v, nil
		}
	}
	return offerTypes.Vehicle{}, fmt.Errorf("model %d of maker %s: %w", v.ModelID, maker.Name, types.ErrNotFound)
}

func (s *Service) withImages(ctx context.Context, list []offerTypes.Offer) ([]offerTypes.Offer, error) {
	for i := range list {
		files, err := s.media.LoadForReference(ctx, list[i].ID)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			list[i].ImageIDs = append(list[i].ImageIDs, f.ID)
		}
	}
	return list, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (offerTypes.Offer, error) {
	offer, err := s.offers.GetOffer(ctx, id)
	if err != nil {
		return offerTypes.Offer{}, err
	}
	list, err := s.withImages(ctx, []offerTypes.Offer{offer})
	if err != nil {
		return offerTypes.Offer{}, err
	}
	return list[0], nil
}

// Top returns the newest offers.
func (s *Service) Top(ctx context.Context) ([]offerTypes.Offer, error) {
	list, err := s.offers.LatestOffers(ctx, TopOffersLimit)
	if err != nil {
		return nil, err
	}
	return s.withImages(ctx, list)
}

// Search filters by maker, by model within that maker, and optionally by
// distance from a point. Offers whose location has no coordinates never match
// a radius search.
func (s *Service) Search(ctx context.Context, filter offerTypes.SearchFilter) ([]offerTypes.Offer, error) {
	if filter.MakerID == 0 {
		filter.ModelID = 0
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	center, radius, err := radiusOf(filter)
	if err != nil {
		return nil, err
	}

	query := filter
	query.Limit = limit
	if radius > 0 {
		// distance is applied here, so the store must return every candidate
		query.Limit = 0
	}
	list, err := s.offers.SearchOffers(ctx, query)
	if err != nil {
		return nil, err
	}

	if radius > 0 {
		kept := list[:0]
		for _, o := range list {
			if o.Location.Latitude == nil || o.Location.Longitude == nil {
				continue
			}
			p := geo.Point{Latitude: *o.Location.Latitude, Longitude: *o.Location.Longitude}
			if geo.Distance(center, p) <= radius {
				kept = append(kept, o)
			}
		}
		list = kept
		if len(list) > limit {
			list = list[:limit]
		}
	}
	return s.withImages(ctx, list)
}

func radiusOf(filter offerTypes.SearchFilter) (geo.Point, int, error) {
	if filter.Latitude == nil && filter.Longitude == nil {
		return geo.Point{}, 0, nil
	}
	if filter.Latitude == nil || filter.Longitude == nil {
		return geo.Point{}, 0, fmt.Errorf("latitude and longitude must be given together: %w", types.ErrInvalidLocation)
	}
	center := geo.Point{Latitude: *filter.Latitude, Longitude: *filter.Longitude}
	if !center.Valid() {
		return geo.Point{}, 0, fmt.Errorf("coordinates %s: %w", center, types.ErrInvalidLocation)
	}
	if filter.RadiusMeters <= 0 {
		return geo.Point{}, 0, fmt.Errorf("radius must be positive: %w", types.ErrInvalidLocation)
	}
	return center, filter.RadiusMeters, nil
}

// Delete removes an offer and every image stored for it. Only the owner or
// an admin may delete.
func (s *Service) Delete(ctx context.Context, id uuid.UUID, requesterID string, isAdmin bool) error {
	offer, err := s.offers.GetOffer(ctx, id)
	if err != nil {
		return err
	}
	if offer.AccountID != requesterID && !isAdmin {
		return fmt.Errorf("offer %s: %w", id, types.ErrForbidden)
	}

	removed, err := s.media.RemoveAllForReference(ctx, id)
	if err != nil && !errors.Is(err, types.ErrNotFound) {
		return err
	}
	if err := s.offers.DeleteOffer(ctx, id); err != nil {
		return err
	}
	slog.Info("Offer deleted", slog.String("offer_id", id.String()), slog.Int("images", removed))
	return nil
}
