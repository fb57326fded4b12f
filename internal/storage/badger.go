package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/sirupsen/logrus"

	"clubperks/internal/domain"
)

const (
	offerPrefix = "offer:"
	brandPrefix = "brand:"
)

// BadgerRepository implements the Repository interface using BadgerDB.
type BadgerRepository struct {
	db  *badger.DB
	log logrus.FieldLogger
}

// NewBadgerRepository opens the database at dbPath.
func NewBadgerRepository(dbPath string, logger logrus.FieldLogger) (*BadgerRepository, error) {
	opts := badger.DefaultOptions(dbPath)
	opts.Logger = &badgerLogger{logger.WithField("component", "badgerdb")}

	db, err := badger.Open(opts)
	if err != nil {
		logger.WithError(err).Error("Failed to open BadgerDB")
		return nil, fmt.Errorf("failed to open badger db at %s: %w", dbPath, err)
	}
	logger.Info("BadgerDB opened successfully at path: ", dbPath)

	return &BadgerRepository{
		db:  db,
		log: logger.WithField("component", "repository"),
	}, nil
}

// Close closes the BadgerDB database connection.
func (r *BadgerRepository) Close() error {
	r.log.Info("Closing BadgerDB...")
	if err := r.db.Close(); err != nil {
		r.log.WithError(err).Error("Error closing BadgerDB")
		return err
	}
	r.log.Info("BadgerDB closed.")
	return nil
}

// offerKey orders offers by position. Format: offer:{seq:010d}
func offerKey(seq uint64) []byte {
	return []byte(fmt.Sprintf("%s%010d", offerPrefix, seq))
}

// brandKey format: brand:{slug}
func brandKey(slug string) []byte {
	return []byte(brandPrefix + slug)
}

// bookmarkKey format: user:{userID}:bookmark:{offerID}
func bookmarkKey(userID int64, offerID string) []byte {
	return []byte(fmt.Sprintf("user:%d:bookmark:%s", userID, offerID))
}

// bookmarkPrefix format: user:{userID}:bookmark:
func bookmarkPrefix(userID int64) []byte {
	return []byte(fmt.Sprintf("user:%d:bookmark:", userID))
}

// ReplaceOffers deletes the stored catalog and writes offers in order.
func (r *BadgerRepository) ReplaceOffers(ctx context.Context, offers []domain.Offer) error {
	log := r.log.WithField("offer_count", len(offers))
	log.Info("Replacing offer catalog")

	err := r.db.Update(func(txn *badger.Txn) error {
		if err := deletePrefix(txn, []byte(offerPrefix)); err != nil {
			return err
		}
		for i, o := range offers {
			b, err := json.Marshal(o)
			if err != nil {
				return fmt.Errorf("failed to marshal offer %q: %w", o.Title, err)
			}
			if err := txn.SetEntry(badger.NewEntry(offerKey(uint64(i)), b)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.WithError(err).Error("Failed to replace offers")
		return fmt.Errorf("failed to replace offers: %w", err)
	}
	log.Info("Offer catalog replaced")
	return nil
}

// AddOffer appends offer after the last stored one.
func (r *BadgerRepository) AddOffer(ctx context.Context, offer domain.Offer) error {
	log := r.log.WithFields(logrus.Fields{"offer_id": offer.OfferID, "brand": offer.Brand})

	b, err := json.Marshal(offer)
	if err != nil {
		log.WithError(err).Error("Failed to marshal offer to JSON")
		return fmt.Errorf("failed to marshal offer: %w", err)
	}

	err = r.db.Update(func(txn *badger.Txn) error {
		next, err := nextOfferSeq(txn)
		if err != nil {
			return err
		}
		return txn.SetEntry(badger.NewEntry(offerKey(next), b))
	})
	if err != nil {
		log.WithError(err).Error("Failed to add offer")
		return fmt.Errorf("failed to add offer: %w", err)
	}
	log.Info("Offer added")
	return nil
}

// nextOfferSeq finds the position after the last offer key.
func nextOfferSeq(txn *badger.Txn) (uint64, error) {
	opts := badger.DefaultIteratorOptions
	opts.Reverse = true
	opts.PrefetchValues = false
	it := txn.NewIterator(opts)
	defer it.Close()

	prefix := []byte(offerPrefix)
	it.Seek(append(append([]byte{}, prefix...), 0xff))
	if !it.ValidForPrefix(prefix) {
		return 0, nil
	}
	var seq uint64
	if _, err := fmt.Sscanf(string(it.Item().Key()[len(prefix):]), "%d", &seq); err != nil {
		return 0, fmt.Errorf("malformed offer key %q: %w", it.Item().Key(), err)
	}
	return seq + 1, nil
}

// ListOffers returns every offer in insertion order.
func (r *BadgerRepository) ListOffers(ctx context.Context) ([]domain.Offer, error) {
	var offers []domain.Offer
	err := r.db.View(func(txn *badger.Txn) error {
		return scanPrefix(txn, []byte(offerPrefix), func(val []byte) error {
			var o domain.Offer
			if err := json.Unmarshal(val, &o); err != nil {
				return err
			}
			offers = append(offers, o)
			return nil
		})
	})
	if err != nil {
		r.log.WithError(err).Error("Failed to list offers")
		return nil, fmt.Errorf("failed to list offers: %w", err)
	}
	r.log.WithField("offer_count", len(offers)).Debug("Offers listed")
	return offers, nil
}

// GetOffer looks an offer up by OfferID. Offers without an ID are never matched.
func (r *BadgerRepository) GetOffer(ctx context.Context, offerID string) (domain.Offer, error) {
	if offerID == "" {
		return domain.Offer{}, ErrNotFound
	}
	offers, err := r.ListOffers(ctx)
	if err != nil {
		return domain.Offer{}, err
	}
	for _, o := range offers {
		if o.OfferID == offerID {
			return o, nil
		}
	}
	return domain.Offer{}, ErrNotFound
}

// SaveBrand stores or updates a brand.
func (r *BadgerRepository) SaveBrand(ctx context.Context, brand domain.Brand) error {
	log := r.log.WithField("brand", brand.Slug)
	if err := brand.Validate(); err != nil {
		return err
	}
	if brand.UpdatedAt.IsZero() {
		brand.UpdatedAt = time.Now()
	}
	b, err := json.Marshal(brand)
	if err != nil {
		return fmt.Errorf("failed to marshal brand: %w", err)
	}
	err = r.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry(brandKey(brand.Slug), b))
	})
	if err != nil {
		log.WithError(err).Error("Failed to save brand")
		return fmt.Errorf("failed to save brand: %w", err)
	}
	log.Info("Brand saved")
	return nil
}

// GetBrand retrieves a brand by slug.
func (r *BadgerRepository) GetBrand(ctx context.Context, slug string) (domain.Brand, error) {
	var brand domain.Brand
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(brandKey(slug))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &brand)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return domain.Brand{}, ErrNotFound
	}
	if err != nil {
		return domain.Brand{}, fmt.Errorf("failed to get brand %s: %w", slug, err)
	}
	return brand, nil
}

// ListBrands returns all brands ordered by slug.
func (r *BadgerRepository) ListBrands(ctx context.Context) ([]domain.Brand, error) {
	var brands []domain.Brand
	err := r.db.View(func(txn *badger.Txn) error {
		return scanPrefix(txn, []byte(brandPrefix), func(val []byte) error {
			var b domain.Brand
			if err := json.Unmarshal(val, &b); err != nil {
				return err
			}
			brands = append(brands, b)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list brands: %w", err)
	}
	return brands, nil
}

// SaveBookmark stores or refreshes a bookmark.
func (r *BadgerRepository) SaveBookmark(ctx context.Context, bookmark domain.Bookmark) error {
	log := r.log.WithFields(logrus.Fields{
		"user_id":  bookmark.UserID,
		"offer_id": bookmark.OfferID,
	})
	if bookmark.OfferID == "" {
		return errors.New("bookmark offer id cannot be empty")
	}
	if bookmark.Timestamp.IsZero() {
		bookmark.Timestamp = time.Now()
	}

	b, err := json.Marshal(bookmark)
	if err != nil {
		log.WithError(err).Error("Failed to marshal bookmark to JSON")
		return fmt.Errorf("failed to marshal bookmark: %w", err)
	}
	err = r.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry(bookmarkKey(bookmark.UserID, bookmark.OfferID), b))
	})
	if err != nil {
		log.WithError(err).Error("Failed to save bookmark to BadgerDB")
		return fmt.Errorf("failed to save bookmark: %w", err)
	}
	log.Info("Bookmark saved")
	return nil
}

// GetBookmarksByUser retrieves all bookmarks for a user, newest first.
func (r *BadgerRepository) GetBookmarksByUser(ctx context.Context, userID int64) ([]domain.Bookmark, error) {
	log := r.log.WithField("user_id", userID)

	var bookmarks []domain.Bookmark
	err := r.db.View(func(txn *badger.Txn) error {
		return scanPrefix(txn, bookmarkPrefix(userID), func(val []byte) error {
			var b domain.Bookmark
			if err := json.Unmarshal(val, &b); err != nil {
				return err
			}
			bookmarks = append(bookmarks, b)
			return nil
		})
	})
	if err != nil {
		log.WithError(err).Error("Failed to retrieve bookmarks from BadgerDB")
		return nil, fmt.Errorf("failed to get bookmarks for user %d: %w", userID, err)
	}

	sort.Slice(bookmarks, func(i, j int) bool {
		return bookmarks[i].Timestamp.After(bookmarks[j].Timestamp)
	})
	log.WithField("bookmark_count", len(bookmarks)).Debug("Bookmarks retrieved")
	return bookmarks, nil
}

// DeleteBookmark removes a bookmark. Delete is idempotent in badger.
func (r *BadgerRepository) DeleteBookmark(ctx context.Context, userID int64, offerID string) error {
	log := r.log.WithFields(logrus.Fields{
		"user_id":  userID,
		"offer_id": offerID,
	})
	err := r.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(bookmarkKey(userID, offerID))
	})
	if err != nil {
		log.WithError(err).Error("Failed to delete bookmark from BadgerDB")
		return fmt.Errorf("failed to delete bookmark %s for user %d: %w", offerID, userID, err)
	}
	log.Info("Bookmark deleted")
	return nil
}

// scanPrefix calls fn with a copy of every value under prefix, in key order.
func scanPrefix(txn *badger.Txn, prefix []byte, fn func(val []byte) error) error {
	it := txn.NewIterator(badger.DefaultIteratorOptions)
	defer it.Close()

	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		item := it.Item()
		val, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		if err := fn(val); err != nil {
			return fmt.Errorf("failed to decode value for key %s: %w", string(item.Key()), err)
		}
	}
	return nil
}

func deletePrefix(txn *badger.Txn, prefix []byte) error {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	it := txn.NewIterator(opts)
	var keys [][]byte
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		keys = append(keys, it.Item().KeyCopy(nil))
	}
	it.Close()

	for _, k := range keys {
		if err := txn.Delete(k); err != nil {
			return err
		}
	}
	return nil
}

// RunGC reclaims value log space until ctx is cancelled.
func (r *BadgerRepository) RunGC(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			err := r.db.RunValueLogGC(0.7)
			switch {
			case err == nil:
				r.log.Info("BadgerDB GC completed successfully")
			case errors.Is(err, badger.ErrNoRewrite):
				r.log.Debug("BadgerDB GC: No rewrite needed")
			default:
				r.log.WithError(err).Error("BadgerDB GC failed")
			}
		case <-ctx.Done():
			r.log.Info("Stopping BadgerDB GC routine")
			return
		}
	}
}

// badgerLogger adapts logrus.FieldLogger to Badger's logger interface.
type badgerLogger struct {
	logger logrus.FieldLogger
}

func (l *badgerLogger) Errorf(f string, v ...interface{}) {
	l.logger.Errorf(f, v...)
}
func (l *badgerLogger) Warningf(f string, v ...interface{}) {
	l.logger.Warningf(f, v...)
}
func (l *badgerLogger) Infof(f string, v ...interface{}) {
	l.logger.Infof(f, v...)
}
func (l *badgerLogger) Debugf(f string, v ...interface{}) {
	l.logger.Debugf(f, v...)
}
