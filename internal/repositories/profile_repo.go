package repositories

import (
	"context"
	"errors"
	"time"

	"unistay/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ProfileRepository interface {
	GetBySubject(ctx context.Context, subject string) (*models.Profile, error)
	Upsert(ctx context.Context, profile *models.Profile) (*models.Profile, error)
	AddSavedListing(ctx context.Context, subject, listingID string) error
	RemoveSavedListing(ctx context.Context, subject, listingID string) error
	AddReceipt(ctx context.Context, subject string, receipt *models.Receipt) error
	TouchLastActive(ctx context.Context, subject string) error
}

type profileRepo struct {
	collection *mongo.Collection
}

func NewProfileRepo(db *mongo.Database) ProfileRepository {
	return &profileRepo{collection: db.Collection("profiles")}
}

func (r *profileRepo) GetBySubject(ctx context.Context, subject string) (*models.Profile, error) {
	profile := &models.Profile{}
	err := r.collection.FindOne(ctx, bson.M{"_id": subject}).Decode(profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return profile, nil
}

// Upsert creates the profile with empty saved-listing and receipt sets on
// first sign-in, and merges profile fields non-destructively on later
// sign-ins. The saved-listing set is never touched by a sign-in.
func (r *profileRepo) Upsert(ctx context.Context, profile *models.Profile) (*models.Profile, error) {
	now := time.Now()
	update := bson.M{
		"$set": bson.M{
			"email":        profile.Email,
			"name":         profile.Name,
			"image":        profile.Image,
			"provider":     profile.Provider,
			"updatedAt":    now,
			"lastActiveAt": now,
		},
		"$setOnInsert": bson.M{
			"savedListings": []string{},
			"receipts":      []models.Receipt{},
			"createdAt":     now,
		},
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	result := &models.Profile{}
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": profile.Subject}, update, opts).Decode(result)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *profileRepo) AddSavedListing(ctx context.Context, subject, listingID string) error {
	update := bson.M{
		"$addToSet": bson.M{"savedListings": listingID},
		"$set":      bson.M{"updatedAt": time.Now()},
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": subject}, update)
	return err
}

func (r *profileRepo) RemoveSavedListing(ctx context.Context, subject, listingID string) error {
	update := bson.M{
		"$pull": bson.M{"savedListings": listingID},
		"$set":  bson.M{"updatedAt": time.Now()},
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": subject}, update)
	return err
}

func (r *profileRepo) AddReceipt(ctx context.Context, subject string, receipt *models.Receipt) error {
	update := bson.M{
		"$push": bson.M{"receipts": receipt},
		"$set":  bson.M{"updatedAt": time.Now()},
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": subject}, update)
	return err
}

func (r *profileRepo) TouchLastActive(ctx context.Context, subject string) error {
	update := bson.M{"$set": bson.M{"lastActiveAt": time.Now()}}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": subject}, update)
	return err
}
