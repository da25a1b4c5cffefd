package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/avelar/ghostwriter-backend/internal/models"
)

// maxDraftPage bounds draft listings.
const maxDraftPage = 100

// MongoStore handles voice profiles and draft posts in MongoDB.
type MongoStore struct {
	profiles *mongo.Collection
	drafts   *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{
		profiles: db.Collection("voice_profiles"),
		drafts:   db.Collection("draft_posts"),
	}
}

// UpsertProfile writes the user's voice profile wholesale, creating it on
// first analysis and replacing it on re-analysis. The document id and
// created_at are only set on insert.
func (s *MongoStore) UpsertProfile(ctx context.Context, p *models.VoiceProfile) (*models.VoiceProfile, error) {
	now := time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"raw_samples":       p.RawSamples,
			"extracted_profile": p.Extracted,
			"settings":          p.Settings,
			"updated_at":        now,
		},
		"$setOnInsert": bson.M{
			"_id":        p.ID,
			"user_id":    p.UserID,
			"created_at": now,
		},
	}
	opts := options.Update().SetUpsert(true)
	if _, err := s.profiles.UpdateOne(ctx, bson.M{"user_id": p.UserID}, update, opts); err != nil {
		return nil, fmt.Errorf("mongo upsert profile: %w", err)
	}
	return s.GetProfileByUser(ctx, p.UserID)
}

func (s *MongoStore) GetProfileByUser(ctx context.Context, userID string) (*models.VoiceProfile, error) {
	var p models.VoiceProfile
	err := s.profiles.FindOne(ctx, bson.M{"user_id": userID}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// UpdateProfileSettings replaces the guardrail bundle in a single atomic
// update and returns the resulting document.
func (s *MongoStore) UpdateProfileSettings(ctx context.Context, userID string, settings models.Guardrails) (*models.VoiceProfile, error) {
	update := bson.M{"$set": bson.M{
		"settings":   settings,
		"updated_at": time.Now().UTC(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var p models.VoiceProfile
	err := s.profiles.FindOneAndUpdate(ctx, bson.M{"user_id": userID}, update, opts).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("mongo update settings: %w", err)
	}
	return &p, nil
}

func (s *MongoStore) InsertDraft(ctx context.Context, d *models.DraftPost) error {
	if _, err := s.drafts.InsertOne(ctx, d); err != nil {
		return fmt.Errorf("mongo insert draft: %w", err)
	}
	return nil
}

// ListDrafts returns the user's drafts newest-first, optionally filtered to
// favorites, bounded to a fixed page size.
func (s *MongoStore) ListDrafts(ctx context.Context, userID string, favoritesOnly bool) ([]models.DraftPost, error) {
	filter := bson.M{"user_id": userID}
	if favoritesOnly {
		filter["is_favorite"] = true
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(maxDraftPage)
	cur, err := s.drafts.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var posts []models.DraftPost
	if err := cur.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// GetDraft is owner-scoped: a post id belonging to another user is not found.
func (s *MongoStore) GetDraft(ctx context.Context, id, userID string) (*models.DraftPost, error) {
	var d models.DraftPost
	err := s.drafts.FindOne(ctx, bson.M{"_id": id, "user_id": userID}).Decode(&d)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

// UpdateDraft sets content and/or the favorite flag in one atomic update
// and returns the resulting document. Nil fields are left untouched.
func (s *MongoStore) UpdateDraft(ctx context.Context, id, userID string, content *string, favorite *bool) (*models.DraftPost, error) {
	fields := bson.M{"updated_at": time.Now().UTC()}
	if content != nil {
		fields["content"] = *content
	}
	if favorite != nil {
		fields["is_favorite"] = *favorite
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var d models.DraftPost
	err := s.drafts.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "user_id": userID},
		bson.M{"$set": fields}, opts).Decode(&d)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("mongo update draft: %w", err)
	}
	return &d, nil
}

func (s *MongoStore) DeleteDraft(ctx context.Context, id, userID string) error {
	res, err := s.drafts.DeleteOne(ctx, bson.M{"_id": id, "user_id": userID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
