package mongo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/scholarhub/portal-gateway/internal/core/domain"
	"github.com/scholarhub/portal-gateway/internal/core/ports"
)

const (
	identityCollection = "persisted_identities"

	// DefaultIdentityRetention is how long an untouched persisted identity survives.
	DefaultIdentityRetention = 30 * 24 * time.Hour
)

// Sealer encrypts the bearer material of a persisted identity.
type Sealer interface {
	Seal(plaintext []byte, label string) ([]byte, error)
	Open(sealed []byte, label string) ([]byte, error)
}

// IdentityStore keeps one signed-in identity per browser session. The
// credential and refresh token are stored sealed; profile fields are clear.
type IdentityStore struct {
	col       *mongo.Collection
	sealer    Sealer
	retention time.Duration
	now       func() time.Time
}

var _ ports.IdentityStore = (*IdentityStore)(nil)

func NewIdentityStore(db *mongo.Database, sealer Sealer, retention time.Duration) *IdentityStore {
	if retention <= 0 {
		retention = DefaultIdentityRetention
	}
	return &IdentityStore{
		col:       db.Collection(identityCollection),
		sealer:    sealer,
		retention: retention,
		now:       time.Now,
	}
}

type identityDoc struct {
	SessionID   string    `bson:"_id"`
	UID         string    `bson:"uid"`
	Email       string    `bson:"email"`
	DisplayName string    `bson:"display_name"`
	PhotoURL    string    `bson:"photo_url"`
	Provider    string    `bson:"provider"`
	Sealed      []byte    `bson:"sealed"`
	ExpiresAt   time.Time `bson:"expires_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

type bearerSecrets struct {
	Credential   string `json:"c"`
	RefreshToken string `json:"r"`
}

func (s *IdentityStore) Save(ctx context.Context, sessionID string, identity *domain.Identity) error {
	if identity == nil {
		return s.Delete(ctx, sessionID)
	}
	doc, err := s.toDoc(sessionID, identity)
	if err != nil {
		return err
	}
	_, err = s.col.ReplaceOne(ctx, bson.M{"_id": sessionID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save identity: %w", err)
	}
	return nil
}

func (s *IdentityStore) Load(ctx context.Context, sessionID string) (*domain.Identity, error) {
	var doc identityDoc
	if err := s.col.FindOne(ctx, bson.M{"_id": sessionID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("load identity: %w", err)
	}
	return s.fromDoc(&doc)
}

func (s *IdentityStore) Delete(ctx context.Context, sessionID string) error {
	if _, err := s.col.DeleteOne(ctx, bson.M{"_id": sessionID}); err != nil {
		return fmt.Errorf("delete identity: %w", err)
	}
	return nil
}

// EnsureIndexes creates the TTL index that expires idle identities.
func (s *IdentityStore) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "updated_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(int32(s.retention.Seconds())),
		},
		{Keys: bson.D{{Key: "uid", Value: 1}}},
	}
	_, err := s.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func (s *IdentityStore) toDoc(sessionID string, identity *domain.Identity) (*identityDoc, error) {
	plain, err := json.Marshal(bearerSecrets{Credential: identity.Credential, RefreshToken: identity.RefreshToken})
	if err != nil {
		return nil, fmt.Errorf("encode identity secrets: %w", err)
	}
	sealed, err := s.sealer.Seal(plain, sessionID)
	if err != nil {
		return nil, err
	}
	return &identityDoc{
		SessionID:   sessionID,
		UID:         identity.UID,
		Email:       identity.Email,
		DisplayName: identity.DisplayName,
		PhotoURL:    identity.PhotoURL,
		Provider:    identity.Provider,
		Sealed:      sealed,
		ExpiresAt:   identity.ExpiresAt.UTC(),
		UpdatedAt:   s.now().UTC(),
	}, nil
}

func (s *IdentityStore) fromDoc(doc *identityDoc) (*domain.Identity, error) {
	plain, err := s.sealer.Open(doc.Sealed, doc.SessionID)
	if err != nil {
		return nil, fmt.Errorf("open identity %s: %w", doc.SessionID, err)
	}
	var secrets bearerSecrets
	if err := json.Unmarshal(plain, &secrets); err != nil {
		return nil, fmt.Errorf("decode identity secrets: %w", err)
	}
	return &domain.Identity{
		UID:          doc.UID,
		Email:        doc.Email,
		DisplayName:  doc.DisplayName,
		PhotoURL:     doc.PhotoURL,
		Provider:     doc.Provider,
		Credential:   secrets.Credential,
		RefreshToken: secrets.RefreshToken,
		ExpiresAt:    doc.ExpiresAt,
	}, nil
}
