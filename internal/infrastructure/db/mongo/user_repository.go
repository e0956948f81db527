package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pmppiyas/GSRS-Blood-Server/internal/core/domain"
)

// CollectionSource hands out the users collection, connecting on demand.
type CollectionSource interface {
	Collection(ctx context.Context) (*mongo.Collection, error)
}

// UserRepository implements ports.UserRepository on a MongoDB collection.
type UserRepository struct {
	src     CollectionSource
	timeout time.Duration
}

func NewUserRepository(src CollectionSource, timeout time.Duration) *UserRepository {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &UserRepository{src: src, timeout: timeout}
}

// userDocument is the stored shape; field names match documents written by
// earlier versions of the service.
type userDocument struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Name       string             `bson:"name"`
	Email      string             `bson:"email"`
	PhotoURL   string             `bson:"photoURL"`
	Number     string             `bson:"number"`
	Role       string             `bson:"role"`
	BloodGroup string             `bson:"bloodGroup"`
	Address    string             `bson:"address"`
	CreatedAt  time.Time          `bson:"createdAt"`
}

func toDocument(u *domain.User) userDocument {
	return userDocument{
		Name:       u.Name,
		Email:      u.Email,
		PhotoURL:   u.PhotoURL,
		Number:     u.Number,
		Role:       u.Role,
		BloodGroup: u.BloodGroup,
		Address:    u.Address,
		CreatedAt:  u.CreatedAt.UTC(),
	}
}

func (d userDocument) toDomain() *domain.User {
	u := &domain.User{
		Name:       d.Name,
		Email:      d.Email,
		PhotoURL:   d.PhotoURL,
		Number:     d.Number,
		Role:       d.Role,
		BloodGroup: d.BloodGroup,
		Address:    d.Address,
		CreatedAt:  d.CreatedAt.UTC(),
	}
	if !d.ID.IsZero() {
		u.ID = d.ID.Hex()
	}
	return u
}

// Insert stores u and returns the database-assigned identifier as hex.
func (r *UserRepository) Insert(ctx context.Context, u *domain.User) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	col, err := r.src.Collection(ctx)
	if err != nil {
		return "", err
	}

	res, err := col.InsertOne(ctx, toDocument(u))
	if err != nil {
		return "", classify("insert user", err)
	}

	switch id := res.InsertedID.(type) {
	case primitive.ObjectID:
		return id.Hex(), nil
	default:
		return fmt.Sprint(id), nil
	}
}

// FindByEmail retrieves the first user whose email matches exactly.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	col, err := r.src.Collection(ctx)
	if err != nil {
		return nil, err
	}

	var doc userDocument
	if err := col.FindOne(ctx, bson.M{"email": email}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, classify("find user", err)
	}
	return doc.toDomain(), nil
}

// Search returns users whose name or email contains term, ignoring case, in
// natural storage order.
func (r *UserRepository) Search(ctx context.Context, term string) ([]*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	col, err := r.src.Collection(ctx)
	if err != nil {
		return nil, err
	}

	cur, err := col.Find(ctx, searchFilter(term))
	if err != nil {
		return nil, classify("search users", err)
	}

	var docs []userDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, classify("decode users", err)
	}

	users := make([]*domain.User, 0, len(docs))
	for _, d := range docs {
		users = append(users, d.toDomain())
	}
	return users, nil
}

// EnsureUserIndexes creates the unique email index that backs the
// return-existing duplicate policy. It fails when stored records already
// share an email.
func EnsureUserIndexes(ctx context.Context, col *mongo.Collection) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("email_unique"),
	})
	if err != nil {
		return fmt.Errorf("ensure user indexes: %w", err)
	}
	return nil
}

// searchFilter matches term literally as a case-insensitive substring of
// name or email. An empty term matches every document, including ones that
// lack both fields.
func searchFilter(term string) bson.M {
	if term == "" {
		return bson.M{}
	}
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}
	return bson.M{
		"$or": bson.A{
			bson.M{"name": pattern},
			bson.M{"email": pattern},
		},
	}
}

// classify wraps driver errors, folding connectivity failures into
// domain.ErrDatabaseUnavailable.
func classify(op string, err error) error {
	switch {
	case mongo.IsDuplicateKeyError(err):
		return domain.ErrUserExists
	case mongo.IsNetworkError(err), mongo.IsTimeout(err),
		errors.Is(err, mongo.ErrClientDisconnected),
		errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%s: %w: %v", op, domain.ErrDatabaseUnavailable, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
